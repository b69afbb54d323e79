package acapy

// JSON shapes of the ACA-Py admin API. Only the fields the controller reads
// or must send are declared.

type invitationResponse struct {
	ConnectionID  string `json:"connection_id"`
	InvitationURL string `json:"invitation_url"`
	Alias         string `json:"alias"`
}

type connectionRecord struct {
	ConnectionID string `json:"connection_id"`
	Alias        string `json:"alias"`
	State        string `json:"state"`
}

type connectionsResponse struct {
	Results []connectionRecord `json:"results"`
}

const credentialPreviewType = "https://didcomm.org/issue-credential/1.0/credential-preview"

type previewAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type credentialPreview struct {
	Type       string             `json:"@type"`
	Attributes []previewAttribute `json:"attributes"`
}

// offerRequest keeps auto_remove off: the exchange record is read back for
// its revocation ids after issuance and deleted explicitly afterwards.
type offerRequest struct {
	ConnectionID      string            `json:"connection_id"`
	CredDefID         string            `json:"cred_def_id"`
	Comment           string            `json:"comment,omitempty"`
	AutoIssue         bool              `json:"auto_issue"`
	AutoRemove        bool              `json:"auto_remove"`
	Trace             bool              `json:"trace"`
	CredentialPreview credentialPreview `json:"credential_preview"`
}

type exchangeRecord struct {
	CredentialExchangeID string `json:"credential_exchange_id"`
	ConnectionID         string `json:"connection_id"`
	RevocationID         string `json:"revocation_id"`
	RevocRegID           string `json:"revoc_reg_id"`
	State                string `json:"state"`
	CreatedAt            string `json:"created_at"`
}

type revokeRequest struct {
	CredRevID string `json:"cred_rev_id"`
	RevRegID  string `json:"rev_reg_id"`
	Publish   bool   `json:"publish"`
}
