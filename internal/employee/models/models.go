package models

import (
	id "github.com/admin-bn/company-controller/pkg/domain"
)

// Employee is a pending issuance. While the record exists a credential is
// about to be offered or is being offered to this employee; it is removed
// once the agent reports the credential as issued.
type Employee struct {
	ID             id.EmployeeID
	FirstName      string
	LastName       string
	Email          string
	FirmName       string
	FirmSubject    string
	FirmStreet     string
	FirmPostalCode string
	FirmCity       string
}

// Credential attribute names in the order the credential definition declares
// them. "firmPostalcode" is spelled the way the schema on the ledger spells it.
const (
	AttrFirstName      = "firstName"
	AttrLastName       = "lastName"
	AttrFirmName       = "firmName"
	AttrFirmSubject    = "firmSubject"
	AttrFirmStreet     = "firmStreet"
	AttrFirmCity       = "firmCity"
	AttrFirmPostalCode = "firmPostalcode"
)

// Attribute is one name/value pair of a credential offer.
type Attribute struct {
	Name  string
	Value string
}

// AttributeSnapshot is an immutable copy of the attributes an offer is built
// from, taken at the moment the offer is prepared.
type AttributeSnapshot struct {
	attrs [7]Attribute
}

// Snapshot captures the employee's credential attributes. Missing optional
// values are carried as empty strings.
func (e *Employee) Snapshot() AttributeSnapshot {
	return AttributeSnapshot{attrs: [7]Attribute{
		{Name: AttrFirstName, Value: e.FirstName},
		{Name: AttrLastName, Value: e.LastName},
		{Name: AttrFirmName, Value: e.FirmName},
		{Name: AttrFirmSubject, Value: e.FirmSubject},
		{Name: AttrFirmStreet, Value: e.FirmStreet},
		{Name: AttrFirmCity, Value: e.FirmCity},
		{Name: AttrFirmPostalCode, Value: e.FirmPostalCode},
	}}
}

// Attributes returns the attributes in credential-definition order.
func (s AttributeSnapshot) Attributes() []Attribute {
	out := make([]Attribute, len(s.attrs))
	copy(out, s.attrs[:])
	return out
}
