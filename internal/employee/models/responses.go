package models

type EmployeeResponse struct {
	EmployeeID     string `json:"employeeId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email,omitempty"`
	FirmName       string `json:"firmName"`
	FirmSubject    string `json:"firmSubject,omitempty"`
	FirmStreet     string `json:"firmStreet"`
	FirmPostalCode string `json:"firmPostalCode"`
	FirmCity       string `json:"firmCity"`
}

func ToResponse(e *Employee) EmployeeResponse {
	return EmployeeResponse{
		EmployeeID:     e.ID.String(),
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Email:          e.Email,
		FirmName:       e.FirmName,
		FirmSubject:    e.FirmSubject,
		FirmStreet:     e.FirmStreet,
		FirmPostalCode: e.FirmPostalCode,
		FirmCity:       e.FirmCity,
	}
}

// BatchResponse lists the employees a bulk import created and the ids it
// skipped because they already existed.
type BatchResponse struct {
	Created []EmployeeResponse `json:"created"`
	Skipped []string           `json:"skipped"`
}
