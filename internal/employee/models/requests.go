package models

import (
	"fmt"
	"strings"

	id "github.com/admin-bn/company-controller/pkg/domain"
	dErrors "github.com/admin-bn/company-controller/pkg/domain-errors"
	"github.com/admin-bn/company-controller/pkg/validation"
)

// EmployeeRequest is the JSON body for creating, updating, resending and
// importing employees.
type EmployeeRequest struct {
	EmployeeID     string `json:"employeeId"`
	FirstName      string `json:"firstName" validate:"required,max=50"`
	LastName       string `json:"lastName" validate:"required,max=50"`
	Email          string `json:"email" validate:"omitempty,email"`
	FirmName       string `json:"firmName" validate:"required,max=50"`
	FirmSubject    string `json:"firmSubject" validate:"max=50"`
	FirmStreet     string `json:"firmStreet" validate:"required,max=50"`
	FirmPostalCode string `json:"firmPostalCode" validate:"required,max=50"`
	FirmCity       string `json:"firmCity" validate:"required,max=50"`
}

// Normalize trims attribute values. The employee id is left untouched
// because it must match the connection alias byte for byte.
func (r *EmployeeRequest) Normalize() {
	for _, f := range []*string{
		&r.FirstName, &r.LastName, &r.Email, &r.FirmName,
		&r.FirmSubject, &r.FirmStreet, &r.FirmPostalCode, &r.FirmCity,
	} {
		*f = strings.TrimSpace(*f)
	}
}

func (r *EmployeeRequest) Validate() error {
	if _, err := id.ParseEmployeeID(r.EmployeeID); err != nil {
		return err
	}
	return validation.Validate(r)
}

// ToModel converts a validated request into an Employee.
func (r *EmployeeRequest) ToModel() *Employee {
	return &Employee{
		ID:             id.EmployeeID(r.EmployeeID),
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		FirmName:       r.FirmName,
		FirmSubject:    r.FirmSubject,
		FirmStreet:     r.FirmStreet,
		FirmPostalCode: r.FirmPostalCode,
		FirmCity:       r.FirmCity,
	}
}

// BatchRequest carries already-parsed employee rows for a bulk import.
type BatchRequest struct {
	Employees []EmployeeRequest `json:"employees"`
}

func (r *BatchRequest) Normalize() {
	for i := range r.Employees {
		r.Employees[i].Normalize()
	}
}

func (r *BatchRequest) Validate() error {
	if err := validation.CheckSliceCount("employees", len(r.Employees), validation.MaxBatchSize); err != nil {
		return err
	}
	for i := range r.Employees {
		if err := r.Employees[i].Validate(); err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, fmt.Sprintf("employees[%d]: %s", i, err.Error()))
		}
	}
	return nil
}
