package forms

import (
	"strings"

	"github.com/comptaflow/console/internal/models"
)

// FiscalPositionForm is the edit buffer for a fiscal position.
type FiscalPositionForm struct {
	Name        string    `json:"name"`
	Company     models.ID `json:"company,omitempty"`
	CompanyName string    `json:"company_name,omitempty"`
	Country     models.ID `json:"country,omitempty"`
	AutoApply   bool      `json:"auto_apply"`
	VatRequired bool      `json:"vat_required"`
	Active      bool      `json:"active"`
	Note        string    `json:"note,omitempty"`
}

// NewFiscalPositionForm seeds the buffer from an existing fiscal position,
// or with defaults when creating.
func NewFiscalPositionForm(position *models.FiscalPosition) FiscalPositionForm {
	if position == nil {
		return FiscalPositionForm{Active: true}
	}

	return FiscalPositionForm{
		Name:        position.Name,
		Company:     position.Company.ID(),
		CompanyName: position.CompanyName,
		Country:     position.Country.ID(),
		AutoApply:   position.AutoApply,
		VatRequired: position.VatRequired,
		Active:      position.Active,
		Note:        position.Note,
	}
}

// Validate checks the required fields, reporting the first violation.
func (f FiscalPositionForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return required("name", "the fiscal position name is required")
	}

	if f.Company.IsZero() && strings.TrimSpace(f.CompanyName) == "" {
		return required("company", "select a company or enter its name")
	}

	return nil
}
