package forms

import (
	"strings"

	"github.com/comptaflow/console/internal/models"
)

// TaxRateForm is the edit buffer for a tax rate.
type TaxRateForm struct {
	Name       string               `json:"name"`
	Amount     models.Amount        `json:"amount"`
	AmountType models.TaxAmountType `json:"amount_type"`
	Scope      models.TaxScope      `json:"type_tax_use"`
	TaxType    models.ID            `json:"tax_type,omitempty"`
	Company    models.ID            `json:"company,omitempty"`

	// CompanyName is the manual fallback: when the user cannot list
	// companies, a free-text name is submitted instead of an id and the
	// backend creates or matches the entity out of band.
	CompanyName string    `json:"company_name,omitempty"`
	Country     models.ID `json:"country,omitempty"`
	Active      bool      `json:"active"`
}

// NewTaxRateForm seeds the buffer from an existing tax rate, or with
// defaults when creating.
func NewTaxRateForm(rate *models.TaxRate) TaxRateForm {
	if rate == nil {
		return TaxRateForm{
			AmountType: models.TaxAmountPercent,
			Scope:      models.TaxScopeSale,
			Active:     true,
		}
	}

	return TaxRateForm{
		Name:        rate.Name,
		Amount:      rate.Amount,
		AmountType:  rate.AmountType,
		Scope:       rate.Scope,
		TaxType:     rate.TaxType.ID(),
		Company:     rate.Company.ID(),
		CompanyName: rate.CompanyName,
		Country:     rate.Country.ID(),
		Active:      rate.Active,
	}
}

// Validate checks the required fields, reporting the first violation.
func (f TaxRateForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return required("name", "the tax rate name is required")
	}

	amount, ok := f.Amount.Decimal()
	if !ok || !amount.IsPositive() {
		return required("amount", "the amount must be a positive number")
	}

	if f.Company.IsZero() && strings.TrimSpace(f.CompanyName) == "" {
		return required("company", "select a company or enter its name")
	}

	return nil
}
