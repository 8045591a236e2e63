package models

// TaxScope restricts a tax rate to sale or purchase transactions.
type TaxScope string

const (
	TaxScopeSale     TaxScope = "sale"
	TaxScopePurchase TaxScope = "purchase"
	TaxScopeNone     TaxScope = "none"
)

// TaxAmountType distinguishes percentage rates from fixed charges.
type TaxAmountType string

const (
	TaxAmountPercent TaxAmountType = "percent"
	TaxAmountFixed   TaxAmountType = "fixed"
)

// TaxRate is a named percentage or fixed-amount charge applied to
// transactions, optionally scoped to a company and country.
type TaxRate struct {
	ID          ID                  `json:"id,omitempty"`
	Name        string              `json:"name"`
	Amount      Amount              `json:"amount"`
	AmountType  TaxAmountType       `json:"amount_type"`
	Scope       TaxScope            `json:"type_tax_use"`
	TaxType     Relation[Reference] `json:"tax_type,omitempty"`
	Company     Relation[Reference] `json:"company,omitempty"`
	CompanyName string              `json:"company_name,omitempty"`
	Country     Relation[Reference] `json:"country,omitempty"`
	Active      bool                `json:"active"`
}

func (t TaxRate) RecordID() ID {
	return t.ID
}
