package models

// FiscalPosition is a rule set determining which tax treatment applies to a
// partner and country combination.
type FiscalPosition struct {
	ID          ID                  `json:"id,omitempty"`
	Name        string              `json:"name"`
	Company     Relation[Reference] `json:"company,omitempty"`
	CompanyName string              `json:"company_name,omitempty"`
	Country     Relation[Reference] `json:"country,omitempty"`
	AutoApply   bool                `json:"auto_apply"`
	VatRequired bool                `json:"vat_required"`
	Active      bool                `json:"active"`
	Note        string              `json:"note,omitempty"`
}

func (f FiscalPosition) RecordID() ID {
	return f.ID
}
