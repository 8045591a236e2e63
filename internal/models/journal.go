package models

// JournalType is the ledger channel category of a journal.
type JournalType string

const (
	JournalTypeSale     JournalType = "sale"
	JournalTypePurchase JournalType = "purchase"
	JournalTypeBank     JournalType = "bank"
	JournalTypeCash     JournalType = "cash"
	JournalTypeGeneral  JournalType = "general"
)

// Journal is a named ledger channel accounting pieces are posted against.
type Journal struct {
	ID          ID                  `json:"id,omitempty"`
	Code        string              `json:"code"`
	Name        string              `json:"name"`
	Type        JournalType         `json:"type"`
	Company     Relation[Reference] `json:"company,omitempty"`
	CompanyName string              `json:"company_name,omitempty"`
	Account     Relation[Reference] `json:"default_account,omitempty"`
	Currency    Relation[Reference] `json:"currency,omitempty"`
	Active      bool                `json:"active"`
}

func (j Journal) RecordID() ID {
	return j.ID
}
