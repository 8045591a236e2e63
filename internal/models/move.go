package models

// MoveState is the lifecycle state of an accounting piece.
type MoveState string

const (
	MoveStateDraft     MoveState = "draft"
	MoveStatePosted    MoveState = "posted"
	MoveStateCancelled MoveState = "cancelled"
)

// Move is an accounting piece: an invoice, credit note, manual entry or
// payment posted against a journal.
type Move struct {
	ID          ID                  `json:"id,omitempty"`
	Name        string              `json:"name"`
	Reference   string              `json:"reference,omitempty"`
	Journal     Relation[Journal]   `json:"journal,omitempty"`
	Company     Relation[Reference] `json:"company,omitempty"`
	CompanyName string              `json:"company_name,omitempty"`
	Partner     Relation[Reference] `json:"partner,omitempty"`
	Currency    Relation[Reference] `json:"currency,omitempty"`
	Date        Date                `json:"date"`
	State       MoveState           `json:"state"`

	// Total is computed by the backend when the piece's lines are posted.
	Total Amount `json:"total_amount,omitempty"`
}

func (m Move) RecordID() ID {
	return m.ID
}
