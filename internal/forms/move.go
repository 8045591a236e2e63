package forms

import (
	"strings"

	"github.com/comptaflow/console/internal/models"
)

// MoveForm is the edit buffer for an accounting piece.
type MoveForm struct {
	Name        string           `json:"name"`
	Reference   string           `json:"reference,omitempty"`
	Journal     models.ID        `json:"journal"`
	Company     models.ID        `json:"company,omitempty"`
	CompanyName string           `json:"company_name,omitempty"`
	Partner     models.ID        `json:"partner,omitempty"`
	Currency    models.ID        `json:"currency,omitempty"`
	Date        models.Date      `json:"date"`
	State       models.MoveState `json:"state"`
}

// NewMoveForm seeds the buffer from an existing piece, or with defaults
// when creating.
func NewMoveForm(move *models.Move) MoveForm {
	if move == nil {
		return MoveForm{State: models.MoveStateDraft}
	}

	return MoveForm{
		Name:        move.Name,
		Reference:   move.Reference,
		Journal:     move.Journal.ID(),
		Company:     move.Company.ID(),
		CompanyName: move.CompanyName,
		Partner:     move.Partner.ID(),
		Currency:    move.Currency.ID(),
		Date:        move.Date,
		State:       move.State,
	}
}

// Validate checks the required fields, reporting the first violation.
func (f MoveForm) Validate() error {
	if f.Journal.IsZero() {
		return required("journal", "the journal is required")
	}

	if f.Date.IsZero() {
		return required("date", "the date is required")
	}

	if f.Company.IsZero() && strings.TrimSpace(f.CompanyName) == "" {
		return required("company", "select a company or enter its name")
	}

	return nil
}
