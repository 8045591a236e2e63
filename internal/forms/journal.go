package forms

import (
	"strings"

	"github.com/comptaflow/console/internal/models"
)

// JournalForm is the edit buffer for a journal.
type JournalForm struct {
	Code        string             `json:"code"`
	Name        string             `json:"name"`
	Type        models.JournalType `json:"type"`
	Company     models.ID          `json:"company,omitempty"`
	CompanyName string             `json:"company_name,omitempty"`
	Account     models.ID          `json:"default_account,omitempty"`
	Currency    models.ID          `json:"currency,omitempty"`
	Active      bool               `json:"active"`
}

// NewJournalForm seeds the buffer from an existing journal, or with
// defaults when creating.
func NewJournalForm(journal *models.Journal) JournalForm {
	if journal == nil {
		return JournalForm{Type: models.JournalTypeGeneral, Active: true}
	}

	return JournalForm{
		Code:        journal.Code,
		Name:        journal.Name,
		Type:        journal.Type,
		Company:     journal.Company.ID(),
		CompanyName: journal.CompanyName,
		Account:     journal.Account.ID(),
		Currency:    journal.Currency.ID(),
		Active:      journal.Active,
	}
}

// Validate checks the required fields, reporting the first violation.
func (f JournalForm) Validate() error {
	if strings.TrimSpace(f.Code) == "" {
		return required("code", "the journal code is required")
	}

	if strings.TrimSpace(f.Name) == "" {
		return required("name", "the journal name is required")
	}

	if f.Type == "" {
		return required("type", "the journal type is required")
	}

	return nil
}
