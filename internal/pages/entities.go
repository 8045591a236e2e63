package pages

import (
	"github.com/rs/zerolog"

	"github.com/comptaflow/console/internal/models"
	"github.com/comptaflow/console/internal/session"
	"github.com/comptaflow/console/internal/upstream"
)

// copySuffix marks records created via Duplicate.
const copySuffix = " (Copie)"

// Journals returns the list-page controller for journals.
func Journals(auth *session.Controller, log zerolog.Logger) *Page[models.Journal] {
	return New(Config[models.Journal]{
		Name:     "journals",
		Resource: upstream.PathJournals,
		Fields: FieldSet[models.Journal]{
			Search:  func(j models.Journal) []string { return []string{j.Name, j.Code} },
			Company: func(j models.Journal) models.ID { return j.Company.ID() },
			Kind:    func(j models.Journal) string { return string(j.Type) },
		},
		Public: []Source{
			{Name: "accounts", Path: upstream.PathAccounts},
			{Name: "currencies", Path: upstream.PathCurrencies},
			{Name: "countries", Path: upstream.PathCountries},
		},
		Protected: []Source{
			{Name: "companies", Path: upstream.PathCompanies},
		},
		Flags: []string{"active"},
		Duplicate: func(j models.Journal) models.Journal {
			j.ID = ""
			j.Name += copySuffix
			j.Code += copySuffix
			return j
		},
	}, auth, log)
}

// Moves returns the list-page controller for accounting pieces.
func Moves(auth *session.Controller, log zerolog.Logger) *Page[models.Move] {
	return New(Config[models.Move]{
		Name:     "moves",
		Resource: upstream.PathMoves,
		Fields: FieldSet[models.Move]{
			Search:  func(m models.Move) []string { return []string{m.Name, m.Reference} },
			Company: func(m models.Move) models.ID { return m.Company.ID() },
			State:   func(m models.Move) string { return string(m.State) },
			Date:    func(m models.Move) models.Date { return m.Date },
			Amount:  func(m models.Move) models.Amount { return m.Total },
		},
		Public: []Source{
			{Name: "journals", Path: upstream.PathJournals},
			{Name: "currencies", Path: upstream.PathCurrencies},
		},
		Protected: []Source{
			{Name: "companies", Path: upstream.PathCompanies},
			{Name: "partners", Path: upstream.PathPartners},
			{Name: "banks", Path: upstream.PathBanks},
		},
		Duplicate: func(m models.Move) models.Move {
			m.ID = ""
			m.Name += copySuffix
			m.State = models.MoveStateDraft
			return m
		},
	}, auth, log)
}

// TaxRates returns the list-page controller for tax rates.
func TaxRates(auth *session.Controller, log zerolog.Logger) *Page[models.TaxRate] {
	return New(Config[models.TaxRate]{
		Name:     "taxes",
		Resource: upstream.PathTaxes,
		Fields: FieldSet[models.TaxRate]{
			Search:  func(t models.TaxRate) []string { return []string{t.Name} },
			Company: func(t models.TaxRate) models.ID { return t.Company.ID() },
			Kind:    func(t models.TaxRate) string { return string(t.Scope) },
			Amount:  func(t models.TaxRate) models.Amount { return t.Amount },
		},
		Public: []Source{
			{Name: "tax_types", Path: upstream.PathTaxTypes},
			{Name: "countries", Path: upstream.PathCountries},
		},
		Protected: []Source{
			{Name: "companies", Path: upstream.PathCompanies},
		},
		Flags: []string{"active"},
		Duplicate: func(t models.TaxRate) models.TaxRate {
			t.ID = ""
			t.Name += copySuffix
			return t
		},
	}, auth, log)
}

// FiscalPositions returns the list-page controller for fiscal positions.
func FiscalPositions(auth *session.Controller, log zerolog.Logger) *Page[models.FiscalPosition] {
	return New(Config[models.FiscalPosition]{
		Name:     "fiscal-positions",
		Resource: upstream.PathFiscalPositions,
		Fields: FieldSet[models.FiscalPosition]{
			Search:  func(f models.FiscalPosition) []string { return []string{f.Name} },
			Company: func(f models.FiscalPosition) models.ID { return f.Company.ID() },
		},
		Public: []Source{
			{Name: "countries", Path: upstream.PathCountries},
		},
		Protected: []Source{
			{Name: "companies", Path: upstream.PathCompanies},
			{Name: "partners", Path: upstream.PathPartners},
		},
		Flags: []string{"active", "auto_apply"},
		Duplicate: func(f models.FiscalPosition) models.FiscalPosition {
			f.ID = ""
			f.Name += copySuffix
			return f
		},
	}, auth, log)
}
