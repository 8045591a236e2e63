package models

// Reference is the projection of a reference-collection row (company, tax
// type, account, country, partner, currency, bank) that the console needs
// to key filters and populate form selectors.
type Reference struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

func (r Reference) RecordID() ID {
	return r.ID
}

// User is the profile of the authenticated principal as returned by the
// backend on login.
type User struct {
	ID        ID     `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (u User) RecordID() ID {
	return u.ID
}
