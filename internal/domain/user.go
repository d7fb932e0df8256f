package domain

import "slices"

// User represents a registered account. The ID is the registrant-chosen
// username and doubles as the login identifier.
type User struct {
	Record
	PasswordHash string   `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	DisplayName  string   `json:"display_name"`
	Email        string   `json:"email"`
	Starred      []string `json:"starred"`
}

// Star adds a book ID to the user's starred set. Returns true if the set
// changed, false if the book was already starred.
func (u *User) Star(bookID string) bool {
	if slices.Contains(u.Starred, bookID) {
		return false
	}
	u.Starred = append(u.Starred, bookID)
	return true
}

// Unstar removes a book ID from the user's starred set. Returns true if the
// set changed, false if the book was not starred.
func (u *User) Unstar(bookID string) bool {
	i := slices.Index(u.Starred, bookID)
	if i < 0 {
		return false
	}
	u.Starred = slices.Delete(u.Starred, i, i+1)
	return true
}

// HasStarred reports whether the book is in the user's starred set.
func (u *User) HasStarred(bookID string) bool {
	return slices.Contains(u.Starred, bookID)
}

// Sanitized returns a copy of the user with credential material stripped,
// safe to serialize in API responses.
func (u *User) Sanitized() User {
	clean := *u
	clean.PasswordHash = ""
	return clean
}
