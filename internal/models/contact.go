package models

import (
	"strings"
	"time"
)

// Contact is a single row of the contacts table.
// Phone and Email are nil when the stored value is NULL.
type Contact struct {
	ID        int64   `json:"id"         db:"id"`
	Name      string  `json:"name"       db:"name"`
	Phone     *string `json:"phone"      db:"phone"`
	Email     *string `json:"email"      db:"email"`
	Favorite  bool    `json:"favorite"   db:"favorite"`
	CreatedAt int64   `json:"created_at" db:"created_at"`
}

// ContactInput carries the editable fields of a contact.
type ContactInput struct {
	Name  string
	Phone string
	Email string
}

func (c Contact) PhoneValue() string {
	if c.Phone == nil {
		return ""
	}
	return *c.Phone
}

func (c Contact) EmailValue() string {
	if c.Email == nil {
		return ""
	}
	return *c.Email
}

func (c Contact) HasPhone() bool {
	return c.PhoneValue() != ""
}

func (c Contact) HasEmail() bool {
	return c.EmailValue() != ""
}

// CreatedTime converts the millisecond timestamp to local time.
func (c Contact) CreatedTime() time.Time {
	return time.UnixMilli(c.CreatedAt)
}

// Input returns the editable fields, used to pre-fill the edit form.
func (c Contact) Input() ContactInput {
	return ContactInput{
		Name:  c.Name,
		Phone: c.PhoneValue(),
		Email: c.EmailValue(),
	}
}

// Matches reports whether the contact passes the search and favorites filter.
// query is expected to be trimmed and lower-cased already.
func (c Contact) Matches(query string, favoritesOnly bool) bool {
	if favoritesOnly && !c.Favorite {
		return false
	}
	if query == "" {
		return true
	}

	return strings.Contains(strings.ToLower(c.Name), query) ||
		strings.Contains(strings.ToLower(c.PhoneValue()), query)
}

// NormalizeQuery trims and lower-cases raw search text.
func NormalizeQuery(search string) string {
	return strings.ToLower(strings.TrimSpace(search))
}

// FilterContacts keeps the contacts matching search and favoritesOnly,
// preserving the input order.
func FilterContacts(contacts []Contact, search string, favoritesOnly bool) []Contact {
	query := NormalizeQuery(search)

	filtered := make([]Contact, 0, len(contacts))
	for _, contact := range contacts {
		if contact.Matches(query, favoritesOnly) {
			filtered = append(filtered, contact)
		}
	}

	return filtered
}

// CountFavorites returns how many contacts are marked favorite.
func CountFavorites(contacts []Contact) int {
	count := 0
	for _, contact := range contacts {
		if contact.Favorite {
			count++
		}
	}
	return count
}

// NullableString trims s and returns nil when nothing is left.
func NullableString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
