// Package domain holds the library entities exchanged with the backend API.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// UnknownAuthor is shown wherever a book has no authors.
const UnknownAuthor = "Author unknown"

// Book is a library book as returned by the backend. Books are read-only on this side.
type Book struct {
	ID              int     `json:"book_id"`
	Title           string  `json:"title"`
	PublicationYear int     `json:"publication_year"`
	Genre           string  `json:"genre"`
	Authors         Authors `json:"authors"`
}

// AuthorsDisplay returns the comma separated author names, or UnknownAuthor.
func (b *Book) AuthorsDisplay() string {
	if s := b.Authors.String(); s != "" {
		return s
	}
	return UnknownAuthor
}

// Author is a book author. Authors only exist nested under a book.
type Author struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// FullName joins first and last name.
func (a Author) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Authors is the authors field of a book. The backend sends it as a list of
// {first_name,last_name} objects, a list of display strings, one display
// string, or null; all shapes decode into the same value.
type Authors struct {
	List  []Author
	Names []string
}

// String joins every known author name with ", ".
func (a Authors) String() string {
	names := make([]string, 0, len(a.List)+len(a.Names))
	for _, author := range a.List {
		if name := author.FullName(); name != "" {
			names = append(names, name)
		}
	}
	for _, name := range a.Names {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

// Empty reports whether no author name is known.
func (a Authors) Empty() bool {
	return a.String() == ""
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Authors) UnmarshalJSON(data []byte) error {
	*a = Authors{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return fmt.Errorf("decode authors string: %w", err)
		}
		if name != "" {
			a.Names = []string{name}
		}
		return nil

	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("decode authors list: %w", err)
		}
		for i, item := range items {
			item = bytes.TrimSpace(item)
			switch {
			case len(item) == 0 || bytes.Equal(item, []byte("null")):
				continue
			case item[0] == '"':
				var name string
				if err := json.Unmarshal(item, &name); err != nil {
					return fmt.Errorf("decode author %d: %w", i, err)
				}
				a.Names = append(a.Names, name)
			default:
				var author Author
				if err := json.Unmarshal(item, &author); err != nil {
					return fmt.Errorf("decode author %d: %w", i, err)
				}
				a.List = append(a.List, author)
			}
		}
		return nil

	default:
		return fmt.Errorf("decode authors: unexpected JSON %q", string(data[:1]))
	}
}

// MarshalJSON writes structured authors as objects and display-only authors as one string.
func (a Authors) MarshalJSON() ([]byte, error) {
	switch {
	case len(a.List) > 0 && len(a.Names) == 0:
		return json.Marshal(a.List)
	case a.Empty():
		return []byte("null"), nil
	default:
		return json.Marshal(a.String())
	}
}

// NewBook is the payload of a book creation. Authors keep the order in which they were entered.
type NewBook struct {
	Title           string   `json:"title" validate:"required"`
	PublicationYear int      `json:"publication_year"`
	Genre           string   `json:"genre" validate:"required"`
	Authors         []Author `json:"authors" validate:"dive"`
}

// AddBookResult is the success envelope of a book creation.
type AddBookResult struct {
	Message string `json:"message"`
	BookID  int    `json:"book_id,omitempty"`
}
