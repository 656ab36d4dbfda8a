// Package ui models the interactive state of the book page: which parts are
// shown, and how clicks on page elements change that.
package ui

// Element ids of the book page.
const (
	DocumentID        = "document"
	BodyID            = "body"
	OpenLoanButtonID  = "open-loan-form"
	CloseLoanButtonID = "close-loan-form"
	LoanContainerID   = "loan-form-container"
	LoanFormID        = "loan-form"
	LoanBackdropID    = "loan-backdrop"
	SubmitLoanID      = "submit-loan"
	BookDetailsID     = "book-details"
)

// Page is the element tree of a page, as child id → parent id.
type Page struct {
	parents map[string]string
}

// NewPage builds a page from child → parent pairs. Elements without a parent
// hang off the document.
func NewPage(parents map[string]string) *Page {
	p := &Page{parents: make(map[string]string, len(parents))}
	for child, parent := range parents {
		p.parents[child] = parent
	}
	return p
}

// BookPage returns the element tree of the book detail page.
func BookPage() *Page {
	return NewPage(map[string]string{
		BodyID:            DocumentID,
		BookDetailsID:     BodyID,
		OpenLoanButtonID:  BodyID,
		LoanBackdropID:    BodyID,
		LoanContainerID:   BodyID,
		LoanFormID:        LoanContainerID,
		CloseLoanButtonID: LoanContainerID,
		"first_name":      LoanFormID,
		"last_name":       LoanFormID,
		"phone_number":    LoanFormID,
		"email":           LoanFormID,
		SubmitLoanID:      LoanFormID,
	})
}

// Known reports whether id is part of the page.
func (p *Page) Known(id string) bool {
	if id == DocumentID {
		return true
	}
	_, ok := p.parents[id]
	return ok
}

// Path returns id followed by its ancestors, ending at the document.
// Unknown ids are treated as direct children of the document.
func (p *Page) Path(id string) []string {
	path := []string{id}
	// The length bound stops on a malformed tree with a cycle.
	for id != DocumentID && len(path) <= len(p.parents)+1 {
		parent, ok := p.parents[id]
		if !ok {
			parent = DocumentID
		}
		path = append(path, parent)
		id = parent
	}
	if path[len(path)-1] != DocumentID {
		path = append(path, DocumentID)
	}
	return path
}

// Contains reports whether id is ancestorID or one of its descendants.
func (p *Page) Contains(ancestorID, id string) bool {
	for _, el := range p.Path(id) {
		if el == ancestorID {
			return true
		}
	}
	return false
}
