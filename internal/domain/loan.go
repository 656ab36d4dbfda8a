package domain

import "time"

// Loan is a loan record as stored by the backend.
type Loan struct {
	LoanID     int        `json:"loan_id"`
	BookID     int        `json:"book_id"`
	ReaderID   int        `json:"reader_id"`
	IssueDate  time.Time  `json:"issue_date"`
	ReturnDate *time.Time `json:"return_date"`
}

// GuestLoan holds the loan sub-form of the book page: the reader is
// described inline instead of by id.
type GuestLoan struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
}

// LoanRequest is the body of POST /loan-book. Either ReaderID or the guest
// fields are set, never both.
type LoanRequest struct {
	BookID      int    `json:"book_id"`
	ReaderID    int    `json:"reader_id,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Email       string `json:"email,omitempty"`
}

// GuestLoanRequest builds the request for a guest loan of bookID.
func GuestLoanRequest(bookID int, guest GuestLoan) LoanRequest {
	return LoanRequest{
		BookID:      bookID,
		FirstName:   guest.FirstName,
		LastName:    guest.LastName,
		PhoneNumber: guest.PhoneNumber,
		Email:       guest.Email,
	}
}

// ReaderLoanRequest builds the request for a loan of bookID by a registered reader.
func ReaderLoanRequest(bookID, readerID int) LoanRequest {
	return LoanRequest{BookID: bookID, ReaderID: readerID}
}

// LoanResult is the success envelope of a loan. The backend answers with a
// message, a loan id, or both.
type LoanResult struct {
	Message string `json:"message,omitempty"`
	LoanID  int    `json:"loan_id,omitempty"`
}
