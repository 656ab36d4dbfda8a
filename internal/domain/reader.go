package domain

// Reader is a library reader. The backend issues ReaderID at signup.
type Reader struct {
	ReaderID    int    `json:"reader_id,omitempty"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
}

// SignupResult is the success envelope of a reader signup.
type SignupResult struct {
	ReaderID int    `json:"reader_id"`
	Message  string `json:"message,omitempty"`
}
