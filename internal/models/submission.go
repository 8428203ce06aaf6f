package models

// Submission holds one contact-form post. It lives for the duration of a
// single request and is consumed by the mail composition step.
type Submission struct {
	Email    string
	Name     string
	Phone    string
	Interest string
	Message  string
}

// PhoneValid applies the contact-form phone rule: the raw value must be
// exactly 10 or 12 characters long. No normalization or format check.
func (s *Submission) PhoneValid() bool {
	return len(s.Phone) == 10 || len(s.Phone) == 12
}
