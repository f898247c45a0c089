package entity

import "time"

// Submission is one boleto form handed to the bank, kept so a refTran is never reused.
type Submission struct {
	ID       uint64
	PublicID string

	RequestID      string
	MerchantID     int64
	TransactionRef string

	AmountCents   string
	DueDate       string
	PayerDocument string

	// Fields holds the formatted form inputs in the order they were posted.
	Fields []FormField

	CreatedAt time.Time
}

type FormField struct {
	Name  string
	Value string
}

// Field returns the value stored for name.
func (s *Submission) Field(name string) (string, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}
