package domain

import (
	"slices"
	"time"
)

// SecurityQuestion is a catalog entry.
type SecurityQuestion struct {
	ID   int
	Text string
}

// QuestionCatalog is the ordered list of questions users can choose from.
type QuestionCatalog []SecurityQuestion

// DefaultQuestionCatalog is used when no policy file overrides it.
func DefaultQuestionCatalog() QuestionCatalog {
	return QuestionCatalog{
		{ID: 1, Text: "What was the name of your first pet?"},
		{ID: 2, Text: "In what city were you born?"},
		{ID: 3, Text: "What was the name of your first school?"},
		{ID: 4, Text: "What is your mother's maiden name?"},
		{ID: 5, Text: "What was the make of your first car?"},
	}
}

// IDs returns every question id in catalog order.
func (c QuestionCatalog) IDs() []int {
	ids := make([]int, len(c))
	for i, q := range c {
		ids[i] = q.ID
	}
	return ids
}

// Has reports whether id is in the catalog.
func (c QuestionCatalog) Has(id int) bool {
	return slices.ContainsFunc(c, func(q SecurityQuestion) bool { return q.ID == id })
}

// SecurityAnswer is an account's single optional question and hashed answer.
type SecurityAnswer struct {
	AccountID  string
	QuestionID int
	AnswerHash string
	UpdatedAt  time.Time
}

// SecurityAnswerSubmission is one answer sent by a client.
type SecurityAnswerSubmission struct {
	QuestionID int
	Answer     string
}
