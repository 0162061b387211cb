// Package models defines the directory records as the remote data
// service stores them. Records are server-authoritative snapshots; edits
// never mutate them in place — changes travel through an editor draft and
// are submitted wholesale.
package models

import "strings"

// Table names in the remote data service.
const (
	TableCategory = "category"
	TableDoctor   = "doctor"
	TableRequest  = "request"
)

// Category is a medical specialty grouping doctors.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Image     string `json:"image"`
	CreatedAt string `json:"created_at"`
}

// Doctor is a listed medical specialist.
type Doctor struct {
	ID          string    `json:"id"`
	Image       string    `json:"image"`
	FullName    string    `json:"full_name"`
	Slug        string    `json:"slug"`
	MedicalCode string    `json:"medical_code"`
	Description string    `json:"description"`
	Documents   []string  `json:"documents"`
	CategoryID  string    `json:"category_id"`
	Category    *Category `json:"category,omitempty"`
	CreatedAt   string    `json:"created_at"`
}

// Gender values accepted on appointment requests.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Request is a submitted appointment request.
type Request struct {
	ID         string  `json:"id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	NationalID string  `json:"national_id"`
	Gender     string  `json:"gender"`
	BirthDate  string  `json:"birth_date"`
	Phone      string  `json:"phone"`
	Specialist string  `json:"specialist"`
	UserID     *string `json:"user_id"`
	CreatedAt  string  `json:"created_at"`
}

// SplitDocuments turns newline-separated textarea input into the stored
// document list: one entry per line, trimmed, blanks dropped.
func SplitDocuments(text string) []string {
	if text == "" {
		return []string{}
	}
	var docs []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			docs = append(docs, line)
		}
	}
	if docs == nil {
		return []string{}
	}
	return docs
}

// JoinDocuments renders a stored document list back into textarea form.
func JoinDocuments(docs []string) string {
	return strings.Join(docs, "\n")
}
