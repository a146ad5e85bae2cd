// Package model defines the core data structures for the shop-assist application.
package model

// SymptomCategory is a diagnostic category used to pick the questions for a
// customer intake conversation.
type SymptomCategory struct {
	Name string `json:"name"`
	// Keywords are matched case-insensitively and never shown to the operator.
	Keywords  []string `json:"-"`
	Questions []string `json:"questions"`
}
