package models

// Operator is a registered DCM user. Usernames are unique case-insensitively.
type Operator struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // don't expose hash
}
