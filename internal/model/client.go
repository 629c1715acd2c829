package model

// Client is a person or company that owns projects. Deleting a client
// cascades to its projects and their todos and payments.
type Client struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email,omitempty" db:"email"`

	// SortOrder preserves the user's manual sidebar ordering. Ranking
	// only reorders clients across priority tiers, never within one.
	SortOrder int `json:"sort_order" db:"sort_order"`
}
