package models

// Feedback is a titled note owned by the user named in Username.
type Feedback struct {
	ID       int64
	Title    string
	Content  string
	Username string
}
