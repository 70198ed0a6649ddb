package models

// User is an account. Username is the primary key; Password always holds
// a credential hash, never the plaintext.
type User struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	IsAdmin   bool
}
