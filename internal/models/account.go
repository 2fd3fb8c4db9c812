package models

// Account represents a registered user account.
type Account struct {
	// Username is the unique, case-sensitive identifier used to log in.
	Username string

	// Phone is a free-form contact number.
	// Stored as text so leading zeros, "+" prefixes and separators survive.
	Phone string

	// PasswordHash is the bcrypt encoding of the account password.
	// The plaintext password is never stored.
	PasswordHash string
}
