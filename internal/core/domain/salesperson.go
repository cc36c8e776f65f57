package domain

import "strconv"

// Account is the nested user object of a profile.
type Account struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Salesperson is a user profile with the salesperson role. The backend wraps
// the account inside the profile.
type Salesperson struct {
	ID   int64    `json:"id"`
	Role string   `json:"role"`
	User *Account `json:"user"`
}

// UserID returns the id of the wrapped account, which is the id the backend
// expects when assigning or filtering by salesperson.
func (s Salesperson) UserID() int64 {
	if s.User == nil {
		return 0
	}
	return s.User.ID
}

// Key returns the assignable id as a string.
func (s Salesperson) Key() string { return strconv.FormatInt(s.UserID(), 10) }

// Username returns the account name or a placeholder.
func (s Salesperson) Username() string {
	if s.User == nil || s.User.Username == "" {
		return "N/A"
	}
	return s.User.Username
}

// Email returns the account email.
func (s Salesperson) Email() string {
	if s.User == nil {
		return ""
	}
	return s.User.Email
}
