package models

// User is an account provisioned out of band. PasswordHash holds a bcrypt
// hash and is never rendered in API responses.
type User struct {
	ID           string  `json:"id"`
	Username     string  `json:"username"`
	PasswordHash string  `json:"passwordHash"`
	Email        string  `json:"email,omitempty"`
	Like         LikeSet `json:"like"`
}

// Clone returns a deep copy of the user.
func (u User) Clone() User {
	u.Like = u.Like.Clone()
	return u
}

// Profile is the public projection of a user.
type Profile struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
}

// Profile returns the public projection of the user.
func (u User) Profile() Profile {
	p := Profile{ID: u.ID, Username: u.Username}
	if u.Email != "" {
		email := u.Email
		p.Email = &email
	}
	return p
}
