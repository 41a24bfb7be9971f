package accounts

import "time"

// Account is a registered user. PasswordHash is a bcrypt hash; SessionToken
// holds the single live token, empty after logout.
type Account struct {
	ID             string
	UserName       string
	PasswordHash   []byte
	Role           string
	SessionToken   string
	SessionExpires time.Time
	CreatedAt      time.Time
}

// Session is returned by Register and Login.
type Session struct {
	Token    string
	UserName string
	Role     string
}

type Profile struct {
	UserName string
	Role     string
}

func (a *Account) profile() *Profile {
	return &Profile{UserName: a.UserName, Role: a.Role}
}

func (a *Account) clone() *Account {
	c := *a
	c.PasswordHash = append([]byte(nil), a.PasswordHash...)
	return &c
}
