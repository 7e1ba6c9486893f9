package entity

// UserLoginData identifies the authenticated operator carried in JWT
// claims. Operators are configured through the environment; there is no
// user table.
type UserLoginData struct {
	ID       string
	Username string
}
