package i

// Authenticator signs in API operators.
type Authenticator interface {
	SignIn(username, password string) (string, error)
}
