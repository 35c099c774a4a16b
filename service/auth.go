package service

import (
	"errors"
	"time"

	"github.com/beka-birhanu/vinom-bot/identity"
	"github.com/beka-birhanu/vinom-bot/service/i"
)

const (
	defaultTokenTTL = 12 * time.Hour
	operatorRole    = "operator"
)

var (
	ErrMissingDependency = errors.New("missing dependency")
)

var _ i.Authenticator = &Auth{}

// Auth signs in the API operator.
type Auth struct {
	operator  *identity.Operator
	tokenizer i.Tokenizer
	tokenTTL  time.Duration
}

func NewAuthService(operator *identity.Operator, tokenizer i.Tokenizer) (*Auth, error) {
	if operator == nil || tokenizer == nil {
		return nil, ErrMissingDependency
	}
	return &Auth{
		operator:  operator,
		tokenizer: tokenizer,
		tokenTTL:  defaultTokenTTL,
	}, nil
}

// SignIn checks the credentials and returns a signed token.
func (a *Auth) SignIn(username, password string) (string, error) {
	if !a.operator.Verify(username, password) {
		return "", identity.ErrInvalidCredentials
	}

	return a.tokenizer.Generate(map[string]interface{}{
		"username": a.operator.Username,
		"role":     operatorRole,
	}, a.tokenTTL)
}
