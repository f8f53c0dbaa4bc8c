// Package cognito signs chat clients in against a Cognito user pool.
package cognito

import "context"

// Client is the subset of the Cognito user pool API the bot relies on.
type Client interface {
	Login(ctx context.Context, input LoginInput) (Tokens, error)
	RefreshTokens(ctx context.Context, input RefreshInput) (Tokens, error)
}

type LoginInput struct {
	Email    string
	Password string
}

// RefreshInput carries the username again because the secret hash is keyed
// on it.
type RefreshInput struct {
	Email        string
	RefreshToken string
}

// Tokens are the credentials handed back to the chat client. RefreshToken is
// empty after a refresh.
type Tokens struct {
	IDToken      string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int32
	TokenType    string
}
