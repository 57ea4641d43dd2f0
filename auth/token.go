package auth

import (
	"chat-client/errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the chat server puts in its tokens: the user id as subject,
// the username and the expiry.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

var parser = jwt.NewParser()

// ParseClaims reads the claims of token without checking its signature.
// Only the server holds the secret, it still verifies every token we present.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrNotAuthenticated, err)
	}
	return claims, nil
}
