package identity

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

type idTokenClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

// identityFromIDToken projects the profile claims out of a provider ID
// token. The signature is not checked here: tokens are verified by the
// provider and the backend, the client only reads display fields.
func identityFromIDToken(tokenString string) (Identity, error) {
	parser := jwt.NewParser()
	claims := idTokenClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, &claims); err != nil {
		return Identity{}, err
	}
	if claims.Subject == "" && claims.Email == "" {
		return Identity{}, errors.New("token carries no identity")
	}
	return Identity{
		UID:         claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		PhotoURL:    claims.Picture,
	}, nil
}
