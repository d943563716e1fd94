package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims for the
// Hellverse chat server. It includes standard claims required by the JWT
// specification and the custom claims that identify an account.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// Username is the stable account identity the token was issued to.
	// Character selection happens per connection, not per token.
	Username string `json:"username"`

	// Admin reports whether the account holds moderator privilege. Moderator-only
	// actions (bans, channel lifecycle) are gated on this flag.
	Admin bool `json:"admin"`
}
