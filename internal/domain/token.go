package domain

// TokenClaims are the verified claims of an access or refresh token.
type TokenClaims struct {
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	IssuedAt int64  `json:"iat"`
}
