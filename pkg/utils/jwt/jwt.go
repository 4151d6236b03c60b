package jwt

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims is the request-scoped identity: every protected handler reads the
// resolved user, role and condo from here instead of touching the session
// store again.
type Claims struct {
	UserID  uint   `json:"user_id"`
	CondoID uint   `json:"condo_id"`
	Role    string `json:"role"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

func secret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("condofacil-dev-secret")
}

func GenerateToken(userID, condoID uint, role, email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:  userID,
		CondoID: condoID,
		Role:    role,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})

	return token.SignedString(secret())
}

func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret(), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, err
}
