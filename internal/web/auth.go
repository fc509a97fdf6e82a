package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/logging"
)

// OperatorClaims carries the operator name alongside the registered claims.
type OperatorClaims struct {
	jwt.RegisteredClaims
	Name string
}

// GenerateOperatorToken mints an HS256 bearer token for the operator
// endpoints.
func GenerateOperatorToken(name string, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, OperatorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		Name: name,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// operatorFromToken validates the token and returns the operator name.
func operatorFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &OperatorClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.Name, nil
}

// AuthMiddleware enforces a valid operator bearer token.
func AuthMiddleware(secretKey []byte, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				writeJSON(r.Context(), w, logger, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}

			name, err := operatorFromToken(strings.TrimPrefix(auth, "Bearer "), secretKey)
			if err != nil {
				writeJSON(r.Context(), w, logger, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}

			logger.Debug(r.Context(), "operator request", "operator", name, "path", r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}
}
