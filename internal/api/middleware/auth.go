package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-EmbedBooking/internal/api/handlers"
)

const (
	msgMissingToken = "требуется авторизация"
	msgInvalidToken = "недействительный или просроченный токен"
)

var (
	// ErrMissingToken возвращается, когда заголовок Authorization отсутствует или не Bearer
	ErrMissingToken = errors.New("middleware: missing bearer token")

	// ErrInvalidToken возвращается при неверной подписи, сроке или claims
	ErrInvalidToken = errors.New("middleware: invalid token")
)

// AdminClaims claims токена администратора. Subject - ID администратора.
type AdminClaims struct {
	jwt.RegisteredClaims
}

// GetAdminID ID администратора, положенный JWTAuth в контекст
func GetAdminID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxKeyAdminID).(string)
	return v, ok && v != ""
}

// WithAdminID кладёт ID администратора в контекст
func WithAdminID(ctx context.Context, adminID string) context.Context {
	return context.WithValue(ctx, ctxKeyAdminID, adminID)
}

// JWTAuth проверяет HS256 Bearer токен. Права на конкретного тенанта проверяют сервисы.
func JWTAuth(secret, issuer string, logger Logger) mux.MiddlewareFunc {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			adminID, err := parseAdminToken(r.Header.Get("Authorization"), key, issuer)
			if err != nil {
				logger.Warn("JWTAuth: %s %s rejected: %v", r.Method, r.URL.Path, err)
				if errors.Is(err, ErrMissingToken) {
					handlers.RespondUnauthorized(w, msgMissingToken)
				} else {
					handlers.RespondUnauthorized(w, msgInvalidToken)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAdminID(r.Context(), adminID)))
		})
	}
}

func parseAdminToken(header string, key []byte, issuer string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	}, opts...)
	if err != nil || !token.Valid {
		return "", errors.Join(ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return "", errors.Join(ErrInvalidToken, errors.New("empty subject"))
	}

	return claims.Subject, nil
}
