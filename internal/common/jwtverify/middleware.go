package jwtverify

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/inkpress/inkpress/backend/internal/common/errors"
	commonhttp "github.com/inkpress/inkpress/backend/internal/common/http"
	"github.com/inkpress/inkpress/backend/internal/common/logger"
	"github.com/inkpress/inkpress/backend/internal/observability/metrics"
)

// Identity is the verified result of a session token. It is the only
// trusted source of "who is making this request" downstream.
type Identity struct {
	UserID string
}

type contextKey string

const identityKey contextKey = "verified_identity"

// Middleware verifies the bearer token on every request and stores the
// verified identity in the request context. Anything missing, malformed,
// signed with another secret or lacking the user id claim gets a 403.
func Middleware(secret string, log *logger.Logger) func(next http.Handler) http.Handler {
	secretBytes := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			metrics.TokenVerificationsTotal.Inc()

			raw := r.Header.Get("Authorization")
			if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
				metrics.TokenVerificationsFailed.Inc()
				log.Warnf("token verify failed path=%s: missing or invalid authorization header", r.URL.Path)
				commonhttp.HandleError(w, r, commonerrors.ErrMissingAuthorization, log)
				return
			}

			tokenString := strings.TrimPrefix(raw, "Bearer ")
			identity, err := VerifyToken(tokenString, secretBytes)
			if err != nil {
				metrics.TokenVerificationsFailed.Inc()
				log.Warnf("token verify failed path=%s: %v", r.URL.Path, err)
				commonhttp.HandleError(w, r, commonerrors.ErrInvalidToken.WithCause(err), log)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func FromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// VerifyToken checks the signature and extracts the user id claim. Expiry
// is enforced by the parser when the token carries an exp claim, against
// wall-clock time unless a jwt.WithTimeFunc option overrides it.
func VerifyToken(tokenString string, secret []byte, opts ...jwt.ParserOption) (Identity, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("token is not valid")
		}
		return Identity{}, err
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("invalid claims type")
	}

	userID, _ := mapClaims["userId"].(string)
	if userID == "" {
		return Identity{}, errors.New("missing userId claim")
	}

	return Identity{UserID: userID}, nil
}
