package identity

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// Headers set by the gateway for signed service-to-service calls.
const (
	HeaderServiceAccount = "X-Service-Account-Id"
	HeaderServiceARN     = "X-Service-User-Arn"
)

// Middleware extracts the caller identity from the request and stores it in
// the context. Requests with no recognizable identity pass through without
// one; the guards reject them at resolve time.
//
// In lambda mode (secret == nil) the gateway has already validated the JWT,
// so only the claims are extracted. In console mode the token is verified
// against the provided HMAC secret.
func Middleware(secret []byte) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if id, ok := fromRequest(req, secret); ok {
				req = req.WithContext(WithIdentity(req.Context(), id))
			}
			next.ServeHTTP(w, req)
		})
	}
}

func fromRequest(req *http.Request, secret []byte) (Identity, bool) {
	if account, arn := req.Header.Get(HeaderServiceAccount), req.Header.Get(HeaderServiceARN); account != "" && arn != "" {
		return IAM{AccountID: account, UserARN: arn}, true
	}

	auth := req.Header.Get("Authorization")
	if auth == "" {
		return nil, false
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, false
	}

	sub, err := subFromToken(parts[1], secret)
	if err != nil {
		zerolog.Ctx(req.Context()).Warn().Err(err).Msg("rejecting bearer token")
		return nil, false
	}
	return Cognito{Sub: sub}, true
}

func subFromToken(token string, secret []byte) (string, error) {
	claims := jwt.MapClaims{}
	if secret == nil {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return "", err
		}
	} else {
		_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil {
			return "", err
		}
	}
	return claims.GetSubject()
}

// SubFromToken exposes the token parsing for the WebSocket handler, which
// receives the token in a connection_init payload rather than a header.
func SubFromToken(token string, secret []byte) (string, error) {
	return subFromToken(strings.TrimPrefix(token, "Bearer "), secret)
}
