package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tj/assert"
)

var testSecret = []byte("test-secret")

func mintToken(t *testing.T, sub string, secret []byte) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub})
	signed, err := token.SignedString(secret)
	assert.Nil(t, err)
	return signed
}

func identityFor(req *http.Request, secret []byte) (Identity, bool) {
	var (
		got Identity
		ok  bool
	)
	handler := Middleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		got, ok = From(req.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return got, ok
}

func TestMiddlewareBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "user-1", testSecret))

	id, ok := identityFor(req, testSecret)
	assert.True(t, ok)
	assert.Equal(t, Cognito{Sub: "user-1"}, id)
}

func TestMiddlewareBadSignature(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "user-1", []byte("wrong-secret")))

	_, ok := identityFor(req, testSecret)
	assert.False(t, ok)
}

func TestMiddlewareUnverifiedMode(t *testing.T) {
	// lambda mode: the gateway already checked the signature
	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "user-2", []byte("whatever")))

	id, ok := identityFor(req, nil)
	assert.True(t, ok)
	assert.Equal(t, Cognito{Sub: "user-2"}, id)
}

func TestMiddlewareServiceHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set(HeaderServiceAccount, "123456789012")
	req.Header.Set(HeaderServiceARN, "arn:aws:iam::123456789012:role/backend")

	id, ok := identityFor(req, testSecret)
	assert.True(t, ok)
	assert.Equal(t, IAM{AccountID: "123456789012", UserARN: "arn:aws:iam::123456789012:role/backend"}, id)
}

func TestMiddlewareNoIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	_, ok := identityFor(req, testSecret)
	assert.False(t, ok)

	req = httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	_, ok = identityFor(req, testSecret)
	assert.False(t, ok)
}

func TestSubFromToken(t *testing.T) {
	sub, err := SubFromToken("Bearer "+mintToken(t, "ws-user", testSecret), testSecret)
	assert.Nil(t, err)
	assert.Equal(t, "ws-user", sub)

	sub, err = SubFromToken(mintToken(t, "ws-user", testSecret), testSecret)
	assert.Nil(t, err)
	assert.Equal(t, "ws-user", sub)

	_, err = SubFromToken("not-a-token", testSecret)
	assert.NotNil(t, err)
}
