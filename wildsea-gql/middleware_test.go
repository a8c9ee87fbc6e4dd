package wildseagql

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tj/assert"
)

func languageFor(acceptLanguage string) string {
	var lang string
	handler := WithLanguage()(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		lang = Language(req.Context())
	}))
	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	if acceptLanguage != "" {
		req.Header.Set("Accept-Language", acceptLanguage)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return lang
}

func TestWithLanguage(t *testing.T) {
	assert.Equal(t, "en", languageFor(""))
	assert.Equal(t, "en", languageFor("fr"))
	assert.Equal(t, "tlh", languageFor("tlh"))
	assert.Equal(t, "tlh", languageFor("fr, tlh;q=0.8, en;q=0.5"))
	assert.Equal(t, "en", languageFor("en-AU, tlh"))
}

func TestLanguageDefault(t *testing.T) {
	assert.Equal(t, "en", Language(context.Background()))
}
