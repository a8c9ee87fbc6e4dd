package wildseagql

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/jarrod-lowe/wildsea-sub001/i18n"
)

func WithCORS() func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-CSRF-Token"},
	})
}

func WithLogger(logger zerolog.Logger) func(handler http.Handler) http.Handler {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := logger.WithContext(req.Context())
			req = req.WithContext(ctx)
			handler.ServeHTTP(w, req)
		})
	}
}

type langKey struct{}

// WithLanguage stores the caller's preferred message language in the context,
// taken from the first supported Accept-Language entry.
func WithLanguage() func(handler http.Handler) http.Handler {
	supported := map[string]bool{}
	for _, lang := range i18n.SupportedLanguages() {
		supported[lang] = true
	}
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			lang := "en"
			for _, part := range strings.Split(req.Header.Get("Accept-Language"), ",") {
				code := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
				if idx := strings.IndexByte(code, '-'); idx > 0 {
					code = code[:idx]
				}
				if supported[code] {
					lang = code
					break
				}
			}
			ctx := context.WithValue(req.Context(), langKey{}, lang)
			handler.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// Language returns the message language for the request, defaulting to "en".
func Language(ctx context.Context) string {
	if lang, ok := ctx.Value(langKey{}).(string); ok {
		return lang
	}
	return "en"
}
