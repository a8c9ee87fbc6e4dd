// Package graphiql serves an embedded GraphiQL playground page.
package graphiql

import (
	"bytes"
	_ "embed"
	"net/http"
	"text/template"
)

//go:embed graphiql.html
var page string

// New returns a handler serving the playground pointed at the given graphql
// endpoint path.
func New(endpoint string) http.HandlerFunc {
	templ := template.Must(template.New("graphiql").Parse(page))
	return func(w http.ResponseWriter, req *http.Request) {
		var buffer bytes.Buffer
		if err := templ.Execute(&buffer, struct{ Route string }{Route: endpoint}); err != nil {
			http.Error(w, "unable to render playground", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write(buffer.Bytes())
	}
}
