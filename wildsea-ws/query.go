package wildseaws

import (
	"fmt"
	"strings"
)

// ExtractSubscriptionField pulls the subscription field name out of the query
// text and passes through the request variables as arguments. Inline argument
// literals in the query text are not parsed; the Wildsea clients always bind
// gameId through variables.
func ExtractSubscriptionField(payload SubscribePayload) (string, map[string]interface{}, error) {
	query := strings.TrimSpace(payload.Query)

	// Strip the "subscription" keyword, an optional operation name, and any
	// variable definitions down to the selection set.
	if strings.HasPrefix(strings.ToLower(query), "subscription") {
		query = strings.TrimSpace(query[len("subscription"):])
		if len(query) > 0 && query[0] != '{' {
			idx := strings.IndexByte(query, '{')
			if idx < 0 {
				return "", nil, fmt.Errorf("malformed subscription query")
			}
			query = query[idx:]
		}
	}

	query = strings.TrimSpace(query)
	if len(query) < 2 || query[0] != '{' {
		return "", nil, fmt.Errorf("malformed subscription query")
	}
	query = strings.TrimSpace(query[1:])

	fieldEnd := len(query)
	for i, ch := range query {
		if ch == '(' || ch == '{' || ch == ' ' || ch == '\n' || ch == '\t' {
			fieldEnd = i
			break
		}
	}
	fieldName := query[:fieldEnd]
	if fieldName == "" {
		return "", nil, fmt.Errorf("empty subscription field name")
	}

	args := make(map[string]interface{})
	for k, v := range payload.Variables {
		args[k] = v
	}
	return fieldName, args, nil
}
