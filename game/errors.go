package game

// Kind is the machine-readable error code surfaced to GraphQL clients.
type Kind string

const (
	KindUnauthorized  Kind = "Unauthorized"
	KindNotFound      Kind = "NotFound"
	KindConflict      Kind = "Conflict"
	KindQuotaExceeded Kind = "QuotaExceeded"
	KindInvariant     Kind = "InternalInvariant"
	KindBadInput      Kind = "BadInput"
)

// Error is a terminal request error. The message may be localized; the kind
// never is.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Extensions satisfies the graphql-go resolver error contract so the kind
// appears in the response's error extensions.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": string(e.Kind)}
}

func Unauthorized() *Error {
	return &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func QuotaExceeded(message string) *Error {
	return &Error{Kind: KindQuotaExceeded, Message: message}
}

func Invariant(message string) *Error {
	return &Error{Kind: KindInvariant, Message: message}
}

func BadInput(message string) *Error {
	return &Error{Kind: KindBadInput, Message: message}
}
