package connectiondao

// Connection is one live WebSocket connection. UserID is empty until the
// client authenticates with connection_init.
type Connection struct {
	ConnectionID string `dynamodbav:"pk" ddb:"hash"`
	Endpoint     string `dynamodbav:"endpoint"`
	UserID       string `dynamodbav:"user_id,omitempty"`
	ConnectedAt  int64  `dynamodbav:"connected_at"`
	TTL          int64  `dynamodbav:"ttl"`
}
