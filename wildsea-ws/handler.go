package wildseaws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/apigatewaymanagementapi"
	"github.com/rs/zerolog"

	"github.com/jarrod-lowe/wildsea-sub001/game"
	"github.com/jarrod-lowe/wildsea-sub001/identity"
	"github.com/jarrod-lowe/wildsea-sub001/wildsea-ws/connectiondao"
	"github.com/jarrod-lowe/wildsea-sub001/wildsea-ws/subscriptiondao"
)

// TopicResolver resolves a subscription field and its arguments to a topic,
// plus the game whose membership gates it (empty when none does).
type TopicResolver interface {
	ComputeTopic(fieldName, userID string, args map[string]interface{}) (topic, gameID string, err error)
	ValidateField(fieldName string) error
}

// GameStore is the slice of the game DAO the handler needs for the
// subscribe-time membership check.
type GameStore interface {
	GetGameMeta(ctx context.Context, gameID string) (*game.Record, error)
}

// Handler handles API Gateway WebSocket events for the graphql-ws protocol.
//
// Authorization happens in two steps: connection_init carries the bearer
// token, binding a user to the connection; each subscribe then checks that
// user's membership in the requested game. A connection that never
// authenticated cannot subscribe to anything.
type Handler struct {
	Connections *connectiondao.DAO
	Subs        *subscriptiondao.DAO
	Games       GameStore
	Topics      TopicResolver
	// JWTSecret verifies connection_init tokens. The $default route is not
	// fronted by the gateway authorizer, so tokens arriving there are
	// unverified input; with no secret configured every token is refused.
	JWTSecret []byte
	Logger    zerolog.Logger
	ConnTTL   time.Duration // TTL for connection records (default 2 hours)
}

// HandleEvent routes an API Gateway WebSocket event.
func (h *Handler) HandleEvent(ctx context.Context, req events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := h.Logger.With().
		Str("connection_id", req.RequestContext.ConnectionID).
		Str("route", req.RequestContext.RouteKey).
		Logger()

	switch req.RequestContext.RouteKey {
	case "$connect":
		return h.handleConnect(ctx, logger, req)
	case "$disconnect":
		return h.handleDisconnect(ctx, logger, req)
	case "$default":
		return h.handleMessage(ctx, logger, req)
	default:
		logger.Warn().Msg("unknown route")
		return events.APIGatewayProxyResponse{StatusCode: 400}, nil
	}
}

func (h *Handler) ttl() time.Duration {
	if h.ConnTTL == 0 {
		return 2 * time.Hour
	}
	return h.ConnTTL
}

func (h *Handler) handleConnect(ctx context.Context, logger zerolog.Logger, req events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	conn := connectiondao.Connection{
		ConnectionID: req.RequestContext.ConnectionID,
		Endpoint:     callbackEndpoint(req),
		ConnectedAt:  time.Now().Unix(),
		TTL:          time.Now().Add(h.ttl()).Unix(),
	}

	if err := h.Connections.Put(ctx, conn); err != nil {
		logger.Error().Err(err).Msg("failed to store connection")
		return events.APIGatewayProxyResponse{StatusCode: 500}, nil
	}

	logger.Info().Msg("connection established")
	return events.APIGatewayProxyResponse{StatusCode: 200}, nil
}

func (h *Handler) handleDisconnect(ctx context.Context, logger zerolog.Logger, req events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	connID := req.RequestContext.ConnectionID

	if err := h.Subs.DeleteByConnection(ctx, connID); err != nil {
		logger.Error().Err(err).Msg("failed to delete subscriptions")
	}
	if err := h.Connections.Delete(ctx, connID); err != nil {
		logger.Error().Err(err).Msg("failed to delete connection")
	}

	logger.Info().Msg("connection closed")
	return events.APIGatewayProxyResponse{StatusCode: 200}, nil
}

func (h *Handler) handleMessage(ctx context.Context, logger zerolog.Logger, req events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	msg, err := ParseMessage(req.Body)
	if err != nil {
		logger.Warn().Err(err).Msg("invalid message")
		return events.APIGatewayProxyResponse{StatusCode: 400}, nil
	}

	connID := req.RequestContext.ConnectionID
	endpoint := callbackEndpoint(req)

	switch msg.Type {
	case MsgConnectionInit:
		return h.handleConnectionInit(ctx, logger, connID, endpoint, msg)
	case MsgSubscribe:
		return h.handleSubscribe(ctx, logger, connID, endpoint, msg)
	case MsgComplete:
		return h.handleComplete(ctx, logger, connID, msg)
	case MsgPing:
		if err := h.postToConnection(ctx, endpoint, connID, PongMessage()); err != nil {
			logger.Error().Err(err).Msg("failed to send pong")
		}
		return events.APIGatewayProxyResponse{StatusCode: 200}, nil
	default:
		logger.Warn().Str("type", msg.Type).Msg("unhandled message type")
		return events.APIGatewayProxyResponse{StatusCode: 200}, nil
	}
}

func (h *Handler) handleConnectionInit(ctx context.Context, logger zerolog.Logger, connID, endpoint string, msg *Message) (events.APIGatewayProxyResponse, error) {
	if len(msg.Payload) > 0 {
		var payload InitPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			logger.Warn().Err(err).Msg("invalid connection_init payload")
			return events.APIGatewayProxyResponse{StatusCode: 400}, nil
		}
		if payload.Authorization != "" {
			sub, err := h.authenticate(payload.Authorization)
			if err != nil {
				logger.Warn().Err(err).Msg("rejecting connection token")
				return events.APIGatewayProxyResponse{StatusCode: 401}, nil
			}
			if err := h.Connections.SetUser(ctx, connID, sub); err != nil {
				logger.Error().Err(err).Msg("failed to bind user to connection")
				return events.APIGatewayProxyResponse{StatusCode: 500}, nil
			}
		}
	}

	if err := h.postToConnection(ctx, endpoint, connID, AckMessage()); err != nil {
		logger.Error().Err(err).Msg("failed to send connection_ack")
		return events.APIGatewayProxyResponse{StatusCode: 500}, nil
	}
	return events.APIGatewayProxyResponse{StatusCode: 200}, nil
}

// authenticate verifies a connection_init bearer token against the configured
// secret and returns its subject. Tokens are never accepted unverified here.
func (h *Handler) authenticate(token string) (string, error) {
	if len(h.JWTSecret) == 0 {
		return "", fmt.Errorf("no token verification secret configured")
	}
	return identity.SubFromToken(token, h.JWTSecret)
}

func (h *Handler) handleSubscribe(ctx context.Context, logger zerolog.Logger, connID, endpoint string, msg *Message) (events.APIGatewayProxyResponse, error) {
	refuse := func(reason string) (events.APIGatewayProxyResponse, error) {
		if err := h.postToConnection(ctx, endpoint, connID, ErrorMessage(msg.ID, reason)); err != nil {
			logger.Error().Err(err).Msg("failed to send error")
		}
		return events.APIGatewayProxyResponse{StatusCode: 200}, nil
	}

	var payload SubscribePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		logger.Warn().Err(err).Msg("invalid subscribe payload")
		return refuse("invalid subscribe payload")
	}

	fieldName, args, err := ExtractSubscriptionField(payload)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to extract subscription field")
		return refuse(err.Error())
	}
	if err := h.Topics.ValidateField(fieldName); err != nil {
		logger.Warn().Err(err).Str("field", fieldName).Msg("unknown subscription field")
		return refuse(err.Error())
	}
	conn, err := h.Connections.Get(ctx, connID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load connection")
		return events.APIGatewayProxyResponse{StatusCode: 500}, nil
	}
	if conn == nil || conn.UserID == "" {
		return refuse("Unauthorized")
	}

	topic, gameID, err := h.Topics.ComputeTopic(fieldName, conn.UserID, args)
	if err != nil {
		logger.Warn().Err(err).Str("field", fieldName).Msg("failed to compute topic")
		return refuse(err.Error())
	}

	// gameID is empty for the user-scoped and system-scoped fields; only
	// game-scoped topics need the membership check.
	if gameID != "" {
		meta, err := h.Games.GetGameMeta(ctx, gameID)
		if err != nil {
			logger.Error().Err(err).Msg("failed to load game")
			return events.APIGatewayProxyResponse{StatusCode: 500}, nil
		}
		if meta == nil || !meta.IsMember(conn.UserID) {
			return refuse("Unauthorized")
		}
	}

	sub := subscriptiondao.Subscription{
		SubscriptionID: connID + "#" + msg.ID,
		ConnectionID:   connID,
		Topic:          topic,
		Endpoint:       endpoint,
		ClientSubID:    msg.ID,
		UserID:         conn.UserID,
		GameID:         gameID,
		TTL:            time.Now().Add(h.ttl()).Unix(),
	}
	if err := h.Subs.Put(ctx, sub); err != nil {
		logger.Error().Err(err).Msg("failed to store subscription")
		return refuse("internal error")
	}

	logger.Info().
		Str("sub_id", msg.ID).
		Str("field", fieldName).
		Str("topic", topic).
		Str("user_id", conn.UserID).
		Msg("subscription created")

	return events.APIGatewayProxyResponse{StatusCode: 200}, nil
}

func (h *Handler) handleComplete(ctx context.Context, logger zerolog.Logger, connID string, msg *Message) (events.APIGatewayProxyResponse, error) {
	subID := connID + "#" + msg.ID
	if err := h.Subs.Delete(ctx, subID); err != nil {
		logger.Error().Err(err).Str("sub_id", msg.ID).Msg("failed to delete subscription")
	}
	logger.Info().Str("sub_id", msg.ID).Msg("subscription completed")
	return events.APIGatewayProxyResponse{StatusCode: 200}, nil
}

func (h *Handler) postToConnection(ctx context.Context, endpoint, connID string, data []byte) error {
	sess := session.Must(session.NewSession(aws.NewConfig().WithEndpoint(endpoint)))
	client := apigatewaymanagementapi.New(sess)

	_, err := client.PostToConnectionWithContext(ctx, &apigatewaymanagementapi.PostToConnectionInput{
		ConnectionId: aws.String(connID),
		Data:         data,
	})
	return err
}

func callbackEndpoint(req events.APIGatewayWebsocketProxyRequest) string {
	return fmt.Sprintf("https://%s/%s", req.RequestContext.DomainName, req.RequestContext.Stage)
}
