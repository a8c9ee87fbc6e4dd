package wildseaddb

import (
	"context"

	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/rs/zerolog"

	"github.com/jarrod-lowe/wildsea-sub001/game"
	wildseaws "github.com/jarrod-lowe/wildsea-sub001/wildsea-ws"
)

// Sender publishes one fan-out payload to a topic.
type Sender interface {
	Send(ctx context.Context, topic string, payload interface{}) error
}

// ChangePublisher turns games-table stream images into WebSocket fan-out
// envelopes. Game-partition records feed the game-scoped topics, dice rolls
// the roll topic, settings the owning user's topic, and the system
// notification its shared topic. Records that no subscription field cares
// about (templates, connection bookkeeping) publish nothing.
type ChangePublisher struct {
	Publisher Sender
	Logger    zerolog.Logger
}

// OnInsert handles a new record appearing in the table.
func (p *ChangePublisher) OnInsert(ctx context.Context, newValue map[string]*dynamodb.AttributeValue) error {
	return p.publish(ctx, newValue, false)
}

// OnUpdate handles a record changing. Only the new image matters; subscribers
// get current state, not diffs.
func (p *ChangePublisher) OnUpdate(ctx context.Context, oldValue, newValue map[string]*dynamodb.AttributeValue) error {
	return p.publish(ctx, newValue, false)
}

// OnDelete handles a record disappearing, publishing deleted-flagged payloads
// built from the old image.
func (p *ChangePublisher) OnDelete(ctx context.Context, oldValue map[string]*dynamodb.AttributeValue) error {
	return p.publish(ctx, oldValue, true)
}

func (p *ChangePublisher) publish(ctx context.Context, image map[string]*dynamodb.AttributeValue, deleted bool) error {
	typeTag := typeOf(image)

	messages, err := fanoutMessages(image, typeTag, deleted)
	if err != nil {
		return err
	}

	for _, out := range messages {
		if err := p.Publisher.Send(ctx, out.Topic, out.Payload); err != nil {
			return err
		}
		p.Logger.Debug().
			Str("topic", out.Topic).
			Str("type", typeTag).
			Msg("published change")
	}
	return nil
}

// fanoutMessages routes a stream image to its subscription field by type tag.
// Rolls, settings, and notifications only ever announce current state, so
// their deletions (TTL expiry, cleanup) stay silent.
func fanoutMessages(image map[string]*dynamodb.AttributeValue, typeTag string, deleted bool) ([]wildseaws.Outbound, error) {
	switch typeTag {
	case game.TypeDiceRoll:
		if deleted {
			return nil, nil
		}
		var roll game.DiceRoll
		if err := ParseItem(image, &roll); err != nil {
			return nil, err
		}
		return wildseaws.DiceRollMessage(roll), nil

	case game.TypeNotification:
		if deleted {
			return nil, nil
		}
		var notification game.SystemNotification
		if err := ParseItem(image, &notification); err != nil {
			return nil, err
		}
		return wildseaws.NotificationMessage(notification), nil

	case game.TypeSettings:
		if deleted {
			return nil, nil
		}
		var settings game.UserSettings
		if err := ParseItem(image, &settings); err != nil {
			return nil, err
		}
		return wildseaws.SettingsMessage(settings), nil

	default:
		var rec game.Record
		if err := ParseItem(image, &rec); err != nil {
			return nil, err
		}
		if deleted {
			return wildseaws.DeletionMessages(rec), nil
		}
		return wildseaws.FanoutMessages(rec), nil
	}
}

func typeOf(image map[string]*dynamodb.AttributeValue) string {
	if attr, ok := image["type"]; ok && attr.S != nil {
		return *attr.S
	}
	return ""
}
