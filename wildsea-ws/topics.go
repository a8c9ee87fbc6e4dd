package wildseaws

import (
	"fmt"

	"github.com/jarrod-lowe/wildsea-sub001/game"
)

// Subscription field names.
const (
	FieldUpdatedPlayer       = "updatedPlayer"
	FieldUpdatedPlayerSheet  = "updatedPlayerSheet"
	FieldUpdatedSection      = "updatedSection"
	FieldDiceRolled          = "diceRolled"
	FieldSystemNotification  = "systemNotificationUpdated"
	FieldUpdatedUserSettings = "updatedUserSettings"
)

// SystemScope keys the subscriptions that are not bound to any game.
const SystemScope = "SYSTEM"

// Topic is the fan-out key for one subscription field of one scope: a game,
// a user, or the system scope.
func Topic(scope, fieldName string) string {
	return scope + "#" + fieldName
}

// Topics resolves Wildsea subscription fields to topics. Game-keyed fields
// take their scope from the gameId argument, settings updates are keyed by the
// subscribing user, and the system notification has a single shared scope.
type Topics struct{}

func (Topics) ValidateField(fieldName string) error {
	switch fieldName {
	case FieldUpdatedPlayer, FieldUpdatedPlayerSheet, FieldUpdatedSection,
		FieldDiceRolled, FieldSystemNotification, FieldUpdatedUserSettings:
		return nil
	}
	return fmt.Errorf("unknown subscription field %q", fieldName)
}

// ComputeTopic returns the topic for a subscribe request, plus the game the
// caller must be a member of. An empty gameID means the field needs no
// membership check.
func (Topics) ComputeTopic(fieldName, userID string, args map[string]interface{}) (topic, gameID string, err error) {
	switch fieldName {
	case FieldSystemNotification:
		return Topic(SystemScope, fieldName), "", nil
	case FieldUpdatedUserSettings:
		return Topic(userID, fieldName), "", nil
	}

	gameID, ok := args["gameId"].(string)
	if !ok || gameID == "" {
		return "", "", fmt.Errorf("subscription %v requires a gameId argument", fieldName)
	}
	return Topic(gameID, fieldName), gameID, nil
}

// Outbound is one message to publish for a changed record: the topic it goes
// to and the graphql-ws next payload to deliver.
type Outbound struct {
	Topic   string
	Payload interface{}
}

// FanoutMessages maps a changed table record to the subscription fields that
// care about it. GAME records feed the roster subscription, sheet records the
// sheet subscription, SECTION records the section subscription. The join code
// never rides along; subscribers see the redacted summary.
func FanoutMessages(rec game.Record) []Outbound {
	if rec.GameID == "" {
		return nil
	}

	switch rec.Type {
	case game.TypeGame:
		return []Outbound{{
			Topic:   Topic(rec.GameID, FieldUpdatedPlayer),
			Payload: nextData(FieldUpdatedPlayer, rec.Summary("")),
		}}
	case game.TypeCharacter, game.TypeFirefly, game.TypeShip:
		return []Outbound{{
			Topic:   Topic(rec.GameID, FieldUpdatedPlayerSheet),
			Payload: nextData(FieldUpdatedPlayerSheet, rec.SheetSummary()),
		}}
	case game.TypeSection:
		return []Outbound{{
			Topic:   Topic(rec.GameID, FieldUpdatedSection),
			Payload: nextData(FieldUpdatedSection, rec.Section()),
		}}
	}
	return nil
}

// DeletionMessages is the FanoutMessages counterpart for removed records; the
// payloads carry deleted: true so clients can drop local state.
func DeletionMessages(rec game.Record) []Outbound {
	if rec.GameID == "" {
		return nil
	}

	switch rec.Type {
	case game.TypeGame:
		summary := rec.Summary("")
		summary.Deleted = true
		return []Outbound{{
			Topic:   Topic(rec.GameID, FieldUpdatedPlayer),
			Payload: nextData(FieldUpdatedPlayer, summary),
		}}
	case game.TypeCharacter, game.TypeFirefly, game.TypeShip:
		summary := rec.SheetSummary()
		summary.Deleted = true
		return []Outbound{{
			Topic:   Topic(rec.GameID, FieldUpdatedPlayerSheet),
			Payload: nextData(FieldUpdatedPlayerSheet, summary),
		}}
	case game.TypeSection:
		section := rec.Section()
		section.Deleted = true
		return []Outbound{{
			Topic:   Topic(rec.GameID, FieldUpdatedSection),
			Payload: nextData(FieldUpdatedSection, section),
		}}
	}
	return nil
}

// DiceRollMessage fans a stored roll out to the game's dice subscribers.
func DiceRollMessage(roll game.DiceRoll) []Outbound {
	if roll.GameID == "" {
		return nil
	}
	return []Outbound{{
		Topic:   Topic(roll.GameID, FieldDiceRolled),
		Payload: nextData(FieldDiceRolled, roll),
	}}
}

// NotificationMessage fans the system notification out to every subscriber.
func NotificationMessage(notification game.SystemNotification) []Outbound {
	return []Outbound{{
		Topic:   Topic(SystemScope, FieldSystemNotification),
		Payload: nextData(FieldSystemNotification, notification),
	}}
}

// SettingsMessage fans a settings change out to the owning user's other
// sessions.
func SettingsMessage(settings game.UserSettings) []Outbound {
	if settings.UserID == "" {
		return nil
	}
	return []Outbound{{
		Topic:   Topic(settings.UserID, FieldUpdatedUserSettings),
		Payload: nextData(FieldUpdatedUserSettings, settings),
	}}
}

func nextData(fieldName string, value interface{}) map[string]interface{} {
	return map[string]interface{}{
		"data": map[string]interface{}{fieldName: value},
	}
}
