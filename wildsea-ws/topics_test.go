package wildseaws

import (
	"testing"

	"github.com/tj/assert"

	"github.com/jarrod-lowe/wildsea-sub001/game"
)

func TestTopics(t *testing.T) {
	topics := Topics{}

	assert.NoError(t, topics.ValidateField("updatedPlayer"))
	assert.NoError(t, topics.ValidateField("updatedPlayerSheet"))
	assert.NoError(t, topics.ValidateField("updatedSection"))
	assert.NoError(t, topics.ValidateField("diceRolled"))
	assert.NoError(t, topics.ValidateField("systemNotificationUpdated"))
	assert.NoError(t, topics.ValidateField("updatedUserSettings"))
	assert.Error(t, topics.ValidateField("poolUpdated"))

	topic, gameID, err := topics.ComputeTopic("updatedSection", "u1", map[string]interface{}{"gameId": "g1"})
	assert.NoError(t, err)
	assert.Equal(t, "g1#updatedSection", topic)
	assert.Equal(t, "g1", gameID)

	_, _, err = topics.ComputeTopic("updatedSection", "u1", map[string]interface{}{})
	assert.Error(t, err)

	// dice rolls are game-scoped like the other game fields
	topic, gameID, err = topics.ComputeTopic("diceRolled", "u1", map[string]interface{}{"gameId": "g1"})
	assert.NoError(t, err)
	assert.Equal(t, "g1#diceRolled", topic)
	assert.Equal(t, "g1", gameID)

	// the settings topic is keyed by the subscribing user, not an argument,
	// so nobody can listen on another user's settings
	topic, gameID, err = topics.ComputeTopic("updatedUserSettings", "u1", map[string]interface{}{"userId": "victim"})
	assert.NoError(t, err)
	assert.Equal(t, "u1#updatedUserSettings", topic)
	assert.Equal(t, "", gameID)

	// the system notification is one shared scope with no membership gate
	topic, gameID, err = topics.ComputeTopic("systemNotificationUpdated", "u1", nil)
	assert.NoError(t, err)
	assert.Equal(t, "SYSTEM#systemNotificationUpdated", topic)
	assert.Equal(t, "", gameID)
}

func TestFanoutMessages(t *testing.T) {
	t.Run("game record feeds the roster topic without the join code", func(t *testing.T) {
		out := FanoutMessages(game.Record{
			Type:          game.TypeGame,
			GameID:        "g1",
			GameName:      "n",
			FireflyUserID: "owner",
			JoinCode:      "ABCDEF",
		})
		assert.Len(t, out, 1)
		assert.Equal(t, "g1#updatedPlayer", out[0].Topic)

		data := out[0].Payload.(map[string]interface{})["data"].(map[string]interface{})
		summary := data["updatedPlayer"].(*game.GameSummary)
		assert.Nil(t, summary.JoinCode)
	})

	t.Run("sheet records feed the sheet topic", func(t *testing.T) {
		for _, tag := range []string{game.TypeCharacter, game.TypeFirefly, game.TypeShip} {
			out := FanoutMessages(game.Record{Type: tag, GameID: "g1", UserID: "u1"})
			assert.Len(t, out, 1)
			assert.Equal(t, "g1#updatedPlayerSheet", out[0].Topic)
		}
	})

	t.Run("section records feed the section topic", func(t *testing.T) {
		out := FanoutMessages(game.Record{Type: game.TypeSection, GameID: "g1", SectionID: "s1"})
		assert.Len(t, out, 1)
		assert.Equal(t, "g1#updatedSection", out[0].Topic)
	})

	t.Run("records without a game fan out nowhere", func(t *testing.T) {
		assert.Len(t, FanoutMessages(game.Record{Type: game.TypeSettings}), 0)
		assert.Len(t, FanoutMessages(game.Record{Type: "WHATEVER", GameID: "g1"}), 0)
		assert.Len(t, FanoutMessages(game.Record{Type: game.TypeSection}), 0)
	})
}

func TestRollAndNotificationMessages(t *testing.T) {
	out := DiceRollMessage(game.DiceRoll{GameID: "g1", PlayerID: "p1", Value: 7})
	assert.Len(t, out, 1)
	assert.Equal(t, "g1#diceRolled", out[0].Topic)

	assert.Len(t, DiceRollMessage(game.DiceRoll{}), 0)

	out = NotificationMessage(game.SystemNotification{Message: "maintenance"})
	assert.Len(t, out, 1)
	assert.Equal(t, "SYSTEM#systemNotificationUpdated", out[0].Topic)

	out = SettingsMessage(game.UserSettings{UserID: "u1", Settings: "{}"})
	assert.Len(t, out, 1)
	assert.Equal(t, "u1#updatedUserSettings", out[0].Topic)

	assert.Len(t, SettingsMessage(game.UserSettings{}), 0)
}

func TestDeletionMessages(t *testing.T) {
	out := DeletionMessages(game.Record{Type: game.TypeSection, GameID: "g1", SectionID: "s1"})
	assert.Len(t, out, 1)

	data := out[0].Payload.(map[string]interface{})["data"].(map[string]interface{})
	section := data["updatedSection"].(*game.SheetSection)
	assert.True(t, section.Deleted)
}
