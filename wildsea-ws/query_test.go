package wildseaws

import (
	"testing"

	"github.com/tj/assert"
)

func TestExtractSubscriptionField(t *testing.T) {
	t.Run("basic subscription", func(t *testing.T) {
		field, args, err := ExtractSubscriptionField(SubscribePayload{
			Query:     `subscription { updatedSection(gameId: "g1") { sectionId content } }`,
			Variables: map[string]interface{}{"gameId": "g1"},
		})
		assert.NoError(t, err)
		assert.Equal(t, "updatedSection", field)
		assert.Equal(t, "g1", args["gameId"])
	})

	t.Run("named subscription", func(t *testing.T) {
		field, _, err := ExtractSubscriptionField(SubscribePayload{
			Query: `subscription WatchRoster { updatedPlayer { gameId } }`,
		})
		assert.NoError(t, err)
		assert.Equal(t, "updatedPlayer", field)
	})

	t.Run("implicit subscription", func(t *testing.T) {
		field, _, err := ExtractSubscriptionField(SubscribePayload{
			Query: `{ updatedPlayerSheet { userId } }`,
		})
		assert.NoError(t, err)
		assert.Equal(t, "updatedPlayerSheet", field)
	})

	t.Run("with variables", func(t *testing.T) {
		field, args, err := ExtractSubscriptionField(SubscribePayload{
			Query:     `subscription($gameId: String!) { updatedSection(gameId: $gameId) { sectionId } }`,
			Variables: map[string]interface{}{"gameId": "g42"},
		})
		assert.NoError(t, err)
		assert.Equal(t, "updatedSection", field)
		assert.Equal(t, "g42", args["gameId"])
	})

	t.Run("empty query fails", func(t *testing.T) {
		_, _, err := ExtractSubscriptionField(SubscribePayload{Query: ""})
		assert.Error(t, err)
	})
}

func TestProtocol(t *testing.T) {
	t.Run("ParseMessage", func(t *testing.T) {
		msg, err := ParseMessage(`{"type":"connection_init","payload":{"Authorization":"Bearer abc"}}`)
		assert.NoError(t, err)
		assert.Equal(t, MsgConnectionInit, msg.Type)
	})

	t.Run("ParseMessage missing type", func(t *testing.T) {
		_, err := ParseMessage(`{"id":"1"}`)
		assert.Error(t, err)
	})

	t.Run("AckMessage", func(t *testing.T) {
		msg, err := ParseMessage(string(AckMessage()))
		assert.NoError(t, err)
		assert.Equal(t, MsgConnectionAck, msg.Type)
	})

	t.Run("NextMessage", func(t *testing.T) {
		data, err := NextMessage("1", map[string]string{"gameId": "g1"})
		assert.NoError(t, err)
		msg, err := ParseMessage(string(data))
		assert.NoError(t, err)
		assert.Equal(t, MsgNext, msg.Type)
		assert.Equal(t, "1", msg.ID)
	})

	t.Run("ErrorMessage", func(t *testing.T) {
		msg, err := ParseMessage(string(ErrorMessage("1", "something went wrong")))
		assert.NoError(t, err)
		assert.Equal(t, MsgError, msg.Type)
		assert.Equal(t, "1", msg.ID)
	})
}
