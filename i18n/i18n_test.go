package i18n

import (
	"testing"

	"github.com/tj/assert"
)

func TestMessage(t *testing.T) {
	assert.Equal(t, "Game not found", Message("game.notFound", "en"))
	assert.Equal(t, "nugh DIch tu'lu'be'", Message("game.notFound", "tlh"))
}

func TestMessageFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, "Game not found", Message("game.notFound", "xx"))
}

func TestMessageFallsBackToKey(t *testing.T) {
	assert.Equal(t, "no.such.key", Message("no.such.key", "en"))
	assert.Equal(t, "no.such.key", Message("no.such.key", "xx"))
}

func TestMessageAppendsValue(t *testing.T) {
	assert.Equal(t, "Game quota exceeded: 10/10", Message("joinGame.quotaExceeded", "en", "10/10"))
	assert.Equal(t, "Game quota exceeded", Message("joinGame.quotaExceeded", "en", ""))
}

func TestSupportedLanguages(t *testing.T) {
	langs := SupportedLanguages()
	assert.Contains(t, langs, "en")
	assert.Contains(t, langs, "tlh")
}

func TestEveryLanguageCoversEveryKey(t *testing.T) {
	for key := range translations[defaultLanguage] {
		for lang, table := range translations {
			_, ok := table[key]
			assert.True(t, ok, "%v missing %v", lang, key)
		}
	}
}
