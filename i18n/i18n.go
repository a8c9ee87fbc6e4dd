// Package i18n is a small message catalog for client-facing error strings.
// Lookups fall back to English, then to the raw key, so Message is total.
package i18n

const defaultLanguage = "en"

// Messages organized by language, so translators can work on one language at
// a time.
var translations = map[string]map[string]string{
	"en": {
		"joinGame.cannotJoinOwnGame": "You cannot join your own game",
		"joinGame.alreadyPlayer":     "You are already a player in this game",
		"joinGame.quotaExceeded":     "Game quota exceeded",
		"template.notFound":          "Template not found",
		"player.cannotDelete":        "Cannot delete firefly sheet",
		"game.notFound":              "Game not found",
		"sheet.notFound":             "Sheet not found",
		"gameRecord.notFound":        "Game record not found",
		"game.unknownType":           "Unknown type",
		"game.invalidType":           "Invalid game type",
		"settings.sizeExceeded":      "Settings exceed size limit",
	},
	"tlh": {
		// Klingon translations - these are placeholders and would need proper translation
		"joinGame.cannotJoinOwnGame": "nugh DIch DIch DIlo'meH DIch DIch",
		"joinGame.alreadyPlayer":     "DIch naQ DIch DIch",
		"joinGame.quotaExceeded":     "nugh DIch 'Iq",
		"template.notFound":          "nugh DIch tu'lu'be'",
		"player.cannotDelete":        "DIch DIch lan DIch",
		"game.notFound":              "nugh DIch tu'lu'be'",
		"sheet.notFound":             "naQ DIch tu'lu'be'",
		"gameRecord.notFound":        "nugh DIch teywI' tu'lu'be'",
		"game.unknownType":           "Sovbe'ghach Segh",
		"game.invalidType":           "nugh DIch lo'taHbe'",
		"settings.sizeExceeded":      "nugh DIch nugh DIch lo'taHbe'",
	},
}

// Message returns the localized string for key, falling back to English, then
// to the key itself. An optional single value is appended after ": ".
func Message(key, language string, value ...string) string {
	msg, ok := translations[language][key]
	if !ok {
		msg, ok = translations[defaultLanguage][key]
	}
	if !ok {
		msg = key
	}
	if len(value) > 0 && value[0] != "" {
		msg = msg + ": " + value[0]
	}
	return msg
}

// SupportedLanguages lists the language codes with a message table.
func SupportedLanguages() []string {
	langs := make([]string, 0, len(translations))
	for lang := range translations {
		langs = append(langs, lang)
	}
	return langs
}
