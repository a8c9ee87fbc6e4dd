package game

import (
	"sort"

	"github.com/jarrod-lowe/wildsea-sub001/i18n"
)

// Assemble turns the flat record set of one game partition into a nested Game.
//
// The scan is a single pass in arrival order: sheets accumulate into a map
// keyed by user ID, and each section looks up its owning sheet at the moment
// it is encountered. A section that arrives before its sheet is an invariant
// failure, not a reordering case. Callers rely on this exact contract.
//
// The join code is included only when callerSub owns the game.
func Assemble(items []Record, callerSub, lang string) (*Game, error) {
	if len(items) == 0 {
		return nil, NotFound(i18n.Message("game.notFound", lang))
	}

	var gameRec *Record
	sheets := map[string]*PlayerSheet{}

	for i := range items {
		item := items[i]
		switch item.Type {
		case TypeCharacter, TypeFirefly, TypeShip:
			sheet := item.Sheet()
			sheets[sheet.UserID] = sheet
		case TypeSection:
			sheet, ok := sheets[item.UserID]
			if !ok {
				return nil, Invariant(i18n.Message("sheet.notFound", lang))
			}
			sheet.Sections = append(sheet.Sections, item.Section())
		case TypeGame:
			gameRec = &items[i]
		case TypeDiceRoll:
			// transient records sharing the partition; not part of the game
		default:
			return nil, Invariant(i18n.Message("game.unknownType", lang, item.Type))
		}
	}

	if gameRec == nil {
		return nil, NotFound(i18n.Message("gameRecord.notFound", lang))
	}

	g := &Game{
		GameID:          gameRec.GameID,
		GameName:        gameRec.GameName,
		GameDescription: gameRec.GameDescription,
		GameType:        gameRec.GameType,
		PlayerSheets:    []*PlayerSheet{},
		FireflyUserID:   gameRec.FireflyUserID,
		CreatedAt:       gameRec.CreatedAt,
		UpdatedAt:       gameRec.UpdatedAt,
		Type:            gameRec.Type,
	}
	if gameRec.FireflyUserID == callerSub && gameRec.JoinCode != "" {
		code := gameRec.JoinCode
		g.JoinCode = &code
	}

	// Deterministic sheet order, independent of storage scan order. Plain
	// byte sort, not locale-aware.
	userIDs := make([]string, 0, len(sheets))
	for userID := range sheets {
		userIDs = append(userIDs, userID)
	}
	sort.Strings(userIDs)
	for _, userID := range userIDs {
		g.PlayerSheets = append(g.PlayerSheets, sheets[userID])
	}

	return g, nil
}
