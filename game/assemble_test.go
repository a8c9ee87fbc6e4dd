package game

import (
	"errors"
	"testing"

	"github.com/tj/assert"
)

func gameRecord() Record {
	return Record{
		PK: "GAME#g1", SK: "GAME", Type: TypeGame,
		GameID: "g1", GameName: "Into the Wilds", GameDescription: "a voyage",
		GameType: "wildsea", FireflyUserID: "owner", JoinCode: "ABCDEF",
	}
}

func sheetRecord(userID, tag string) Record {
	return Record{
		PK: "GAME#g1", SK: "PLAYER#" + userID, Type: tag,
		GameID: "g1", UserID: userID, CharacterName: "c-" + userID,
	}
}

func sectionRecord(userID, sectionID string) Record {
	return Record{
		PK: "GAME#g1", SK: "SECTION#" + sectionID, Type: TypeSection,
		GameID: "g1", UserID: userID, SectionID: sectionID, SectionName: "n-" + sectionID,
	}
}

func TestAssemble(t *testing.T) {
	items := []Record{
		gameRecord(),
		sheetRecord("owner", TypeFirefly),
		sheetRecord("p2", TypeCharacter),
		sectionRecord("p2", "s1"),
		sheetRecord("p1", TypeCharacter),
		sectionRecord("p1", "s2"),
		sectionRecord("p2", "s3"),
	}

	g, err := Assemble(items, "owner", "en")
	assert.Nil(t, err)
	assert.Equal(t, "g1", g.GameID)
	assert.Equal(t, "Into the Wilds", g.GameName)

	// sheets come out sorted by user id regardless of arrival order
	assert.Len(t, g.PlayerSheets, 3)
	assert.Equal(t, "owner", g.PlayerSheets[0].UserID)
	assert.Equal(t, "p1", g.PlayerSheets[1].UserID)
	assert.Equal(t, "p2", g.PlayerSheets[2].UserID)

	// sections landed on their owning sheets
	assert.Len(t, g.PlayerSheets[0].Sections, 0)
	assert.Len(t, g.PlayerSheets[1].Sections, 1)
	assert.Len(t, g.PlayerSheets[2].Sections, 2)
	assert.Equal(t, "s1", g.PlayerSheets[2].Sections[0].SectionID)
	assert.Equal(t, "s3", g.PlayerSheets[2].Sections[1].SectionID)
}

func TestAssembleJoinCodeRedaction(t *testing.T) {
	items := []Record{gameRecord(), sheetRecord("owner", TypeFirefly), sheetRecord("p1", TypeCharacter)}

	g, err := Assemble(items, "owner", "en")
	assert.Nil(t, err)
	assert.NotNil(t, g.JoinCode)
	assert.Equal(t, "ABCDEF", *g.JoinCode)

	g, err = Assemble(items, "p1", "en")
	assert.Nil(t, err)
	assert.Nil(t, g.JoinCode)
}

func TestAssembleEmpty(t *testing.T) {
	_, err := Assemble(nil, "owner", "en")
	assert.NotNil(t, err)
	assert.Equal(t, "Game not found", err.Error())

	var gameErr *Error
	assert.True(t, errors.As(err, &gameErr))
	assert.Equal(t, KindNotFound, gameErr.Kind)
}

func TestAssembleMissingGameRecord(t *testing.T) {
	items := []Record{sheetRecord("p1", TypeCharacter)}
	_, err := Assemble(items, "p1", "en")
	assert.NotNil(t, err)
	assert.Equal(t, "Game record not found", err.Error())

	var gameErr *Error
	assert.True(t, errors.As(err, &gameErr))
	assert.Equal(t, KindNotFound, gameErr.Kind)
}

func TestAssembleSectionBeforeSheet(t *testing.T) {
	items := []Record{gameRecord(), sectionRecord("p1", "s1"), sheetRecord("p1", TypeCharacter)}
	_, err := Assemble(items, "p1", "en")
	assert.NotNil(t, err)
	assert.Equal(t, "Sheet not found", err.Error())

	var gameErr *Error
	assert.True(t, errors.As(err, &gameErr))
	assert.Equal(t, KindInvariant, gameErr.Kind)
}

func TestAssembleSkipsRolls(t *testing.T) {
	items := []Record{
		gameRecord(),
		sheetRecord("p1", TypeCharacter),
		{PK: "GAME#g1", SK: "ROLL#r1", Type: TypeDiceRoll, GameID: "g1"},
	}
	g, err := Assemble(items, "p1", "en")
	assert.Nil(t, err)
	assert.Len(t, g.PlayerSheets, 1)
}

func TestAssembleUnknownType(t *testing.T) {
	items := []Record{gameRecord(), {PK: "GAME#g1", SK: "X", Type: "MYSTERY", GameID: "g1"}}
	_, err := Assemble(items, "owner", "en")
	assert.NotNil(t, err)
	assert.Equal(t, "Unknown type: MYSTERY", err.Error())

	var gameErr *Error
	assert.True(t, errors.As(err, &gameErr))
	assert.Equal(t, KindInvariant, gameErr.Kind)
}

func TestAssembleLocalizedErrors(t *testing.T) {
	_, err := Assemble(nil, "owner", "tlh")
	assert.NotNil(t, err)
	assert.NotEqual(t, "Game not found", err.Error())
}

func TestIsMember(t *testing.T) {
	rec := Record{FireflyUserID: "owner", Players: []string{"p1", "p2"}}
	assert.True(t, rec.IsMember("owner"))
	assert.True(t, rec.IsMember("p1"))
	assert.False(t, rec.IsMember("stranger"))
}
