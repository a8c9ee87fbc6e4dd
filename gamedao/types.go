package gamedao

import "github.com/jarrod-lowe/wildsea-sub001/game"

// GameItem is the write shape of a game record.
type GameItem struct {
	PK     string `dynamodbav:"PK"`
	SK     string `dynamodbav:"SK"`
	GSI1PK string `dynamodbav:"GSI1PK"`

	GameID          string `dynamodbav:"gameId"`
	GameName        string `dynamodbav:"gameName"`
	GameDescription string `dynamodbav:"gameDescription,omitempty"`
	GameType        string `dynamodbav:"gameType,omitempty"`
	FireflyUserID   string `dynamodbav:"fireflyUserId"`
	JoinCode        string `dynamodbav:"joinCode"`
	CreatedAt       string `dynamodbav:"createdAt"`
	UpdatedAt       string `dynamodbav:"updatedAt"`
	Type            string `dynamodbav:"type"`
}

// SheetItem is the write shape of a player sheet record. Game name and
// description are shadowed onto the sheet so the per-user index can list a
// player's games without fetching each game record.
type SheetItem struct {
	PK     string `dynamodbav:"PK"`
	SK     string `dynamodbav:"SK"`
	GSI1PK string `dynamodbav:"GSI1PK"`

	UserID          string `dynamodbav:"userId"`
	GameID          string `dynamodbav:"gameId"`
	GameName        string `dynamodbav:"gameName"`
	GameDescription string `dynamodbav:"gameDescription,omitempty"`
	GameType        string `dynamodbav:"gameType,omitempty"`
	CharacterName   string `dynamodbav:"characterName"`
	FireflyUserID   string `dynamodbav:"fireflyUserId"`
	CreatedAt       string `dynamodbav:"createdAt"`
	UpdatedAt       string `dynamodbav:"updatedAt"`
	Type            string `dynamodbav:"type"`
}

// SectionItem is the write shape of a sheet section record. PlayerType
// records the owning sheet's type so ship sections stay writable by any
// member via the shared-write condition.
type SectionItem struct {
	PK     string `dynamodbav:"PK"`
	SK     string `dynamodbav:"SK"`
	GSI1PK string `dynamodbav:"GSI1PK"`

	UserID      string `dynamodbav:"userId"`
	GameID      string `dynamodbav:"gameId"`
	SectionID   string `dynamodbav:"sectionId"`
	SectionName string `dynamodbav:"sectionName"`
	SectionType string `dynamodbav:"sectionType"`
	Content     string `dynamodbav:"content,omitempty"`
	Position    int32  `dynamodbav:"position"`
	PlayerType  string `dynamodbav:"playerType,omitempty"`
	CreatedAt   string `dynamodbav:"createdAt"`
	UpdatedAt   string `dynamodbav:"updatedAt"`
	Type        string `dynamodbav:"type"`
}

// NewGameItem builds a game record with its join-code index entry.
func NewGameItem(gameID, name, description, gameType, ownerSub, joinCode, now string) GameItem {
	return GameItem{
		PK:              game.GamePK(gameID),
		SK:              game.GameSK(),
		GSI1PK:          game.JoinGSI1(joinCode),
		GameID:          gameID,
		GameName:        name,
		GameDescription: description,
		GameType:        gameType,
		FireflyUserID:   ownerSub,
		JoinCode:        joinCode,
		CreatedAt:       now,
		UpdatedAt:       now,
		Type:            game.TypeGame,
	}
}

// NewSheetItem builds a player sheet record of the given variant.
func NewSheetItem(gameRec *game.Record, userID, characterName, sheetType, now string) SheetItem {
	return SheetItem{
		PK:              game.GamePK(gameRec.GameID),
		SK:              game.PlayerSK(userID),
		GSI1PK:          game.UserGSI1(userID),
		UserID:          userID,
		GameID:          gameRec.GameID,
		GameName:        gameRec.GameName,
		GameDescription: gameRec.GameDescription,
		GameType:        gameRec.GameType,
		CharacterName:   characterName,
		FireflyUserID:   gameRec.FireflyUserID,
		CreatedAt:       now,
		UpdatedAt:       now,
		Type:            sheetType,
	}
}

// DiceRollItem is the write shape of a dice roll record. Rolls live in the
// game's partition so the change stream carries them to subscribers; TTL
// expires them after the table's retention window.
type DiceRollItem struct {
	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`

	game.DiceRoll
	TTL int64 `dynamodbav:"ttl"`
}

// NewDiceRollItem keys a roll into its game's partition.
func NewDiceRollItem(rollID string, roll game.DiceRoll, ttl int64) DiceRollItem {
	return DiceRollItem{
		PK:       game.GamePK(roll.GameID),
		SK:       game.RollSK(rollID),
		DiceRoll: roll,
		TTL:      ttl,
	}
}

// UpdateSectionSpec names the section to update and the fields to change.
// Nil fields are left untouched.
type UpdateSectionSpec struct {
	GameID      string
	SectionID   string
	SectionName *string
	Content     *string
	Position    *int32
}
