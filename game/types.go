// Package game holds the domain types for the Wildsea single-table layout,
// plus the pure transforms over them: partition aggregation, join code
// generation, and the typed error kinds surfaced through GraphQL.
package game

import "github.com/savaki/ddb"

// Record is the flat, untyped shape of any row in a game's partition. A
// partition query returns a heterogeneous mix of these; the Type tag says
// which attributes are meaningful. It doubles as the ddb table model.
type Record struct {
	PK     string `dynamodbav:"PK" ddb:"hash"`
	SK     string `dynamodbav:"SK" ddb:"range"`
	GSI1PK string `dynamodbav:"GSI1PK,omitempty" ddb:"gsi_hash:GSI1"`

	Type      string `dynamodbav:"type,omitempty"`
	CreatedAt string `dynamodbav:"createdAt,omitempty"`
	UpdatedAt string `dynamodbav:"updatedAt,omitempty"`

	// Game attributes
	GameID          string        `dynamodbav:"gameId,omitempty"`
	GameName        string        `dynamodbav:"gameName,omitempty"`
	GameDescription string        `dynamodbav:"gameDescription,omitempty"`
	GameType        string        `dynamodbav:"gameType,omitempty"`
	FireflyUserID   string        `dynamodbav:"fireflyUserId,omitempty"`
	JoinCode        string        `dynamodbav:"joinCode,omitempty"`
	Players         ddb.StringSet `dynamodbav:"players,omitempty"`

	// Player sheet attributes
	UserID        string `dynamodbav:"userId,omitempty"`
	CharacterName string `dynamodbav:"characterName,omitempty"`

	// Section attributes
	SectionID   string `dynamodbav:"sectionId,omitempty"`
	SectionName string `dynamodbav:"sectionName,omitempty"`
	SectionType string `dynamodbav:"sectionType,omitempty"`
	Content     string `dynamodbav:"content,omitempty"`
	Position    int32  `dynamodbav:"position"`
	PlayerType  string `dynamodbav:"playerType,omitempty"`
}

// Game is the public nested shape returned by getGame.
type Game struct {
	GameID          string
	GameName        string
	GameDescription string
	GameType        string
	PlayerSheets    []*PlayerSheet
	JoinCode        *string
	FireflyUserID   string
	CreatedAt       string
	UpdatedAt       string
	Type            string
}

type PlayerSheet struct {
	UserID        string
	GameID        string
	CharacterName string
	FireflyUserID string
	Sections      []*SheetSection
	CreatedAt     string
	UpdatedAt     string
	Type          string
}

type SheetSection struct {
	UserID      string
	GameID      string
	SectionID   string
	SectionName string
	SectionType string
	Content     string
	Position    int32
	CreatedAt   string
	UpdatedAt   string
	Type        string
	Deleted     bool
}

// GameSummary is the flat shape returned by game-level mutations.
type GameSummary struct {
	GameID          string
	GameName        string
	GameDescription string
	GameType        string
	JoinCode        *string
	FireflyUserID   string
	CreatedAt       string
	UpdatedAt       string
	Type            string
	Deleted         bool
}

// PlayerSheetSummary is a sheet without its sections, as listed by getGames.
type PlayerSheetSummary struct {
	UserID          string
	GameID          string
	GameName        string
	GameDescription string
	CharacterName   string
	CreatedAt       string
	UpdatedAt       string
	Type            string
	Deleted         bool
}

// GamesWithQuota pairs a player's game list with their remaining quota.
type GamesWithQuota struct {
	Games          []*PlayerSheetSummary
	RemainingGames int32
	TotalQuota     int32
}

type UserSettings struct {
	UserID    string `dynamodbav:"userId"`
	Settings  string `dynamodbav:"settings"`
	Type      string `dynamodbav:"type"`
	CreatedAt string `dynamodbav:"createdAt"`
	UpdatedAt string `dynamodbav:"updatedAt"`
}

// TemplateSection is one pre-canned section in a character template.
type TemplateSection struct {
	SectionName string
	SectionType string
	Content     string
	Position    int32
}

// Die is one rolled die. The dynamodbav tags let a stored roll round-trip
// through the table stream.
type Die struct {
	Type  string `dynamodbav:"type"`
	Size  int32  `dynamodbav:"size"`
	Value int32  `dynamodbav:"value"`
}

// DiceRoll is the result of rolling a set of dice within a game.
type DiceRoll struct {
	GameID       string `dynamodbav:"gameId"`
	PlayerID     string `dynamodbav:"playerId"`
	PlayerName   string `dynamodbav:"playerName"`
	Dice         []Die  `dynamodbav:"diceList"`
	RollType     string `dynamodbav:"rollType"`
	Target       int32  `dynamodbav:"target"`
	Grade        string `dynamodbav:"grade"`
	Action       string `dynamodbav:"action,omitempty"`
	Value        int32  `dynamodbav:"value"`
	MessageIndex int32  `dynamodbav:"messageIndex"`
	RolledAt     string `dynamodbav:"rolledAt"`
	Type         string `dynamodbav:"type"`
}

// SystemNotification is the single site-wide banner message.
type SystemNotification struct {
	Message   string `dynamodbav:"message"`
	Urgent    bool   `dynamodbav:"urgent"`
	Type      string `dynamodbav:"type"`
	CreatedAt string `dynamodbav:"createdAt"`
	UpdatedAt string `dynamodbav:"updatedAt"`
}

func (r Record) summary() *PlayerSheetSummary {
	return &PlayerSheetSummary{
		UserID:          r.UserID,
		GameID:          r.GameID,
		GameName:        r.GameName,
		GameDescription: r.GameDescription,
		CharacterName:   r.CharacterName,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Type:            r.Type,
	}
}

// SheetSummary reshapes a player-sheet record into its public summary form.
func (r Record) SheetSummary() *PlayerSheetSummary { return r.summary() }

// Section reshapes a section record into its public form.
func (r Record) Section() *SheetSection {
	return &SheetSection{
		UserID:      r.UserID,
		GameID:      r.GameID,
		SectionID:   r.SectionID,
		SectionName: r.SectionName,
		SectionType: r.SectionType,
		Content:     r.Content,
		Position:    r.Position,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Type:        r.Type,
	}
}

// Sheet reshapes a player-sheet record into its public form, with an empty
// section list ready to be filled in.
func (r Record) Sheet() *PlayerSheet {
	return &PlayerSheet{
		UserID:        r.UserID,
		GameID:        r.GameID,
		CharacterName: r.CharacterName,
		FireflyUserID: r.FireflyUserID,
		Sections:      []*SheetSection{},
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Type:          r.Type,
	}
}

// Summary reshapes a game record into its public summary form. The join code
// is included only when the caller owns the game.
func (r Record) Summary(callerSub string) *GameSummary {
	s := &GameSummary{
		GameID:          r.GameID,
		GameName:        r.GameName,
		GameDescription: r.GameDescription,
		GameType:        r.GameType,
		FireflyUserID:   r.FireflyUserID,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Type:            r.Type,
	}
	if r.FireflyUserID == callerSub && r.JoinCode != "" {
		code := r.JoinCode
		s.JoinCode = &code
	}
	return s
}

// IsMember reports whether sub is the game's owner or in its player set.
func (r Record) IsMember(sub string) bool {
	if r.FireflyUserID == sub {
		return true
	}
	for _, p := range r.Players {
		if p == sub {
			return true
		}
	}
	return false
}
