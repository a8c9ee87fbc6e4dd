package wildseaapi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/savaki/ddb"
	"github.com/tj/assert"

	"github.com/jarrod-lowe/wildsea-sub001/game"
	"github.com/jarrod-lowe/wildsea-sub001/gamedao"
	"github.com/jarrod-lowe/wildsea-sub001/identity"
	"github.com/jarrod-lowe/wildsea-sub001/templatedao"
	wildseacli "github.com/jarrod-lowe/wildsea-sub001/wildsea-cli"
	wildseagql "github.com/jarrod-lowe/wildsea-sub001/wildsea-gql"
)

type fakeGames struct {
	meta       map[string]*game.Record
	records    map[string][]game.Record
	sheets     map[string]*game.Record // key gameID/userID
	sections   map[string][]game.Record
	byJoinCode map[string]*game.Record
	gameCount  int64

	created   []gamedao.GameItem
	joined    []gamedao.SheetItem
	deleted   []string
	putItems  []gamedao.SectionItem
	shipItems []gamedao.SheetItem
	rolls     []gamedao.DiceRollItem
}

func (f *fakeGames) GetGameRecords(ctx context.Context, gameID string) ([]game.Record, error) {
	return f.records[gameID], nil
}

func (f *fakeGames) GetGameMeta(ctx context.Context, gameID string) (*game.Record, error) {
	return f.meta[gameID], nil
}

func (f *fakeGames) GetGameByJoinCode(ctx context.Context, joinCode string) (*game.Record, error) {
	return f.byJoinCode[joinCode], nil
}

func (f *fakeGames) GetPlayerSheet(ctx context.Context, gameID, userID string) (*game.Record, error) {
	return f.sheets[gameID+"/"+userID], nil
}

func (f *fakeGames) CountUserGames(ctx context.Context, sub string) (int64, error) {
	return f.gameCount, nil
}

func (f *fakeGames) ListUserGames(ctx context.Context, sub string) ([]game.Record, error) {
	return f.records["user/"+sub], nil
}

func (f *fakeGames) ListPlayerSections(ctx context.Context, gameID, userID string) ([]game.Record, error) {
	return f.sections[gameID+"/"+userID], nil
}

func (f *fakeGames) CreateGame(ctx context.Context, gameItem gamedao.GameItem, fireflyItem gamedao.SheetItem) error {
	f.created = append(f.created, gameItem)
	return nil
}

func (f *fakeGames) JoinGame(ctx context.Context, gameID string, sheetItem gamedao.SheetItem, now string) error {
	f.joined = append(f.joined, sheetItem)
	return nil
}

func (f *fakeGames) CreateSection(ctx context.Context, item gamedao.SectionItem, callerSub string, asService bool) error {
	f.putItems = append(f.putItems, item)
	return nil
}

func (f *fakeGames) UpdateSection(ctx context.Context, spec gamedao.UpdateSectionSpec, callerSub, now string) (*game.Record, error) {
	return &game.Record{
		GameID:      spec.GameID,
		SectionID:   spec.SectionID,
		SectionName: stringValue(spec.SectionName),
		Type:        game.TypeSection,
		UpdatedAt:   now,
	}, nil
}

func (f *fakeGames) DeleteSection(ctx context.Context, gameID, sectionID, callerSub string) (*game.Record, error) {
	return &game.Record{
		GameID:    gameID,
		SectionID: sectionID,
		Type:      game.TypeSection,
	}, nil
}

func (f *fakeGames) CreateShip(ctx context.Context, item gamedao.SheetItem) error {
	f.shipItems = append(f.shipItems, item)
	return nil
}

func (f *fakeGames) UpdatePlayerSheet(ctx context.Context, gameID, userID, callerSub, characterName, now string) (*game.Record, error) {
	return &game.Record{
		GameID:        gameID,
		UserID:        userID,
		CharacterName: characterName,
		Type:          game.TypeCharacter,
		UpdatedAt:     now,
	}, nil
}

func (f *fakeGames) DeletePlayer(ctx context.Context, gameID, userID, callerSub string, asService bool, sectionIDs []string, now string) error {
	f.deleted = append(f.deleted, gameID+"/"+userID)
	return nil
}

func (f *fakeGames) UpdateGame(ctx context.Context, gameID, callerSub, name, description, now string) (*game.Record, error) {
	return &game.Record{GameID: gameID, GameName: name, GameDescription: description, FireflyUserID: callerSub, Type: game.TypeGame, UpdatedAt: now}, nil
}

func (f *fakeGames) UpdateJoinCode(ctx context.Context, gameID, callerSub, joinCode, now string) (*game.Record, error) {
	return &game.Record{GameID: gameID, JoinCode: joinCode, FireflyUserID: callerSub, Type: game.TypeGame, UpdatedAt: now}, nil
}

func (f *fakeGames) DeleteGame(ctx context.Context, gameID, callerSub string) (*game.Record, error) {
	return &game.Record{GameID: gameID, FireflyUserID: callerSub, Type: game.TypeGame}, nil
}

func (f *fakeGames) PutDiceRoll(ctx context.Context, item gamedao.DiceRollItem) error {
	f.rolls = append(f.rolls, item)
	return nil
}

type fakeNotifications struct {
	current *game.SystemNotification
}

func (f *fakeNotifications) Get(ctx context.Context) (*game.SystemNotification, error) {
	return f.current, nil
}

func (f *fakeNotifications) Set(ctx context.Context, message string, urgent bool, now string) (*game.SystemNotification, error) {
	f.current = &game.SystemNotification{
		Message: message, Urgent: urgent, Type: game.TypeNotification, CreatedAt: now, UpdatedAt: now,
	}
	return f.current, nil
}

type fakeSettings struct {
	saved map[string]*game.UserSettings
}

func (f *fakeSettings) Get(ctx context.Context, sub string) (*game.UserSettings, error) {
	return f.saved[sub], nil
}

func (f *fakeSettings) Put(ctx context.Context, sub, settings, now string) (*game.UserSettings, error) {
	s := &game.UserSettings{UserID: sub, Settings: settings, Type: game.TypeSettings, CreatedAt: now, UpdatedAt: now}
	if f.saved == nil {
		f.saved = map[string]*game.UserSettings{}
	}
	f.saved[sub] = s
	return s, nil
}

type fakeTemplates struct {
	templates map[string]*templatedao.Template // key gameType/name/language
}

func (f *fakeTemplates) Get(ctx context.Context, gameType, name, language string) (*templatedao.Template, error) {
	if t, ok := f.templates[gameType+"/"+name+"/"+language]; ok {
		return t, nil
	}
	return f.templates[gameType+"/"+name+"/en"], nil
}

func (f *fakeTemplates) List(ctx context.Context, gameType, language string) ([]templatedao.Template, error) {
	var out []templatedao.Template
	for _, t := range f.templates {
		if t.GameType == gameType {
			out = append(out, *t)
		}
	}
	return out, nil
}

func newTestResolver(games *fakeGames) *Resolver {
	base := wildseagql.NewConfig(wildseacli.NewService("wildsea-api-test"))
	return New(base, games, &fakeSettings{}, &fakeTemplates{}, &fakeNotifications{}, 10, 1024)
}

func asUser(sub string) context.Context {
	return identity.WithIdentity(context.Background(), identity.Cognito{Sub: sub})
}

func asService() context.Context {
	return identity.WithIdentity(context.Background(), identity.IAM{AccountID: "123", UserARN: "arn:aws:iam::123:role/svc"})
}

func kindOf(t *testing.T, err error) game.Kind {
	t.Helper()
	var gameErr *game.Error
	assert.True(t, errors.As(err, &gameErr))
	return gameErr.Kind
}

func TestGetGameRequiresIdentity(t *testing.T) {
	r := newTestResolver(&fakeGames{})
	_, err := r.GetGame(context.Background(), struct{ Input GetGameInput }{Input: GetGameInput{GameID: "g1"}})
	assert.Equal(t, game.KindUnauthorized, kindOf(t, err))
}

func TestGetGameRequiresMembership(t *testing.T) {
	games := &fakeGames{
		meta: map[string]*game.Record{
			"g1": {GameID: "g1", FireflyUserID: "owner", Players: ddb.StringSet{"p1"}, Type: game.TypeGame},
		},
	}
	r := newTestResolver(games)

	_, err := r.GetGame(asUser("stranger"), struct{ Input GetGameInput }{Input: GetGameInput{GameID: "g1"}})
	assert.Equal(t, game.KindUnauthorized, kindOf(t, err))

	_, err = r.GetGame(asUser("u1"), struct{ Input GetGameInput }{Input: GetGameInput{GameID: "missing"}})
	assert.Equal(t, game.KindNotFound, kindOf(t, err))
}

func TestGetGameAssembles(t *testing.T) {
	records := []game.Record{
		{PK: "GAME#g1", SK: "GAME", Type: game.TypeGame, GameID: "g1", GameName: "n", FireflyUserID: "owner", JoinCode: "ABCDEF"},
		{PK: "GAME#g1", SK: "PLAYER#owner", Type: game.TypeFirefly, GameID: "g1", UserID: "owner", CharacterName: "Firefly"},
		{PK: "GAME#g1", SK: "PLAYER#p1", Type: game.TypeCharacter, GameID: "g1", UserID: "p1", CharacterName: "Ishmael"},
		{PK: "GAME#g1", SK: "SECTION#s1", Type: game.TypeSection, GameID: "g1", UserID: "p1", SectionID: "s1", SectionName: "Aspects"},
	}
	games := &fakeGames{
		meta: map[string]*game.Record{
			"g1": {GameID: "g1", FireflyUserID: "owner", Players: ddb.StringSet{"p1"}, Type: game.TypeGame},
		},
		records: map[string][]game.Record{"g1": records},
	}
	r := newTestResolver(games)

	// the owner sees the join code
	g, err := r.GetGame(asUser("owner"), struct{ Input GetGameInput }{Input: GetGameInput{GameID: "g1"}})
	assert.Nil(t, err)
	assert.NotNil(t, g.JoinCode)
	assert.Equal(t, "ABCDEF", *g.JoinCode)
	assert.Len(t, g.PlayerSheets, 2)
	assert.Equal(t, "owner", g.PlayerSheets[0].UserID)
	assert.Equal(t, "p1", g.PlayerSheets[1].UserID)
	assert.Len(t, g.PlayerSheets[1].Sections, 1)

	// a plain member does not
	g, err = r.GetGame(asUser("p1"), struct{ Input GetGameInput }{Input: GetGameInput{GameID: "g1"}})
	assert.Nil(t, err)
	assert.Nil(t, g.JoinCode)
}

func TestCreateGameQuota(t *testing.T) {
	games := &fakeGames{gameCount: 10}
	r := newTestResolver(games)

	_, err := r.CreateGame(asUser("u1"), struct{ Input CreateGameInput }{
		Input: CreateGameInput{Name: "n", GameType: "wildsea"},
	})
	assert.Equal(t, game.KindQuotaExceeded, kindOf(t, err))
	assert.Contains(t, err.Error(), "10/10")
	assert.Len(t, games.created, 0)
}

func TestCreateGame(t *testing.T) {
	games := &fakeGames{}
	r := newTestResolver(games)

	summary, err := r.CreateGame(asUser("u1"), struct{ Input CreateGameInput }{
		Input: CreateGameInput{Name: "Into the Wilds", GameType: "wildsea"},
	})
	assert.Nil(t, err)
	assert.Equal(t, "u1", summary.FireflyUserID)
	assert.NotNil(t, summary.JoinCode)
	assert.Len(t, *summary.JoinCode, 6)
	assert.Len(t, games.created, 1)
}

func TestJoinGameConflicts(t *testing.T) {
	rec := &game.Record{GameID: "g1", FireflyUserID: "owner", Players: ddb.StringSet{"p1"}, JoinCode: "ABCDEF", Type: game.TypeGame}
	games := &fakeGames{byJoinCode: map[string]*game.Record{"ABCDEF": rec}}
	r := newTestResolver(games)

	join := func(sub string) error {
		_, err := r.JoinGame(asUser(sub), struct{ Input JoinGameInput }{Input: JoinGameInput{JoinCode: "ABCDEF"}})
		return err
	}

	assert.Equal(t, game.KindConflict, kindOf(t, join("owner")))
	assert.Equal(t, game.KindConflict, kindOf(t, join("p1")))

	_, err := r.JoinGame(asUser("u1"), struct{ Input JoinGameInput }{Input: JoinGameInput{JoinCode: "ZZZZZZ"}})
	assert.Equal(t, game.KindNotFound, kindOf(t, err))

	assert.Nil(t, join("u1"))
	assert.Len(t, games.joined, 1)
	assert.Equal(t, game.TypeCharacter, games.joined[0].Type)

	games.gameCount = 10
	assert.Equal(t, game.KindQuotaExceeded, kindOf(t, join("u2")))
}

func TestDeletePlayerGuards(t *testing.T) {
	games := &fakeGames{
		meta: map[string]*game.Record{
			"g1": {GameID: "g1", FireflyUserID: "owner", Players: ddb.StringSet{"p1"}, Type: game.TypeGame},
		},
		sheets: map[string]*game.Record{
			"g1/p1":    {GameID: "g1", UserID: "p1", Type: game.TypeCharacter},
			"g1/owner": {GameID: "g1", UserID: "owner", Type: game.TypeFirefly},
		},
	}
	r := newTestResolver(games)

	input := func(userID string) struct{ Input DeletePlayerInput } {
		return struct{ Input DeletePlayerInput }{Input: DeletePlayerInput{GameID: "g1", UserID: userID}}
	}

	// a bystander cannot delete anyone
	_, err := r.DeletePlayer(asUser("stranger"), input("p1"))
	assert.Equal(t, game.KindUnauthorized, kindOf(t, err))

	// the firefly sheet is not deletable by users, even its owner
	_, err = r.DeletePlayer(asUser("owner"), input("owner"))
	assert.Equal(t, game.KindConflict, kindOf(t, err))

	// players can remove themselves
	summary, err := r.DeletePlayer(asUser("p1"), input("p1"))
	assert.Nil(t, err)
	assert.True(t, summary.Deleted)

	// service principals bypass the firefly guard
	summary, err = r.DeletePlayer(asService(), input("owner"))
	assert.Nil(t, err)
	assert.True(t, summary.Deleted)
	assert.Equal(t, []string{"g1/p1", "g1/owner"}, games.deleted)
}

func TestCreateShipOwnerOnly(t *testing.T) {
	games := &fakeGames{
		meta: map[string]*game.Record{
			"g1": {GameID: "g1", GameName: "n", FireflyUserID: "owner", Players: ddb.StringSet{"p1"}, Type: game.TypeGame},
		},
	}
	r := newTestResolver(games)

	input := struct{ Input CreateShipInput }{Input: CreateShipInput{GameID: "g1", CharacterName: "The Vessel"}}

	_, err := r.CreateShip(asUser("p1"), input)
	assert.Equal(t, game.KindUnauthorized, kindOf(t, err))

	summary, err := r.CreateShip(asUser("owner"), input)
	assert.Nil(t, err)
	assert.Equal(t, game.TypeShip, summary.Type)
	assert.NotEmpty(t, summary.UserID)
	assert.Len(t, games.shipItems, 1)
}

func TestCreateSectionSheetOwnership(t *testing.T) {
	games := &fakeGames{
		meta: map[string]*game.Record{
			"g1": {GameID: "g1", FireflyUserID: "owner", Players: ddb.StringSet{"p1", "p2"}, Type: game.TypeGame},
		},
		sheets: map[string]*game.Record{
			"g1/p1":   {GameID: "g1", UserID: "p1", Type: game.TypeCharacter},
			"g1/ship": {GameID: "g1", UserID: "ship", Type: game.TypeShip},
		},
	}
	r := newTestResolver(games)

	input := func(userID string) struct{ Input CreateSectionInput } {
		return struct{ Input CreateSectionInput }{Input: CreateSectionInput{
			GameID: "g1", UserID: userID, SectionName: "Aspects", SectionType: "TRACKABLE",
		}}
	}

	// another player's sheet is off limits
	_, err := r.CreateSection(asUser("p2"), input("p1"))
	assert.Equal(t, game.KindUnauthorized, kindOf(t, err))

	// your own sheet is fine
	section, err := r.CreateSection(asUser("p1"), input("p1"))
	assert.Nil(t, err)
	assert.NotEmpty(t, section.SectionID)
	assert.Equal(t, game.TypeCharacter, games.putItems[0].PlayerType)

	// anyone in the game can add to a ship sheet
	_, err = r.CreateSection(asUser("p2"), input("ship"))
	assert.Nil(t, err)
	assert.Equal(t, game.TypeShip, games.putItems[1].PlayerType)
}

func TestDeleteSectionEchoesDeleted(t *testing.T) {
	r := newTestResolver(&fakeGames{})
	section, err := r.DeleteSection(asUser("p1"), struct{ Input DeleteSectionInput }{
		Input: DeleteSectionInput{GameID: "g1", SectionID: "s1"},
	})
	assert.Nil(t, err)
	assert.True(t, section.Deleted)
	assert.Equal(t, "s1", section.SectionID)
}

func TestUpdateUserSettingsSizeCap(t *testing.T) {
	r := newTestResolver(&fakeGames{})

	big := make([]byte, 2048)
	for i := range big {
		big[i] = 'x'
	}
	_, err := r.UpdateUserSettings(asUser("u1"), struct{ Input UpdateUserSettingsInput }{
		Input: UpdateUserSettingsInput{Settings: string(big)},
	})
	assert.Equal(t, game.KindQuotaExceeded, kindOf(t, err))

	saved, err := r.UpdateUserSettings(asUser("u1"), struct{ Input UpdateUserSettingsInput }{
		Input: UpdateUserSettingsInput{Settings: `{"theme":"dark"}`},
	})
	assert.Nil(t, err)
	assert.Equal(t, `{"theme":"dark"}`, saved.Settings)

	settings, err := r.GetUserSettings(asUser("u1"))
	assert.Nil(t, err)
	assert.Equal(t, saved.Settings, settings.Settings)
}

func TestGetGames(t *testing.T) {
	games := &fakeGames{
		records: map[string][]game.Record{
			"user/u1": {
				{GameID: "g1", GameName: "one", UserID: "u1", Type: game.TypeCharacter},
				{GameID: "g2", GameName: "two", UserID: "u1", Type: game.TypeFirefly},
			},
		},
	}
	r := newTestResolver(games)

	result, err := r.GetGames(asUser("u1"))
	assert.Nil(t, err)
	assert.Len(t, result.Games, 2)
	assert.EqualValues(t, 8, result.RemainingGames)
	assert.EqualValues(t, 10, result.TotalQuota)
}

func TestRollDiceRequiresSheet(t *testing.T) {
	r := newTestResolver(&fakeGames{})

	_, err := r.RollDice(asUser("stranger"), struct{ Input RollDiceInput }{
		Input: RollDiceInput{GameID: "g1", Dice: []DieInput{{Type: "d6", Size: 6}}, RollType: game.RollTypeSum},
	})
	assert.Equal(t, game.KindUnauthorized, kindOf(t, err))
}

func TestRollDice(t *testing.T) {
	games := &fakeGames{
		sheets: map[string]*game.Record{
			"g1/p1": {GameID: "g1", UserID: "p1", CharacterName: "Ishmael", Type: game.TypeCharacter},
		},
	}
	r := newTestResolver(games)

	modifier := int32(20)
	target := int32(50)
	roll, err := r.RollDice(asUser("p1"), struct{ Input RollDiceInput }{
		Input: RollDiceInput{
			GameID:   "g1",
			Dice:     []DieInput{{Type: "d6", Size: 6, Modifier: &modifier}, {Type: "d6", Size: 6}},
			RollType: game.RollTypeSum,
			Target:   &target,
		},
	})
	assert.Nil(t, err)
	assert.Equal(t, "p1", roll.PlayerID)
	assert.Equal(t, "Ishmael", roll.PlayerName)
	assert.Equal(t, game.GradeNeutral, roll.Grade)
	assert.Len(t, roll.Dice, 2)

	// the total is the dice plus the modifier
	assert.Equal(t, roll.Dice[0].Value+roll.Dice[1].Value+modifier, roll.Value)

	// the roll was persisted into the game's partition with a TTL
	assert.Len(t, games.rolls, 1)
	assert.Equal(t, game.GamePK("g1"), games.rolls[0].PK)
	assert.Equal(t, game.TypeDiceRoll, games.rolls[0].DiceRoll.Type)
	assert.True(t, games.rolls[0].TTL > time.Now().Unix())
}

func TestRollDicePercentile(t *testing.T) {
	games := &fakeGames{
		sheets: map[string]*game.Record{
			"g1/p1": {GameID: "g1", UserID: "p1", CharacterName: "Agent", Type: game.TypeCharacter},
		},
	}
	r := newTestResolver(games)

	target := int32(50)
	roll, err := r.RollDice(asUser("p1"), struct{ Input RollDiceInput }{
		Input: RollDiceInput{
			GameID:   "g1",
			Dice:     []DieInput{{Type: "d100", Size: 100}},
			RollType: game.RollTypeDeltaGreen,
			Target:   &target,
		},
	})
	assert.Nil(t, err)
	assert.True(t, roll.Value >= 0 && roll.Value <= 99)
	assert.NotEqual(t, game.GradeNeutral, roll.Grade)
}

func TestSetSystemNotificationServiceOnly(t *testing.T) {
	r := newTestResolver(&fakeGames{})

	_, err := r.SetSystemNotification(asUser("u1"), struct{ Input SetSystemNotificationInput }{
		Input: SetSystemNotificationInput{Message: "maintenance at noon", Urgent: true},
	})
	assert.Equal(t, game.KindUnauthorized, kindOf(t, err))

	saved, err := r.SetSystemNotification(asService(), struct{ Input SetSystemNotificationInput }{
		Input: SetSystemNotificationInput{Message: "maintenance at noon", Urgent: true},
	})
	assert.Nil(t, err)
	assert.Equal(t, "maintenance at noon", saved.Message)
	assert.True(t, saved.Urgent)

	notification, err := r.GetSystemNotification(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, saved.Message, notification.Message)
}

func TestGetCharacterTemplate(t *testing.T) {
	templates := &fakeTemplates{templates: map[string]*templatedao.Template{
		"wildsea/default/en": {
			TemplateName: "default",
			DisplayName:  "Default",
			GameType:     "wildsea",
			Language:     "en",
			Sections:     []game.TemplateSection{{SectionName: "Aspects", SectionType: "TRACKABLE"}},
		},
	}}
	base := wildseagql.NewConfig(wildseacli.NewService("wildsea-api-test"))
	r := New(base, &fakeGames{}, &fakeSettings{}, templates, &fakeNotifications{}, 10, 1024)

	template, err := r.GetCharacterTemplate(asUser("u1"), struct{ Input GetCharacterTemplateInput }{
		Input: GetCharacterTemplateInput{GameType: "wildsea", TemplateName: "default"},
	})
	assert.Nil(t, err)
	assert.Len(t, template.Sections, 1)

	// unknown language falls back to English
	lang := "tlh"
	template, err = r.GetCharacterTemplate(asUser("u1"), struct{ Input GetCharacterTemplateInput }{
		Input: GetCharacterTemplateInput{GameType: "wildsea", TemplateName: "default", Language: &lang},
	})
	assert.Nil(t, err)
	assert.Equal(t, "en", template.Language)

	_, err = r.GetCharacterTemplate(asUser("u1"), struct{ Input GetCharacterTemplateInput }{
		Input: GetCharacterTemplateInput{GameType: "wildsea", TemplateName: "missing"},
	})
	assert.Equal(t, game.KindNotFound, kindOf(t, err))
}
