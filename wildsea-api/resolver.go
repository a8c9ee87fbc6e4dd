// Package wildseaapi is the GraphQL API for the Wildsea backend: games,
// player sheets, sheet sections, character templates, and user settings.
//
// Authorization is two-layered. Read paths check game membership explicitly;
// write paths carry their ownership rule as a storage condition, and a failed
// condition surfaces as Unauthorized. IAM service principals bypass ownership
// so trusted backend jobs can administer any game.
package wildseaapi

import (
	"context"
	_ "embed"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/jarrod-lowe/wildsea-sub001/game"
	"github.com/jarrod-lowe/wildsea-sub001/gamedao"
	"github.com/jarrod-lowe/wildsea-sub001/i18n"
	"github.com/jarrod-lowe/wildsea-sub001/templatedao"
	wildseagql "github.com/jarrod-lowe/wildsea-sub001/wildsea-gql"
)

//go:embed schema.gql
var schema string

// GameStore is the slice of the game DAO the resolver needs.
type GameStore interface {
	GetGameRecords(ctx context.Context, gameID string) ([]game.Record, error)
	GetGameMeta(ctx context.Context, gameID string) (*game.Record, error)
	GetGameByJoinCode(ctx context.Context, joinCode string) (*game.Record, error)
	GetPlayerSheet(ctx context.Context, gameID, userID string) (*game.Record, error)
	CountUserGames(ctx context.Context, sub string) (int64, error)
	ListUserGames(ctx context.Context, sub string) ([]game.Record, error)
	ListPlayerSections(ctx context.Context, gameID, userID string) ([]game.Record, error)
	CreateGame(ctx context.Context, gameItem gamedao.GameItem, fireflyItem gamedao.SheetItem) error
	JoinGame(ctx context.Context, gameID string, sheetItem gamedao.SheetItem, now string) error
	CreateSection(ctx context.Context, item gamedao.SectionItem, callerSub string, asService bool) error
	UpdateSection(ctx context.Context, spec gamedao.UpdateSectionSpec, callerSub, now string) (*game.Record, error)
	DeleteSection(ctx context.Context, gameID, sectionID, callerSub string) (*game.Record, error)
	CreateShip(ctx context.Context, item gamedao.SheetItem) error
	UpdatePlayerSheet(ctx context.Context, gameID, userID, callerSub, characterName, now string) (*game.Record, error)
	DeletePlayer(ctx context.Context, gameID, userID, callerSub string, asService bool, sectionIDs []string, now string) error
	UpdateGame(ctx context.Context, gameID, callerSub, name, description, now string) (*game.Record, error)
	UpdateJoinCode(ctx context.Context, gameID, callerSub, joinCode, now string) (*game.Record, error)
	DeleteGame(ctx context.Context, gameID, callerSub string) (*game.Record, error)
	PutDiceRoll(ctx context.Context, item gamedao.DiceRollItem) error
}

// NotificationStore is the slice of the notification DAO the resolver needs.
type NotificationStore interface {
	Get(ctx context.Context) (*game.SystemNotification, error)
	Set(ctx context.Context, message string, urgent bool, now string) (*game.SystemNotification, error)
}

// SettingsStore is the slice of the settings DAO the resolver needs.
type SettingsStore interface {
	Get(ctx context.Context, sub string) (*game.UserSettings, error)
	Put(ctx context.Context, sub, settings, now string) (*game.UserSettings, error)
}

// TemplateStore is the slice of the template DAO the resolver needs.
type TemplateStore interface {
	Get(ctx context.Context, gameType, name, language string) (*templatedao.Template, error)
	List(ctx context.Context, gameType, language string) ([]templatedao.Template, error)
}

// Resolver is the root GraphQL resolver.
type Resolver struct {
	base          wildseagql.BaseConfig
	games         GameStore
	settings      SettingsStore
	templates     TemplateStore
	notifications NotificationStore

	maxGames         int32
	maxSettingsBytes int

	clock func() time.Time
}

// New creates the root resolver.
func New(base wildseagql.BaseConfig, games GameStore, settings SettingsStore, templates TemplateStore, notifications NotificationStore, maxGames int32, maxSettingsBytes int) *Resolver {
	return &Resolver{
		base:             base,
		games:            games,
		settings:         settings,
		templates:        templates,
		notifications:    notifications,
		maxGames:         maxGames,
		maxSettingsBytes: maxSettingsBytes,
		clock:            time.Now,
	}
}

func (r *Resolver) Schema() string                  { return schema }
func (r *Resolver) Config() *wildseagql.BaseConfig { return &r.base }

func (r *Resolver) now() string {
	return r.clock().UTC().Format(time.RFC3339)
}

var validate = validator.New()

// checkInput runs struct validation and converts failures to BadInput.
func checkInput(input interface{}) error {
	if err := validate.Struct(input); err != nil {
		return game.BadInput(err.Error())
	}
	return nil
}

// storageError remaps a DAO failure: a tripped condition expression means the
// caller was not allowed, anything else is logged and passed up opaque.
func storageError(ctx context.Context, err error) error {
	if gamedao.IsConditionalCheckFailed(err) {
		return game.Unauthorized()
	}
	zerolog.Ctx(ctx).Error().Err(err).Msg("storage operation failed")
	return err
}

func language(ctx context.Context) string {
	return wildseagql.Language(ctx)
}

func message(ctx context.Context, key string, value ...string) string {
	return i18n.Message(key, language(ctx), value...)
}
