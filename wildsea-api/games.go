package wildseaapi

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jarrod-lowe/wildsea-sub001/game"
	"github.com/jarrod-lowe/wildsea-sub001/gamedao"
	"github.com/jarrod-lowe/wildsea-sub001/identity"
)

type GetGameInput struct {
	GameID string `validate:"required,max=64"`
}

type GetGameByJoinCodeInput struct {
	JoinCode string `validate:"required,len=6"`
}

type CreateGameInput struct {
	Name        string `validate:"required,max=256"`
	Description *string
	GameType    string `validate:"required,max=64"`
}

type UpdateGameInput struct {
	GameID      string `validate:"required,max=64"`
	Name        string `validate:"required,max=256"`
	Description *string
}

type UpdateJoinCodeInput struct {
	GameID string `validate:"required,max=64"`
}

type DeleteGameInput struct {
	GameID string `validate:"required,max=64"`
}

type JoinGameInput struct {
	JoinCode string `validate:"required,len=6"`
}

// GetGame returns the full nested game for a member.
func (r *Resolver) GetGame(ctx context.Context, args struct{ Input GetGameInput }) (*game.Game, error) {
	sub, err := identity.RequireSub(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkInput(args.Input); err != nil {
		return nil, err
	}

	if err := r.requireMember(ctx, args.Input.GameID, sub); err != nil {
		return nil, err
	}

	records, err := r.games.GetGameRecords(ctx, args.Input.GameID)
	if err != nil {
		return nil, storageError(ctx, err)
	}
	return game.Assemble(records, sub, language(ctx))
}

// GetGames lists the caller's games along with their remaining quota.
func (r *Resolver) GetGames(ctx context.Context) (*game.GamesWithQuota, error) {
	sub, err := identity.RequireSub(ctx)
	if err != nil {
		return nil, err
	}

	records, err := r.games.ListUserGames(ctx, sub)
	if err != nil {
		return nil, storageError(ctx, err)
	}

	summaries := make([]*game.PlayerSheetSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, rec.SheetSummary())
	}

	remaining := r.maxGames - int32(len(summaries))
	if remaining < 0 {
		remaining = 0
	}
	return &game.GamesWithQuota{
		Games:          summaries,
		RemainingGames: remaining,
		TotalQuota:     r.maxGames,
	}, nil
}

// GetGameByJoinCode previews a game before joining it. A code for the
// caller's own game, or one they already joined, is a conflict rather than a
// preview.
func (r *Resolver) GetGameByJoinCode(ctx context.Context, args struct{ Input GetGameByJoinCodeInput }) (*game.GameSummary, error) {
	sub, err := identity.RequireSub(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkInput(args.Input); err != nil {
		return nil, err
	}

	rec, err := r.games.GetGameByJoinCode(ctx, args.Input.JoinCode)
	if err != nil {
		return nil, storageError(ctx, err)
	}
	if rec == nil {
		return nil, game.NotFound(message(ctx, "game.notFound"))
	}
	if rec.FireflyUserID == sub {
		return nil, game.Conflict(message(ctx, "joinGame.cannotJoinOwnGame"))
	}
	if rec.IsMember(sub) {
		return nil, game.Conflict(message(ctx, "joinGame.alreadyPlayer"))
	}
	return rec.Summary(sub), nil
}

// CreateGame makes a new game with the caller as its firefly, writing the
// game record and the firefly's sheet atomically.
func (r *Resolver) CreateGame(ctx context.Context, args struct{ Input CreateGameInput }) (*game.GameSummary, error) {
	sub, err := identity.RequireSub(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkInput(args.Input); err != nil {
		return nil, err
	}
	if err := r.checkQuota(ctx, sub); err != nil {
		return nil, err
	}

	var (
		joinCode    = game.GenerateJoinCode()
		gameID      = uuid.NewString()
		now         = r.now()
		description = stringValue(args.Input.Description)
	)

	gameItem := gamedao.NewGameItem(gameID, args.Input.Name, description, args.Input.GameType, sub, joinCode, now)
	fireflyItem := gamedao.NewSheetItem(&game.Record{
		GameID:          gameID,
		GameName:        args.Input.Name,
		GameDescription: description,
		GameType:        args.Input.GameType,
		FireflyUserID:   sub,
	}, sub, game.DefaultFireflyCharacterName, game.TypeFirefly, now)

	if err := r.games.CreateGame(ctx, gameItem, fireflyItem); err != nil {
		return nil, storageError(ctx, err)
	}

	code := joinCode
	return &game.GameSummary{
		GameID:          gameID,
		GameName:        args.Input.Name,
		GameDescription: description,
		GameType:        args.Input.GameType,
		JoinCode:        &code,
		FireflyUserID:   sub,
		CreatedAt:       now,
		UpdatedAt:       now,
		Type:            game.TypeGame,
	}, nil
}

// UpdateGame renames a game. The owner condition rides on the write.
func (r *Resolver) UpdateGame(ctx context.Context, args struct{ Input UpdateGameInput }) (*game.GameSummary, error) {
	sub, err := identity.RequireSub(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkInput(args.Input); err != nil {
		return nil, err
	}

	rec, err := r.games.UpdateGame(ctx, args.Input.GameID, sub, args.Input.Name, stringValue(args.Input.Description), r.now())
	if err != nil {
		return nil, storageError(ctx, err)
	}
	return rec.Summary(sub), nil
}

// UpdateJoinCode rotates a game's join code, invalidating the old one.
func (r *Resolver) UpdateJoinCode(ctx context.Context, args struct{ Input UpdateJoinCodeInput }) (*game.GameSummary, error) {
	sub, err := identity.RequireSub(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkInput(args.Input); err != nil {
		return nil, err
	}

	rec, err := r.games.UpdateJoinCode(ctx, args.Input.GameID, sub, game.GenerateJoinCode(), r.now())
	if err != nil {
		return nil, storageError(ctx, err)
	}
	return rec.Summary(sub), nil
}

// DeleteGame removes a game and everything in its partition, owner-only.
func (r *Resolver) DeleteGame(ctx context.Context, args struct{ Input DeleteGameInput }) (*game.GameSummary, error) {
	sub, err := identity.RequireSub(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkInput(args.Input); err != nil {
		return nil, err
	}

	rec, err := r.games.DeleteGame(ctx, args.Input.GameID, sub)
	if err != nil {
		return nil, storageError(ctx, err)
	}
	summary := rec.Summary(sub)
	summary.Deleted = true
	return summary, nil
}

// JoinGame adds the caller to the game behind a join code.
func (r *Resolver) JoinGame(ctx context.Context, args struct{ Input JoinGameInput }) (*game.GameSummary, error) {
	sub, err := identity.RequireSub(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkInput(args.Input); err != nil {
		return nil, err
	}

	rec, err := r.games.GetGameByJoinCode(ctx, args.Input.JoinCode)
	if err != nil {
		return nil, storageError(ctx, err)
	}
	if rec == nil {
		return nil, game.NotFound(message(ctx, "game.notFound"))
	}
	if rec.FireflyUserID == sub {
		return nil, game.Conflict(message(ctx, "joinGame.cannotJoinOwnGame"))
	}
	if rec.IsMember(sub) {
		return nil, game.Conflict(message(ctx, "joinGame.alreadyPlayer"))
	}
	if err := r.checkQuota(ctx, sub); err != nil {
		return nil, err
	}

	now := r.now()
	sheetItem := gamedao.NewSheetItem(rec, sub, game.DefaultPlayerCharacterName, game.TypeCharacter, now)
	if err := r.games.JoinGame(ctx, rec.GameID, sheetItem, now); err != nil {
		return nil, storageError(ctx, err)
	}

	summary := rec.Summary(sub)
	summary.UpdatedAt = now
	return summary, nil
}

// requireMember fails unless sub belongs to the game. Service principals are
// always allowed through.
func (r *Resolver) requireMember(ctx context.Context, gameID, sub string) error {
	meta, err := r.games.GetGameMeta(ctx, gameID)
	if err != nil {
		return storageError(ctx, err)
	}
	if meta == nil {
		return game.NotFound(message(ctx, "game.notFound"))
	}
	if identity.IsService(ctx) {
		return nil
	}
	if !meta.IsMember(sub) {
		return game.Unauthorized()
	}
	return nil
}

// checkQuota fails when the caller is already at their game cap.
func (r *Resolver) checkQuota(ctx context.Context, sub string) error {
	count, err := r.games.CountUserGames(ctx, sub)
	if err != nil {
		return storageError(ctx, err)
	}
	if count >= int64(r.maxGames) {
		detail := fmt.Sprintf("%d/%d", count, r.maxGames)
		return game.QuotaExceeded(message(ctx, "joinGame.quotaExceeded", detail))
	}
	return nil
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func int32Value(n *int32) int32 {
	if n == nil {
		return 0
	}
	return *n
}
