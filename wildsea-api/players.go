package wildseaapi

import (
	"context"

	"github.com/google/uuid"

	"github.com/jarrod-lowe/wildsea-sub001/game"
	"github.com/jarrod-lowe/wildsea-sub001/gamedao"
	"github.com/jarrod-lowe/wildsea-sub001/identity"
)

type CreateShipInput struct {
	GameID        string `validate:"required,max=64"`
	CharacterName string `validate:"required,max=256"`
}

type DeletePlayerInput struct {
	GameID string `validate:"required,max=64"`
	UserID string `validate:"required,max=64"`
}

type UpdatePlayerSheetInput struct {
	GameID        string `validate:"required,max=64"`
	UserID        string `validate:"required,max=64"`
	CharacterName string `validate:"required,max=256"`
}

// CreateShip adds a shared ship sheet to the game. Only the game's firefly
// can add one.
func (r *Resolver) CreateShip(ctx context.Context, args struct{ Input CreateShipInput }) (*game.PlayerSheetSummary, error) {
	sub, err := identity.RequireSub(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkInput(args.Input); err != nil {
		return nil, err
	}

	meta, err := r.games.GetGameMeta(ctx, args.Input.GameID)
	if err != nil {
		return nil, storageError(ctx, err)
	}
	if meta == nil {
		return nil, game.NotFound(message(ctx, "game.notFound"))
	}
	if meta.FireflyUserID != sub && !identity.IsService(ctx) {
		return nil, game.Unauthorized()
	}

	// Ship sheets get a synthetic user id; they belong to the table, not to
	// any player.
	now := r.now()
	item := gamedao.NewSheetItem(meta, uuid.NewString(), args.Input.CharacterName, game.TypeShip, now)
	if err := r.games.CreateShip(ctx, item); err != nil {
		return nil, storageError(ctx, err)
	}

	return &game.PlayerSheetSummary{
		UserID:          item.UserID,
		GameID:          item.GameID,
		GameName:        item.GameName,
		GameDescription: item.GameDescription,
		CharacterName:   item.CharacterName,
		CreatedAt:       now,
		UpdatedAt:       now,
		Type:            game.TypeShip,
	}, nil
}

// DeletePlayer removes a player from a game: their sections, their sheet, and
// their roster entry, atomically. The firefly's sheet is not deletable, except
// by a service principal cleaning up a whole game.
func (r *Resolver) DeletePlayer(ctx context.Context, args struct{ Input DeletePlayerInput }) (*game.PlayerSheetSummary, error) {
	sub, err := identity.RequireSub(ctx)
	if err != nil {
		if !identity.IsService(ctx) {
			return nil, err
		}
		sub = ""
	}
	if err := checkInput(args.Input); err != nil {
		return nil, err
	}

	meta, err := r.games.GetGameMeta(ctx, args.Input.GameID)
	if err != nil {
		return nil, storageError(ctx, err)
	}
	if meta == nil {
		return nil, game.NotFound(message(ctx, "game.notFound"))
	}
	if meta.FireflyUserID != sub && args.Input.UserID != sub && !identity.IsService(ctx) {
		return nil, game.Unauthorized()
	}

	sheet, err := r.games.GetPlayerSheet(ctx, args.Input.GameID, args.Input.UserID)
	if err != nil {
		return nil, storageError(ctx, err)
	}
	if sheet == nil {
		return nil, game.NotFound(message(ctx, "sheet.notFound"))
	}
	if sheet.Type == game.TypeFirefly && !identity.IsService(ctx) {
		return nil, game.Conflict(message(ctx, "player.cannotDelete"))
	}

	sections, err := r.games.ListPlayerSections(ctx, args.Input.GameID, args.Input.UserID)
	if err != nil {
		return nil, storageError(ctx, err)
	}
	sectionIDs := make([]string, 0, len(sections))
	for _, section := range sections {
		sectionIDs = append(sectionIDs, section.SectionID)
	}

	if err := r.games.DeletePlayer(ctx, args.Input.GameID, args.Input.UserID, sub, identity.IsService(ctx), sectionIDs, r.now()); err != nil {
		return nil, storageError(ctx, err)
	}

	summary := sheet.SheetSummary()
	summary.Deleted = true
	return summary, nil
}

// UpdatePlayerSheet renames a sheet. Ownership rides on the storage
// condition; ship sheets are renameable by any member.
func (r *Resolver) UpdatePlayerSheet(ctx context.Context, args struct{ Input UpdatePlayerSheetInput }) (*game.PlayerSheetSummary, error) {
	sub, err := identity.RequireSub(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkInput(args.Input); err != nil {
		return nil, err
	}

	rec, err := r.games.UpdatePlayerSheet(ctx, args.Input.GameID, args.Input.UserID, sub, args.Input.CharacterName, r.now())
	if err != nil {
		return nil, storageError(ctx, err)
	}
	return rec.SheetSummary(), nil
}
