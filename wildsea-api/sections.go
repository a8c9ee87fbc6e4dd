package wildseaapi

import (
	"context"

	"github.com/google/uuid"

	"github.com/jarrod-lowe/wildsea-sub001/game"
	"github.com/jarrod-lowe/wildsea-sub001/gamedao"
	"github.com/jarrod-lowe/wildsea-sub001/identity"
)

type CreateSectionInput struct {
	GameID      string `validate:"required,max=64"`
	UserID      string `validate:"required,max=64"`
	SectionName string `validate:"required,max=256"`
	SectionType string `validate:"required,max=64"`
	Content     *string
	Position    int32 `validate:"gte=0"`
}

type UpdateSectionInput struct {
	GameID      string `validate:"required,max=64"`
	SectionID   string `validate:"required,max=64"`
	SectionName *string
	Content     *string
	Position    *int32
}

type DeleteSectionInput struct {
	GameID    string `validate:"required,max=64"`
	SectionID string `validate:"required,max=64"`
}

// CreateSection adds a section to a sheet. The target sheet must belong to
// the caller, or be a shared ship sheet.
func (r *Resolver) CreateSection(ctx context.Context, args struct{ Input CreateSectionInput }) (*game.SheetSection, error) {
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

	sheet, err := r.games.GetPlayerSheet(ctx, args.Input.GameID, args.Input.UserID)
	if err != nil {
		return nil, storageError(ctx, err)
	}
	if sheet == nil {
		return nil, game.NotFound(message(ctx, "sheet.notFound"))
	}
	if sheet.UserID != sub && sheet.Type != game.TypeShip && !identity.IsService(ctx) {
		return nil, game.Unauthorized()
	}

	var (
		sectionID = uuid.NewString()
		now       = r.now()
	)
	item := gamedao.SectionItem{
		PK:          game.GamePK(args.Input.GameID),
		SK:          game.SectionSK(sectionID),
		GSI1PK:      game.SectionUserGSI1(args.Input.UserID),
		UserID:      args.Input.UserID,
		GameID:      args.Input.GameID,
		SectionID:   sectionID,
		SectionName: args.Input.SectionName,
		SectionType: args.Input.SectionType,
		Content:     stringValue(args.Input.Content),
		Position:    args.Input.Position,
		PlayerType:  sheet.Type,
		CreatedAt:   now,
		UpdatedAt:   now,
		Type:        game.TypeSection,
	}
	if err := r.games.CreateSection(ctx, item, sub, identity.IsService(ctx)); err != nil {
		return nil, storageError(ctx, err)
	}

	return &game.SheetSection{
		UserID:      item.UserID,
		GameID:      item.GameID,
		SectionID:   item.SectionID,
		SectionName: item.SectionName,
		SectionType: item.SectionType,
		Content:     item.Content,
		Position:    item.Position,
		CreatedAt:   now,
		UpdatedAt:   now,
		Type:        game.TypeSection,
	}, nil
}

// UpdateSection applies a partial edit. Ownership is enforced by the storage
// condition, not a pre-read.
func (r *Resolver) UpdateSection(ctx context.Context, args struct{ Input UpdateSectionInput }) (*game.SheetSection, error) {
	sub, err := identity.RequireSub(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkInput(args.Input); err != nil {
		return nil, err
	}

	rec, err := r.games.UpdateSection(ctx, gamedao.UpdateSectionSpec{
		GameID:      args.Input.GameID,
		SectionID:   args.Input.SectionID,
		SectionName: args.Input.SectionName,
		Content:     args.Input.Content,
		Position:    args.Input.Position,
	}, sub, r.now())
	if err != nil {
		return nil, storageError(ctx, err)
	}
	return rec.Section(), nil
}

// DeleteSection removes a section under the same ownership condition and
// echoes it back flagged deleted.
func (r *Resolver) DeleteSection(ctx context.Context, args struct{ Input DeleteSectionInput }) (*game.SheetSection, error) {
	sub, err := identity.RequireSub(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkInput(args.Input); err != nil {
		return nil, err
	}

	rec, err := r.games.DeleteSection(ctx, args.Input.GameID, args.Input.SectionID, sub)
	if err != nil {
		return nil, storageError(ctx, err)
	}
	section := rec.Section()
	section.Deleted = true
	return section, nil
}
