package wildseaapi

import (
	"context"
	"fmt"

	"github.com/jarrod-lowe/wildsea-sub001/game"
	"github.com/jarrod-lowe/wildsea-sub001/identity"
)

type UpdateUserSettingsInput struct {
	Settings string `validate:"required"`
}

// GetUserSettings returns the caller's saved settings, or null when they have
// never saved any.
func (r *Resolver) GetUserSettings(ctx context.Context) (*game.UserSettings, error) {
	sub, err := identity.RequireSub(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := r.settings.Get(ctx, sub)
	if err != nil {
		return nil, storageError(ctx, err)
	}
	return settings, nil
}

// UpdateUserSettings upserts the caller's settings blob, capped by size.
func (r *Resolver) UpdateUserSettings(ctx context.Context, args struct{ Input UpdateUserSettingsInput }) (*game.UserSettings, error) {
	sub, err := identity.RequireSub(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkInput(args.Input); err != nil {
		return nil, err
	}
	if size := len(args.Input.Settings); size > r.maxSettingsBytes {
		detail := fmt.Sprintf("%d/%d bytes", size, r.maxSettingsBytes)
		return nil, game.QuotaExceeded(message(ctx, "settings.sizeExceeded", detail))
	}

	saved, err := r.settings.Put(ctx, sub, args.Input.Settings, r.now())
	if err != nil {
		return nil, storageError(ctx, err)
	}
	return saved, nil
}
