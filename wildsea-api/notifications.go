package wildseaapi

import (
	"context"

	"github.com/jarrod-lowe/wildsea-sub001/game"
	"github.com/jarrod-lowe/wildsea-sub001/identity"
)

type SetSystemNotificationInput struct {
	Message string `validate:"max=1024"`
	Urgent  bool
}

// GetSystemNotification returns the site-wide banner, or null when none is
// set. No identity is required; the banner is public.
func (r *Resolver) GetSystemNotification(ctx context.Context) (*game.SystemNotification, error) {
	notification, err := r.notifications.Get(ctx)
	if err != nil {
		return nil, storageError(ctx, err)
	}
	return notification, nil
}

// SetSystemNotification replaces the site-wide banner. Only the service
// principal may set it; an empty message clears the banner text for clients.
func (r *Resolver) SetSystemNotification(ctx context.Context, args struct{ Input SetSystemNotificationInput }) (*game.SystemNotification, error) {
	if !identity.IsService(ctx) {
		return nil, game.Unauthorized()
	}
	if err := checkInput(args.Input); err != nil {
		return nil, err
	}

	saved, err := r.notifications.Set(ctx, args.Input.Message, args.Input.Urgent, r.now())
	if err != nil {
		return nil, storageError(ctx, err)
	}
	return saved, nil
}
