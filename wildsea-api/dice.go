package wildseaapi

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jarrod-lowe/wildsea-sub001/game"
	"github.com/jarrod-lowe/wildsea-sub001/gamedao"
	"github.com/jarrod-lowe/wildsea-sub001/identity"
)

// Rolls are transient records; TTL sweeps them out once nobody cares.
const rollRetention = 24 * time.Hour

type DieInput struct {
	Type     string `validate:"required,max=32"`
	Size     int32  `validate:"gt=0"`
	Modifier *int32
}

type RollDiceInput struct {
	GameID   string     `validate:"required,max=64"`
	Dice     []DieInput `validate:"required,min=1,max=32,dive"`
	RollType string     `validate:"required,max=32"`
	Target   *int32
	Action   *string `validate:"omitempty,max=256"`
}

// RollDice rolls the requested dice inside a game and stores the result. The
// caller must hold a sheet in the game; the roll is attributed to their
// character. A hundred-sided die in a percentile roll type reads 0-99, every
// other die reads 1-size, and per-die modifiers land in the total.
func (r *Resolver) RollDice(ctx context.Context, args struct{ Input RollDiceInput }) (*game.DiceRoll, error) {
	sub, err := identity.RequireSub(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkInput(args.Input); err != nil {
		return nil, err
	}

	sheet, err := r.games.GetPlayerSheet(ctx, args.Input.GameID, sub)
	if err != nil {
		return nil, storageError(ctx, err)
	}
	if sheet == nil {
		return nil, game.Unauthorized()
	}

	var (
		total int32
		dice  = make([]game.Die, 0, len(args.Input.Dice))
	)
	for _, d := range args.Input.Dice {
		percentile := args.Input.RollType == game.RollTypeDeltaGreen && d.Size == 100
		value := game.RollDie(d.Size, percentile)
		total += value
		if d.Modifier != nil {
			total += *d.Modifier
		}
		dice = append(dice, game.Die{Type: d.Type, Size: d.Size, Value: value})
	}

	target := int32Value(args.Input.Target)
	roll := game.DiceRoll{
		GameID:       args.Input.GameID,
		PlayerID:     sub,
		PlayerName:   sheet.CharacterName,
		Dice:         dice,
		RollType:     args.Input.RollType,
		Target:       target,
		Grade:        game.GradeRoll(args.Input.RollType, total, target),
		Action:       stringValue(args.Input.Action),
		Value:        total,
		MessageIndex: game.MessageIndex(),
		RolledAt:     r.now(),
		Type:         game.TypeDiceRoll,
	}

	item := gamedao.NewDiceRollItem(uuid.NewString(), roll, r.clock().Add(rollRetention).Unix())
	if err := r.games.PutDiceRoll(ctx, item); err != nil {
		return nil, storageError(ctx, err)
	}
	return &roll, nil
}
