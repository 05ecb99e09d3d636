package usecase

import (
	"context"
	"fmt"

	domainErrors "github.com/polkiloo/gopherbistro/internal/domain/errors"
	"github.com/polkiloo/gopherbistro/internal/domain/model"
	"github.com/polkiloo/gopherbistro/internal/domain/repository"
)

// RedemptionUseCase spends points on catalog rewards.
type RedemptionUseCase struct {
	rewards     repository.RewardRepository
	redemptions repository.RedemptionRepository
	outbox      repository.OutboxRepository
	ledger      *LedgerUseCase
	runner      *Runner
}

// NewRedemptionUseCase constructs RedemptionUseCase.
func NewRedemptionUseCase(rewards repository.RewardRepository, redemptions repository.RedemptionRepository, outbox repository.OutboxRepository, ledger *LedgerUseCase, runner *Runner) *RedemptionUseCase {
	return &RedemptionUseCase{
		rewards:     rewards,
		redemptions: redemptions,
		outbox:      outbox,
		ledger:      ledger,
		runner:      runner,
	}
}

// Redeem debits the item's current cost and records the redemption in the same
// transaction. The recorded cost never follows later catalog changes.
func (u *RedemptionUseCase) Redeem(ctx context.Context, accountID, itemID int64) (*model.Redemption, error) {
	var redeemed *model.Redemption
	err := u.runner.Run(ctx, "redeem reward", []string{accountKey(accountID)}, func(ctx context.Context) error {
		item, err := u.rewards.Get(ctx, itemID)
		if err != nil {
			return err
		}
		if !item.Available() {
			return fmt.Errorf("%w: %s", domainErrors.ErrItemUnavailable, item.Name)
		}
		if item.PointsCost <= 0 {
			return fmt.Errorf("%w: item %d has no cost", domainErrors.ErrInvalidAmount, item.ID)
		}

		entry, err := u.ledger.debit(ctx, accountID, item.PointsCost, model.ReasonRedemption, nil)
		if err != nil {
			return err
		}

		r, err := u.redemptions.Create(ctx, model.Redemption{
			AccountID:     accountID,
			ItemID:        item.ID,
			ItemName:      item.Name,
			PointsSpent:   item.PointsCost,
			LedgerEntryID: entry.ID,
		})
		if err != nil {
			return err
		}
		redeemed = r
		return enqueue(ctx, u.outbox, model.EventRedemptionCreated, redemptionEvent{
			RedemptionID: r.ID,
			AccountID:    r.AccountID,
			ItemID:       r.ItemID,
			PointsSpent:  r.PointsSpent,
		})
	})
	if err != nil {
		return nil, err
	}
	return redeemed, nil
}

// Rewards lists the redeemable catalog.
func (u *RedemptionUseCase) Rewards(ctx context.Context) ([]model.RedeemableItem, error) {
	return u.rewards.List(ctx)
}

// UpdateReward changes cost or stock of an item.
func (u *RedemptionUseCase) UpdateReward(ctx context.Context, itemID int64, update model.RewardUpdate) (*model.RedeemableItem, error) {
	if update.PointsCost != nil && *update.PointsCost <= 0 {
		return nil, domainErrors.ErrInvalidAmount
	}
	return u.rewards.Update(ctx, itemID, update)
}

// History returns the account's past redemptions.
func (u *RedemptionUseCase) History(ctx context.Context, accountID int64) ([]model.Redemption, error) {
	return u.redemptions.ListByAccount(ctx, accountID)
}
