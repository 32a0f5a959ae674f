package service

import (
	"context"
	"fmt"
	"time"

	"lastcall/internal/availability"
	"lastcall/internal/model"
	"lastcall/internal/notify"
	"lastcall/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService as a two-phase
// validate-then-commit transactor.
//
// Phase 1 re-resolves availability for every cart line from a single
// batched read. If even one line is stale the whole attempt stops with
// outcome invalidated: the stale lines are deleted, the rest stay, and
// nothing is charged, so the customer reviews the revised total before
// confirming again. Phase 2 runs only with a fully valid cart and commits
// the order records together with the cart clear in one transaction.
type checkoutService struct {
	cartRepo  repository.CartRepository
	orderRepo repository.OrderRepository
	publisher notify.Publisher
	now       func() time.Time
	logger    zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	publisher notify.Publisher,
	now func() time.Time,
	logger zerolog.Logger,
) CheckoutService {
	if now == nil {
		now = time.Now
	}

	return &checkoutService{
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		publisher: publisher,
		now:       now,
		logger:    logger.With().Str("service", "checkout").Logger(),
	}
}

// Checkout executes the two-phase checkout for the customer's cart.
func (s *checkoutService) Checkout(ctx context.Context, customerID string) (*model.CheckoutResult, error) {
	// Phase 1: one batched read of lines with their offers' flag, schedule
	// and current prices. A failure here mutates nothing and is retryable.
	lines, err := s.cartRepo.ListLinesWithOffers(ctx, customerID)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to read cart for checkout")
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	if len(lines) == 0 {
		return &model.CheckoutResult{Outcome: model.CheckoutEmpty}, nil
	}

	checkoutTime := s.now()

	var valid []model.CartLineWithOffer
	var removedOfferIDs []string
	for _, lo := range lines {
		if availability.Resolve(lo.Offer, checkoutTime) {
			valid = append(valid, lo)
		} else {
			removedOfferIDs = append(removedOfferIDs, lo.Offer.ID)
		}
	}

	if len(removedOfferIDs) > 0 {
		// Delete exactly the stale lines and stop; no order is created for
		// any line, valid ones included.
		if err := s.cartRepo.DeleteLinesByOffers(ctx, customerID, removedOfferIDs); err != nil {
			return nil, fmt.Errorf("failed to remove invalidated cart lines: %w", err)
		}

		s.broadcastCartChange(ctx, customerID)

		s.logger.Info().
			Str("customer_id", customerID).
			Strs("removed_offer_ids", removedOfferIDs).
			Msg("checkout invalidated by stale cart lines")

		return &model.CheckoutResult{
			Outcome:         model.CheckoutInvalidated,
			RemovedOfferIDs: removedOfferIDs,
		}, nil
	}

	// Phase 2: materialise one order record per purchased unit at the
	// discount price of this instant.
	var records []model.OrderRecord
	for _, lo := range valid {
		for unit := 0; unit < lo.Line.Quantity; unit++ {
			records = append(records, model.OrderRecord{
				ID:            uuid.New(),
				CustomerID:    customerID,
				OfferID:       lo.Offer.ID,
				UnitPricePaid: lo.Offer.DiscountPrice,
				Status:        model.OrderStatusPlaced,
				Fulfilled:     false,
				PurchasedAt:   checkoutTime,
			})
		}
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin checkout transaction")
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback checkout transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateRecords(ctx, tx, records); err != nil {
		s.logger.Error().
			Err(err).
			Str("customer_id", customerID).
			Int("record_count", len(records)).
			Msg("failed to create order records")
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}

	// The cart clear rides in the same transaction: an insert failure
	// leaves the cart untouched so the customer can simply retry.
	if err = s.cartRepo.ClearTx(ctx, tx, customerID); err != nil {
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to commit checkout transaction")
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}

	s.broadcastCartChange(ctx, customerID)

	s.logger.Info().
		Str("customer_id", customerID).
		Int("unit_count", len(records)).
		Msg("checkout committed")

	return &model.CheckoutResult{
		Outcome: model.CheckoutCommitted,
		Orders:  records,
	}, nil
}

// ListOrders retrieves the customer's order records.
func (s *checkoutService) ListOrders(ctx context.Context, customerID string) ([]model.OrderRecord, error) {
	records, err := s.orderRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return records, nil
}

func (s *checkoutService) broadcastCartChange(ctx context.Context, customerID string) {
	count, err := s.cartRepo.CountLines(ctx, customerID)
	if err != nil {
		s.logger.Warn().Err(err).Str("customer_id", customerID).Msg("failed to count cart lines for broadcast")
		return
	}

	change := notify.CartChange{CustomerID: customerID, LineCount: count}
	if err := s.publisher.PublishCartChange(ctx, change); err != nil {
		s.logger.Warn().Err(err).Str("customer_id", customerID).Msg("failed to broadcast cart change")
	}
}
