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
	"github.com/shopspring/decimal"
)

// cartService implements CartService.
type cartService struct {
	cartRepo  repository.CartRepository
	offerRepo repository.OfferRepository
	publisher notify.Publisher
	now       func() time.Time
	logger    zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	offerRepo repository.OfferRepository,
	publisher notify.Publisher,
	now func() time.Time,
	logger zerolog.Logger,
) CartService {
	if now == nil {
		now = time.Now
	}

	return &cartService{
		cartRepo:  cartRepo,
		offerRepo: offerRepo,
		publisher: publisher,
		now:       now,
		logger:    logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart retrieves the customer's cart, each line joined with its offer and
// the offer's derived availability at read time.
func (s *cartService) GetCart(ctx context.Context, customerID string) (*model.CartResponse, error) {
	lines, err := s.cartRepo.ListLinesWithOffers(ctx, customerID)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	nowTime := s.now()
	views := make([]model.CartLineView, len(lines))
	for i, lo := range lines {
		available, reason := availability.Check(lo.Offer, nowTime)
		lineTotal := lo.Offer.DiscountPrice.Mul(decimal.NewFromInt(int64(lo.Line.Quantity)))

		views[i] = model.CartLineView{
			CartLine: lo.Line,
			Offer: model.OfferView{
				Offer:              lo.Offer,
				DerivedAvailable:   available,
				AvailabilityReason: reason,
			},
			LineTotal: lineTotal.StringFixed(2),
		}
	}

	return &model.CartResponse{Lines: views}, nil
}

// AddLine adds an offer to the cart, merging with an existing line for the
// same offer by incrementing its quantity. The offer must be available at
// add time; checkout revalidates regardless.
func (s *cartService) AddLine(ctx context.Context, customerID string, req *model.CartLineRequest) (*model.CartLine, error) {
	if req == nil || req.OfferID == "" {
		return nil, fmt.Errorf("offer ID is required")
	}
	if req.Quantity <= 0 {
		s.logger.Warn().
			Str("offer_id", req.OfferID).
			Int("quantity", req.Quantity).
			Msg("invalid quantity")
		return nil, model.ErrInvalidQuantity
	}

	offer, err := s.offerRepo.GetByID(ctx, req.OfferID)
	if err != nil {
		s.logger.Error().Err(err).Str("offer_id", req.OfferID).Msg("failed to get offer")
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	if offer == nil {
		return nil, model.ErrOfferNotFound
	}
	if !availability.Resolve(*offer, s.now()) {
		s.logger.Debug().Str("offer_id", req.OfferID).Msg("offer unavailable at add time")
		return nil, model.ErrOfferUnavailable
	}

	line, err := s.cartRepo.UpsertLine(ctx, &model.CartLine{
		ID:         uuid.New(),
		CustomerID: customerID,
		OfferID:    req.OfferID,
		Quantity:   req.Quantity,
		CreatedAt:  s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add cart line: %w", err)
	}

	s.broadcastCartChange(ctx, customerID)

	s.logger.Info().
		Str("customer_id", customerID).
		Str("offer_id", req.OfferID).
		Int("quantity", line.Quantity).
		Msg("cart line added")

	return line, nil
}

// SetQuantity overwrites a line's quantity.
func (s *cartService) SetQuantity(ctx context.Context, customerID, offerID string, quantity int) (*model.CartLine, error) {
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	line, err := s.cartRepo.SetQuantity(ctx, customerID, offerID, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to set cart line quantity: %w", err)
	}
	if line == nil {
		return nil, model.ErrLineNotFound
	}

	s.broadcastCartChange(ctx, customerID)

	return line, nil
}

// RemoveLine removes one line from the cart.
func (s *cartService) RemoveLine(ctx context.Context, customerID, offerID string) error {
	if err := s.cartRepo.DeleteLine(ctx, customerID, offerID); err != nil {
		if err == model.ErrLineNotFound {
			return err
		}
		return fmt.Errorf("failed to remove cart line: %w", err)
	}

	s.broadcastCartChange(ctx, customerID)

	return nil
}

// broadcastCartChange announces the cart's new line count to badge
// observers. Best effort: a failed publish never fails the mutation that
// triggered it.
func (s *cartService) broadcastCartChange(ctx context.Context, customerID string) {
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
