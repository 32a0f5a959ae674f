package service

import (
	"context"
	"fmt"
	"time"

	"lastcall/internal/availability"
	"lastcall/internal/model"
	"lastcall/internal/notify"
	"lastcall/internal/repository"

	"github.com/rs/zerolog"
)

// offerService implements OfferService.
type offerService struct {
	offerRepo  repository.OfferRepository
	broker     notify.Broker
	monitorCfg availability.MonitorConfig
	now        func() time.Time
	logger     zerolog.Logger
}

// NewOfferService creates a new offer service.
func NewOfferService(
	offerRepo repository.OfferRepository,
	broker notify.Broker,
	monitorCfg availability.MonitorConfig,
	logger zerolog.Logger,
) OfferService {
	now := monitorCfg.Now
	if now == nil {
		now = time.Now
	}

	return &offerService{
		offerRepo:  offerRepo,
		broker:     broker,
		monitorCfg: monitorCfg,
		now:        now,
		logger:     logger.With().Str("service", "offer").Logger(),
	}
}

func (s *offerService) view(offer model.Offer) model.OfferView {
	available, reason := availability.Check(offer, s.now())
	return model.OfferView{
		Offer:              offer,
		DerivedAvailable:   available,
		AvailabilityReason: reason,
	}
}

// List retrieves offers with their derived availability.
func (s *offerService) List(ctx context.Context, limit, offset int) ([]model.OfferView, error) {
	offers, err := s.offerRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list offers")
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}

	views := make([]model.OfferView, len(offers))
	for i, o := range offers {
		views[i] = s.view(o)
	}

	return views, nil
}

// GetByID retrieves one offer with its derived availability.
func (s *offerService) GetByID(ctx context.Context, id string) (*model.OfferView, error) {
	offer, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("offer_id", id).Msg("failed to get offer")
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	if offer == nil {
		return nil, nil
	}

	v := s.view(*offer)
	return &v, nil
}

// Watch starts an availability monitor for a view session of the offer.
func (s *offerService) Watch(ctx context.Context, id string) (*availability.Monitor, error) {
	offer, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("offer_id", id).Msg("failed to get offer for watch")
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	if offer == nil {
		return nil, model.ErrOfferNotFound
	}

	monitor := availability.NewMonitor(*offer, s.broker, s.monitorCfg, s.logger)
	if err := monitor.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start availability monitor: %w", err)
	}

	s.logger.Debug().Str("offer_id", id).Msg("view session monitor started")

	return monitor, nil
}

// SetAvailability updates the persisted vendor flag and pushes the new
// value to watchers. Publish failures are logged, not surfaced: watchers
// recover on their next poll cycle.
func (s *offerService) SetAvailability(ctx context.Context, id string, available bool) (*model.OfferView, error) {
	offer, err := s.offerRepo.SetAvailability(ctx, id, available)
	if err != nil {
		s.logger.Error().Err(err).Str("offer_id", id).Msg("failed to set offer availability")
		return nil, fmt.Errorf("failed to set offer availability: %w", err)
	}
	if offer == nil {
		return nil, model.ErrOfferNotFound
	}

	if err := s.broker.PublishFlag(ctx, notify.FlagUpdate{OfferID: id, Available: available}); err != nil {
		s.logger.Warn().Err(err).Str("offer_id", id).Msg("failed to push flag update")
	}

	s.logger.Info().
		Str("offer_id", id).
		Bool("available", available).
		Msg("offer availability flag updated")

	v := s.view(*offer)
	return &v, nil
}

// UpdateVendorSchedule replaces the vendor's pickup-window descriptor and
// re-announces each affected offer's current flag so open view sessions
// re-resolve against the new window.
func (s *offerService) UpdateVendorSchedule(ctx context.Context, vendorID, descriptor string) error {
	offers, err := s.offerRepo.UpdateVendorSchedule(ctx, vendorID, descriptor)
	if err != nil {
		if err == model.ErrVendorNotFound {
			return err
		}
		s.logger.Error().Err(err).Str("vendor_id", vendorID).Msg("failed to update vendor schedule")
		return fmt.Errorf("failed to update vendor schedule: %w", err)
	}

	for _, o := range offers {
		update := notify.FlagUpdate{OfferID: o.ID, Available: o.VendorEligible()}
		if err := s.broker.PublishFlag(ctx, update); err != nil {
			s.logger.Warn().Err(err).Str("offer_id", o.ID).Msg("failed to push flag update")
		}
	}

	s.logger.Info().
		Str("vendor_id", vendorID).
		Int("offer_count", len(offers)).
		Msg("vendor schedule updated")

	return nil
}
