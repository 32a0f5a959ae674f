package repository

import (
	"context"
	"fmt"

	"lastcall/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// offerRepository implements the OfferRepository interface using PostgreSQL.
type offerRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOfferRepository creates a new PostgreSQL-backed offer repository.
func NewOfferRepository(pool *pgxpool.Pool, logger zerolog.Logger) OfferRepository {
	return &offerRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "offer").Logger(),
	}
}

const offerColumns = `
	o.id, o.vendor_id, o.name, o.price, o.discount_price, o.available, o.created_at,
	v.schedule_descriptor
`

func scanOffer(row pgx.Row) (*model.Offer, error) {
	var o model.Offer
	err := row.Scan(
		&o.ID,
		&o.VendorID,
		&o.Name,
		&o.Price,
		&o.DiscountPrice,
		&o.Available,
		&o.CreatedAt,
		&o.ScheduleDescriptor,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetAll retrieves all offers with pagination support.
func (r *offerRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Offer, error) {
	query := `
		SELECT ` + offerColumns + `
		FROM offers o
		JOIN vendors v ON v.id = o.vendor_id
		ORDER BY o.name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query offers")
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}
	defer rows.Close()

	var offers []model.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan offer row")
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		offers = append(offers, *o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating offer rows")
		return nil, fmt.Errorf("error iterating offers: %w", err)
	}

	return offers, nil
}

// GetByID retrieves a single offer by its ID.
func (r *offerRepository) GetByID(ctx context.Context, id string) (*model.Offer, error) {
	query := `
		SELECT ` + offerColumns + `
		FROM offers o
		JOIN vendors v ON v.id = o.vendor_id
		WHERE o.id = $1
	`

	o, err := scanOffer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("offer_id", id).Msg("offer not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("offer_id", id).Msg("failed to query offer")
		return nil, fmt.Errorf("failed to query offer: %w", err)
	}

	return o, nil
}

// SetAvailability updates the offer's persisted vendor flag.
func (r *offerRepository) SetAvailability(ctx context.Context, id string, available bool) (*model.Offer, error) {
	query := `
		WITH updated AS (
			UPDATE offers SET available = $2 WHERE id = $1
			RETURNING id, vendor_id, name, price, discount_price, available, created_at
		)
		SELECT o.id, o.vendor_id, o.name, o.price, o.discount_price, o.available, o.created_at,
			v.schedule_descriptor
		FROM updated o
		JOIN vendors v ON v.id = o.vendor_id
	`

	o, err := scanOffer(r.pool.QueryRow(ctx, query, id, available))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("offer_id", id).Msg("offer not found for availability update")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("offer_id", id).Msg("failed to update offer availability")
		return nil, fmt.Errorf("failed to update offer availability: %w", err)
	}

	r.logger.Debug().
		Str("offer_id", id).
		Bool("available", available).
		Msg("offer availability updated")

	return o, nil
}

// UpdateVendorSchedule replaces a vendor's schedule descriptor and returns
// the vendor's offers so watchers of each can be notified.
func (r *offerRepository) UpdateVendorSchedule(ctx context.Context, vendorID, descriptor string) ([]model.Offer, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE vendors SET schedule_descriptor = $2 WHERE id = $1`,
		vendorID, descriptor,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("vendor_id", vendorID).Msg("failed to update vendor schedule")
		return nil, fmt.Errorf("failed to update vendor schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Debug().Str("vendor_id", vendorID).Msg("vendor not found for schedule update")
		return nil, model.ErrVendorNotFound
	}

	query := `
		SELECT ` + offerColumns + `
		FROM offers o
		JOIN vendors v ON v.id = o.vendor_id
		WHERE o.vendor_id = $1
		ORDER BY o.name
	`

	rows, err := r.pool.Query(ctx, query, vendorID)
	if err != nil {
		r.logger.Error().Err(err).Str("vendor_id", vendorID).Msg("failed to query vendor offers")
		return nil, fmt.Errorf("failed to query vendor offers: %w", err)
	}
	defer rows.Close()

	var offers []model.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan offer row")
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		offers = append(offers, *o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating offer rows")
		return nil, fmt.Errorf("error iterating offers: %w", err)
	}

	r.logger.Debug().
		Str("vendor_id", vendorID).
		Int("offer_count", len(offers)).
		Msg("vendor schedule updated")

	return offers, nil
}
