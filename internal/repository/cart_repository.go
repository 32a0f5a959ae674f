package repository

import (
	"context"
	"fmt"

	"lastcall/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// ListLines retrieves a customer's cart lines.
func (r *cartRepository) ListLines(ctx context.Context, customerID string) ([]model.CartLine, error) {
	query := `
		SELECT id, customer_id, offer_id, quantity, created_at, updated_at
		FROM cart_lines
		WHERE customer_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to query cart lines")
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var l model.CartLine
		err := rows.Scan(&l.ID, &l.CustomerID, &l.OfferID, &l.Quantity, &l.CreatedAt, &l.UpdatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart line row")
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart line rows")
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	return lines, nil
}

// ListLinesWithOffers retrieves a customer's cart lines joined with each
// line's offer flag, vendor schedule and prices. Checkout revalidation
// depends on this being one batched read.
func (r *cartRepository) ListLinesWithOffers(ctx context.Context, customerID string) ([]model.CartLineWithOffer, error) {
	query := `
		SELECT
			c.id, c.customer_id, c.offer_id, c.quantity, c.created_at, c.updated_at,
			o.id, o.vendor_id, o.name, o.price, o.discount_price, o.available, o.created_at,
			v.schedule_descriptor
		FROM cart_lines c
		JOIN offers o ON o.id = c.offer_id
		JOIN vendors v ON v.id = o.vendor_id
		WHERE c.customer_id = $1
		ORDER BY c.created_at
	`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to query cart lines with offers")
		return nil, fmt.Errorf("failed to query cart lines with offers: %w", err)
	}
	defer rows.Close()

	var result []model.CartLineWithOffer
	for rows.Next() {
		var lo model.CartLineWithOffer
		err := rows.Scan(
			&lo.Line.ID, &lo.Line.CustomerID, &lo.Line.OfferID, &lo.Line.Quantity,
			&lo.Line.CreatedAt, &lo.Line.UpdatedAt,
			&lo.Offer.ID, &lo.Offer.VendorID, &lo.Offer.Name, &lo.Offer.Price,
			&lo.Offer.DiscountPrice, &lo.Offer.Available, &lo.Offer.CreatedAt,
			&lo.Offer.ScheduleDescriptor,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart line with offer row")
			return nil, fmt.Errorf("failed to scan cart line with offer: %w", err)
		}
		result = append(result, lo)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart line rows")
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	return result, nil
}

// UpsertLine adds an offer to the cart, merging with an existing line for
// the same offer by incrementing its quantity.
func (r *cartRepository) UpsertLine(ctx context.Context, line *model.CartLine) (*model.CartLine, error) {
	query := `
		INSERT INTO cart_lines (id, customer_id, offer_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (customer_id, offer_id)
		DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
		RETURNING id, customer_id, offer_id, quantity, created_at, updated_at
	`

	var merged model.CartLine
	err := r.pool.QueryRow(ctx, query,
		line.ID, line.CustomerID, line.OfferID, line.Quantity, line.CreatedAt,
	).Scan(&merged.ID, &merged.CustomerID, &merged.OfferID, &merged.Quantity, &merged.CreatedAt, &merged.UpdatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("customer_id", line.CustomerID).
			Str("offer_id", line.OfferID).
			Msg("failed to upsert cart line")
		return nil, fmt.Errorf("failed to upsert cart line: %w", err)
	}

	r.logger.Debug().
		Str("customer_id", merged.CustomerID).
		Str("offer_id", merged.OfferID).
		Int("quantity", merged.Quantity).
		Msg("cart line upserted")

	return &merged, nil
}

// SetQuantity overwrites a line's quantity.
func (r *cartRepository) SetQuantity(ctx context.Context, customerID, offerID string, quantity int) (*model.CartLine, error) {
	query := `
		UPDATE cart_lines
		SET quantity = $3, updated_at = NOW()
		WHERE customer_id = $1 AND offer_id = $2
		RETURNING id, customer_id, offer_id, quantity, created_at, updated_at
	`

	var l model.CartLine
	err := r.pool.QueryRow(ctx, query, customerID, offerID, quantity).
		Scan(&l.ID, &l.CustomerID, &l.OfferID, &l.Quantity, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().
				Str("customer_id", customerID).
				Str("offer_id", offerID).
				Msg("cart line not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("offer_id", offerID).Msg("failed to update cart line quantity")
		return nil, fmt.Errorf("failed to update cart line quantity: %w", err)
	}

	return &l, nil
}

// DeleteLine removes one line from the cart.
func (r *cartRepository) DeleteLine(ctx context.Context, customerID, offerID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM cart_lines WHERE customer_id = $1 AND offer_id = $2`,
		customerID, offerID,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("offer_id", offerID).Msg("failed to delete cart line")
		return fmt.Errorf("failed to delete cart line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrLineNotFound
	}

	return nil
}

// DeleteLinesByOffers removes exactly the lines for the given offers.
func (r *cartRepository) DeleteLinesByOffers(ctx context.Context, customerID string, offerIDs []string) error {
	if len(offerIDs) == 0 {
		return nil
	}

	_, err := r.pool.Exec(ctx,
		`DELETE FROM cart_lines WHERE customer_id = $1 AND offer_id = ANY($2)`,
		customerID, offerIDs,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("customer_id", customerID).
			Int("offer_count", len(offerIDs)).
			Msg("failed to delete invalidated cart lines")
		return fmt.Errorf("failed to delete invalidated cart lines: %w", err)
	}

	r.logger.Debug().
		Str("customer_id", customerID).
		Int("offer_count", len(offerIDs)).
		Msg("invalidated cart lines deleted")

	return nil
}

// ClearTx removes all of a customer's lines within the provided transaction.
func (r *cartRepository) ClearTx(ctx context.Context, tx pgx.Tx, customerID string) error {
	_, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE customer_id = $1`, customerID)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

// CountLines returns the number of lines in a customer's cart.
func (r *cartRepository) CountLines(ctx context.Context, customerID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM cart_lines WHERE customer_id = $1`,
		customerID,
	).Scan(&count)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to count cart lines")
		return 0, fmt.Errorf("failed to count cart lines: %w", err)
	}

	return count, nil
}
