package repository

import (
	"context"
	"fmt"

	"lastcall/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateRecords inserts order records within the provided transaction, one
// row per purchased unit.
func (r *orderRepository) CreateRecords(ctx context.Context, tx pgx.Tx, records []model.OrderRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO orders (id, customer_id, offer_id, unit_price_paid, status, fulfilled, purchased_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(query,
			rec.ID, rec.CustomerID, rec.OfferID, rec.UnitPricePaid,
			rec.Status, rec.Fulfilled, rec.PurchasedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(records); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("customer_id", records[i].CustomerID).
				Str("offer_id", records[i].OfferID).
				Msg("failed to create order record")
			return fmt.Errorf("failed to create order record: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(records)).
		Msg("order records created successfully")

	return nil
}

// ListByCustomer retrieves a customer's order records, newest first.
func (r *orderRepository) ListByCustomer(ctx context.Context, customerID string) ([]model.OrderRecord, error) {
	query := `
		SELECT id, customer_id, offer_id, unit_price_paid, status, fulfilled, purchased_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY purchased_at DESC, id
	`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var records []model.OrderRecord
	for rows.Next() {
		var rec model.OrderRecord
		err := rows.Scan(
			&rec.ID, &rec.CustomerID, &rec.OfferID, &rec.UnitPricePaid,
			&rec.Status, &rec.Fulfilled, &rec.PurchasedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return records, nil
}
