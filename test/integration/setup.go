package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"lastcall/internal/config"
	"lastcall/internal/database"
	"lastcall/internal/notify"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// testNow is the fixed instant the integration suite runs at: inside the
// "9:00 AM - 5:00 PM" daytime window, outside the overnight one.
var testNow = time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := postgresContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Database:        "testdb",
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	logger := zerolog.Nop()
	pool, err := database.NewPool(ctx, dbConfig, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Apply the embedded schema
	if err := database.ApplySchema(ctx, pool, logger); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SetupTestRedis creates a Redis test container and a connected client.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}

	host, err := redisContainer.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get redis host: %v", err)
	}
	port, err := redisContainer.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("failed to get redis port: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	})

	t.Cleanup(func() {
		client.Close()
		if err := redisContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	})

	return client
}

// SeedCatalog inserts test vendors and offers into the database.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	vendors := []struct {
		id       string
		name     string
		schedule string
	}{
		{"V001", "Corner Bakery", "9:00 AM - 5:00 PM"},
		{"V002", "Night Noodles", "10:00 PM - 2:00 AM"},
	}

	for _, v := range vendors {
		_, err := pool.Exec(ctx,
			"INSERT INTO vendors (id, name, schedule_descriptor) VALUES ($1, $2, $3)",
			v.id, v.name, v.schedule,
		)
		if err != nil {
			t.Fatalf("failed to seed vendor %s: %v", v.id, err)
		}
	}

	offers := []struct {
		id            string
		vendorID      string
		name          string
		price         string
		discountPrice string
	}{
		{"OF001", "V001", "Pastry surprise bag", "12.00", "4.50"},
		{"OF002", "V001", "End-of-day loaves", "8.00", "3.00"},
		{"OF003", "V002", "Late-night ramen box", "15.00", "6.00"},
	}

	for _, o := range offers {
		_, err := pool.Exec(ctx,
			"INSERT INTO offers (id, vendor_id, name, price, discount_price) VALUES ($1, $2, $3, $4, $5)",
			o.id, o.vendorID, o.name, o.price, o.discountPrice,
		)
		if err != nil {
			t.Fatalf("failed to seed offer %s: %v", o.id, err)
		}
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"orders", "cart_lines", "offers", "vendors"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// memoryBroker is an in-process notify.Broker for tests that don't need a
// real Redis instance. It records published messages and fans flag updates
// out to subscribers.
type memoryBroker struct {
	mu          sync.Mutex
	flags       []notify.FlagUpdate
	cartChanges []notify.CartChange
	subscribers map[string][]chan notify.FlagUpdate
}

func newMemoryBroker() *memoryBroker {
	return &memoryBroker{subscribers: make(map[string][]chan notify.FlagUpdate)}
}

func (b *memoryBroker) PublishFlag(ctx context.Context, update notify.FlagUpdate) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.flags = append(b.flags, update)
	for _, ch := range b.subscribers[update.OfferID] {
		select {
		case ch <- update:
		default:
		}
	}
	return nil
}

func (b *memoryBroker) PublishCartChange(ctx context.Context, change notify.CartChange) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cartChanges = append(b.cartChanges, change)
	return nil
}

func (b *memoryBroker) SubscribeFlag(ctx context.Context, offerID string) (<-chan notify.FlagUpdate, func(), error) {
	ch := make(chan notify.FlagUpdate, 8)
	b.mu.Lock()
	b.subscribers[offerID] = append(b.subscribers[offerID], ch)
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			subs := b.subscribers[offerID]
			for i, c := range subs {
				if c == ch {
					b.subscribers[offerID] = append(subs[:i], subs[i+1:]...)
					break
				}
			}
			b.mu.Unlock()
			close(ch)
		})
	}

	return ch, cancel, nil
}

func (b *memoryBroker) CartChanges() []notify.CartChange {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]notify.CartChange, len(b.cartChanges))
	copy(out, b.cartChanges)
	return out
}
