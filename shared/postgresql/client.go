package postgresql

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Config describes one PostgreSQL pool
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	ApplicationName string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	RetryAttempts   int
	RetryInterval   time.Duration
}

// Client owns the sqlx pool shared by the storage packages
type Client struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewClient connects to PostgreSQL, retrying while the server is not yet
// accepting connections
func NewClient(config *Config, logger *slog.Logger) (*Client, error) {
	attempts := config.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}

	logger.Info("Connecting to PostgreSQL",
		slog.String("addr", net.JoinHostPort(config.Host, strconv.Itoa(config.Port))),
		slog.String("dbname", config.Database),
	)

	var (
		db  *sqlx.DB
		err error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err = connect(config)
		if err == nil {
			break
		}
		logger.Warn("PostgreSQL not reachable",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.Any("error", err),
		)
		if attempt < attempts {
			time.Sleep(config.RetryInterval)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	logger.Info("PostgreSQL ready", slog.Int("pool_size", config.MaxOpenConns))

	return &Client{db: db, logger: logger}, nil
}

func connect(config *Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", DSN(config))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// DSN builds a lib/pq keyword/value connection string. Values are quoted
// so passwords may contain spaces and quotes.
func DSN(config *Config) string {
	pairs := [][2]string{
		{"host", config.Host},
		{"port", strconv.Itoa(config.Port)},
		{"user", config.User},
		{"password", config.Password},
		{"dbname", config.Database},
		{"sslmode", config.SSLMode},
		{"application_name", config.ApplicationName},
	}

	parts := make([]string, 0, len(pairs))
	for _, kv := range pairs {
		if kv[1] == "" {
			continue
		}
		parts = append(parts, kv[0]+"="+quoteDSNValue(kv[1]))
	}
	return strings.Join(parts, " ")
}

func quoteDSNValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func (c *Client) GetDB() *sqlx.DB {
	return c.db
}

func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close PostgreSQL connection: %w", err)
	}
	c.logger.Info("PostgreSQL connection closed")
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// InTx runs fn inside a transaction, rolling back when fn fails
func (c *Client) InTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		c.logger.Error("Failed to begin transaction",
			slog.Any("error", err),
		)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			c.logger.Error("Failed to roll back transaction",
				slog.Any("error", rbErr),
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// PoolStats is the part of sql.DBStats reported by the health endpoint
type PoolStats struct {
	MaxOpen      int    `json:"max_open"`
	Open         int    `json:"open"`
	InUse        int    `json:"in_use"`
	Idle         int    `json:"idle"`
	WaitCount    int64  `json:"wait_count"`
	WaitDuration string `json:"wait_duration"`
}

func (c *Client) Stats() PoolStats {
	st := c.db.Stats()
	return PoolStats{
		MaxOpen:      st.MaxOpenConnections,
		Open:         st.OpenConnections,
		InUse:        st.InUse,
		Idle:         st.Idle,
		WaitCount:    st.WaitCount,
		WaitDuration: st.WaitDuration.String(),
	}
}

// HealthCheck pings the server and runs a trivial query within two seconds
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	var one int
	if err := c.db.GetContext(ctx, &one, "SELECT 1"); err != nil {
		return fmt.Errorf("database query failed: %w", err)
	}
	return nil
}
