// Package erp provides read-only connectivity to the MS SQL Server ERP
// mirror, used to sync item cost and price data into the catalog.
package erp

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/microsoft/go-mssqldb" // MS SQL Server driver
	"go.uber.org/zap"

	"github.com/zephyrixtech/test-inventory-sub001/internal/config"
)

const (
	maxConnectAttempts = 3
	initialBackoff     = 1 * time.Second
	maxBackoff         = 10 * time.Second
	healthCheckTimeout = 5 * time.Second
)

// Client provides read-only access to the ERP mirror
type Client struct {
	db           *sql.DB
	logger       *zap.Logger
	queryTimeout time.Duration
}

// ItemPrice is one priced catalog row in the ERP mirror
type ItemPrice struct {
	Reference string
	UnitCost  float64
	UnitPrice float64
	UpdatedAt time.Time
}

// NewClient creates a new ERP client. It returns nil without error when the
// connection is disabled or credentials are absent, so callers can treat the
// ERP sync as an optional feature.
func NewClient(cfg *config.ERPConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("ERP connection disabled")
		return nil, nil
	}
	if cfg.URL == "" || cfg.User == "" || cfg.Password == "" {
		logger.Warn("ERP enabled but missing credentials, skipping connection")
		return nil, nil
	}

	connStr := buildConnectionString(cfg)

	var db *sql.DB
	var err error
	backoff := initialBackoff

	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		db, err = sql.Open("sqlserver", connStr)
		if err == nil {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
			db.SetMaxIdleConns(cfg.MaxIdleConns)
			db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

			ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
			err = db.PingContext(ctx)
			cancel()
			if err == nil {
				logger.Info("ERP connection established", zap.Int("attempts", attempt))
				return &Client{
					db:           db,
					logger:       logger,
					queryTimeout: cfg.QueryTimeoutDuration(),
				}, nil
			}
			_ = db.Close()
		}

		logger.Warn("ERP connection attempt failed",
			zap.Error(err),
			zap.Int("attempt", attempt),
		)
		if attempt < maxConnectAttempts {
			time.Sleep(backoff)
			backoff = min(backoff*2, maxBackoff)
		}
	}

	return nil, fmt.Errorf("failed to connect to ERP after %d attempts: %w", maxConnectAttempts, err)
}

// buildConnectionString constructs a SQL Server connection string.
// URL format expected: host:port/database or host:port.
func buildConnectionString(cfg *config.ERPConfig) string {
	urlParts := strings.SplitN(cfg.URL, "/", 2)
	hostPort := urlParts[0]
	database := ""
	if len(urlParts) > 1 {
		database = urlParts[1]
	}

	if !strings.Contains(hostPort, ":") {
		hostPort += ":1433"
	}

	query := url.Values{}
	query.Add("encrypt", "true")
	query.Add("TrustServerCertificate", "false")
	query.Add("connection timeout", "30")
	if database != "" {
		query.Add("database", database)
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     hostPort,
		RawQuery: query.Encode(),
	}
	return u.String()
}

// IsEnabled returns true if the client is initialized and ready for queries
func (c *Client) IsEnabled() bool {
	return c != nil && c.db != nil
}

// Close gracefully closes the ERP connection
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close ERP connection: %w", err)
	}
	return nil
}

// FetchItemPrices returns catalog prices updated since the given time.
// A zero since value returns the full catalog.
func (c *Client) FetchItemPrices(ctx context.Context, since time.Time) ([]ItemPrice, error) {
	if !c.IsEnabled() {
		return nil, fmt.Errorf("ERP client not initialized")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout)
		defer cancel()
	}

	query := `SELECT item_reference, unit_cost, unit_price, updated_at
		FROM dbo.catalog_item_prices
		WHERE updated_at > @p1
		ORDER BY updated_at`

	start := time.Now()
	rows, err := c.db.QueryContext(ctx, query, since)
	if err != nil {
		c.logger.Error("ERP price query failed", zap.Error(err))
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	var prices []ItemPrice
	for rows.Next() {
		var p ItemPrice
		if err := rows.Scan(&p.Reference, &p.UnitCost, &p.UnitPrice, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	c.logger.Debug("ERP price query completed",
		zap.Int("rows_returned", len(prices)),
		zap.Duration("duration", time.Since(start)),
	)
	return prices, nil
}
