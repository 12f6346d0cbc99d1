// Package cache provides a read-through SQLite cache in front of a
// DataSource so repeated backtests over the same range avoid remote
// fetches.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/trademaster/trademaster/internal/core"
	"github.com/trademaster/trademaster/internal/datasource"
	"go.uber.org/zap"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ datasource.DataSource = (*Cache)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS bars (
	kind   TEXT NOT NULL,
	code   TEXT NOT NULL,
	date   TEXT NOT NULL,
	open   REAL,
	high   REAL,
	low    REAL,
	close  REAL,
	volume INTEGER,
	PRIMARY KEY (kind, code, date)
)`

const (
	kindStock = "stock"
	kindIndex = "index"
)

// Cache wraps a DataSource with a SQLite-backed bar store. A cache hit
// for any part of the requested range serves the stored rows; a full
// miss fetches from the upstream source and persists the result. The
// range granularity is deliberately coarse: partial coverage is treated
// as a hit, matching how backtests re-run over identical windows.
type Cache struct {
	db     *sql.DB
	source datasource.DataSource
	logger *zap.Logger
}

// New opens (or creates) the cache database at dbPath in front of source.
func New(dbPath string, source datasource.DataSource, logger *zap.Logger) (*Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}

	return &Cache{db: db, source: source, logger: logger}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// GetDailyBars serves stock bars from the cache, falling back to the
// upstream source on a miss.
func (c *Cache) GetDailyBars(ctx context.Context, code string, start, end time.Time) ([]core.Bar, error) {
	return c.get(ctx, kindStock, code, start, end, c.source.GetDailyBars)
}

// GetIndexDaily serves index bars from the cache, falling back to the
// upstream source on a miss.
func (c *Cache) GetIndexDaily(ctx context.Context, code string, start, end time.Time) ([]core.Bar, error) {
	return c.get(ctx, kindIndex, code, start, end, c.source.GetIndexDaily)
}

type fetchFunc func(ctx context.Context, code string, start, end time.Time) ([]core.Bar, error)

func (c *Cache) get(ctx context.Context, kind, code string, start, end time.Time, fetch fetchFunc) ([]core.Bar, error) {
	cached, err := c.load(ctx, kind, code, start, end)
	if err != nil {
		// A broken cache read falls through to the source.
		c.logger.Warn("cache load failed", zap.String("code", code), zap.Error(err))
	}
	if len(cached) > 0 {
		return cached, nil
	}

	bars, err := fetch(ctx, code, start, end)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, nil
	}

	if err := c.save(ctx, kind, code, bars); err != nil {
		c.logger.Warn("cache save failed", zap.String("code", code), zap.Error(err))
	}
	return bars, nil
}

func (c *Cache) load(ctx context.Context, kind, code string, start, end time.Time) ([]core.Bar, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT date, open, high, low, close, volume
		FROM bars
		WHERE kind = ? AND code = ? AND date >= ? AND date <= ?
		ORDER BY date`,
		kind, code, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []core.Bar
	for rows.Next() {
		var dateStr string
		var b core.Bar
		if err := rows.Scan(&dateStr, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		d, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, err
		}
		b.Code = code
		b.Date = d
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

func (c *Cache) save(ctx context.Context, kind, code string, bars []core.Bar) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO bars (kind, code, date, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, kind, code, b.Date.Format("2006-01-02"),
			b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return err
		}
	}
	return tx.Commit()
}
