package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"dexspread/internal/model"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS simulated_trades (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	tick_id TEXT NOT NULL,
	timestamp DATETIME NOT NULL,
	trading_pair TEXT NOT NULL,
	buy_venue TEXT NOT NULL,
	sell_venue TEXT NOT NULL,
	buy_rate TEXT NOT NULL,
	sell_rate TEXT NOT NULL,
	amount_in TEXT NOT NULL,
	gross_profit TEXT NOT NULL,
	simulated_cost TEXT NOT NULL,
	net_profit TEXT NOT NULL
);`

// SQLiteRepository journals simulated trades in an embedded SQLite file.
type SQLiteRepository struct {
	DB *sql.DB
}

// NewSQLiteRepository opens path with WAL and a busy timeout.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	dsn := path
	if !strings.HasPrefix(path, "file:") {
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// Single connection avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &SQLiteRepository{DB: db}, nil
}

// Migrate creates the simulated_trades table if it does not exist.
func (r *SQLiteRepository) Migrate(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, sqliteSchema)
	return err
}

// LogTrade inserts a simulated trade.
func (r *SQLiteRepository) LogTrade(ctx context.Context, trade model.SimulatedTrade) error {
	const insert = `
INSERT INTO simulated_trades (tick_id, timestamp, trading_pair, buy_venue, sell_venue, buy_rate, sell_rate,
	amount_in, gross_profit, simulated_cost, net_profit)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.DB.ExecContext(ctx, insert,
		trade.TickID, trade.Timestamp.UTC().Format(time.RFC3339Nano), trade.TradingPair, trade.BuyVenue, trade.SellVenue,
		trade.BuyRate.String(), trade.SellRate.String(), trade.AmountIn.String(),
		trade.GrossProfit.String(), trade.SimulatedCost.String(), trade.NetProfit.String(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: log trade: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Close() {
	_ = r.DB.Close()
}
