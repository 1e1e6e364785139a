package database

import (
	"context"
	"fmt"

	"dexspread/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS simulated_trades (
	id SERIAL PRIMARY KEY,
	tick_id UUID NOT NULL,
	timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	trading_pair VARCHAR(40) NOT NULL,
	buy_venue VARCHAR(50) NOT NULL,
	sell_venue VARCHAR(50) NOT NULL,
	buy_rate NUMERIC(38, 18) NOT NULL,
	sell_rate NUMERIC(38, 18) NOT NULL,
	amount_in NUMERIC(38, 18) NOT NULL,
	gross_profit NUMERIC(38, 18) NOT NULL,
	simulated_cost NUMERIC(38, 18) NOT NULL,
	net_profit NUMERIC(38, 18) NOT NULL
);`

// PostgresRepository journals simulated trades in PostgreSQL.
type PostgresRepository struct {
	Pool *pgxpool.Pool
}

// NewPostgresRepository creates a connection pool and verifies it with a ping.
func NewPostgresRepository(ctx context.Context, dsn string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &PostgresRepository{Pool: pool}, nil
}

// Migrate creates the simulated_trades table if it does not exist.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	_, err := r.Pool.Exec(ctx, postgresSchema)
	return err
}

// LogTrade inserts a simulated trade.
func (r *PostgresRepository) LogTrade(ctx context.Context, trade model.SimulatedTrade) error {
	const insert = `
INSERT INTO simulated_trades (tick_id, timestamp, trading_pair, buy_venue, sell_venue, buy_rate, sell_rate,
	amount_in, gross_profit, simulated_cost, net_profit)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.Pool.Exec(ctx, insert,
		trade.TickID, trade.Timestamp, trade.TradingPair, trade.BuyVenue, trade.SellVenue,
		trade.BuyRate.String(), trade.SellRate.String(), trade.AmountIn.String(),
		trade.GrossProfit.String(), trade.SimulatedCost.String(), trade.NetProfit.String(),
	)
	if err != nil {
		return fmt.Errorf("postgres: log trade: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Close() {
	r.Pool.Close()
}
