package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"headache-tracker/internal/episode"
)

// PostgresRepository persists completed episodes. Each episode is written
// exactly once with a single insert, so a failed call never leaves a partial
// row behind.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(ctx context.Context, databaseURL string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, strings.TrimSpace(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresRepository{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS headaches (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			date DATE NOT NULL,
			start_time TEXT NOT NULL,
			stop_time TEXT NOT NULL,
			medications TEXT NOT NULL,
			rating INT NOT NULL,
			comments TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_headaches_user_date ON headaches (user_id, date);`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init headaches schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

// Save inserts one fully populated episode and returns its generated id.
func (r *PostgresRepository) Save(ctx context.Context, ep episode.Episode) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO headaches (user_id, date, start_time, stop_time, medications, rating, comments)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		ep.UserID,
		ep.Date,
		ep.Start.String(),
		ep.Stop.String(),
		ep.Medications,
		ep.Rating,
		ep.Comments,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert episode: %w", err)
	}
	return id, nil
}

// QueryRange returns the user's episodes with date in [from, to], ascending
// by date. No rows is a valid empty result, not an error.
func (r *PostgresRepository) QueryRange(ctx context.Context, userID int64, from, to time.Time) ([]episode.Episode, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, date, start_time, stop_time, medications, rating, comments
		   FROM headaches
		  WHERE user_id = $1 AND date >= $2::date AND date <= $3::date
		  ORDER BY date ASC, id ASC`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query episodes: %w", err)
	}
	defer rows.Close()

	var out []episode.Episode
	for rows.Next() {
		var (
			ep    episode.Episode
			start string
			stop  string
		)
		if err := rows.Scan(&ep.ID, &ep.UserID, &ep.Date, &start, &stop, &ep.Medications, &ep.Rating, &ep.Comments); err != nil {
			return nil, fmt.Errorf("scan episode row: %w", err)
		}
		if ep.Start, err = episode.ParseTimeOfDay(start); err != nil {
			return nil, fmt.Errorf("stored start time %q: %w", start, err)
		}
		if ep.Stop, err = episode.ParseTimeOfDay(stop); err != nil {
			return nil, fmt.Errorf("stored stop time %q: %w", stop, err)
		}
		out = append(out, ep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate episode rows: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Close() {
	r.pool.Close()
}
