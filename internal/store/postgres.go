package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists player state in two tables: players (identity) and
// player_state (key/value jsonb). See internal/migrations.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) EnsurePlayer(ctx context.Context, deviceID string) (int64, error) {
	var id int64
	err := p.db.QueryRow(ctx,
		`INSERT INTO players (device_id)
		 VALUES ($1)
		 ON CONFLICT (device_id) DO UPDATE SET device_id = EXCLUDED.device_id
		 RETURNING id`,
		deviceID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (p *PostgresStore) Players(ctx context.Context) ([]int64, error) {
	rows, err := p.db.Query(ctx, `SELECT id FROM players ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (p *PostgresStore) Get(ctx context.Context, playerID int64, key string) ([]byte, error) {
	var value []byte
	err := p.db.QueryRow(ctx,
		`SELECT value FROM player_state WHERE player_id = $1 AND key = $2`,
		playerID, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (p *PostgresStore) Set(ctx context.Context, playerID int64, key string, value []byte) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO player_state (player_id, key, value, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (player_id, key)
		 DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		playerID, key, value,
	)
	return err
}

// SetAll пишет несколько ключей в одной транзакции
func (p *PostgresStore) SetAll(ctx context.Context, playerID int64, values map[string][]byte) error {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for key, value := range values {
		_, err := tx.Exec(ctx,
			`INSERT INTO player_state (player_id, key, value, updated_at)
			 VALUES ($1, $2, $3, now())
			 ON CONFLICT (player_id, key)
			 DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
			playerID, key, value,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (p *PostgresStore) Delete(ctx context.Context, playerID int64, key string) error {
	_, err := p.db.Exec(ctx,
		`DELETE FROM player_state WHERE player_id = $1 AND key = $2`,
		playerID, key,
	)
	return err
}
