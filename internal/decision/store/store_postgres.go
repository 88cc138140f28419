package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"originate/internal/decision/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS decision_packs (
    request_id     TEXT PRIMARY KEY,
    client_id      TEXT NOT NULL,
    policy_id      TEXT NOT NULL,
    policy_version TEXT NOT NULL,
    final_outcome  TEXT,
    reason_code    TEXT,
    generated_at   TIMESTAMPTZ NOT NULL,
    pack           JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS decision_packs_client_idx ON decision_packs (client_id, generated_at DESC);
`

// PostgresStore persists packs as JSONB alongside the columns operators
// filter on.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed archive.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the decision_packs table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate decision_packs: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, pack *models.DecisionPack) error {
	if pack == nil {
		return errNilPack
	}
	raw, err := json.Marshal(pack)
	if err != nil {
		return fmt.Errorf("encode decision pack: %w", err)
	}
	var outcome, reason sql.NullString
	if fd := pack.Decisions.FinalDecision; fd != nil {
		outcome = sql.NullString{String: string(fd.Outcome), Valid: true}
		reason = sql.NullString{String: fd.ReasonCode, Valid: true}
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO decision_packs (request_id, client_id, policy_id, policy_version, final_outcome, reason_code, generated_at, pack)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (request_id) DO UPDATE SET
			client_id = EXCLUDED.client_id,
			policy_id = EXCLUDED.policy_id,
			policy_version = EXCLUDED.policy_version,
			final_outcome = EXCLUDED.final_outcome,
			reason_code = EXCLUDED.reason_code,
			generated_at = EXCLUDED.generated_at,
			pack = EXCLUDED.pack`,
		pack.RequestID, pack.ClientID, pack.PolicySnapshot.PolicyID, pack.PolicySnapshot.PolicyVersion,
		outcome, reason, pack.GeneratedAt, raw,
	)
	if err != nil {
		return fmt.Errorf("save decision pack: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByRequestID(ctx context.Context, requestID string) (*models.DecisionPack, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT pack FROM decision_packs WHERE request_id = $1`, requestID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find decision pack: %w", err)
	}
	var pack models.DecisionPack
	if err := json.Unmarshal(raw, &pack); err != nil {
		return nil, fmt.Errorf("decode decision pack: %w", err)
	}
	return &pack, nil
}

// CountByOutcome returns how many archived packs ended in each outcome.
func (s *PostgresStore) CountByOutcome(ctx context.Context) (map[models.Outcome]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT final_outcome, COUNT(*) FROM decision_packs
		WHERE final_outcome IS NOT NULL
		GROUP BY final_outcome`)
	if err != nil {
		return nil, fmt.Errorf("count decision packs: %w", err)
	}
	defer rows.Close()

	out := make(map[models.Outcome]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan decision pack count: %w", err)
		}
		out[models.Outcome(outcome)] = n
	}
	return out, rows.Err()
}
