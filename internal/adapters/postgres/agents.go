package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"premolt/internal/domain"
)

// UpsertAgent overwrites the stored verdict for an agent id. A nil public key
// keeps the previously stored one. Concurrent upserts for one agent id are
// last-writer-wins.
func (db *DB) UpsertAgent(ctx context.Context, rec domain.AgentUpsert) (string, error) {
	var id string
	err := db.Pool.QueryRow(ctx, `
        INSERT INTO agents (agent_id, public_key, soul_config, status, safety_score, safety_hash, verification_url, affiliate_link)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (agent_id) DO UPDATE SET
            public_key       = COALESCE(EXCLUDED.public_key, agents.public_key),
            soul_config      = EXCLUDED.soul_config,
            status           = EXCLUDED.status,
            safety_score     = EXCLUDED.safety_score,
            safety_hash      = EXCLUDED.safety_hash,
            verification_url = EXCLUDED.verification_url,
            affiliate_link   = EXCLUDED.affiliate_link,
            updated_at       = now()
        RETURNING id::text
    `, rec.AgentID, rec.PublicKey, rec.Config, string(rec.Status), rec.Score,
		rec.SafetyHash, rec.VerificationURL, rec.BadgeMarkup).Scan(&id)
	return id, err
}

func (db *DB) GetAgentByAgentID(ctx context.Context, agentID string) (domain.Agent, bool, error) {
	var a domain.Agent
	var status string
	err := db.Pool.QueryRow(ctx, `
        SELECT id::text, agent_id, public_key, COALESCE(soul_config, '{}'::jsonb), status, safety_score,
               safety_hash, verification_url, affiliate_link, created_at, updated_at
        FROM agents
        WHERE agent_id = $1
    `, agentID).Scan(&a.ID, &a.AgentID, &a.PublicKey, &a.Config, &status, &a.Score,
		&a.SafetyHash, &a.VerificationURL, &a.BadgeMarkup, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Agent{}, false, nil
	}
	if err != nil {
		return domain.Agent{}, false, err
	}
	a.Status = domain.Status(status)
	return a, true, nil
}
