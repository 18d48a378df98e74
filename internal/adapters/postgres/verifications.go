package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"premolt/internal/domain"
)

func (db *DB) AppendVerification(ctx context.Context, rec domain.VerificationRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	findings := rec.Findings
	if findings == nil {
		findings = []domain.Finding{}
	}
	_, err := db.Pool.Exec(ctx, `
        INSERT INTO verifications (id, agent_ref, scan_type, result, details, scan_logs, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, rec.ID, rec.AgentRef, rec.ScanType, string(rec.Result), rec.Details, findings, rec.CreatedAt)
	return err
}

// ListVerifications returns the history of one agent row, newest first.
func (db *DB) ListVerifications(ctx context.Context, agentRowID string) ([]domain.VerificationRecord, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT id::text, agent_ref::text, scan_type, result, COALESCE(details, '{}'::jsonb), scan_logs, created_at
        FROM verifications
        WHERE agent_ref = $1
        ORDER BY created_at DESC
    `, agentRowID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.VerificationRecord, error) {
		var rec domain.VerificationRecord
		var result string
		err := row.Scan(&rec.ID, &rec.AgentRef, &rec.ScanType, &result, &rec.Details, &rec.Findings, &rec.CreatedAt)
		rec.Result = domain.VerificationResult(result)
		return rec, err
	})
}
