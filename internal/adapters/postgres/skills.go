package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"premolt/internal/domain"
)

const skillColumns = `id::text, skill_name, description, version, repository, skill_hash,
               is_verified, is_malicious, safety_rating, download_count`

func scanSkill(row pgx.Row) (domain.Skill, error) {
	var s domain.Skill
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Version, &s.Repository, &s.Hash,
		&s.IsVerified, &s.IsMalicious, &s.SafetyRating, &s.Downloads)
	return s, err
}

func (db *DB) ListVerifiedSkills(ctx context.Context) ([]domain.Skill, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT `+skillColumns+`
        FROM skills
        WHERE is_verified AND NOT is_malicious
        ORDER BY skill_name
    `)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Skill, error) {
		return scanSkill(row)
	})
}

func (db *DB) GetSkillByName(ctx context.Context, name string) (domain.Skill, bool, error) {
	s, err := scanSkill(db.Pool.QueryRow(ctx, `
        SELECT `+skillColumns+`
        FROM skills
        WHERE skill_name = $1
    `, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Skill{}, false, nil
	}
	if err != nil {
		return domain.Skill{}, false, err
	}
	return s, true, nil
}
