package ports

import (
	"context"

	"premolt/internal/domain"
)

// Agents reads stored verification state.
type Agents interface {
	GetByAgentID(ctx context.Context, agentID string) (domain.Agent, error)
	History(ctx context.Context, agentID string) ([]domain.VerificationRecord, error)
}

// Catalog exposes the skill catalog and registry checks.
type Catalog interface {
	ListSkills(ctx context.Context) ([]domain.Skill, error)
	GetSkill(ctx context.Context, name string) (domain.Skill, error)
	CheckHash(ctx context.Context, hash string) (domain.MalwareEntry, error)
}

// Verifier evaluates one submission end to end.
type Verifier interface {
	Evaluate(ctx context.Context, sub domain.Submission) (domain.Evaluation, error)
}
