package ports

import (
	"context"

	"premolt/internal/domain"
)

// MalwareRegistry looks up known-malicious content fingerprints.
type MalwareRegistry interface {
	LookupMalwareHash(ctx context.Context, hash string) (entry domain.MalwareEntry, found bool, err error)
}

// AgentRepository stores the latest verification state per agent id.
type AgentRepository interface {
	// UpsertAgent creates or overwrites the record for rec.AgentID and returns its row id.
	UpsertAgent(ctx context.Context, rec domain.AgentUpsert) (agentRowID string, err error)
	GetAgentByAgentID(ctx context.Context, agentID string) (agent domain.Agent, found bool, err error)
}

// VerificationRepository keeps the append-only verification history.
type VerificationRepository interface {
	AppendVerification(ctx context.Context, rec domain.VerificationRecord) error
	ListVerifications(ctx context.Context, agentRowID string) ([]domain.VerificationRecord, error)
}

// SkillRepository reads the reviewed skill catalog.
type SkillRepository interface {
	ListVerifiedSkills(ctx context.Context) ([]domain.Skill, error)
	GetSkillByName(ctx context.Context, name string) (skill domain.Skill, found bool, err error)
}
