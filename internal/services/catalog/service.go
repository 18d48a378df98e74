package catalog

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"premolt/internal/domain"
	"premolt/internal/ports"
)

type Service struct {
	skills   ports.SkillRepository
	registry ports.MalwareRegistry
}

func New(skills ports.SkillRepository, registry ports.MalwareRegistry) *Service {
	return &Service{skills: skills, registry: registry}
}

// ListSkills returns reviewed skills only.
func (s *Service) ListSkills(ctx context.Context) ([]domain.Skill, error) {
	return s.skills.ListVerifiedSkills(ctx)
}

func (s *Service) GetSkill(ctx context.Context, name string) (domain.Skill, error) {
	skill, found, err := s.skills.GetSkillByName(ctx, name)
	if err != nil {
		return domain.Skill{}, err
	}
	if !found {
		return domain.Skill{}, domain.ErrNotFound
	}
	return skill, nil
}

// CheckHash looks a sha256 hex digest up in the malware registry.
func (s *Service) CheckHash(ctx context.Context, hash string) (domain.MalwareEntry, error) {
	hash = strings.ToLower(strings.TrimSpace(hash))
	if b, err := hex.DecodeString(hash); err != nil || len(b) != 32 {
		return domain.MalwareEntry{}, &domain.InputError{Field: "hash", Reason: "must be a sha256 hex digest"}
	}
	entry, found, err := s.registry.LookupMalwareHash(ctx, hash)
	if err != nil {
		return domain.MalwareEntry{}, fmt.Errorf("registry lookup: %w", err)
	}
	if !found {
		return domain.MalwareEntry{}, domain.ErrNotFound
	}
	return entry, nil
}
