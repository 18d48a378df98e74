package agents

import (
	"context"
	"fmt"

	"premolt/internal/domain"
	"premolt/internal/ports"
)

type Service struct {
	agents  ports.AgentRepository
	history ports.VerificationRepository
}

func New(agents ports.AgentRepository, history ports.VerificationRepository) *Service {
	return &Service{agents: agents, history: history}
}

func (s *Service) GetByAgentID(ctx context.Context, agentID string) (domain.Agent, error) {
	agent, found, err := s.agents.GetAgentByAgentID(ctx, agentID)
	if err != nil {
		return domain.Agent{}, fmt.Errorf("get agent %q: %w", agentID, err)
	}
	if !found {
		return domain.Agent{}, domain.ErrNotFound
	}
	return agent, nil
}

// History lists the verification records of an agent, newest first.
func (s *Service) History(ctx context.Context, agentID string) ([]domain.VerificationRecord, error) {
	agent, err := s.GetByAgentID(ctx, agentID)
	if err != nil {
		return nil, err
	}
	records, err := s.history.ListVerifications(ctx, agent.ID)
	if err != nil {
		return nil, fmt.Errorf("list verifications for %q: %w", agentID, err)
	}
	return records, nil
}
