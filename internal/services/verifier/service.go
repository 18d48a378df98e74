package verifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"premolt/internal/canonical"
	"premolt/internal/domain"
	"premolt/internal/ports"
)

// Service runs the verification pipeline. It holds no per-evaluation state,
// so concurrent Evaluate calls are independent. Evaluations of the same agent
// id are not serialized; the last upsert wins.
type Service struct {
	registry ports.MalwareRegistry
	agents   ports.AgentRepository
	history  ports.VerificationRepository
	attestor *Attestor
	now      func() time.Time
	log      hclog.Logger
}

type Option func(*Service)

// WithClock sets the finding timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(registry ports.MalwareRegistry, agents ports.AgentRepository, history ports.VerificationRepository, attestor *Attestor, log hclog.Logger, opts ...Option) *Service {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	s := &Service{
		registry: registry,
		agents:   agents,
		history:  history,
		attestor: attestor,
		now:      defaultNow,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate scores a submission and stores the outcome. Either a full verdict
// is returned or none at all; storage failures after scoring come back as
// Evaluation.PersistenceWarning.
func (s *Service) Evaluate(ctx context.Context, sub domain.Submission) (domain.Evaluation, error) {
	agentID := sub.AgentID
	if strings.TrimSpace(agentID) == "" {
		return domain.Evaluation{}, &domain.InputError{Field: "agentId", Reason: "must not be empty"}
	}
	if sub.Config == nil {
		return domain.Evaluation{}, &domain.InputError{Field: "soulConfig", Reason: "is required"}
	}
	canonicalConfig, err := canonical.Marshal(sub.Config)
	if err != nil {
		return domain.Evaluation{}, &domain.InputError{Field: "soulConfig", Reason: err.Error()}
	}
	skills := append([]string(nil), sub.Skills...)

	log := s.log.With("agent_id", agentID)
	log.Debug("verification started", "skills", len(skills))

	ledger := NewLedger(s.now)
	tally := NewTally()
	ledger.Record(domain.SeverityInfo, fmt.Sprintf("Initiating verification for Agent: %s", agentID))

	if err := checkSkills(ctx, s.registry, skills, ledger, tally); err != nil {
		log.Error("verification aborted", "error", err)
		var collab *domain.CollaboratorError
		if errors.As(err, &collab) {
			collab.Findings = ledger.All()
		}
		return domain.Evaluation{}, err
	}
	weakConfig := checkConfig(string(canonicalConfig), ledger, tally)

	score, status := tally.Final()
	safetyHash := s.attestor.Hash(canonicalConfig)
	badgeURL, markup, err := s.attestor.Badge(agentID, score)
	if err != nil {
		log.Error("verification aborted", "error", err)
		return domain.Evaluation{}, err
	}

	completion := domain.SeveritySuccess
	if status != domain.StatusVerified {
		completion = domain.SeverityError
	}
	ledger.Record(completion, fmt.Sprintf("Verification complete. Final score: %d/100", score))

	verdict := domain.Verdict{
		AgentID:         agentID,
		Status:          status,
		Score:           score,
		SafetyHash:      safetyHash,
		VerificationURL: badgeURL,
		BadgeMarkup:     markup,
		Findings:        ledger.All(),
	}
	log.Debug("verification finished", "status", status, "score", score)

	warning := s.persist(ctx, sub, verdict, domain.VerificationDetails{
		SkillsChecked:            len(skills),
		MaliciousSkillsFound:     tally.Malicious(),
		PromptInjectionResistant: !weakConfig,
	})
	if warning != nil {
		log.Warn("verdict not stored", "error", warning)
	}
	return domain.Evaluation{Verdict: verdict, PersistenceWarning: warning}, nil
}

// persist writes the agent record and then one history entry linked to it.
// Without a stored agent row there is nothing to link history to, so the
// append is skipped when the upsert fails.
func (s *Service) persist(ctx context.Context, sub domain.Submission, v domain.Verdict, details domain.VerificationDetails) error {
	rowID, err := s.agents.UpsertAgent(ctx, domain.AgentUpsert{
		AgentID:         v.AgentID,
		PublicKey:       sub.PublicKey,
		Config:          sub.Config,
		Status:          v.Status,
		Score:           v.Score,
		SafetyHash:      v.SafetyHash,
		VerificationURL: v.VerificationURL,
		BadgeMarkup:     v.BadgeMarkup,
	})
	if err != nil {
		return &domain.CollaboratorError{Op: "upsert agent record", Err: err}
	}

	result := domain.ResultFail
	if v.Status == domain.StatusVerified {
		result = domain.ResultPass
	}
	err = s.history.AppendVerification(ctx, domain.VerificationRecord{
		AgentRef:  rowID,
		ScanType:  domain.ScanTypeFullVerification,
		Result:    result,
		Details:   details,
		Findings:  v.Findings,
		CreatedAt: s.now(),
	})
	if err != nil {
		return &domain.CollaboratorError{Op: "append verification history", Err: err}
	}
	return nil
}
