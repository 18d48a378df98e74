package verifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"premolt/internal/domain"
)

type fakeRegistry struct {
	entries map[string]domain.MalwareEntry
	fail    map[string]error
	lookups []string
}

func newFakeRegistry(malicious ...string) *fakeRegistry {
	r := &fakeRegistry{entries: map[string]domain.MalwareEntry{}, fail: map[string]error{}}
	for _, name := range malicious {
		h := Fingerprint(name)
		r.entries[h] = domain.MalwareEntry{Hash: h, Name: name, Severity: domain.RegistryCritical}
	}
	return r
}

func (r *fakeRegistry) LookupMalwareHash(_ context.Context, hash string) (domain.MalwareEntry, bool, error) {
	r.lookups = append(r.lookups, hash)
	if err, ok := r.fail[hash]; ok {
		return domain.MalwareEntry{}, false, err
	}
	e, ok := r.entries[hash]
	return e, ok, nil
}

type fakeStore struct {
	mu        sync.Mutex
	agents    map[string]domain.AgentUpsert
	rowIDs    map[string]string
	history   []domain.VerificationRecord
	upserts   int
	appends   int
	upsertErr error
	appendErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{agents: map[string]domain.AgentUpsert{}, rowIDs: map[string]string{}}
}

func (s *fakeStore) UpsertAgent(_ context.Context, rec domain.AgentUpsert) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts++
	if s.upsertErr != nil {
		return "", s.upsertErr
	}
	id, ok := s.rowIDs[rec.AgentID]
	if !ok {
		id = fmt.Sprintf("row-%d", len(s.rowIDs)+1)
		s.rowIDs[rec.AgentID] = id
	}
	s.agents[rec.AgentID] = rec
	return id, nil
}

func (s *fakeStore) GetAgentByAgentID(_ context.Context, agentID string) (domain.Agent, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.agents[agentID]
	if !ok {
		return domain.Agent{}, false, nil
	}
	return domain.Agent{ID: s.rowIDs[agentID], AgentID: agentID, Status: rec.Status, Score: rec.Score}, true, nil
}

func (s *fakeStore) AppendVerification(_ context.Context, rec domain.VerificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appends++
	if s.appendErr != nil {
		return s.appendErr
	}
	s.history = append(s.history, rec)
	return nil
}

func (s *fakeStore) ListVerifications(_ context.Context, agentRowID string) ([]domain.VerificationRecord, error) {
	return nil, errors.New("not used")
}

func fixedClock() func() time.Time {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var n int
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Millisecond)
	}
}

func sequenceTokens() func() (string, error) {
	var n int
	return func() (string, error) {
		n++
		return fmt.Sprintf("tok%013d", n), nil
	}
}
