package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"premolt/internal/domain"
)

type stubVerifier struct {
	got domain.Submission
	res domain.Evaluation
	err error
}

func (s *stubVerifier) Evaluate(_ context.Context, sub domain.Submission) (domain.Evaluation, error) {
	s.got = sub
	return s.res, s.err
}

type stubAgents struct {
	agents  map[string]domain.Agent
	history []domain.VerificationRecord
	err     error
}

func (s *stubAgents) GetByAgentID(_ context.Context, agentID string) (domain.Agent, error) {
	if s.err != nil {
		return domain.Agent{}, s.err
	}
	a, ok := s.agents[agentID]
	if !ok {
		return domain.Agent{}, domain.ErrNotFound
	}
	return a, nil
}

func (s *stubAgents) History(ctx context.Context, agentID string) ([]domain.VerificationRecord, error) {
	if _, err := s.GetByAgentID(ctx, agentID); err != nil {
		return nil, err
	}
	return s.history, nil
}

type stubCatalog struct {
	skills  []domain.Skill
	malware map[string]domain.MalwareEntry
}

func (s *stubCatalog) ListSkills(context.Context) ([]domain.Skill, error) { return s.skills, nil }

func (s *stubCatalog) GetSkill(_ context.Context, name string) (domain.Skill, error) {
	for _, sk := range s.skills {
		if sk.Name == name {
			return sk, nil
		}
	}
	return domain.Skill{}, domain.ErrNotFound
}

func (s *stubCatalog) CheckHash(_ context.Context, hash string) (domain.MalwareEntry, error) {
	if hash == "bad-input" {
		return domain.MalwareEntry{}, &domain.InputError{Field: "hash", Reason: "must be a sha256 hex digest"}
	}
	e, ok := s.malware[hash]
	if !ok {
		return domain.MalwareEntry{}, domain.ErrNotFound
	}
	return e, nil
}

func newTestServer(v *stubVerifier, a *stubAgents, c *stubCatalog) http.Handler {
	if v == nil {
		v = &stubVerifier{}
	}
	if a == nil {
		a = &stubAgents{}
	}
	if c == nil {
		c = &stubCatalog{}
	}
	return New(v, a, c, nil).Routes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestServer(nil, nil, nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestPostVerify(t *testing.T) {
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	v := &stubVerifier{res: domain.Evaluation{Verdict: domain.Verdict{
		AgentID:         "test-agent-004",
		Status:          domain.StatusVerified,
		Score:           100,
		SafetyHash:      "abc",
		VerificationURL: "https://premolt.com/verify/test-agent-004/tok",
		BadgeMarkup:     "[🛡️ Verified by Premolt.com | Safety Score: 100/100](https://premolt.com/verify/test-agent-004/tok)",
		Findings:        []domain.Finding{{Timestamp: ts, Message: "Initiating verification for Agent: test-agent-004", Level: domain.SeverityInfo}},
	}}}
	h := newTestServer(v, nil, nil)

	rec := do(t, h, http.MethodPost, "/agents/verify",
		`{"agentId":"test-agent-004","publicKey":"pk","soulConfig":{"name":"SecureAgent","version":"1.0.0","n":1.50},"skillsList":["verified-skill"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "test-agent-004", v.got.AgentID)
	require.NotNil(t, v.got.PublicKey)
	assert.Equal(t, "pk", *v.got.PublicKey)
	assert.Equal(t, []string{"verified-skill"}, v.got.Skills)
	assert.Equal(t, json.Number("1.50"), v.got.Config["n"])

	body := decode(t, rec)
	assert.Equal(t, "verified", body["status"])
	assert.Equal(t, float64(100), body["safetyScore"])
	assert.Contains(t, body["affiliateLink"], "Safety Score: 100/100")
	assert.NotContains(t, body, "persistenceWarning")
	logs := body["scanLogs"].([]any)
	require.Len(t, logs, 1)
	assert.Equal(t, "info", logs[0].(map[string]any)["level"])
}

func TestPostVerify_PersistenceWarning(t *testing.T) {
	v := &stubVerifier{res: domain.Evaluation{
		Verdict:            domain.Verdict{AgentID: "a", Status: domain.StatusVerified, Score: 90},
		PersistenceWarning: &domain.CollaboratorError{Op: "upsert agent record", Err: errors.New("db down")},
	}}
	rec := do(t, newTestServer(v, nil, nil), http.MethodPost, "/agents/verify", `{"agentId":"a","soulConfig":{}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "upsert agent record: db down", decode(t, rec)["persistenceWarning"])
}

func TestPostVerify_Errors(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"malformed json", `{"agentId":`, nil, http.StatusBadRequest},
		{"config not an object", `{"agentId":"a","soulConfig":[1]}`, nil, http.StatusBadRequest},
		{"input error", `{"agentId":""}`, &domain.InputError{Field: "agentId", Reason: "must not be empty"}, http.StatusBadRequest},
		{"registry failure", `{"agentId":"a","soulConfig":{}}`, &domain.CollaboratorError{Op: "registry lookup", Err: errors.New("down")}, http.StatusBadGateway},
		{"unexpected", `{"agentId":"a","soulConfig":{}}`, errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, newTestServer(&stubVerifier{err: tc.err}, nil, nil), http.MethodPost, "/agents/verify", tc.body)
			assert.Equal(t, tc.want, rec.Code)
			assert.NotEmpty(t, decode(t, rec)["error"])
		})
	}
}

func TestRegistryFailureReturnsPartialLogs(t *testing.T) {
	collab := &domain.CollaboratorError{
		Op:       `registry lookup for skill "flaky"`,
		Err:      errors.New("down"),
		Findings: []domain.Finding{{Message: "Registry lookup failed for skill: flaky", Level: domain.SeverityError}},
	}
	rec := do(t, newTestServer(&stubVerifier{err: collab}, nil, nil), http.MethodPost, "/agents/verify", `{"agentId":"a","soulConfig":{}}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	logs := decode(t, rec)["scanLogs"].([]any)
	assert.Len(t, logs, 1)
}

func TestGetAgent(t *testing.T) {
	hash := "h"
	a := &stubAgents{
		agents: map[string]domain.Agent{
			"test-agent-006": {ID: "row-1", AgentID: "test-agent-006", Status: domain.StatusVerified, Score: 100, SafetyHash: &hash},
			"team agent":     {ID: "row-2", AgentID: "team agent", Status: domain.StatusRejected},
		},
		history: []domain.VerificationRecord{{ID: "v1", AgentRef: "row-1", ScanType: domain.ScanTypeFullVerification, Result: domain.ResultPass}},
	}
	h := newTestServer(nil, a, nil)

	rec := do(t, h, http.MethodGet, "/agents/test-agent-006", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "test-agent-006", body["agentId"])
	assert.Equal(t, "h", body["safetyHash"])

	rec = do(t, h, http.MethodGet, "/agents/team%20agent", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rejected", decode(t, rec)["status"])

	rec = do(t, h, http.MethodGet, "/agents/non-existent-agent", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/agents/test-agent-006/verifications", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var history []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, "pass", history[0]["result"])
	assert.Equal(t, "full-verification", history[0]["scanType"])

	rec = do(t, h, http.MethodGet, "/agents/missing/verifications", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSkillsAndMalware(t *testing.T) {
	c := &stubCatalog{
		skills:  []domain.Skill{{ID: "s1", Name: "calculator", IsVerified: true, SafetyRating: 90}},
		malware: map[string]domain.MalwareEntry{"deadbeef": {Hash: "deadbeef", Name: "Drainer", Severity: domain.RegistryHigh}},
	}
	h := newTestServer(nil, nil, c)

	rec := do(t, h, http.MethodGet, "/skills", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var skills []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &skills))
	require.Len(t, skills, 1)
	assert.Equal(t, "calculator", skills[0]["skillName"])

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/skills/calculator", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/skills/nope", "").Code)

	rec = do(t, h, http.MethodGet, "/malware/deadbeef", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "high", decode(t, rec)["severity"])
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/malware/cafe", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/malware/bad-input", "").Code)
}
