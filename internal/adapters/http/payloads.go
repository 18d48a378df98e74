package httpadapter

import (
	"time"

	"premolt/internal/domain"
)

type verifyRequest struct {
	AgentID    string         `json:"agentId"`
	PublicKey  *string        `json:"publicKey,omitempty"`
	SoulConfig map[string]any `json:"soulConfig"`
	SkillsList []string       `json:"skillsList"`
}

func (r verifyRequest) submission() domain.Submission {
	return domain.Submission{
		AgentID:   r.AgentID,
		PublicKey: r.PublicKey,
		Config:    r.SoulConfig,
		Skills:    r.SkillsList,
	}
}

type verdictResponse struct {
	AgentID            string           `json:"agentId"`
	Status             string           `json:"status"`
	SafetyScore        int              `json:"safetyScore"`
	SafetyHash         string           `json:"safetyHash"`
	VerificationURL    string           `json:"verificationUrl"`
	AffiliateLink      string           `json:"affiliateLink"`
	ScanLogs           []domain.Finding `json:"scanLogs"`
	PersistenceWarning string           `json:"persistenceWarning,omitempty"`
}

func newVerdictResponse(res domain.Evaluation) verdictResponse {
	v := res.Verdict
	out := verdictResponse{
		AgentID:         v.AgentID,
		Status:          string(v.Status),
		SafetyScore:     v.Score,
		SafetyHash:      v.SafetyHash,
		VerificationURL: v.VerificationURL,
		AffiliateLink:   v.BadgeMarkup,
		ScanLogs:        v.Findings,
	}
	if res.PersistenceWarning != nil {
		out.PersistenceWarning = res.PersistenceWarning.Error()
	}
	return out
}

type agentResponse struct {
	ID              string         `json:"id"`
	AgentID         string         `json:"agentId"`
	PublicKey       *string        `json:"publicKey"`
	SoulConfig      map[string]any `json:"soulConfig"`
	Status          string         `json:"status"`
	SafetyScore     int            `json:"safetyScore"`
	SafetyHash      *string        `json:"safetyHash"`
	VerificationURL *string        `json:"verificationUrl"`
	AffiliateLink   *string        `json:"affiliateLink"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func newAgentResponse(a domain.Agent) agentResponse {
	return agentResponse{
		ID:              a.ID,
		AgentID:         a.AgentID,
		PublicKey:       a.PublicKey,
		SoulConfig:      a.Config,
		Status:          string(a.Status),
		SafetyScore:     a.Score,
		SafetyHash:      a.SafetyHash,
		VerificationURL: a.VerificationURL,
		AffiliateLink:   a.BadgeMarkup,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

type verificationResponse struct {
	ID        string                     `json:"id"`
	AgentID   string                     `json:"agentId"`
	ScanType  string                     `json:"scanType"`
	Result    string                     `json:"result"`
	Details   domain.VerificationDetails `json:"details"`
	ScanLogs  []domain.Finding           `json:"scanLogs"`
	CreatedAt time.Time                  `json:"createdAt"`
}

func newVerificationResponse(rec domain.VerificationRecord) verificationResponse {
	return verificationResponse{
		ID:        rec.ID,
		AgentID:   rec.AgentRef,
		ScanType:  rec.ScanType,
		Result:    string(rec.Result),
		Details:   rec.Details,
		ScanLogs:  rec.Findings,
		CreatedAt: rec.CreatedAt,
	}
}

type skillResponse struct {
	ID            string  `json:"id"`
	SkillName     string  `json:"skillName"`
	Description   *string `json:"description"`
	Version       *string `json:"version"`
	Repository    *string `json:"repository"`
	SkillHash     string  `json:"skillHash"`
	IsVerified    bool    `json:"isVerified"`
	IsMalicious   bool    `json:"isMalicious"`
	SafetyRating  int     `json:"safetyRating"`
	DownloadCount int     `json:"downloadCount"`
}

func newSkillResponse(s domain.Skill) skillResponse {
	return skillResponse{
		ID:            s.ID,
		SkillName:     s.Name,
		Description:   s.Description,
		Version:       s.Version,
		Repository:    s.Repository,
		SkillHash:     s.Hash,
		IsVerified:    s.IsVerified,
		IsMalicious:   s.IsMalicious,
		SafetyRating:  s.SafetyRating,
		DownloadCount: s.Downloads,
	}
}

type malwareResponse struct {
	Hash        string `json:"malwareHash"`
	Name        string `json:"malwareName,omitempty"`
	Description string `json:"description,omitempty"`
	Severity    string `json:"severity"`
	Source      string `json:"source,omitempty"`
}

type errorResponse struct {
	Error    string           `json:"error"`
	ScanLogs []domain.Finding `json:"scanLogs,omitempty"`
}
