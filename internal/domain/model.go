package domain

import "time"

// Core domain models. HTTP payloads live in internal/adapters/http and map
// onto these.

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusScanning Status = "scanning"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
)

// RegistrySeverity grades a known-malicious registry entry.
type RegistrySeverity string

const (
	RegistryLow      RegistrySeverity = "low"
	RegistryMedium   RegistrySeverity = "medium"
	RegistryHigh     RegistrySeverity = "high"
	RegistryCritical RegistrySeverity = "critical"
)

// Submission is one agent handed in for verification.
type Submission struct {
	AgentID   string
	PublicKey *string
	Config    map[string]any
	Skills    []string
}

type Finding struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Level     Severity  `json:"level"`
}

// Verdict is the complete output of one evaluation.
type Verdict struct {
	AgentID         string
	Status          Status
	Score           int
	SafetyHash      string
	VerificationURL string
	BadgeMarkup     string
	Findings        []Finding
}

// Evaluation is what a caller receives: the verdict plus, when storing it
// failed, a non-fatal persistence warning.
type Evaluation struct {
	Verdict            Verdict
	PersistenceWarning error
}

type MalwareEntry struct {
	Hash        string
	Name        string
	Description string
	Severity    RegistrySeverity
	Source      string
}

// AgentUpsert carries everything written to the agent record after an evaluation.
type AgentUpsert struct {
	AgentID         string
	PublicKey       *string
	Config          map[string]any
	Status          Status
	Score           int
	SafetyHash      string
	VerificationURL string
	BadgeMarkup     string
}

type Agent struct {
	ID              string
	AgentID         string
	PublicKey       *string
	Config          map[string]any
	Status          Status
	Score           int
	SafetyHash      *string
	VerificationURL *string
	BadgeMarkup     *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const ScanTypeFullVerification = "full-verification"

type VerificationResult string

const (
	ResultPass VerificationResult = "pass"
	ResultFail VerificationResult = "fail"
)

type VerificationDetails struct {
	SkillsChecked            int  `json:"skillsChecked"`
	MaliciousSkillsFound     bool `json:"maliciousSkillsFound"`
	PromptInjectionResistant bool `json:"promptInjectionResistant"`
}

type VerificationRecord struct {
	ID        string
	AgentRef  string
	ScanType  string
	Result    VerificationResult
	Details   VerificationDetails
	Findings  []Finding
	CreatedAt time.Time
}

// Skill is a catalog entry for an installable capability module.
type Skill struct {
	ID           string
	Name         string
	Description  *string
	Version      *string
	Repository   *string
	Hash         string
	IsVerified   bool
	IsMalicious  bool
	SafetyRating int
	Downloads    int
}
