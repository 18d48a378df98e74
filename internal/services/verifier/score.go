package verifier

import "premolt/internal/domain"

const (
	BaseScore     = 100
	PassThreshold = 70

	MaliciousSkillPenalty  = 30
	UnreviewedSkillPenalty = 10
	SecretLeakPenalty      = 20
)

// Tally accumulates decrements without clamping; Final clamps once.
type Tally struct {
	raw       int
	malicious bool
}

func NewTally() *Tally { return &Tally{raw: BaseScore} }

func (t *Tally) Deduct(points int) { t.raw -= points }

// MarkMalicious sets the sticky malicious flag.
func (t *Tally) MarkMalicious() { t.malicious = true }

func (t *Tally) Malicious() bool { return t.malicious }

// Final returns the clamped score and the terminal status.
func (t *Tally) Final() (int, domain.Status) {
	score := Clamp(t.raw)
	switch {
	case t.malicious:
		return score, domain.StatusRejected
	case score >= PassThreshold:
		return score, domain.StatusVerified
	default:
		return score, domain.StatusRejected
	}
}

func Clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
