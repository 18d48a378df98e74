package verifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"premolt/internal/domain"
	"premolt/internal/ports"
)

// Fingerprint is the registry key for a skill: hex sha256 of its declared name.
func Fingerprint(name string) string {
	sum := sha256.Sum256([]byte(name))
	return hex.EncodeToString(sum[:])
}

// unreviewedName reports names that advertise an unreviewed module. The match
// is case-insensitive, unlike the configuration leak check.
func unreviewedName(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "unknown") || strings.Contains(lower, "unverified")
}

// checkSkills classifies every skill in declaration order, one finding each.
// A registry failure is recorded and returned; the caller must abort.
func checkSkills(ctx context.Context, registry ports.MalwareRegistry, skills []string, ledger *Ledger, tally *Tally) error {
	for _, name := range skills {
		entry, found, err := registry.LookupMalwareHash(ctx, Fingerprint(name))
		if err != nil {
			ledger.Record(domain.SeverityError, fmt.Sprintf("Registry lookup failed for skill: %s", name))
			return &domain.CollaboratorError{Op: fmt.Sprintf("registry lookup for skill %q", name), Err: err}
		}
		switch {
		case found:
			tally.Deduct(MaliciousSkillPenalty)
			tally.MarkMalicious()
			ledger.Record(domain.SeverityError, fmt.Sprintf("CRITICAL: Malicious skill detected: %s (%s)", name, entry.Severity))
		case unreviewedName(name):
			tally.Deduct(UnreviewedSkillPenalty)
			ledger.Record(domain.SeverityWarning, fmt.Sprintf("WARNING: Unverified skill detected: %s", name))
		default:
			ledger.Record(domain.SeveritySuccess, fmt.Sprintf("✓ Skill verified: %s", name))
		}
	}
	return nil
}
