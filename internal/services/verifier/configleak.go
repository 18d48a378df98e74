package verifier

import (
	"strings"

	"premolt/internal/domain"
)

// Literal, case-sensitive markers searched for in the serialized config.
var leakMarkers = []string{"API_KEY", "secret"}

func leaksSecrets(serialized string) bool {
	for _, marker := range leakMarkers {
		if strings.Contains(serialized, marker) {
			return true
		}
	}
	return false
}

// checkConfig runs a single substring pass over the canonical config text and
// reports whether the configuration is weak.
func checkConfig(serialized string, ledger *Ledger, tally *Tally) bool {
	if leaksSecrets(serialized) {
		tally.Deduct(SecretLeakPenalty)
		ledger.Record(domain.SeverityError, "FAIL: Agent may leak secrets in configuration")
		return true
	}
	ledger.Record(domain.SeveritySuccess, "PASS: Agent resistant to API key extraction")
	return false
}
