package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"premolt/internal/domain"
)

// LookupMalwareHash implements ports.MalwareRegistry over the malware_hashes table.
func (db *DB) LookupMalwareHash(ctx context.Context, hash string) (domain.MalwareEntry, bool, error) {
	var e domain.MalwareEntry
	var name, desc, source *string
	var severity string
	err := db.Pool.QueryRow(ctx, `
        SELECT malware_hash, malware_name, description, severity, source
        FROM malware_hashes
        WHERE malware_hash = $1
    `, strings.ToLower(hash)).Scan(&e.Hash, &name, &desc, &severity, &source)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MalwareEntry{}, false, nil
	}
	if err != nil {
		return domain.MalwareEntry{}, false, err
	}
	e.Name = deref(name)
	e.Description = deref(desc)
	e.Source = deref(source)
	e.Severity = domain.RegistrySeverity(severity)
	return e, true, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
