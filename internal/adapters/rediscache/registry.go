package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/redis/go-redis/v9"

	"premolt/internal/domain"
	"premolt/internal/ports"
)

const keyPrefix = "premolt:registry:"

// Registry is a read-through cache in front of another MalwareRegistry. Both
// hits and misses are cached for ttl, so a hash added to the backing registry
// becomes visible after at most ttl. Cache errors fall back to the backing
// registry; backing errors are returned unchanged and never cached.
type Registry struct {
	client redis.UniversalClient
	next   ports.MalwareRegistry
	ttl    time.Duration
	log    hclog.Logger
}

type cachedLookup struct {
	Found       bool   `json:"found"`
	Hash        string `json:"hash,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Severity    string `json:"severity,omitempty"`
	Source      string `json:"source,omitempty"`
}

func NewClient(addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), nil
}

func New(client redis.UniversalClient, next ports.MalwareRegistry, ttl time.Duration, log hclog.Logger) *Registry {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Registry{client: client, next: next, ttl: ttl, log: log}
}

func (r *Registry) LookupMalwareHash(ctx context.Context, hash string) (domain.MalwareEntry, bool, error) {
	hash = strings.ToLower(hash)
	key := keyPrefix + hash
	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var c cachedLookup
		if jerr := json.Unmarshal(raw, &c); jerr == nil {
			return c.entry(), c.Found, nil
		}
		r.log.Warn("dropping unreadable cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		r.log.Warn("registry cache read failed", "error", err)
	}

	entry, found, err := r.next.LookupMalwareHash(ctx, hash)
	if err != nil {
		return domain.MalwareEntry{}, false, err
	}
	payload, err := json.Marshal(newCachedLookup(entry, found))
	if err == nil {
		err = r.client.Set(ctx, key, payload, r.ttl).Err()
	}
	if err != nil {
		r.log.Warn("registry cache write failed", "error", err)
	}
	return entry, found, nil
}

func newCachedLookup(e domain.MalwareEntry, found bool) cachedLookup {
	if !found {
		return cachedLookup{}
	}
	return cachedLookup{
		Found:       true,
		Hash:        e.Hash,
		Name:        e.Name,
		Description: e.Description,
		Severity:    string(e.Severity),
		Source:      e.Source,
	}
}

func (c cachedLookup) entry() domain.MalwareEntry {
	if !c.Found {
		return domain.MalwareEntry{}
	}
	return domain.MalwareEntry{
		Hash:        c.Hash,
		Name:        c.Name,
		Description: c.Description,
		Severity:    domain.RegistrySeverity(c.Severity),
		Source:      c.Source,
	}
}
