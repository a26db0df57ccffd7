// file: service/revocation_store.go

package service

import (
	"bufio"
	"context"
	"fmt"
	"go-shop-api/logger"
	"os"
	"strings"
	"sync"
	"time"
)

// RevocationStore is the registry of access tokens invalidated before their
// natural expiry. It is dual-backed:
//
//   - a durable append-only log file, fully replayed into an in-memory set at
//     construction time. This tier is authoritative and always consulted.
//   - a Redis fast path whose entries carry a TTL equal to the access-token
//     lifetime, so they expire once the token would be dead anyway.
//
// Every revocation lands in the durable log before the fast path is touched,
// which makes the durable set a superset of the fast path: a fast-path outage
// degrades lookups to durable-only and can never cause a revoked token to be
// accepted.
type RevocationStore struct {
	mu      sync.Mutex
	revoked map[string]struct{}
	file    *os.File
	cache   ICacheClient
	fastTTL time.Duration
}

// NewRevocationStore opens (creating if needed) the durable log at path and
// replays it into memory. The cache client may be nil, in which case only the
// durable tier is used.
func NewRevocationStore(path string, cache ICacheClient, fastTTL time.Duration) (*RevocationStore, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open revoked tokens file: %w", err)
	}

	revoked := make(map[string]struct{})
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		token := strings.TrimSpace(scanner.Text())
		if token != "" {
			revoked[token] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to replay revoked tokens file: %w", err)
	}

	logger.Log.WithField("revoked_count", len(revoked)).Info("Revocation log replayed")

	return &RevocationStore{
		revoked: revoked,
		file:    file,
		cache:   cache,
		fastTTL: fastTTL,
	}, nil
}

// MarkRevoked registers the token in both tiers. The durable append happens
// first and is fsynced before returning; its failure is returned to the
// caller, which must abort the operation. A fast-path failure only costs the
// low-latency check and is logged as a warning.
func (s *RevocationStore) MarkRevoked(ctx context.Context, token string) error {
	s.mu.Lock()
	if _, exists := s.revoked[token]; !exists {
		if _, err := fmt.Fprintln(s.file, token); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to append to revoked tokens file: %w", err)
		}
		if err := s.file.Sync(); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to sync revoked tokens file: %w", err)
		}
		s.revoked[token] = struct{}{}
	}
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Set(ctx, token, "revoked", s.fastTTL).Err(); err != nil {
			logger.Log.WithError(err).Warn("Failed to set fast-path revocation entry, durable tier remains authoritative")
		}
	}
	return nil
}

// IsRevoked reports whether the token is present in the durable set.
func (s *RevocationStore) IsRevoked(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, revoked := s.revoked[token]
	return revoked
}

// IsRevokedFast probes the fast-path store. The returned error marks the
// result as non-authoritative; callers fall back to the durable check, which
// has already seen every revocation.
func (s *RevocationStore) IsRevokedFast(ctx context.Context, token string) (bool, error) {
	if s.cache == nil {
		return false, nil
	}
	n, err := s.cache.Exists(ctx, token).Result()
	if err != nil {
		return false, fmt.Errorf("fast-path revocation check failed: %w", err)
	}
	return n == 1, nil
}

// Close releases the durable log file handle.
func (s *RevocationStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
