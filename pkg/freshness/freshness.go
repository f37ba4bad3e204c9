package freshness

import "time"

// DefaultTTL is the maximum age of a cached player.
// It's short on purpose, only bursts of reads for the same player are served from the cache.
const DefaultTTL = 30 * time.Second

// IsStale tells if the cached data must be refreshed.
// A player never synced (zero time) is always stale.
func IsStale(now time.Time, lastSyncedAt time.Time, ttl time.Duration) bool {
	if lastSyncedAt.IsZero() {
		return true
	}
	return now.Sub(lastSyncedAt) >= ttl
}

// RevisionChanged tells if the upstream revision is newer than the cached one.
// Only a secondary check, the ttl decides when a refresh happens.
func RevisionChanged(cached time.Time, upstream time.Time) bool {
	if cached.IsZero() {
		return true
	}
	return upstream.After(cached)
}
