package config

import (
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
)

// KeyInfo contains metadata about a known configuration key.
type KeyInfo struct {
	Key         string // The full config key path (e.g., "secret")
	Description string // Human-readable description of what this config does
	Env         string // Environment variable the key can be read from
}

// Registry holds the known configuration keys for a loader.
type Registry struct {
	mu   sync.RWMutex
	keys map[string]KeyInfo
}

// NewRegistry returns a registry populated with the given keys.
func NewRegistry(infos ...KeyInfo) *Registry {
	r := &Registry{keys: make(map[string]KeyInfo)}
	r.Register(infos...)
	return r
}

// Register adds keys to the registry, replacing existing entries.
func (r *Registry) Register(infos ...KeyInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, info := range infos {
		r.keys[info.Key] = info
	}
}

// Lookup returns metadata for a registered key.
func (r *Registry) Lookup(key string) (KeyInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.keys[key]
	return info, ok
}

// Keys returns all registered keys sorted alphabetically.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.keys))
	for k := range r.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FindSimilarKeys finds registered keys that are similar to the given key.
// Returns up to maxResults keys sorted by similarity (most similar first).
//
// Keys within an edit distance of 3 are candidates; keys sharing the same
// dotted prefix get a one point bonus.
func (r *Registry) FindSimilarKeys(key string, maxResults int) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type scored struct {
		key   string
		score int // Lower is better
	}

	var candidates []scored
	keyPrefix := getPrefix(key)

	for registeredKey := range r.keys {
		if registeredKey == key {
			continue
		}
		score := calculateSimilarity(key, registeredKey, keyPrefix)
		if score <= 3 {
			candidates = append(candidates, scored{registeredKey, score})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score == candidates[j].score {
			return candidates[i].key < candidates[j].key
		}
		return candidates[i].score < candidates[j].score
	})

	result := make([]string, 0, maxResults)
	for i := 0; i < len(candidates) && i < maxResults; i++ {
		result = append(result, candidates[i].key)
	}
	return result
}

// calculateSimilarity returns a similarity score between two keys.
// Lower scores are more similar.
func calculateSimilarity(key1, key2, key1Prefix string) int {
	distance := levenshtein.ComputeDistance(strings.ToLower(key1), strings.ToLower(key2))

	key2Prefix := getPrefix(key2)
	if key1Prefix != "" && key1Prefix == key2Prefix && distance > 0 {
		distance--
	}
	return distance
}

// getPrefix extracts the prefix of a hierarchical key.
// For "auth.cookie.name", returns "auth.cookie"
func getPrefix(key string) string {
	lastDot := strings.LastIndex(key, ".")
	if lastDot == -1 {
		return ""
	}
	return key[:lastDot]
}
