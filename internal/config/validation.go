package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/v2"
)

// ValidationWarning represents a configuration warning for unknown or
// potentially misspelled keys.
type ValidationWarning struct {
	Key         string
	Suggestions []string
}

func (w ValidationWarning) String() string {
	msg := fmt.Sprintf("'%s' is not a known config key", w.Key)
	switch len(w.Suggestions) {
	case 0:
	case 1:
		msg += fmt.Sprintf(". Did you mean '%s'?", w.Suggestions[0])
	default:
		msg += fmt.Sprintf(". Did you mean one of: %s?", strings.Join(w.Suggestions, ", "))
	}
	return msg
}

// Validate checks all loaded configuration keys against the registry and
// returns warnings for unknown keys.
func (r *Registry) Validate(k *koanf.Koanf) []ValidationWarning {
	var warnings []ValidationWarning
	for _, key := range k.Keys() {
		if _, ok := r.Lookup(key); ok {
			continue
		}
		warnings = append(warnings, ValidationWarning{
			Key:         key,
			Suggestions: r.FindSimilarKeys(key, 3),
		})
	}
	return warnings
}
