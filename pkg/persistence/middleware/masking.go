package middleware

import (
	"context"
	"regexp"

	"github.com/triagekit/triage/pkg/domain"
	"github.com/triagekit/triage/pkg/ports"
)

type maskingMiddleware struct {
	next     ports.HistoryStore
	patterns []*regexp.Regexp
}

// NewMaskingMiddleware creates a middleware that masks command argument
// values whose keys match the patterns (e.g. "(?i)password", "token$")
// before they reach the store. Loads return the masked values as stored.
func NewMaskingMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.HistoryStore) ports.HistoryStore {
		return &maskingMiddleware{next: next, patterns: patterns}
	}
}

func (m *maskingMiddleware) Save(ctx context.Context, sessionID string, journal *domain.Journal) error {
	// Deep-clone first: the in-memory journal used by the engine keeps real
	// values, including inside nested argument maps.
	cloned := journal.Clone()
	for i := range cloned.Entries {
		cloned.Entries[i].Args = deepCopyMap(cloned.Entries[i].Args)
		maskMap(cloned.Entries[i].Args, m.patterns)
	}
	return m.next.Save(ctx, sessionID, cloned)
}

func (m *maskingMiddleware) Load(ctx context.Context, sessionID string) (*domain.Journal, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *maskingMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *maskingMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if subMap, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(subMap)
		} else {
			out[k] = v
		}
	}
	return out
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = "***"
				break
			}
		}

		// Recurse into nested maps
		if subMap, ok := v.(map[string]any); ok {
			maskMap(subMap, patterns)
		}
	}
}
