package platform

import (
	"strings"

	"github.com/liuran001/hymusic/core/model"
)

// Meta describes a provider for listings and alias resolution.
type Meta struct {
	Name        string
	DisplayName string
	Aliases     []string
}

// MetadataProvider can be implemented by providers to expose metadata.
type MetadataProvider interface {
	Metadata() Meta
}

// URLMatcher can be implemented by providers that recognize their own
// share links.
type URLMatcher interface {
	MatchURL(rawURL string) (kind model.Kind, id string, ok bool)
}

// NormalizeAlias prepares an alias token for lookup.
func NormalizeAlias(alias string) string {
	trimmed := strings.TrimSpace(alias)
	if trimmed == "" {
		return ""
	}
	trimmed = strings.TrimPrefix(trimmed, "@")
	return strings.ToLower(strings.TrimSpace(trimmed))
}
