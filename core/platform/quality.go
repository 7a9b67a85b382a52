package platform

import (
	"fmt"
	"strings"
)

// Quality is a stream quality tier. QualityDefault is the provider's plain
// rendition used when no explicit tier is available.
type Quality int

const (
	QualityDefault Quality = iota
	QualityLow
	QualityMedium
	QualityHigh
)

// String returns the tier name.
func (q Quality) String() string {
	switch q {
	case QualityDefault:
		return "default"
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Bitrate returns the nominal bitrate in kbps, 0 when unknown.
func (q Quality) Bitrate() int {
	switch q {
	case QualityLow:
		return 96
	case QualityMedium:
		return 160
	case QualityHigh:
		return 320
	default:
		return 0
	}
}

// Fallbacks returns q followed by every lower tier, ending with QualityDefault.
func (q Quality) Fallbacks() []Quality {
	if q < QualityDefault || q > QualityHigh {
		q = QualityHigh
	}
	chain := make([]Quality, 0, int(q)+1)
	for tier := q; tier >= QualityDefault; tier-- {
		chain = append(chain, tier)
	}
	return chain
}

// ParseQuality converts a tier name to Quality.
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "hq":
		return QualityHigh, nil
	case "medium", "standard":
		return QualityMedium, nil
	case "low":
		return QualityLow, nil
	case "default", "":
		return QualityDefault, nil
	default:
		return QualityDefault, fmt.Errorf("unknown quality level: %s", s)
	}
}
