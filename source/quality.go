// Package source defines the domain models and interfaces for episode discovery and link resolution.
package source

import (
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Quality is a video quality selector. Besides the concrete resolution labels
// the mirrors advertise, two sentinels ask a mirror for the best or worst
// stream it offers without naming a resolution.
type Quality string

const (
	Quality360  Quality = "360p"
	Quality480  Quality = "480p"
	Quality720  Quality = "720p"
	Quality1080 Quality = "1080p"

	// QualityHighest selects the best stream a mirror offers.
	QualityHighest Quality = "highest"

	// QualityLowest selects the worst stream a mirror offers.
	QualityLowest Quality = "lowest"
)

// Sentinel reports whether the quality delegates the pick to the mirror
// instead of naming a concrete resolution.
func (q Quality) Sentinel() bool {
	return q == QualityHighest || q == QualityLowest
}

// String returns the canonical label of the quality.
func (q Quality) String() string {
	return string(q)
}

// Qualities returns all recognized quality selectors, concrete labels first.
func Qualities() []Quality {
	return []Quality{
		Quality360,
		Quality480,
		Quality720,
		Quality1080,
		QualityHighest,
		QualityLowest,
	}
}

// QualityNames returns the string form of every recognized selector, for flag
// completion and interactive prompts.
func QualityNames() []string {
	qualities := Qualities()
	names := make([]string, len(qualities))
	for i, q := range qualities {
		names[i] = q.String()
	}
	return names
}

// ParseQuality validates a user-supplied quality label. Unknown labels are
// rejected with the closest recognized selector as a suggestion.
func ParseQuality(value string) (Quality, error) {
	for _, q := range Qualities() {
		if q.String() == value {
			return q, nil
		}
	}

	if matches := fuzzy.RankFindFold(value, QualityNames()); len(matches) > 0 {
		sort.Sort(matches)
		return "", fmt.Errorf("unknown quality %q, did you mean %q?", value, matches[0].Target)
	}

	return "", fmt.Errorf("unknown quality %q", value)
}
