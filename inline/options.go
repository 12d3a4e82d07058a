package inline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mediasurface/mediasurface/engine"
	"github.com/samber/lo"
)

type Options struct {
	Out     io.Writer
	Sources []string
	Json    bool
	Timeout time.Duration
	// Kinds limits the streams listed in the report.
	Kinds []engine.TrackKind
	// CacheLifetime enables the on-disk report cache when positive.
	CacheLifetime time.Duration
}

var kindNames = map[string]engine.TrackKind{
	"video":    engine.VideoTrack,
	"audio":    engine.AudioTrack,
	"subtitle": engine.SubtitleTrack,
	"sub":      engine.SubtitleTrack,
}

// ParseKinds parses a stream kind selector.
// Format: "all", "none", or a comma separated list such as "video,audio".
func ParseKinds(description string) ([]engine.TrackKind, error) {
	switch description = strings.ToLower(strings.TrimSpace(description)); description {
	case "", "all":
		return engine.TrackKinds, nil
	case "none":
		return []engine.TrackKind{}, nil
	}

	var kinds []engine.TrackKind
	for _, name := range strings.Split(description, ",") {
		kind, ok := kindNames[strings.TrimSpace(name)]
		if !ok {
			return nil, fmt.Errorf("unknown stream kind: %s", name)
		}
		kinds = append(kinds, kind)
	}

	return lo.Uniq(kinds), nil
}
