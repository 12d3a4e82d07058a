package inline

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mediasurface/mediasurface/engine"
	"github.com/mediasurface/mediasurface/filesystem"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

type cacheData struct {
	Reports map[string]*Report `json:"reports"`
}

// reportCache keeps probe reports on disk. The whole file expires together.
type reportCache struct {
	internal *gache.Cache[*cacheData]
	mu       sync.Mutex
}

func newReportCache(path string, lifetime time.Duration) *reportCache {
	return &reportCache{
		internal: gache.New[*cacheData](
			&gache.Options{
				Path:       path,
				Lifetime:   lifetime,
				FileSystem: &filesystem.GacheFs{},
			},
		),
	}
}

func (c *reportCache) Get(key string) mo.Option[*Report] {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil || expired || data == nil {
		return mo.None[*Report]()
	}

	report, ok := data.Reports[key]
	if !ok {
		return mo.None[*Report]()
	}

	return mo.Some(report)
}

func (c *reportCache) Set(key string, report *Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil {
		return err
	}

	if expired || data == nil {
		data = &cacheData{Reports: make(map[string]*Report)}
	}

	data.Reports[key] = report
	return c.internal.Set(data)
}

// cacheKey identifies a probe of source listing kinds. Local files are
// keyed by size and modification time too, so edits invalidate them.
func cacheKey(source string, kinds []engine.TrackKind) string {
	names := lo.Map(kinds, func(k engine.TrackKind, _ int) string { return k.String() })
	key := strings.Join(names, ",") + "|" + source

	info, err := filesystem.API().Stat(source)
	if err != nil || info.IsDir() {
		return key
	}

	if abs, err := filepath.Abs(source); err == nil {
		key = strings.Join(names, ",") + "|" + abs
	}
	return fmt.Sprintf("%s|%d|%d", key, info.Size(), info.ModTime().UnixNano())
}
