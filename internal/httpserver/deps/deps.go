package deps

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/websaver/internal/logger"
	"github.com/MrSnakeDoc/websaver/internal/store/local"
	"github.com/MrSnakeDoc/websaver/internal/sync"
	"github.com/redis/go-redis/v9"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	AllowedHosts []string // Host headers allowed to access the server
	AllowedCIDRS []string // IPs allowed to access healthz/readyz endpoints
	TrustProxy   bool     // true if running behind a trusted reverse proxy

	Coordinator *sync.Coordinator // working copy + load/mutation protocols
	LocalStore  *local.Store      // theme + cache envelope introspection
	RedisClient *redis.Client     // nil in local-only mode
	SearchURL   string            // query prefix for free-text keywords
	CacheMaxAge time.Duration     // cache envelope expiry

	SyncTrigger chan struct{} // Channel to trigger a manual cloud sync (nil if remote disabled)

	Assets     http.Handler         // asset cache handler (nil when disabled)
	AssetStats func() (string, int) // current generation name + cached asset count
}
