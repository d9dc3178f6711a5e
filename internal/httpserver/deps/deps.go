package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/linkpost/internal/index"
	"github.com/MrSnakeDoc/linkpost/internal/logger"
	"github.com/MrSnakeDoc/linkpost/internal/syncer"
)

// Syncer runs one sync invocation.
type Syncer interface {
	Run(ctx context.Context) (syncer.Result, error)
}

// Pinger reports whether a backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Schedule describes the optional cron schedule.
type Schedule interface {
	Expr() string
	Next() time.Time
}

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time   // for testing, defaults to time.Now
	AllowedHosts   []string           // Host headers allowed to access the server
	AllowedCIDRS   []string           // IPs allowed to access infra/history/readyz endpoints
	TrustProxy     bool               // true if running behind a trusted reverse proxy (e.g., cloudflared)
	SyncSecret     string             // bearer secret for /sync
	SyncTimeout    time.Duration      // deadline for one invocation
	SyncRateBurst  int                // per-ip burst on /sync
	SyncRatePerMin int                // per-ip refill on /sync
	Syncer         Syncer             // the sync invocation
	History        *index.MemoryIndex // in-memory sync history
	Redis          Pinger             // nil when history is memory only
	Ghost          Pinger             // content system
	Schedule       Schedule           // nil when scheduled sync is disabled
}

// Now returns the current time using TimeNow when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
