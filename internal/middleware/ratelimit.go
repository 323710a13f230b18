package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yukikurage/game-event-planner/internal/constants"
	"github.com/yukikurage/game-event-planner/internal/dto"
	apierrors "github.com/yukikurage/game-event-planner/internal/errors"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL    = 10 * time.Minute
	limiterPruneSize  = 1024
	limiterMaxEntries = 10000
)

// CredentialLimiter throttles register and login attempts per client IP
// and username.
type CredentialLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*limiterEntry
	maxEntries int
	limit      rate.Limit
	burst      int
	now        func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewCredentialLimiter allows perMinute attempts per key, refilled evenly.
// A non-positive perMinute disables limiting.
func NewCredentialLimiter(perMinute int) *CredentialLimiter {
	l := &CredentialLimiter{
		limiters:   make(map[string]*limiterEntry),
		maxEntries: limiterMaxEntries,
		now:        time.Now,
	}
	if perMinute > 0 {
		l.limit = rate.Every(time.Minute / time.Duration(perMinute))
		l.burst = perMinute
	}
	return l
}

// Middleware rejects requests over the limit with 429. The JSON body is
// cached on the context, so handlers must read it with ShouldBindBodyWith.
// The client IP comes from c.ClientIP, so the engine's trusted proxies
// decide whether forwarding headers count.
func (l *CredentialLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.burst == 0 {
			c.Next()
			return
		}

		var creds dto.CredentialsRequest
		_ = c.ShouldBindBodyWith(&creds, binding.JSON)

		username := creds.Username
		if len(username) > constants.MaxUsernameLength {
			username = username[:constants.MaxUsernameLength]
		}

		if delay := l.reserve(c.ClientIP() + "|" + username); delay > 0 {
			apierrors.TooManyRequests(c, delay)
			return
		}
		c.Next()
	}
}

// reserve takes a token for key and returns how long the caller would have
// to wait; zero means the attempt is allowed.
func (l *CredentialLimiter) reserve(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.limiters) >= limiterPruneSize {
		for k, e := range l.limiters {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(l.limiters, k)
			}
		}
	}

	entry, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= l.maxEntries {
			l.evictOldest()
		}
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now

	r := entry.limiter.ReserveN(now, 1)
	if !r.OK() {
		return time.Minute
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return delay
	}
	return 0
}

// evictOldest drops the least recently seen limiter. Callers hold l.mu.
func (l *CredentialLimiter) evictOldest() {
	var (
		oldestKey  string
		oldestSeen time.Time
	)
	for k, e := range l.limiters {
		if oldestKey == "" || e.lastSeen.Before(oldestSeen) {
			oldestKey, oldestSeen = k, e.lastSeen
		}
	}
	delete(l.limiters, oldestKey)
}
