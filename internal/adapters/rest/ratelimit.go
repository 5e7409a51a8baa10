package rest

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Rate allows Events requests per Per window for one caller.
type Rate struct {
	Events int
	Per    time.Duration
}

// Limits holds per-route request limits. Each caller IP gets its own bucket
// per route.
type Limits struct {
	Poster   Rate
	Artists  Rate
	Playlist Rate
	Default  Rate
}

// DefaultLimits are the production limits.
func DefaultLimits() Limits {
	return Limits{
		Poster:   Rate{Events: 10, Per: time.Minute},
		Artists:  Rate{Events: 30, Per: time.Minute},
		Playlist: Rate{Events: 15, Per: time.Minute},
		Default:  Rate{Events: 50, Per: time.Hour},
	}
}

// limiterSweepInterval is how often idle buckets are looked for.
const limiterSweepInterval = time.Minute

type limiterEntry struct {
	lim      *rate.Limiter
	idleTTL  time.Duration
	lastSeen time.Time
}

type rateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	lastSweep time.Time
	now       func() time.Time
}

func newRateLimiter() *rateLimiter {
	return &rateLimiter{limiters: make(map[string]*limiterEntry), now: time.Now}
}

func (l *rateLimiter) get(key string, rl Rate) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= limiterSweepInterval {
		l.sweep(now)
	}

	e, ok := l.limiters[key]
	if !ok {
		// A bucket idle for a full window has refilled, so dropping it is lossless.
		e = &limiterEntry{
			lim:     rate.NewLimiter(rate.Every(rl.Per/time.Duration(rl.Events)), rl.Events),
			idleTTL: rl.Per,
		}
		l.limiters[key] = e
	}
	e.lastSeen = now
	return e.lim
}

// sweep drops buckets idle for longer than their window. Callers hold mu.
func (l *rateLimiter) sweep(now time.Time) {
	for key, e := range l.limiters {
		if now.Sub(e.lastSeen) >= e.idleTTL {
			delete(l.limiters, key)
		}
	}
	l.lastSweep = now
}

func (l *rateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// middleware rejects callers over their route budget with 429.
func (l *rateLimiter) middleware(route string, rl Rate, next http.Handler) http.Handler {
	if rl.Events <= 0 || rl.Per <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lim := l.get(route+"|"+clientIP(r), rl)
		if !lim.Allow() {
			retryAfter := int(rl.Per/time.Duration(rl.Events)/time.Second) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeErrorWithCode(w, http.StatusTooManyRequests, codeRateLimited, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
