package echomw

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

/*
IPRateLimiter hands out one token bucket per client IP.

Limiters not used for the idle period are dropped by Sweep.
*/
type IPRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
	idle    time.Duration
	nowFunc func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewIPRateLimiter(middlewareConfig Config) *IPRateLimiter {
	return &IPRateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(middlewareConfig.RequestsPerSecond),
		burst:   middlewareConfig.Burst,
		idle:    time.Duration(middlewareConfig.IdleMinutes) * time.Minute,
		nowFunc: time.Now,
	}
}

// Allow reports whether ip may make a request right now.
func (ipLimiter *IPRateLimiter) Allow(ip string) bool {
	ipLimiter.mu.Lock()
	defer ipLimiter.mu.Unlock()

	now := ipLimiter.nowFunc()
	client, exists := ipLimiter.clients[ip]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(ipLimiter.limit, ipLimiter.burst)}
		ipLimiter.clients[ip] = client
	}
	client.lastSeen = now
	return client.limiter.AllowN(now, 1)
}

// Sweep drops limiters idle for longer than the configured period and returns how many went.
func (ipLimiter *IPRateLimiter) Sweep() (removed int) {
	ipLimiter.mu.Lock()
	defer ipLimiter.mu.Unlock()

	now := ipLimiter.nowFunc()
	for ip, client := range ipLimiter.clients {
		if now.Sub(client.lastSeen) > ipLimiter.idle {
			delete(ipLimiter.clients, ip)
			removed += 1
		}
	}
	return removed
}

// Len is the number of tracked clients.
func (ipLimiter *IPRateLimiter) Len() int {
	ipLimiter.mu.Lock()
	defer ipLimiter.mu.Unlock()
	return len(ipLimiter.clients)
}

/*
Middleware rejects requests over the client's limit with 429.
*/
func (ipLimiter *IPRateLimiter) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ip := c.RealIP()
		if !ipLimiter.Allow(ip) {
			LogRouteAccess(c, tl.Warning, "Rate limited", palette.Yellow)
			return c.String(http.StatusTooManyRequests, "Too many requests")
		}
		return next(c)
	}
}

/*
RunSweeper calls Sweep every idle period until done is closed.
*/
func (ipLimiter *IPRateLimiter) RunSweeper(done <-chan struct{}) {
	if ipLimiter.idle <= 0 {
		return
	}
	ticker := time.NewTicker(ipLimiter.idle)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			removed := ipLimiter.Sweep()
			if removed > 0 {
				tl.Log(tl.Verbose, palette.CyanDim, "Dropped %d idle rate limiters", removed)
			}
		}
	}
}
