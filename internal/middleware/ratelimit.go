package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig 는 레이트 제한 설정을 보관한다.
type RateLimiterConfig struct {
	GeneralRate     rate.Limit    // API 전반 레이트(req/sec). 120/60 = 2 req/sec
	GeneralBurst    int           // API 전반 버스트 크기
	CleanupInterval time.Duration // 만료 엔트리 정리 간격
}

// DefaultRateLimiterConfig 는 기본 레이트 제한 설정을 반환한다.
// API 전반 120 req/min/클라이언트.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(120.0 / 60.0),
		GeneralBurst:    120,
		CleanupInterval: 5 * time.Minute,
	}
}

// clientLimiter 는 클라이언트별 리미터와 마지막 접근 시각을 보관한다.
type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter 는 클라이언트 IP 별 레이트 제한을 관리한다.
// 인증 계층이 없는 서비스이므로 식별자는 원격 주소의 IP 를 사용한다.
type RateLimiter struct {
	config RateLimiterConfig

	mu       sync.RWMutex
	limiters map[string]*clientLimiter

	stopCh chan struct{}
}

// NewRateLimiter 는 새 RateLimiter 를 생성한다.
// 백그라운드에서 만료 엔트리 정리를 시작한다.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:   config,
		limiters: make(map[string]*clientLimiter),
		stopCh:   make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop 은 정리용 백그라운드 고루틴을 중지한다.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// Middleware 는 클라이언트 IP 기반 레이트 제한 미들웨어를 반환한다.
func (rl *RateLimiter) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := clientIPFromRequest(r)

			limiter := rl.getOrCreateLimiter(clientIP)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.GeneralRate)
				slog.Warn("rate limit exceeded",
					slog.String("client_ip", clientIP),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// LimiterCount 는 현재 관리 중인 리미터 엔트리 수를 반환한다.
// 테스트 및 메트릭용.
func (rl *RateLimiter) LimiterCount() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.limiters)
}

// getOrCreateLimiter 는 클라이언트의 리미터를 가져오거나 생성한다.
func (rl *RateLimiter) getOrCreateLimiter(clientIP string) *rate.Limiter {
	rl.mu.RLock()
	cl, exists := rl.limiters[clientIP]
	rl.mu.RUnlock()

	if exists {
		rl.mu.Lock()
		cl.lastAccess = time.Now()
		rl.mu.Unlock()
		return cl.limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// 더블 체크
	if cl, exists := rl.limiters[clientIP]; exists {
		cl.lastAccess = time.Now()
		return cl.limiter
	}

	limiter := rate.NewLimiter(rl.config.GeneralRate, rl.config.GeneralBurst)
	rl.limiters[clientIP] = &clientLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

// cleanupLoop 는 백그라운드에서 만료 엔트리를 주기적으로 정리한다.
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup 은 마지막 접근이 CleanupInterval 의 2배를 넘은 엔트리를 삭제한다.
func (rl *RateLimiter) cleanup() {
	ttl := rl.config.CleanupInterval * 2
	now := time.Now()

	rl.mu.Lock()
	for clientIP, cl := range rl.limiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.limiters, clientIP)
		}
	}
	rl.mu.Unlock()
}

// clientIPFromRequest 는 원격 주소에서 IP 부분만 추출한다.
func clientIPFromRequest(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// writeRateLimitResponse 는 429 Too Many Requests 응답을 쓴다.
// Retry-After 헤더에는 토큰이 보충될 때까지의 추정 초를 설정한다.
func writeRateLimitResponse(w http.ResponseWriter, r rate.Limit) {
	retryAfterSec := int(math.Ceil(1.0 / float64(r)))
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	json.NewEncoder(w).Encode(map[string]string{
		"code":     "RATE_LIMIT_EXCEEDED",
		"message":  "요청이 너무 많습니다. 잠시 후 다시 시도해 주세요.",
		"category": "system",
		"action":   "표시된 시간만큼 기다린 뒤 다시 요청해 주세요.",
	})
}
