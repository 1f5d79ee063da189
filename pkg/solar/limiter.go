package solar

import (
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiterStore manages per-inverter rate limiters: inverter id -> limiter
type RateLimiterStore struct {
	limiters     map[uint]*rate.Limiter
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

func NewRateLimiterStore(defaultRate rate.Limit, defaultBurst int) *RateLimiterStore {
	return &RateLimiterStore{
		limiters:     make(map[uint]*rate.Limiter),
		defaultRate:  defaultRate,
		defaultBurst: defaultBurst,
	}
}

func (s *RateLimiterStore) GetLimiter(inverterID uint) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[inverterID]
	if !exists {
		limiter = rate.NewLimiter(s.defaultRate, s.defaultBurst)
		s.limiters[inverterID] = limiter
	}
	return limiter
}

func (s *RateLimiterStore) SetLimiter(inverterID uint, inverterRate rate.Limit, inverterBurst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters[inverterID] = rate.NewLimiter(inverterRate, inverterBurst)
}
