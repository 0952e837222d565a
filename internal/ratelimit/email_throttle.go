package ratelimit

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taskora/internal/config"
	"go.uber.org/zap"
)

// EmailThrottle caps outbound email per tenant owner. A nil throttle (no
// Redis configured) allows everything; Redis errors fail open so a cache
// outage never blocks mail.
type EmailThrottle struct {
	bucket *TokenBucket
	log    *zap.Logger
	rate   float64
	burst  int
}

func NewEmailThrottle(cfg config.Config, bucket *TokenBucket, log *zap.Logger) *EmailThrottle {
	if !cfg.RateLimit.Enabled || bucket == nil {
		return nil
	}
	return &EmailThrottle{
		bucket: bucket,
		log:    log,
		rate:   cfg.RateLimit.EmailRate,
		burst:  cfg.RateLimit.EmailBurst,
	}
}

// Allow reports whether one more email may be sent on behalf of ownerID.
func (t *EmailThrottle) Allow(ctx context.Context, ownerID snowflake.ID) bool {
	if t == nil {
		return true
	}
	key := fmt.Sprintf("email_throttle:%d", ownerID)
	res, err := t.bucket.Allow(ctx, key, t.rate, t.burst)
	if err != nil {
		t.log.Warn("email throttle check failed", zap.Error(err))
		return true
	}
	return res.Allowed
}
