package domain

import (
	"context"

	workspacedomain "github.com/smallbiznis/taskora/internal/workspace/domain"
)

// Decision is the gate's answer for one request.
type Decision string

const (
	// Allowed lets the request through unmodified.
	Allowed Decision = "allowed"
	// DegradedReadOnly lets reads through while writes are blocked.
	DegradedReadOnly Decision = "degraded_read_only"
	// Rejected sends the user to plan selection.
	Rejected Decision = "rejected"
)

// Evaluation carries the decision plus best-effort quota warnings for the
// next render.
type Evaluation struct {
	Decision Decision
	Warnings []string
	Redirect string
}

// Service evaluates entitlement for the acting user. Evaluation never
// fails: lookup errors on the warning path degrade to no warnings, and
// infrastructure errors on the decision path fail open.
type Service interface {
	Evaluate(ctx context.Context, user *workspacedomain.User) Evaluation
}

// RedirectPlans is where rejected users are sent.
const RedirectPlans = "/billing/plans"
