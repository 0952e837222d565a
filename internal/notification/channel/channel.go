package channel

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Channel identifies a delivery mechanism.
type Channel string

const (
	Email    Channel = "email"
	Slack    Channel = "slack"
	Telegram Channel = "telegram"
	Webhook  Channel = "webhook"
)

// Outcome is the discriminated result of one delivery attempt.
type Outcome string

const (
	// Delivered means the transport accepted the payload.
	Delivered Outcome = "delivered"
	// Skipped means the feature was not engaged: no preference, no template,
	// no target, or no resolvable owner. Not an error.
	Skipped Outcome = "skipped"
	// TransientFailure covers rate-limited providers; swallowed silently.
	TransientFailure Outcome = "transient_failure"
	// PermanentFailure covers everything else; logged, and for email surfaced
	// to the acting request.
	PermanentFailure Outcome = "permanent_failure"
)

// Message is one channel-agnostic delivery request built by a listener.
type Message struct {
	// Module is the notification module name preferences are keyed by,
	// e.g. "New Task".
	Module string
	// Template is the email template name; unused for other channels.
	Template string
	// Label names the notification in user-facing error strings,
	// e.g. "task assignment".
	Label string

	OwnerID     snowflake.ID
	UserID      snowflake.ID
	WorkspaceID snowflake.ID
	Lang        string

	// Vars feeds {token} substitution for email templates.
	Vars map[string]string
	// Recipients holds email addresses; one Message per recipient.
	Recipients []string
	// Text is the pre-formatted message for chat channels.
	Text string
	// Entity is the full domain snapshot delivered to webhooks.
	Entity any
}

// Result reports the outcome of one adapter send.
type Result struct {
	Channel Channel
	Outcome Outcome
	// Detail carries the user-visible error string for permanent email
	// failures, or a short skip reason.
	Detail string
	Err    error
}

// Adapter delivers one message to one destination and is unaware of events.
type Adapter interface {
	Channel() Channel
	Send(ctx context.Context, msg Message) Result
}

func ResultDelivered(ch Channel) Result {
	return Result{Channel: ch, Outcome: Delivered}
}

func ResultSkipped(ch Channel, reason string) Result {
	return Result{Channel: ch, Outcome: Skipped, Detail: reason}
}

func ResultTransient(ch Channel, err error) Result {
	return Result{Channel: ch, Outcome: TransientFailure, Err: err}
}

func ResultPermanent(ch Channel, detail string, err error) Result {
	return Result{Channel: ch, Outcome: PermanentFailure, Detail: detail, Err: err}
}
