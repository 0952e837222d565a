package events

import (
	"context"
	"testing"

	"github.com/smallbiznis/taskora/internal/notification/channel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubListener struct {
	name    string
	results []channel.Result
	panics  bool
	calls   int
}

func (l *stubListener) Name() string { return l.name }

func (l *stubListener) Handle(ctx context.Context, evt Event) []channel.Result {
	l.calls++
	if l.panics {
		panic("listener blew up")
	}
	return l.results
}

func newTestBus() *Bus {
	return NewBus(BusParams{Log: zap.NewNop()})
}

func TestPublishInvokesListenersInRegistrationOrder(t *testing.T) {
	bus := newTestBus()

	var order []string
	mk := func(name string) Listener {
		return listenerFunc(name, func() {
			order = append(order, name)
		})
	}
	bus.Subscribe(TaskCreated, mk("first"), mk("second"), mk("third"))

	report := bus.Publish(context.Background(), Event{Type: TaskCreated})

	require.NotNil(t, report)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

type funcListener struct {
	name string
	fn   func()
}

func (l funcListener) Name() string { return l.name }

func (l funcListener) Handle(ctx context.Context, evt Event) []channel.Result {
	l.fn()
	return []channel.Result{channel.ResultDelivered(channel.Email)}
}

func listenerFunc(name string, fn func()) Listener {
	return funcListener{name: name, fn: fn}
}

func TestPublishIsolatesPanickingListener(t *testing.T) {
	bus := newTestBus()

	before := &stubListener{name: "before", results: []channel.Result{channel.ResultDelivered(channel.Email)}}
	broken := &stubListener{name: "broken", panics: true}
	after := &stubListener{name: "after", results: []channel.Result{channel.ResultDelivered(channel.Slack)}}
	bus.Subscribe(TaskAssigned, before, broken, after)

	var report *Report
	require.NotPanics(t, func() {
		report = bus.Publish(context.Background(), Event{Type: TaskAssigned})
	})

	assert.Equal(t, 1, before.calls)
	assert.Equal(t, 1, broken.calls)
	assert.Equal(t, 1, after.calls, "listeners after the panic must still run")

	require.Len(t, report.Attempts, 3)
	assert.Equal(t, channel.Delivered, report.Attempts[0].Outcome)
	assert.Equal(t, channel.PermanentFailure, report.Attempts[1].Outcome)
	assert.Equal(t, "broken", report.Attempts[1].Listener)
	assert.Equal(t, channel.Delivered, report.Attempts[2].Outcome)
}

func TestPublishWithoutSubscribersReturnsEmptyReport(t *testing.T) {
	bus := newTestBus()

	report := bus.Publish(context.Background(), Event{Type: InvoiceCreated})

	require.NotNil(t, report)
	assert.Empty(t, report.Attempts)
	assert.Empty(t, report.EmailError())
}

func TestReportEmailErrorSurfacesOnlyPermanentEmailFailures(t *testing.T) {
	report := &Report{Attempts: []Attempt{
		{Channel: channel.Email, Outcome: channel.TransientFailure, Err: assert.AnError},
		{Channel: channel.Slack, Outcome: channel.PermanentFailure, Detail: "slack detail"},
		{Channel: channel.Email, Outcome: channel.PermanentFailure, Detail: "Failed to send task assignment email: SMTP connection refused"},
		{Channel: channel.Email, Outcome: channel.PermanentFailure, Detail: "second failure"},
	}}

	assert.Equal(t, "Failed to send task assignment email: SMTP connection refused", report.EmailError())
	assert.Len(t, report.Failed(), 4)
}

func TestReportEmailErrorNilReceiver(t *testing.T) {
	var report *Report
	assert.Empty(t, report.EmailError())
	assert.Empty(t, report.Failed())
}
