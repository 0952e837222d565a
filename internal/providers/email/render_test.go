package email

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderSubstitutesTokens(t *testing.T) {
	out := Render("Hello {name}, task {task.title} is {status}", map[string]string{
		"name":       "Dana",
		"task.title": "Ship it",
		"status":     "done",
	})
	assert.Equal(t, "Hello Dana, task Ship it is done", out)
}

func TestRenderMissingOrEmptyTokensBecomeDash(t *testing.T) {
	out := Render("Due {due_date}, priority {priority}", map[string]string{
		"priority": "",
	})
	assert.Equal(t, "Due -, priority -", out)
}

func TestRenderLeavesNonTokensAlone(t *testing.T) {
	out := Render("Budget {amount} ({not a token})", map[string]string{"amount": "10.00"})
	assert.Equal(t, "Budget 10.00 ({not a token})", out)
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		err       error
		transient bool
	}{
		{errors.New("Too many emails per second"), true},
		{errors.New("554 rejected: 550 5.7.0 blocked"), true},
		{errors.New("Rate limit exceeded, retry later"), true},
		{errors.New("SMTP connection refused"), false},
		{errors.New("535 authentication failed"), false},
		{nil, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.transient, IsTransient(tc.err), "%v", tc.err)
	}
}
