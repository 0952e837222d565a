package scheduler

import "time"

// Config controls scheduler intervals and job selection.
type Config struct {
	RunInterval time.Duration
	// TrialReminderWindow is how far ahead of trial expiry the reminder goes out.
	TrialReminderWindow time.Duration
	// EnabledJobs limits the run to the named jobs; empty means all.
	EnabledJobs []string
}

func DefaultConfig() Config {
	return Config{
		RunInterval:         24 * time.Hour,
		TrialReminderWindow: 3 * 24 * time.Hour,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.TrialReminderWindow <= 0 {
		c.TrialReminderWindow = defaults.TrialReminderWindow
	}
	return c
}

func ProvideConfig() Config {
	return DefaultConfig()
}
