package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// DemoPolicy is the demo-mode write policy. The allow-list and the two
// restricted pattern lists overlap deliberately; they are data to be audited,
// not logic to be unified.
type DemoPolicy struct {
	AllowedRoutes          []string `mapstructure:"allowedRoutes"`
	RestrictedPaths        []string `mapstructure:"restrictedPaths"`
	RestrictedRouteSuffix  []string `mapstructure:"restrictedRouteSuffixes"`
	EmailFramingSubstrings []string `mapstructure:"emailFramingSubstrings"`
}

func DefaultDemoPolicy() DemoPolicy {
	return DemoPolicy{
		AllowedRoutes: []string{
			"settings.update",
			"settings.brand.update",
			"expenses.approve",
			"webhooks.test",
		},
		RestrictedPaths: []string{
			"/toggle-status",
			"/approve",
			"/reset-password",
			"/destroy",
			"/email",
			"/toggle",
		},
		RestrictedRouteSuffix: []string{
			".update",
			".destroy",
			".toggle-status",
		},
		EmailFramingSubstrings: []string{
			"email",
			"invitation",
			"invite",
		},
	}
}

// AllowsRoute reports whether the exact route name is allow-listed.
func (p DemoPolicy) AllowsRoute(route string) bool {
	route = strings.TrimSpace(route)
	for _, allowed := range p.AllowedRoutes {
		if route == allowed {
			return true
		}
	}
	return false
}

// MatchesRestricted reports whether path or route name hits a restricted pattern.
func (p DemoPolicy) MatchesRestricted(path, route string) bool {
	for _, sub := range p.RestrictedPaths {
		if sub != "" && strings.Contains(path, sub) {
			return true
		}
	}
	for _, suffix := range p.RestrictedRouteSuffix {
		if suffix != "" && strings.HasSuffix(route, suffix) {
			return true
		}
	}
	return false
}

// MentionsEmail reports whether the request should get spam-prevention framing.
func (p DemoPolicy) MentionsEmail(path, route string) bool {
	lowerPath := strings.ToLower(path)
	lowerRoute := strings.ToLower(route)
	for _, sub := range p.EmailFramingSubstrings {
		if sub == "" {
			continue
		}
		if strings.Contains(lowerPath, sub) || strings.Contains(lowerRoute, sub) {
			return true
		}
	}
	return false
}

// DemoPolicyHolder serves the current policy and hot-reloads it from disk.
type DemoPolicyHolder struct {
	current atomic.Value // holds DemoPolicy
}

func NewDemoPolicyHolder() (*DemoPolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("demo")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/taskora/config")
	v.AddConfigPath("/etc/taskora")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TASKORA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultDemoPolicy()
		v.SetDefault("demo.allowedRoutes", defaults.AllowedRoutes)
		v.SetDefault("demo.restrictedPaths", defaults.RestrictedPaths)
		v.SetDefault("demo.restrictedRouteSuffixes", defaults.RestrictedRouteSuffix)
		v.SetDefault("demo.emailFramingSubstrings", defaults.EmailFramingSubstrings)
	}

	var policy DemoPolicy
	if err := v.UnmarshalKey("demo", &policy); err != nil {
		return nil, err
	}
	if err := validateDemoPolicy(policy); err != nil {
		return nil, err
	}

	holder := &DemoPolicyHolder{}
	holder.current.Store(policy)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated DemoPolicy
		if err := v.UnmarshalKey("demo", &updated); err != nil {
			log.Printf("[demo-policy] reload failed: %v", err)
			return
		}
		if err := validateDemoPolicy(updated); err != nil {
			log.Printf("[demo-policy] invalid policy ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[demo-policy] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticDemoPolicyHolder wraps a fixed policy, for tests and embedded use.
func NewStaticDemoPolicyHolder(policy DemoPolicy) *DemoPolicyHolder {
	holder := &DemoPolicyHolder{}
	holder.current.Store(policy)
	return holder
}

func (h *DemoPolicyHolder) Get() DemoPolicy {
	return h.current.Load().(DemoPolicy)
}

func validateDemoPolicy(policy DemoPolicy) error {
	if len(policy.RestrictedRouteSuffix) == 0 {
		return errors.New("demo.restrictedRouteSuffixes cannot be empty")
	}
	if len(policy.RestrictedPaths) == 0 {
		return errors.New("demo.restrictedPaths cannot be empty")
	}
	return nil
}
