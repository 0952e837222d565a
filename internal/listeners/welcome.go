package listeners

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/smallbiznis/taskora/internal/events"
)

const welcomeCacheSize = 1024

// WelcomeGuard suppresses duplicate welcome emails when the same user
// record is replayed, e.g. a create followed by an immediate profile
// update re-publishing the event. The key includes the record's update
// timestamp so a genuinely changed user can be welcomed again; the cache
// is bounded so a tenant churning users cannot grow it without limit.
type WelcomeGuard struct {
	seen *lru.Cache[string, struct{}]
}

func NewWelcomeGuard() (*WelcomeGuard, error) {
	seen, err := lru.New[string, struct{}](welcomeCacheSize)
	if err != nil {
		return nil, err
	}
	return &WelcomeGuard{seen: seen}, nil
}

// ShouldSend records the user and reports whether this is the first
// sighting of this (user, revision) pair. The check-and-record is a single
// cache operation so concurrent publishes of the same event cannot both
// send.
func (g *WelcomeGuard) ShouldSend(u events.UserInfo) bool {
	key := welcomeKey(u.ID, u.UpdatedAt.Unix())
	alreadySeen, _ := g.seen.ContainsOrAdd(key, struct{}{})
	return !alreadySeen
}

func welcomeKey(id snowflake.ID, rev int64) string {
	return fmt.Sprintf("%d:%d", id, rev)
}
