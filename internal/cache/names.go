package cache

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/slack-go/slack"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

//go:generate mockgen -source=names.go -destination=mocks/mock_names.go -package=mocks

// UnknownUser is shown when a profile lookup fails.
const UnknownUser = "@unknown-user"

const userLookupTimeout = 10 * time.Second

// UserLookup fetches Slack user profiles.
type UserLookup interface {
	GetUserInfoContext(ctx context.Context, user string) (*slack.User, error)
}

// NameResolver maps Slack user ids to display names.
type NameResolver struct {
	lookup  UserLookup
	names   *expirable.LRU[string, string]
	limiter *rate.Limiter
	group   singleflight.Group
	s       settings
}

// NewNameResolver creates a resolver with a 24h, 1000 entry cache by default.
func NewNameResolver(lookup UserLookup, opts ...Option) *NameResolver {
	s := newSettings(DefaultUserTTL, DefaultUserSize, append([]Option{
		WithRateLimit(rate.NewLimiter(defaultUserLookupRate, defaultUserLookupBurst)),
	}, opts...))
	return &NameResolver{
		lookup:  lookup,
		names:   expirable.NewLRU[string, string](s.size, nil, s.ttl),
		limiter: s.limiter,
		s:       s,
	}
}

// Resolve returns one display name per input id, in input order. Each
// distinct uncached id costs one users.info call. Failed lookups yield
// UnknownUser and are retried on the next call.
func (r *NameResolver) Resolve(ctx context.Context, ids []string) []string {
	out := make([]string, len(ids))
	seen := make(map[string]string, len(ids))
	for i, id := range ids {
		if name, ok := seen[id]; ok {
			out[i] = name
			continue
		}
		name := r.resolveOne(ctx, id)
		seen[id] = name
		out[i] = name
	}
	return out
}

// ResolveOne is Resolve for a single id.
func (r *NameResolver) ResolveOne(ctx context.Context, id string) string {
	return r.resolveOne(ctx, id)
}

func (r *NameResolver) resolveOne(ctx context.Context, id string) string {
	if name, ok := r.names.Get(id); ok {
		return name
	}
	if err := ctx.Err(); err != nil {
		r.s.log.Warn("user lookup skipped", "user", id, "error", err)
		return UnknownUser
	}

	// The lookup is shared by every waiter, so it must outlive the caller
	// that started it.
	ch := r.group.DoChan(id, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), userLookupTimeout)
		defer cancel()
		if r.limiter != nil {
			if err := r.limiter.Wait(lctx); err != nil {
				r.s.log.Warn("user lookup throttled", "user", id, "error", err)
				return UnknownUser, nil
			}
		}
		user, err := r.lookup.GetUserInfoContext(lctx, id)
		if err != nil || user == nil {
			r.s.log.Warn("user lookup failed", "user", id, "error", err)
			return UnknownUser, nil
		}
		name := DisplayName(user, id)
		r.names.Add(id, name)
		return name, nil
	})
	select {
	case res := <-ch:
		return res.Val.(string)
	case <-ctx.Done():
		return UnknownUser
	}
}

// DisplayName picks the first non-empty of the profile's normalized display
// name, display name, real name, profile real name and handle. Users with
// none of these get "@" plus the id without its leading "U".
func DisplayName(u *slack.User, id string) string {
	for _, name := range []string{
		u.Profile.DisplayNameNormalized,
		u.Profile.DisplayName,
		u.RealName,
		u.Profile.RealName,
		u.Name,
	} {
		if strings.TrimSpace(name) != "" {
			return name
		}
	}
	return "@" + strings.TrimPrefix(id, "U")
}

// Len reports the number of cached names.
func (r *NameResolver) Len() int {
	return r.names.Len()
}
