package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/movieclub/internal/cache/mocks"
)

func user(name, display string) *slack.User {
	return &slack.User{Name: name, Profile: slack.UserProfile{DisplayName: display}}
}

func TestNameResolver_ResolvePreservesOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := mocks.NewMockUserLookup(ctrl)
	lookup.EXPECT().GetUserInfoContext(gomock.Any(), "U1").Return(user("alice", "Alice"), nil).Times(1)
	lookup.EXPECT().GetUserInfoContext(gomock.Any(), "U2").Return(user("bob", "Bob"), nil).Times(1)

	r := NewNameResolver(lookup, WithRateLimit(nil))

	got := r.Resolve(context.Background(), []string{"U2", "U1", "U2", "U2", "U1"})
	assert.Equal(t, []string{"Bob", "Alice", "Bob", "Bob", "Alice"}, got)

	// Cached: no further lookups.
	got = r.Resolve(context.Background(), []string{"U1", "U2"})
	assert.Equal(t, []string{"Alice", "Bob"}, got)
	assert.Equal(t, 2, r.Len())
}

func TestNameResolver_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := NewNameResolver(mocks.NewMockUserLookup(ctrl))
	assert.Empty(t, r.Resolve(context.Background(), nil))
}

func TestNameResolver_FailureNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := mocks.NewMockUserLookup(ctrl)
	gomock.InOrder(
		lookup.EXPECT().GetUserInfoContext(gomock.Any(), "U9").Return(nil, errors.New("user_not_found")),
		lookup.EXPECT().GetUserInfoContext(gomock.Any(), "U9").Return(user("carol", ""), nil),
	)

	r := NewNameResolver(lookup, WithRateLimit(nil))

	// Duplicates within one call share the failed lookup.
	assert.Equal(t, []string{UnknownUser, UnknownUser}, r.Resolve(context.Background(), []string{"U9", "U9"}))
	assert.Equal(t, 0, r.Len())

	assert.Equal(t, "carol", r.ResolveOne(context.Background(), "U9"))
}

func TestNameResolver_Expiry(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := mocks.NewMockUserLookup(ctrl)
	lookup.EXPECT().GetUserInfoContext(gomock.Any(), "U1").Return(user("alice", "Alice"), nil).Times(2)

	r := NewNameResolver(lookup, WithRateLimit(nil), WithTTL(10*time.Millisecond))

	assert.Equal(t, "Alice", r.ResolveOne(context.Background(), "U1"))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, "Alice", r.ResolveOne(context.Background(), "U1"))
}

func TestNameResolver_SizeBound(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := mocks.NewMockUserLookup(ctrl)
	lookup.EXPECT().GetUserInfoContext(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id string) (*slack.User, error) {
			return user(id, ""), nil
		}).Times(3)

	r := NewNameResolver(lookup, WithRateLimit(nil), WithSize(2))
	r.Resolve(context.Background(), []string{"U1", "U2", "U3"})
	assert.Equal(t, 2, r.Len())
}

func TestNameResolver_CancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := mocks.NewMockUserLookup(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled caller gets no lookup.
	r := NewNameResolver(lookup)
	assert.Equal(t, []string{UnknownUser}, r.Resolve(ctx, []string{"U1"}))
}

func TestNameResolver_SharedLookupOutlivesFirstCaller(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := mocks.NewMockUserLookup(ctrl)

	started := make(chan struct{})
	release := make(chan struct{})
	lookup.EXPECT().GetUserInfoContext(gomock.Any(), "U1").DoAndReturn(
		func(ctx context.Context, _ string) (*slack.User, error) {
			close(started)
			<-release
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return user("alice", "Alice"), nil
		}).Times(1)

	r := NewNameResolver(lookup, WithRateLimit(nil))

	first, cancel := context.WithCancel(context.Background())
	firstDone := make(chan string, 1)
	go func() { firstDone <- r.ResolveOne(first, "U1") }()
	<-started

	secondDone := make(chan string, 1)
	go func() { secondDone <- r.ResolveOne(context.Background(), "U1") }()

	cancel()
	assert.Equal(t, UnknownUser, <-firstDone)
	close(release)

	select {
	case name := <-secondDone:
		assert.Equal(t, "Alice", name)
	case <-time.After(2 * time.Second):
		t.Fatal("second caller did not get the shared lookup")
	}
	assert.Equal(t, 1, r.Len())
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user slack.User
		want string
	}{
		{
			name: "normalized display name wins",
			user: slack.User{Name: "h", RealName: "Real", Profile: slack.UserProfile{DisplayNameNormalized: "Norm", DisplayName: "Disp"}},
			want: "Norm",
		},
		{
			name: "display name",
			user: slack.User{Name: "h", RealName: "Real", Profile: slack.UserProfile{DisplayName: "Disp"}},
			want: "Disp",
		},
		{
			name: "real name",
			user: slack.User{Name: "h", RealName: "Real", Profile: slack.UserProfile{RealName: "Profile Real"}},
			want: "Real",
		},
		{
			name: "profile real name",
			user: slack.User{Name: "h", Profile: slack.UserProfile{RealName: "Profile Real"}},
			want: "Profile Real",
		},
		{
			name: "handle",
			user: slack.User{Name: "handle", Profile: slack.UserProfile{DisplayName: "  "}},
			want: "handle",
		},
		{
			name: "fallback strips leading U",
			user: slack.User{},
			want: "@ABC123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(&tt.user, "UABC123"))
		})
	}
}
