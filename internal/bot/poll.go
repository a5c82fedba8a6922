package bot

import (
	"slices"
	"sync"

	"github.com/vmunix/movieclub/internal/movie"
)

// Poll is one posted movie poll. Votes are kept in memory only.
type Poll struct {
	Channel string
	TS      string
	Movies  []movie.Movie
	votes   map[int64][]string // movie id -> user ids in vote order
}

// Votes returns the user ids that voted for id, in vote order.
func (p *Poll) Votes(id int64) []string {
	return slices.Clone(p.votes[id])
}

// PollTracker holds the polls posted by this process.
type PollTracker struct {
	mu    sync.Mutex
	polls map[string]*Poll // channel + "/" + ts
}

func NewPollTracker() *PollTracker {
	return &PollTracker{polls: make(map[string]*Poll)}
}

func pollKey(channel, ts string) string {
	return channel + "/" + ts
}

// Add starts tracking a posted poll.
func (t *PollTracker) Add(channel, ts string, movies []movie.Movie) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.polls[pollKey(channel, ts)] = &Poll{
		Channel: channel,
		TS:      ts,
		Movies:  slices.Clone(movies),
		votes:   make(map[int64][]string),
	}
}

// Toggle adds user's vote for movie id, or removes it if already present.
// It returns a snapshot of the poll after the change, or false when the
// poll or the movie is unknown.
func (t *PollTracker) Toggle(channel, ts string, id int64, user string) (Poll, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.polls[pollKey(channel, ts)]
	if !ok {
		return Poll{}, false
	}
	if !slices.ContainsFunc(p.Movies, func(m movie.Movie) bool { return m.ID == id }) {
		return Poll{}, false
	}

	voters := p.votes[id]
	if i := slices.Index(voters, user); i >= 0 {
		p.votes[id] = slices.Delete(voters, i, i+1)
	} else {
		p.votes[id] = append(voters, user)
	}
	return p.snapshot(), true
}

func (p *Poll) snapshot() Poll {
	votes := make(map[int64][]string, len(p.votes))
	for id, users := range p.votes {
		votes[id] = slices.Clone(users)
	}
	return Poll{Channel: p.Channel, TS: p.TS, Movies: p.Movies, votes: votes}
}

// Len returns the number of tracked polls.
func (t *PollTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.polls)
}
