package bot

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"

	"github.com/vmunix/movieclub/internal/dedup"
)

// urlPattern finds links in message text. Slack wraps links as <url> or
// <url|label>, so the delimiters end a match.
var urlPattern = regexp.MustCompile(`https?://[^\s<>|]+`)

// extractURLs returns the links in text in order of appearance.
func extractURLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}

// isTMDBLink reports whether a link points at a TMDB movie page, including
// malformed ones the coordinator will skip.
func isTMDBLink(u string) bool {
	return strings.Contains(u, "themoviedb.org/") && strings.Contains(u, "/movie")
}

// HandleMessage records TMDB links posted in the monitored channel and marks
// other links as rejected.
func (b *Bot) HandleMessage(ctx context.Context, ev *slackevents.MessageEvent) {
	if ev.Channel != b.cfg.ChannelID || ev.BotID != "" {
		return
	}
	// Edits, deletions and joins carry a subtype; broadcasts from threads
	// are ordinary posts.
	if ev.SubType != "" && ev.SubType != "thread_broadcast" {
		return
	}

	rejected := false
	for _, u := range extractURLs(ev.Text) {
		if !isTMDBLink(u) {
			rejected = true
			continue
		}
		outcome, err := b.deps.Links.Handle(ctx, dedup.Observation{
			Channel:   ev.Channel,
			Timestamp: ev.TimeStamp,
			URL:       u,
			UserID:    ev.User,
		})
		if err != nil {
			b.log.Error("link not recorded", "url", u, "error", err)
			continue
		}
		b.log.Debug("link handled", "url", u, "outcome", outcome.String())
	}
	if rejected {
		b.deps.Links.Reject(ctx, ev.Channel, ev.TimeStamp)
	}
}

// HandleAction handles pagination and poll button clicks.
func (b *Bot) HandleAction(ctx context.Context, cb slack.InteractionCallback) {
	channel := cb.Channel.ID
	if channel == "" {
		channel = cb.Container.ChannelID
	}
	if channel != b.cfg.ChannelID {
		b.respond(ctx, cb.ResponseURL, Message{
			Text: "⚠️ This action is only available in the designated movie channel.",
		})
		return
	}

	for _, action := range cb.ActionCallback.BlockActions {
		switch {
		case action.ActionID == ActionPrevPage || action.ActionID == ActionNextPage:
			b.changePage(ctx, cb.ResponseURL, action.Value)
		case strings.HasPrefix(action.ActionID, ActionVotePrefix):
			ts := cb.Container.MessageTs
			if ts == "" {
				ts = cb.Message.Timestamp
			}
			b.vote(ctx, channel, ts, cb.User.ID, strings.TrimPrefix(action.ActionID, ActionVotePrefix))
		default:
			b.log.Debug("unknown action", "action_id", action.ActionID)
		}
	}
}

func (b *Bot) changePage(ctx context.Context, responseURL, value string) {
	page, err := strconv.Atoi(value)
	if err != nil {
		b.log.Warn("bad page value", "value", value)
		return
	}
	rp, err := b.deps.Pager.RenderPage(ctx, page, b.cfg.PageSize)
	if err != nil {
		b.log.Error("render page failed", "page", page, "error", err)
		b.respond(ctx, responseURL, Message{Text: "Couldn't retrieve the movie list."})
		return
	}
	b.respond(ctx, responseURL, listMessage(rp))
}

func (b *Bot) vote(ctx context.Context, channel, ts, user, rawID string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		b.log.Warn("bad vote id", "value", rawID)
		return
	}

	poll, ok := b.polls.Toggle(channel, ts, id, user)
	if !ok {
		if err := b.deps.Messenger.Ephemeral(ctx, channel, user, Message{Text: "This poll is no longer active."}); err != nil {
			b.log.Warn("ephemeral failed", "error", err)
		}
		return
	}

	voters := make(map[int64][]string, len(poll.Movies))
	for _, m := range poll.Movies {
		if ids := poll.Votes(m.ID); len(ids) > 0 {
			voters[m.ID] = b.deps.Names.Resolve(ctx, ids)
		}
	}
	if err := b.deps.Messenger.Update(ctx, channel, ts, pollMessage(poll.Movies, voters)); err != nil {
		b.log.Error("update poll failed", "ts", ts, "error", err)
	}
}
