package bot

import (
	"context"
	"errors"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
	"golang.org/x/sync/errgroup"
)

// AckFunc acknowledges a Socket Mode request. (*socketmode.Client).Ack
// satisfies it.
type AckFunc func(req socketmode.Request, payload ...any)

// Run connects over Socket Mode and serves events until ctx is cancelled.
func (b *Bot) Run(ctx context.Context, sm *socketmode.Client) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sm.RunContext(ctx)
	})
	g.Go(func() error {
		return b.Serve(ctx, sm.Events, sm.Ack)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Serve acks each request as it arrives and hands the work to a worker
// pool. It returns when ctx is done or events is closed, after queued work
// has finished.
func (b *Bot) Serve(ctx context.Context, events <-chan socketmode.Event, ack AckFunc) error {
	pool := NewPool(ctx, b.cfg.Workers, b.cfg.QueueSize, b.log)
	defer pool.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			b.dispatch(ctx, pool, evt, ack)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, pool *Pool, evt socketmode.Event, ack AckFunc) {
	var task Task

	switch evt.Type {
	case socketmode.EventTypeConnecting:
		b.log.Info("connecting to slack")
		return
	case socketmode.EventTypeConnected:
		b.log.Info("connected to slack", "channel", b.cfg.ChannelID)
		return
	case socketmode.EventTypeConnectionError:
		b.log.Warn("slack connection error", "data", evt.Data)
		return

	case socketmode.EventTypeEventsAPI:
		apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			b.log.Debug("ignored events api payload")
			return
		}
		if msg, ok := apiEvent.InnerEvent.Data.(*slackevents.MessageEvent); ok && apiEvent.Type == slackevents.CallbackEvent {
			task = func(ctx context.Context) { b.HandleMessage(ctx, msg) }
		}

	case socketmode.EventTypeSlashCommand:
		cmd, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			b.log.Debug("ignored slash command payload")
			return
		}
		task = func(ctx context.Context) { b.HandleCommand(ctx, cmd) }

	case socketmode.EventTypeInteractive:
		cb, ok := evt.Data.(slack.InteractionCallback)
		if !ok {
			b.log.Debug("ignored interactive payload")
			return
		}
		if cb.Type == slack.InteractionTypeBlockActions {
			task = func(ctx context.Context) { b.HandleAction(ctx, cb) }
		}

	default:
		b.log.Debug("ignored event", "type", string(evt.Type))
	}

	// Ack first: Slack retries anything not acked within three seconds.
	if evt.Request != nil {
		ack(*evt.Request)
	}
	if task == nil {
		return
	}
	if err := pool.Submit(ctx, task); err != nil {
		b.log.Warn("event dropped", "type", string(evt.Type), "error", err)
	}
}
