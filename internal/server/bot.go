package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/vmunix/movieclub/internal/bot"
	"github.com/vmunix/movieclub/internal/cache"
	"github.com/vmunix/movieclub/internal/config"
	"github.com/vmunix/movieclub/internal/dedup"
	"github.com/vmunix/movieclub/internal/listing"
	"github.com/vmunix/movieclub/internal/storeclient"
	"github.com/vmunix/movieclub/internal/tmdb"
)

// ErrBotConfig is returned when the configuration lacks what the bot needs.
var ErrBotConfig = errors.New("bot configuration incomplete")

// NewBot builds the Slack bot and its caches from cfg and returns a runner
// holding the bot component, plus the processed-URL watcher when enabled.
func NewBot(cfg *config.Config, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if errs := cfg.ValidateBot(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrBotConfig, strings.Join(errs, "; "))
	}

	api := slack.New(cfg.Slack.BotToken, slack.OptionAppLevelToken(cfg.Slack.AppToken))
	sm := socketmode.New(api)

	store := storeclient.New(cfg.Bot.APIURL, storeclient.WithLogger(logger))
	meta := tmdb.NewClient(cfg.TMDB.APIKey,
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithLogger(logger),
	)

	names := cache.NewNameResolver(api,
		cache.WithTTL(cfg.Cache.UserTTL),
		cache.WithSize(cfg.Cache.UserSize),
		cache.WithLogger(logger),
	)
	movies := cache.NewMovieList(store,
		cache.WithTTL(cfg.Cache.MoviesTTL),
		cache.WithLogger(logger),
	)
	contributors := cache.NewContributors(store, names,
		cache.WithTTL(cfg.Cache.ContributorsTTL),
		cache.WithSize(cfg.Cache.ContributorsSize),
		cache.WithLogger(logger),
	)
	pager := listing.NewPager(movies, contributors, logger)

	processed, err := dedup.OpenProcessedLog(cfg.Bot.ProcessedURLs, logger)
	if err != nil {
		return nil, fmt.Errorf("processed urls: %w", err)
	}
	links := dedup.New(api, meta, store, processed,
		dedup.WithReaction(cfg.Slack.Reaction),
		dedup.WithRejectReaction(cfg.Slack.RejectReaction),
		dedup.WithLogger(logger),
	)

	b, err := bot.New(bot.Deps{
		Messenger:    bot.NewMessenger(api),
		Store:        store,
		Movies:       movies,
		Pager:        pager,
		Contributors: contributors,
		Names:        names,
		Links:        links,
		Logger:       logger,
	}, bot.Config{
		ChannelID: cfg.Slack.ChannelID,
		PageSize:  cfg.Bot.PageSize,
		Workers:   cfg.Bot.Workers,
	})
	if err != nil {
		return nil, err
	}

	r := NewRunner(logger, Component{
		Name: "bot",
		Run:  func(ctx context.Context) error { return b.Run(ctx, sm) },
	})
	if cfg.Bot.WatchProcessed {
		r.Add(Component{Name: "processed-log", Run: processed.Watch})
	}
	return r, nil
}
