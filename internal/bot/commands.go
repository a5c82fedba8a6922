package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/vmunix/movieclub/internal/movie"
	"github.com/vmunix/movieclub/internal/storeclient"
)

const (
	defaultPollSize = 3
	minPollSize     = 2
	maxPollSize     = 8
)

// Request is a slash command invocation.
type Request struct {
	Command     string // without the leading "/"
	Text        string
	ChannelID   string
	UserID      string
	ResponseURL string
}

// Command is one slash command.
type Command struct {
	Name        string
	Description string
	Examples    []string
	Run         func(ctx context.Context, req Request) error
}

// Usage returns the help text for the command.
func (c Command) Usage() string {
	usage := fmt.Sprintf("*%s*: %s\n", c.Name, c.Description)
	if len(c.Examples) > 0 {
		usage += "Examples:\n"
		for _, ex := range c.Examples {
			usage += fmt.Sprintf("• `%s`\n", ex)
		}
	}
	return usage
}

func (b *Bot) commandTable() map[string]Command {
	cmds := []Command{
		{
			Name:        "movies",
			Description: "List all movies in the database",
			Examples:    []string{"/movies", "/movies 2"},
			Run:         b.listMovies,
		},
		{
			Name:        "random",
			Description: "Pick a random movie to watch",
			Examples:    []string{"/random"},
			Run:         b.randomMovie,
		},
		{
			Name:        "pickmovie",
			Description: "Creates a poll with random movies for users to vote on",
			Examples:    []string{"/pickmovie", "/pickmovie 5"},
			Run:         b.pickMovie,
		},
		{
			Name:        "genres",
			Description: "List all available movie genres",
			Examples:    []string{"/genres"},
			Run:         b.listGenres,
		},
		{
			Name:        "movie",
			Description: "Show details for a movie in the database",
			Examples:    []string{"/movie fight club"},
			Run:         b.showMovie,
		},
		{
			Name:        "help",
			Description: "Show available commands and how to use them",
			Examples:    []string{"/help", "/help movies"},
			Run:         b.help,
		},
	}

	table := make(map[string]Command, len(cmds))
	for _, c := range cmds {
		table[c.Name] = c
	}
	return table
}

func sortedCommands(table map[string]Command) []Command {
	cmds := make([]Command, 0, len(table))
	for _, c := range table {
		cmds = append(cmds, c)
	}
	slices.SortFunc(cmds, func(a, b Command) int { return strings.Compare(a.Name, b.Name) })
	return cmds
}

// HandleCommand runs a slash command after checking where it was issued.
func (b *Bot) HandleCommand(ctx context.Context, sc slack.SlashCommand) {
	req := Request{
		Command:     strings.TrimPrefix(sc.Command, "/"),
		Text:        strings.TrimSpace(sc.Text),
		ChannelID:   sc.ChannelID,
		UserID:      sc.UserID,
		ResponseURL: sc.ResponseURL,
	}
	log := b.log.With("command", req.Command, "channel", req.ChannelID, "user", req.UserID)

	if req.ChannelID != b.cfg.ChannelID {
		log.Info("command rejected, wrong channel")
		b.respond(ctx, req.ResponseURL, Message{
			Text: fmt.Sprintf("⚠️ This command can only be used in <#%s>", b.cfg.ChannelID),
		})
		return
	}

	cmd, ok := b.commands[req.Command]
	if !ok {
		b.respond(ctx, req.ResponseURL, Message{
			Text: fmt.Sprintf("Command `/%s` not found. Try `/help` to see all available commands.", req.Command),
		})
		return
	}

	start := time.Now()
	if err := cmd.Run(ctx, req); err != nil {
		log.Error("command failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}
	log.Info("command executed", "duration_ms", time.Since(start).Milliseconds())
}

func (b *Bot) respond(ctx context.Context, responseURL string, msg Message) {
	if err := b.deps.Messenger.Respond(ctx, responseURL, msg); err != nil {
		b.log.Warn("respond failed", "error", err)
	}
}

// parseCount reads an optional positive integer argument.
func parseCount(text string, def int) int {
	if text == "" {
		return def
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return def
	}
	return n
}

func (b *Bot) listMovies(ctx context.Context, req Request) error {
	page := max(parseCount(req.Text, 1), 1)
	rp, err := b.deps.Pager.RenderPage(ctx, page, b.cfg.PageSize)
	if err != nil {
		b.respond(ctx, req.ResponseURL, Message{Text: "Couldn't retrieve the movie list."})
		return err
	}
	b.respond(ctx, req.ResponseURL, listMessage(rp))
	return nil
}

func (b *Bot) randomMovie(ctx context.Context, req Request) error {
	m, err := b.deps.Store.Random(ctx)
	if errors.Is(err, storeclient.ErrNotFound) {
		b.respond(ctx, req.ResponseURL, Message{Text: "No movies found in the database."})
		return nil
	}
	if err != nil {
		b.respond(ctx, req.ResponseURL, Message{Text: "Couldn't retrieve a random movie."})
		return err
	}

	addedBy := b.deps.Contributors.Get(ctx, []movie.Movie{*m})[m.ID]
	msg := detailMessage(m, addedBy)
	msg.InChannel = true
	b.respond(ctx, req.ResponseURL, msg)
	return nil
}

func (b *Bot) pickMovie(ctx context.Context, req Request) error {
	n := min(max(parseCount(req.Text, defaultPollSize), minPollSize), maxPollSize)

	all, err := b.deps.Movies.All(ctx)
	if err != nil || len(all) < n {
		b.respond(ctx, req.ResponseURL, Message{Text: "Could not retrieve enough movies to create a poll."})
		return err
	}

	// The catalog slice is shared with other handlers; shuffle a copy.
	pool := slices.Clone(all)
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	picked := pool[:n]

	ts, err := b.deps.Messenger.Post(ctx, req.ChannelID, pollMessage(picked, nil))
	if err != nil {
		b.respond(ctx, req.ResponseURL, Message{Text: "Error creating poll: " + err.Error()})
		return err
	}
	b.polls.Add(req.ChannelID, ts, picked)
	b.log.Info("poll posted", "ts", ts, "movies", n)
	return nil
}

func (b *Bot) listGenres(ctx context.Context, req Request) error {
	genres, err := b.deps.Store.Genres(ctx)
	if err != nil {
		b.respond(ctx, req.ResponseURL, Message{Text: "Couldn't retrieve genres."})
		return err
	}
	genres = slices.Clone(genres)
	slices.SortStableFunc(genres, func(x, y movie.GenreCount) int { return y.Count - x.Count })
	b.respond(ctx, req.ResponseURL, genresMessage(genres))
	return nil
}

func (b *Bot) showMovie(ctx context.Context, req Request) error {
	if req.Text == "" {
		b.respond(ctx, req.ResponseURL, Message{Text: b.commands["movie"].Usage()})
		return nil
	}

	all, err := b.deps.Movies.All(ctx)
	if err != nil {
		b.respond(ctx, req.ResponseURL, Message{Text: "Couldn't retrieve the movie list."})
		return err
	}

	match := movie.MatchTitle(req.Text, all)
	if match.Movie == nil {
		b.respond(ctx, req.ResponseURL, Message{Text: fmt.Sprintf("No movie matching %q found.", req.Text)})
		return nil
	}

	m := *match.Movie
	addedBy := b.deps.Contributors.Get(ctx, []movie.Movie{m})[m.ID]
	b.respond(ctx, req.ResponseURL, detailMessage(&m, addedBy))
	return nil
}

func (b *Bot) help(ctx context.Context, req Request) error {
	if req.Text != "" {
		name := strings.TrimPrefix(req.Text, "/")
		cmd, ok := b.commands[name]
		if !ok {
			b.respond(ctx, req.ResponseURL, Message{
				Text: fmt.Sprintf("Command `%s` not found. Try `/help` to see all available commands.", req.Text),
			})
			return nil
		}
		b.respond(ctx, req.ResponseURL, Message{Text: cmd.Usage()})
		return nil
	}

	var sb strings.Builder
	sb.WriteString("*Available Commands:*\n\n")
	for _, c := range sortedCommands(b.commands) {
		fmt.Fprintf(&sb, "• `/%s`: %s\n", c.Name, c.Description)
	}
	sb.WriteString("\nUse `/help [command]` for more details about a specific command.")
	b.respond(ctx, req.ResponseURL, Message{Text: sb.String()})
	return nil
}
