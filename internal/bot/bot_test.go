package bot_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/movieclub/internal/bot"
	"github.com/vmunix/movieclub/internal/bot/mocks"
	"github.com/vmunix/movieclub/internal/dedup"
	"github.com/vmunix/movieclub/internal/listing"
	listingmocks "github.com/vmunix/movieclub/internal/listing/mocks"
	"github.com/vmunix/movieclub/internal/movie"
	"github.com/vmunix/movieclub/internal/storeclient"
)

const channel = "C1"

type fixture struct {
	bot          *bot.Bot
	messenger    *mocks.MockMessenger
	store        *mocks.MockMovieStore
	movies       *listingmocks.MockMovieLister
	pager        *mocks.MockPageRenderer
	contributors *listingmocks.MockContributorLookup
	names        *mocks.MockNameResolver
	links        *mocks.MockLinkHandler
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		messenger:    mocks.NewMockMessenger(ctrl),
		store:        mocks.NewMockMovieStore(ctrl),
		movies:       listingmocks.NewMockMovieLister(ctrl),
		pager:        mocks.NewMockPageRenderer(ctrl),
		contributors: listingmocks.NewMockContributorLookup(ctrl),
		names:        mocks.NewMockNameResolver(ctrl),
		links:        mocks.NewMockLinkHandler(ctrl),
	}
	b, err := bot.New(bot.Deps{
		Messenger:    f.messenger,
		Store:        f.store,
		Movies:       f.movies,
		Pager:        f.pager,
		Contributors: f.contributors,
		Names:        f.names,
		Links:        f.links,
	}, bot.Config{ChannelID: channel, PageSize: 25})
	require.NoError(t, err)
	f.bot = b
	return f
}

// expectRespond captures the next response URL reply.
func (f *fixture) expectRespond(t *testing.T) *bot.Message {
	t.Helper()
	var got bot.Message
	f.messenger.EXPECT().Respond(gomock.Any(), "https://hooks.test/r", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, msg bot.Message) error {
			got = msg
			return nil
		})
	return &got
}

func slash(command, text string) slack.SlashCommand {
	return slack.SlashCommand{
		Command:     command,
		Text:        text,
		ChannelID:   channel,
		UserID:      "U9",
		ResponseURL: "https://hooks.test/r",
	}
}

func blocksJSON(t *testing.T, msg *bot.Message) string {
	t.Helper()
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(msg.Blocks))
	return sb.String()
}

func catalog(n int) []movie.Movie {
	movies := make([]movie.Movie, n)
	for i := range movies {
		movies[i] = movie.Movie{ID: int64(100 + i), Title: fmt.Sprintf("Movie %d", i)}
	}
	return movies
}

func TestNew_MissingDependency(t *testing.T) {
	_, err := bot.New(bot.Deps{}, bot.Config{ChannelID: channel})
	assert.ErrorIs(t, err, bot.ErrMissingDependency)
}

func TestCommands_Table(t *testing.T) {
	f := setup(t)
	var names []string
	for _, c := range f.bot.Commands() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"genres", "help", "movie", "movies", "pickmovie", "random"}, names)
}

func TestHandleCommand_WrongChannel(t *testing.T) {
	f := setup(t)
	got := f.expectRespond(t)

	sc := slash("/movies", "")
	sc.ChannelID = "C-other"
	f.bot.HandleCommand(context.Background(), sc)

	assert.Equal(t, "⚠️ This command can only be used in <#C1>", got.Text)
}

func TestHandleCommand_Unknown(t *testing.T) {
	f := setup(t)
	got := f.expectRespond(t)

	f.bot.HandleCommand(context.Background(), slash("/nope", ""))
	assert.Contains(t, got.Text, "Command `/nope` not found")
}

func TestMovies(t *testing.T) {
	tests := []struct {
		text string
		page int
	}{
		{"", 1},
		{"2", 2},
		{"0", 1},
		{"-3", 1},
		{"abc", 1},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			f := setup(t)
			f.pager.EXPECT().RenderPage(gomock.Any(), tt.page, 25).Return(listing.RenderedPage{
				Lines: []string{"1. A (N/A) - N/A"}, Page: tt.page, TotalPages: 3, Total: 60,
				HasPrev: tt.page > 1, HasNext: true,
			}, nil)
			got := f.expectRespond(t)

			f.bot.HandleCommand(context.Background(), slash("/movies", tt.text))
			assert.Contains(t, blocksJSON(t, got), "*Movie List (60 movies)*")
			assert.Contains(t, blocksJSON(t, got), bot.ActionNextPage)
		})
	}
}

func TestMovies_Error(t *testing.T) {
	f := setup(t)
	f.pager.EXPECT().RenderPage(gomock.Any(), 1, 25).Return(listing.RenderedPage{}, errors.New("store down"))
	got := f.expectRespond(t)

	f.bot.HandleCommand(context.Background(), slash("/movies", ""))
	assert.Equal(t, "Couldn't retrieve the movie list.", got.Text)
}

func TestRandom(t *testing.T) {
	f := setup(t)
	m := &movie.Movie{ID: 550, Title: "Fight Club", ReleaseDate: "1999-10-15"}
	f.store.EXPECT().Random(gomock.Any()).Return(m, nil)
	f.contributors.EXPECT().Get(gomock.Any(), []movie.Movie{*m}).Return(map[int64][]string{550: {"alice"}})
	got := f.expectRespond(t)

	f.bot.HandleCommand(context.Background(), slash("/random", ""))
	assert.True(t, got.InChannel)
	js := blocksJSON(t, got)
	assert.Contains(t, js, "Fight Club")
	assert.Contains(t, js, "*Added by:* alice")
}

func TestRandom_Empty(t *testing.T) {
	f := setup(t)
	f.store.EXPECT().Random(gomock.Any()).Return(nil, fmt.Errorf("random movie: %w", storeclient.ErrNotFound))
	got := f.expectRespond(t)

	f.bot.HandleCommand(context.Background(), slash("/random", ""))
	assert.Equal(t, "No movies found in the database.", got.Text)
}

func TestRandom_Error(t *testing.T) {
	f := setup(t)
	f.store.EXPECT().Random(gomock.Any()).Return(nil, errors.New("timeout"))
	got := f.expectRespond(t)

	f.bot.HandleCommand(context.Background(), slash("/random", ""))
	assert.Equal(t, "Couldn't retrieve a random movie.", got.Text)
}

func TestPickMovie_Sizes(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 3},
		{"5", 5},
		{"1", 2},
		{"20", 8},
		{"lots", 3},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			f := setup(t)
			f.movies.EXPECT().All(gomock.Any()).Return(catalog(10), nil)

			var posted bot.Message
			f.messenger.EXPECT().Post(gomock.Any(), channel, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, msg bot.Message) (string, error) {
					posted = msg
					return "111.222", nil
				})

			f.bot.HandleCommand(context.Background(), slash("/pickmovie", tt.text))
			js := blocksJSON(t, &posted)
			assert.Equal(t, tt.want, strings.Count(js, `"action_id":"vote_movie_`))
			assert.Contains(t, js, "Movie Poll: Vote for our next movie!")
		})
	}
}

func TestPickMovie_NotEnough(t *testing.T) {
	f := setup(t)
	f.movies.EXPECT().All(gomock.Any()).Return(catalog(2), nil)
	got := f.expectRespond(t)

	f.bot.HandleCommand(context.Background(), slash("/pickmovie", "3"))
	assert.Equal(t, "Could not retrieve enough movies to create a poll.", got.Text)
}

func TestPickMovie_DoesNotReorderCatalog(t *testing.T) {
	f := setup(t)
	all := catalog(8)
	want := append([]movie.Movie(nil), all...)
	f.movies.EXPECT().All(gomock.Any()).Return(all, nil)
	f.messenger.EXPECT().Post(gomock.Any(), channel, gomock.Any()).Return("1.1", nil)

	f.bot.HandleCommand(context.Background(), slash("/pickmovie", "8"))
	assert.Equal(t, want, all)
}

func TestPoll_Voting(t *testing.T) {
	f := setup(t)
	movies := catalog(2)
	f.movies.EXPECT().All(gomock.Any()).Return(movies, nil)
	f.messenger.EXPECT().Post(gomock.Any(), channel, gomock.Any()).Return("111.222", nil)
	f.bot.HandleCommand(context.Background(), slash("/pickmovie", "2"))

	click := func(user string) {
		f.bot.HandleAction(context.Background(), slack.InteractionCallback{
			Type:      slack.InteractionTypeBlockActions,
			User:      slack.User{ID: user},
			Container: slack.Container{ChannelID: channel, MessageTs: "111.222"},
			ActionCallback: slack.ActionCallbacks{BlockActions: []*slack.BlockAction{
				{ActionID: "vote_movie_100", Value: "vote_100"},
			}},
		})
	}

	var updated bot.Message
	capture := func(_ context.Context, _, _ string, msg bot.Message) error {
		updated = msg
		return nil
	}

	// First click adds the vote.
	f.names.EXPECT().Resolve(gomock.Any(), []string{"U1"}).Return([]string{"alice"})
	f.messenger.EXPECT().Update(gomock.Any(), channel, "111.222", gomock.Any()).DoAndReturn(capture)
	click("U1")
	assert.Contains(t, blocksJSON(t, &updated), "*Votes:* 1 (alice)")

	// Second click by the same user removes it; no names to resolve.
	f.messenger.EXPECT().Update(gomock.Any(), channel, "111.222", gomock.Any()).DoAndReturn(capture)
	click("U1")
	assert.NotContains(t, blocksJSON(t, &updated), "*Votes:*")
}

func TestPoll_UnknownPoll(t *testing.T) {
	f := setup(t)
	f.messenger.EXPECT().Ephemeral(gomock.Any(), channel, "U1", bot.Message{Text: "This poll is no longer active."}).Return(nil)

	f.bot.HandleAction(context.Background(), slack.InteractionCallback{
		Type:      slack.InteractionTypeBlockActions,
		User:      slack.User{ID: "U1"},
		Container: slack.Container{ChannelID: channel, MessageTs: "9.9"},
		ActionCallback: slack.ActionCallbacks{BlockActions: []*slack.BlockAction{
			{ActionID: "vote_movie_100", Value: "vote_100"},
		}},
	})
}

func TestAction_Pagination(t *testing.T) {
	f := setup(t)
	f.pager.EXPECT().RenderPage(gomock.Any(), 3, 25).Return(listing.RenderedPage{
		Lines: []string{"51. Z (N/A) - N/A"}, Page: 3, TotalPages: 3, Total: 51, HasPrev: true,
	}, nil)
	got := f.expectRespond(t)

	f.bot.HandleAction(context.Background(), slack.InteractionCallback{
		Type:        slack.InteractionTypeBlockActions,
		ResponseURL: "https://hooks.test/r",
		Container:   slack.Container{ChannelID: channel},
		ActionCallback: slack.ActionCallbacks{BlockActions: []*slack.BlockAction{
			{ActionID: bot.ActionNextPage, Value: "3"},
		}},
	})
	assert.True(t, got.ReplaceOriginal)
	js := blocksJSON(t, got)
	assert.Contains(t, js, bot.ActionPrevPage)
	assert.NotContains(t, js, bot.ActionNextPage)
}

func TestAction_WrongChannel(t *testing.T) {
	f := setup(t)
	got := f.expectRespond(t)

	f.bot.HandleAction(context.Background(), slack.InteractionCallback{
		Type:        slack.InteractionTypeBlockActions,
		ResponseURL: "https://hooks.test/r",
		Container:   slack.Container{ChannelID: "C-other"},
		ActionCallback: slack.ActionCallbacks{BlockActions: []*slack.BlockAction{
			{ActionID: bot.ActionNextPage, Value: "2"},
		}},
	})
	assert.False(t, got.ReplaceOriginal)
	assert.Contains(t, got.Text, "only available in the designated movie channel")
}

func TestGenres(t *testing.T) {
	f := setup(t)
	f.store.EXPECT().Genres(gomock.Any()).Return([]movie.GenreCount{
		{ID: 28, Name: "Action", Count: 1},
		{ID: 18, Name: "Drama", Count: 4},
		{ID: 35, Name: "Comedy", Count: 1},
	}, nil)
	got := f.expectRespond(t)

	f.bot.HandleCommand(context.Background(), slash("/genres", ""))
	js := blocksJSON(t, got)
	assert.Contains(t, js, "• *Drama*: 4 movies\\n• *Action*: 1 movie\\n• *Comedy*: 1 movie\\n")
}

func TestGenres_Error(t *testing.T) {
	f := setup(t)
	f.store.EXPECT().Genres(gomock.Any()).Return(nil, errors.New("boom"))
	got := f.expectRespond(t)

	f.bot.HandleCommand(context.Background(), slash("/genres", ""))
	assert.Equal(t, "Couldn't retrieve genres.", got.Text)
}

func TestHelp(t *testing.T) {
	f := setup(t)

	got := f.expectRespond(t)
	f.bot.HandleCommand(context.Background(), slash("/help", ""))
	assert.True(t, strings.HasPrefix(got.Text, "*Available Commands:*"))
	assert.Contains(t, got.Text, "• `/pickmovie`: Creates a poll with random movies for users to vote on")
	assert.Less(t, strings.Index(got.Text, "/genres"), strings.Index(got.Text, "/random"), "sorted by name")

	got = f.expectRespond(t)
	f.bot.HandleCommand(context.Background(), slash("/help", "movies"))
	assert.Equal(t, "*movies*: List all movies in the database\nExamples:\n• `/movies`\n• `/movies 2`\n", got.Text)

	got = f.expectRespond(t)
	f.bot.HandleCommand(context.Background(), slash("/help", "dance"))
	assert.Contains(t, got.Text, "Command `dance` not found")
}

func TestShowMovie(t *testing.T) {
	f := setup(t)
	all := []movie.Movie{
		{ID: 550, Title: "Fight Club"},
		{ID: 603, Title: "The Matrix"},
	}
	f.movies.EXPECT().All(gomock.Any()).Return(all, nil).Times(2)
	f.contributors.EXPECT().Get(gomock.Any(), []movie.Movie{all[1]}).Return(map[int64][]string{})

	got := f.expectRespond(t)
	f.bot.HandleCommand(context.Background(), slash("/movie", "matrix"))
	assert.Contains(t, blocksJSON(t, got), "The Matrix")

	got = f.expectRespond(t)
	f.bot.HandleCommand(context.Background(), slash("/movie", "zzzzqqq"))
	assert.Equal(t, `No movie matching "zzzzqqq" found.`, got.Text)

	got = f.expectRespond(t)
	f.bot.HandleCommand(context.Background(), slash("/movie", ""))
	assert.Contains(t, got.Text, "*movie*:")
}

func TestHandleMessage_Links(t *testing.T) {
	f := setup(t)
	gomock.InOrder(
		f.links.EXPECT().Handle(gomock.Any(), dedup.Observation{
			Channel: channel, Timestamp: "1.5", URL: "https://www.themoviedb.org/movie/550", UserID: "U1",
		}).Return(dedup.OutcomeRecorded, nil),
		f.links.EXPECT().Handle(gomock.Any(), dedup.Observation{
			Channel: channel, Timestamp: "1.5", URL: "https://www.themoviedb.org/movie/603-the-matrix", UserID: "U1",
		}).Return(dedup.OutcomeSkipped, errors.New("tmdb down")),
		f.links.EXPECT().Reject(gomock.Any(), channel, "1.5").Times(1),
	)

	f.bot.HandleMessage(context.Background(), &slackevents.MessageEvent{
		Channel:   channel,
		User:      "U1",
		TimeStamp: "1.5",
		Text: "<https://www.themoviedb.org/movie/550> and <https://www.themoviedb.org/movie/603-the-matrix|Matrix> " +
			"plus https://example.com/a https://example.com/b",
	})
}

func TestHandleMessage_Ignored(t *testing.T) {
	f := setup(t)
	link := "https://www.themoviedb.org/movie/550"

	// No Links expectations: none of these reach the coordinator.
	f.bot.HandleMessage(context.Background(), &slackevents.MessageEvent{Channel: "C-other", User: "U1", TimeStamp: "1", Text: link})
	f.bot.HandleMessage(context.Background(), &slackevents.MessageEvent{Channel: channel, BotID: "B1", TimeStamp: "2", Text: link})
	f.bot.HandleMessage(context.Background(), &slackevents.MessageEvent{Channel: channel, SubType: "message_changed", TimeStamp: "3", Text: link})
	f.bot.HandleMessage(context.Background(), &slackevents.MessageEvent{Channel: channel, User: "U1", TimeStamp: "4", Text: "no links"})
}
