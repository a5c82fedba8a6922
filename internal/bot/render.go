package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/slack-go/slack"

	"github.com/vmunix/movieclub/internal/listing"
	"github.com/vmunix/movieclub/internal/movie"
)

// Action ids carried by interactive elements.
const (
	ActionPrevPage   = "movie_prev_page"
	ActionNextPage   = "movie_next_page"
	ActionVotePrefix = "vote_movie_"
	votePrefix       = "vote_"
	pollBlockID      = "movie_poll_votes"
)

const overviewLimit = 300

func mrkdwn(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

func plain(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, true, false)
}

func section(text string) *slack.SectionBlock {
	return slack.NewSectionBlock(mrkdwn(text), nil, nil)
}

// listMessage renders one catalog page with navigation buttons.
func listMessage(rp listing.RenderedPage) Message {
	if rp.Empty {
		return Message{Text: listing.EmptyMessage, ReplaceOriginal: true}
	}

	blocks := []slack.Block{
		section(fmt.Sprintf("*Movie List (%d movies)*", rp.Total)),
		section(rp.Text()),
	}

	var buttons []slack.BlockElement
	if rp.HasPrev {
		buttons = append(buttons, slack.NewButtonBlockElement(ActionPrevPage, strconv.Itoa(rp.Page-1), plain("◀️ Previous")))
	}
	if rp.HasNext {
		buttons = append(buttons, slack.NewButtonBlockElement(ActionNextPage, strconv.Itoa(rp.Page+1), plain("Next ▶️")))
	}
	if len(buttons) > 0 {
		blocks = append(blocks, slack.NewActionBlock("", buttons...))
	}

	return Message{
		Text:            fmt.Sprintf("Movie List (%d movies)", rp.Total),
		Blocks:          blocks,
		ReplaceOriginal: true,
	}
}

// detailMessage renders the detail card for one movie.
func detailMessage(m *movie.Movie, addedBy []string) Message {
	blocks := []slack.Block{
		slack.NewHeaderBlock(plain(m.Title)),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			mrkdwn("*Year:* " + m.YearLabel()),
			mrkdwn(fmt.Sprintf("*Rating:* %s (%d votes)", m.RatingLabel(), m.VoteCount)),
		}, nil),
	}

	if genres := m.GenreNames(); len(genres) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			mrkdwn("*Genres:* " + strings.Join(genres, ", ")),
		}, nil))
	}
	if len(addedBy) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			mrkdwn("*Added by:* " + strings.Join(addedBy, ", ")),
		}, nil))
	}
	if m.Overview != "" {
		blocks = append(blocks, section("*Overview:*\n"+truncate(m.Overview, overviewLimit)))
	}
	if poster := m.PosterURL("w500"); poster != "" {
		blocks = append(blocks, slack.NewImageBlock(poster, m.Title, "", nil))
	}
	blocks = append(blocks, slack.NewContextBlock("", mrkdwn(fmt.Sprintf("<%s|View on TMDB>", m.TMDBURL()))))

	return Message{Text: m.String(), Blocks: blocks}
}

// truncate cuts s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// pollMessage renders a poll with the current tallies. voters maps movie id
// to the display names of its voters.
func pollMessage(movies []movie.Movie, voters map[int64][]string) Message {
	blocks := []slack.Block{
		slack.NewHeaderBlock(plain("Movie Poll: Vote for our next movie! 🍿")),
		section("Click a button below to vote for which movie we should watch next. *Click again to remove your vote.*"),
		slack.NewDividerBlock(),
	}

	buttons := make([]slack.BlockElement, 0, len(movies))
	for i := range movies {
		m := &movies[i]
		text := fmt.Sprintf("*%d. %s* (%s)\nRating: %s\n<%s|View on TMDB>",
			i+1, m.Title, m.YearLabel(), m.RatingLabel(), m.TMDBURL())
		if names := voters[m.ID]; len(names) > 0 {
			text += fmt.Sprintf("\n*Votes:* %d (%s)", len(names), strings.Join(names, ", "))
		}

		var accessory *slack.Accessory
		if poster := m.PosterURL("w92"); poster != "" {
			accessory = slack.NewAccessory(slack.NewImageBlockElement(poster, m.Title))
		}
		blocks = append(blocks, slack.NewSectionBlock(mrkdwn(text), nil, accessory))

		id := strconv.FormatInt(m.ID, 10)
		buttons = append(buttons, slack.NewButtonBlockElement(ActionVotePrefix+id, votePrefix+id, plain(fmt.Sprintf("Vote #%d", i+1))))
	}

	blocks = append(blocks, slack.NewDividerBlock(), slack.NewActionBlock(pollBlockID, buttons...))
	return Message{Text: "Vote for the next movie to watch!", Blocks: blocks}
}

// genresMessage renders genre counts, most common first.
func genresMessage(genres []movie.GenreCount) Message {
	if len(genres) == 0 {
		return Message{Text: "No genres found in the database."}
	}

	var b strings.Builder
	for _, g := range genres {
		suffix := "s"
		if g.Count == 1 {
			suffix = ""
		}
		fmt.Fprintf(&b, "• *%s*: %d movie%s\n", g.Name, g.Count, suffix)
	}

	return Message{
		Text: fmt.Sprintf("%d genres found", len(genres)),
		Blocks: []slack.Block{
			slack.NewHeaderBlock(plain("Movie Genres")),
			section(fmt.Sprintf("*%d genres found*", len(genres))),
			section(b.String()),
		},
	}
}
