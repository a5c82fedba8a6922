package bot

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

//go:generate mockgen -source=messenger.go -destination=mocks/mock_messenger.go -package=mocks

// Message is an outgoing Slack message.
type Message struct {
	Text   string // fallback text; also the whole message when Blocks is empty
	Blocks []slack.Block
	// ReplaceOriginal replaces the message a response URL belongs to.
	ReplaceOriginal bool
	// InChannel makes a response URL reply visible to the channel.
	InChannel bool
}

// Messenger sends messages to Slack.
type Messenger interface {
	// Respond replies through a slash command or interaction response URL.
	Respond(ctx context.Context, responseURL string, msg Message) error
	// Post posts to a channel and returns the message timestamp.
	Post(ctx context.Context, channel string, msg Message) (string, error)
	// Update edits the message at ts.
	Update(ctx context.Context, channel, ts string, msg Message) error
	// Ephemeral posts a message only user can see.
	Ephemeral(ctx context.Context, channel, user string, msg Message) error
}

// SlackPoster is the subset of *slack.Client a slackMessenger needs.
type SlackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	UpdateMessageContext(ctx context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error)
	PostEphemeralContext(ctx context.Context, channelID, userID string, options ...slack.MsgOption) (string, error)
}

type slackMessenger struct {
	api SlackPoster
}

// NewMessenger adapts a Slack client to Messenger.
func NewMessenger(api SlackPoster) Messenger {
	return &slackMessenger{api: api}
}

func (m *slackMessenger) Respond(ctx context.Context, responseURL string, msg Message) error {
	responseType := slack.ResponseTypeEphemeral
	if msg.InChannel {
		responseType = slack.ResponseTypeInChannel
	}
	opts := append(msgOptions(msg), slack.MsgOptionResponseURL(responseURL, responseType))
	if msg.ReplaceOriginal {
		opts = append(opts, slack.MsgOptionReplaceOriginal(responseURL))
	}
	if _, _, err := m.api.PostMessageContext(ctx, "", opts...); err != nil {
		return fmt.Errorf("respond: %w", err)
	}
	return nil
}

func (m *slackMessenger) Post(ctx context.Context, channel string, msg Message) (string, error) {
	_, ts, err := m.api.PostMessageContext(ctx, channel, msgOptions(msg)...)
	if err != nil {
		return "", fmt.Errorf("post message: %w", err)
	}
	return ts, nil
}

func (m *slackMessenger) Update(ctx context.Context, channel, ts string, msg Message) error {
	if _, _, _, err := m.api.UpdateMessageContext(ctx, channel, ts, msgOptions(msg)...); err != nil {
		return fmt.Errorf("update message: %w", err)
	}
	return nil
}

func (m *slackMessenger) Ephemeral(ctx context.Context, channel, user string, msg Message) error {
	if _, err := m.api.PostEphemeralContext(ctx, channel, user, msgOptions(msg)...); err != nil {
		return fmt.Errorf("post ephemeral: %w", err)
	}
	return nil
}

func msgOptions(msg Message) []slack.MsgOption {
	opts := []slack.MsgOption{slack.MsgOptionText(msg.Text, false)}
	if len(msg.Blocks) > 0 {
		opts = append(opts, slack.MsgOptionBlocks(msg.Blocks...))
	}
	return opts
}
