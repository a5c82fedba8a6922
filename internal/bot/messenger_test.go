package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSlack records the Web API and response URL requests it receives.
type fakeSlack struct {
	forms map[string]url.Values
	json  map[string]map[string]any
}

func newFakeSlack(t *testing.T) (*fakeSlack, *httptest.Server) {
	t.Helper()
	f := &fakeSlack{forms: map[string]url.Values{}, json: map[string]map[string]any{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/respond":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.json[r.URL.Path] = body
			_, _ = w.Write([]byte(`{"ok":true}`))
			return
		}
		_ = r.ParseForm()
		f.forms[r.URL.Path] = r.PostForm
		switch r.URL.Path {
		case "/chat.postMessage":
			_, _ = w.Write([]byte(`{"ok":true,"channel":"C1","ts":"123.456"}`))
		case "/chat.update":
			_, _ = w.Write([]byte(`{"ok":true,"channel":"C1","ts":"123.456","text":"x"}`))
		case "/chat.postEphemeral":
			_, _ = w.Write([]byte(`{"ok":true,"message_ts":"123.789"}`))
		default:
			_, _ = w.Write([]byte(`{"ok":false,"error":"unknown_method"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func TestSlackMessenger_Post(t *testing.T) {
	f, srv := newFakeSlack(t)
	m := NewMessenger(slack.New("xoxb-test", slack.OptionAPIURL(srv.URL+"/")))

	ts, err := m.Post(context.Background(), "C1", Message{Text: "hello", Blocks: []slack.Block{section("*hi*")}})
	require.NoError(t, err)
	assert.Equal(t, "123.456", ts)

	form := f.forms["/chat.postMessage"]
	assert.Equal(t, "C1", form.Get("channel"))
	assert.Equal(t, "hello", form.Get("text"))
	assert.Contains(t, form.Get("blocks"), "*hi*")
}

func TestSlackMessenger_UpdateAndEphemeral(t *testing.T) {
	f, srv := newFakeSlack(t)
	m := NewMessenger(slack.New("xoxb-test", slack.OptionAPIURL(srv.URL+"/")))

	require.NoError(t, m.Update(context.Background(), "C1", "123.456", Message{Text: "edited"}))
	assert.Equal(t, "123.456", f.forms["/chat.update"].Get("ts"))
	assert.Equal(t, "edited", f.forms["/chat.update"].Get("text"))

	require.NoError(t, m.Ephemeral(context.Background(), "C1", "U1", Message{Text: "psst"}))
	assert.Equal(t, "U1", f.forms["/chat.postEphemeral"].Get("user"))
}

func TestSlackMessenger_Respond(t *testing.T) {
	f, srv := newFakeSlack(t)
	m := NewMessenger(slack.New("xoxb-test", slack.OptionAPIURL(srv.URL+"/")))

	err := m.Respond(context.Background(), srv.URL+"/respond", Message{Text: "page 2", ReplaceOriginal: true})
	require.NoError(t, err)

	body := f.json["/respond"]
	assert.Equal(t, "page 2", body["text"])
	assert.Equal(t, "ephemeral", body["response_type"])
	assert.Equal(t, true, body["replace_original"])

	require.NoError(t, m.Respond(context.Background(), srv.URL+"/respond", Message{Text: "pick", InChannel: true}))
	assert.Equal(t, "in_channel", f.json["/respond"]["response_type"])
}

func TestSlackMessenger_Error(t *testing.T) {
	_, srv := newFakeSlack(t)
	m := NewMessenger(slack.New("xoxb-test", slack.OptionAPIURL(srv.URL+"/missing/")))

	_, err := m.Post(context.Background(), "C1", Message{Text: "hello"})
	assert.Error(t, err)
}
