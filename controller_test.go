package parley_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/parleyhq/parley"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_BeginSend_RejectsEmptyContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "empty", content: ""},
		{name: "whitespace only", content: "   \n\t"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := parley.NewController()
			_, err := c.BeginSend(tt.content)
			require.ErrorIs(t, err, parley.ErrEmptyMessage)
			assert.Empty(t, c.Messages())
			assert.False(t, c.Loading())
			assert.Empty(t, c.Title())
		})
	}
}

func TestController_BeginSend_AppendsUserMessageBeforeIO(t *testing.T) {
	t.Parallel()

	c := parley.NewController()
	op, err := c.BeginSend("hello there")
	require.NoError(t, err)

	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, parley.UserMessage("hello there"), msgs[0])
	assert.True(t, c.Loading())
	assert.Equal(t, "hello there", c.Title())
	assert.Equal(t, parley.SendRequest{Message: "hello there"}, op.Request())
}

func TestController_FinishSend_AppendsReplyAndAdoptsSession(t *testing.T) {
	t.Parallel()

	c := parley.NewController()
	op, err := c.BeginSend("hi")
	require.NoError(t, err)

	require.NoError(t, c.FinishSend(op, parley.Reply{Content: "hello", SessionID: "sess-1"}, nil))

	assert.False(t, c.Loading())
	assert.Equal(t, "sess-1", c.SessionID())
	assert.Equal(t, []parley.Message{
		parley.UserMessage("hi"),
		parley.AssistantMessage("hello"),
	}, c.Messages())
}

func TestController_FinishSend_KeepsSessionIdentity(t *testing.T) {
	t.Parallel()

	c := parley.NewController()
	op, err := c.BeginSend("hi")
	require.NoError(t, err)
	require.NoError(t, c.FinishSend(op, parley.Reply{Content: "a", SessionID: "first"}, nil))

	op, err = c.BeginSend("again")
	require.NoError(t, err)
	require.NoError(t, c.FinishSend(op, parley.Reply{Content: "b", SessionID: "other"}, nil))

	assert.Equal(t, "first", c.SessionID())
}

func TestController_FinishSend_FailureKeepsUserMessage(t *testing.T) {
	t.Parallel()

	c := parley.NewController()
	op, err := c.BeginSend("hi")
	require.NoError(t, err)

	sendErr := errors.New("boom")
	err = c.FinishSend(op, parley.Reply{}, sendErr)
	require.ErrorIs(t, err, sendErr)

	assert.False(t, c.Loading())
	assert.Equal(t, []parley.Message{parley.UserMessage("hi")}, c.Messages())
	assert.Empty(t, c.SessionID())
}

func TestController_StaleSendResultDiscarded(t *testing.T) {
	t.Parallel()

	c := parley.NewController()
	stale, err := c.BeginSend("first")
	require.NoError(t, err)

	current, err := c.BeginSend("second")
	require.NoError(t, err)

	// The older round trip completes after the newer one started.
	require.NoError(t, c.FinishSend(stale, parley.Reply{Content: "late", SessionID: "old"}, nil))
	assert.True(t, c.Loading(), "stale result must not clear the newer operation's loading flag")
	assert.Empty(t, c.SessionID())

	require.NoError(t, c.FinishSend(current, parley.Reply{Content: "fresh", SessionID: "new"}, nil))
	msgs := c.Messages()
	assert.Equal(t, parley.AssistantMessage("fresh"), msgs[len(msgs)-1])
	assert.Equal(t, "new", c.SessionID())
}

func TestController_StaleSendErrorDiscarded(t *testing.T) {
	t.Parallel()

	c := parley.NewController()
	stale, err := c.BeginSend("first")
	require.NoError(t, err)
	_, err = c.BeginSend("second")
	require.NoError(t, err)

	assert.NoError(t, c.FinishSend(stale, parley.Reply{}, errors.New("late failure")))
	assert.True(t, c.Loading())
}

func TestController_BeginSelect_ClearsTranscriptImmediately(t *testing.T) {
	t.Parallel()

	c := parley.NewController()
	op, err := c.BeginSend("hi")
	require.NoError(t, err)
	require.NoError(t, c.FinishSend(op, parley.Reply{Content: "hello", SessionID: "s1"}, nil))

	sel := c.BeginSelect("s2", "Old chat")

	assert.Empty(t, c.Messages())
	assert.True(t, c.Loading())
	assert.Equal(t, "s2", c.SessionID())
	assert.Equal(t, "Old chat", c.Title())
	assert.Equal(t, "s2", sel.SessionID())
}

func TestController_FinishSelect_ReplacesTranscript(t *testing.T) {
	t.Parallel()

	c := parley.NewController()
	sel := c.BeginSelect("s2", "Old chat")

	records := []parley.Record{
		{ID: 1, SessionID: "s2", Message: json.RawMessage(`{"type":"human","content":"hi"}`)},
		{ID: 2, SessionID: "s2", Message: json.RawMessage(`{"type":"ai","content":"hello"}`)},
	}
	require.NoError(t, c.FinishSelect(sel, records, nil))

	assert.False(t, c.Loading())
	assert.Equal(t, []parley.Message{
		parley.UserMessage("hi"),
		parley.AssistantMessage("hello"),
	}, c.Messages())
}

func TestController_FinishSelect_FailureLeavesTranscriptEmpty(t *testing.T) {
	t.Parallel()

	c := parley.NewController()
	sel := c.BeginSelect("s2", "Old chat")

	fetchErr := errors.New("store down")
	err := c.FinishSelect(sel, nil, fetchErr)
	require.ErrorIs(t, err, fetchErr)

	assert.False(t, c.Loading())
	assert.Empty(t, c.Messages())
}

func TestController_StaleSelectResultDiscarded(t *testing.T) {
	t.Parallel()

	c := parley.NewController()
	stale := c.BeginSelect("s1", "First")
	current := c.BeginSelect("s2", "Second")

	staleRecords := []parley.Record{
		{ID: 1, SessionID: "s1", Message: json.RawMessage(`{"type":"human","content":"old"}`)},
	}
	require.NoError(t, c.FinishSelect(stale, staleRecords, nil))
	assert.Empty(t, c.Messages(), "stale records must not replace the transcript")
	assert.Equal(t, "s2", c.SessionID())

	currentRecords := []parley.Record{
		{ID: 2, SessionID: "s2", Message: json.RawMessage(`{"type":"human","content":"new"}`)},
	}
	require.NoError(t, c.FinishSelect(current, currentRecords, nil))
	assert.Equal(t, []parley.Message{parley.UserMessage("new")}, c.Messages())
}

func TestController_NewChat_ResetsState(t *testing.T) {
	t.Parallel()

	var resets int
	c := parley.NewController(parley.WithResetHook(func() { resets++ }))

	op, err := c.BeginSend("hi")
	require.NoError(t, err)
	require.NoError(t, c.FinishSend(op, parley.Reply{Content: "hello", SessionID: "s1"}, nil))

	c.NewChat()

	assert.Empty(t, c.SessionID())
	assert.Empty(t, c.Messages())
	assert.Empty(t, c.Title())
	assert.False(t, c.Loading())
	assert.Equal(t, 1, resets)
}

func TestController_NewChat_InvalidatesInFlightOperations(t *testing.T) {
	t.Parallel()

	c := parley.NewController()
	op, err := c.BeginSend("hi")
	require.NoError(t, err)

	c.NewChat()

	require.NoError(t, c.FinishSend(op, parley.Reply{Content: "late", SessionID: "stale"}, nil))
	assert.Empty(t, c.Messages())
	assert.Empty(t, c.SessionID())
}

func TestController_NewChatThenSendStartsFreshSession(t *testing.T) {
	t.Parallel()

	c := parley.NewController()
	op, err := c.BeginSend("hi")
	require.NoError(t, err)
	require.NoError(t, c.FinishSend(op, parley.Reply{Content: "hello", SessionID: "first"}, nil))

	c.NewChat()

	op, err = c.BeginSend("hi again")
	require.NoError(t, err)
	assert.Empty(t, op.Request().SessionID, "fresh chat must not reuse the previous session identity")

	require.NoError(t, c.FinishSend(op, parley.Reply{Content: "hey", SessionID: "second"}, nil))
	assert.Equal(t, "second", c.SessionID())
}

func TestController_TitleUpdatesOptimisticallyOnSend(t *testing.T) {
	t.Parallel()

	c := parley.NewController()
	_, err := c.BeginSend("What is Playtech? Tell me everything.")
	require.NoError(t, err)

	// Title derives from the sent content before the round trip completes.
	assert.Equal(t, "What is Playtech?", c.Title())
}

func TestController_MessagesReturnsCopy(t *testing.T) {
	t.Parallel()

	c := parley.NewController()
	_, err := c.BeginSend("hi")
	require.NoError(t, err)

	msgs := c.Messages()
	msgs[0].Content = "mutated"
	assert.Equal(t, "hi", c.Messages()[0].Content)
}
