package interview

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerpilot/internal/ai"
	"careerpilot/internal/errors"
	"careerpilot/internal/rag"
	"careerpilot/internal/types"
)

type fakeSessions struct {
	sessions map[string]types.ChatSession
	history  map[string][]types.ChatMessage
}

func newFakeSessions(ids ...string) *fakeSessions {
	f := &fakeSessions{
		sessions: map[string]types.ChatSession{},
		history:  map[string][]types.ChatMessage{},
	}
	for _, id := range ids {
		f.sessions[id] = types.ChatSession{SessionID: id, Title: "Chat"}
	}
	return f
}

func (f *fakeSessions) Get(ctx context.Context, sessionID string) (types.ChatSession, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return types.ChatSession{}, errors.NewStorageError(errors.ErrCodeSessionNotFound, "session not found", nil)
	}
	return session, nil
}

func (f *fakeSessions) AppendMessage(ctx context.Context, sessionID string, message types.ChatMessage) error {
	f.history[sessionID] = append(f.history[sessionID], message)
	return nil
}

func (f *fakeSessions) History(ctx context.Context, sessionID string, window int) ([]types.ChatMessage, error) {
	return f.history[sessionID], nil
}

type fakeRetriever struct {
	docs   []rag.Document
	err    error
	calls  int
	lastQ  string
	docsBy map[string][]rag.Document
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string) ([]rag.Document, error) {
	f.calls++
	f.lastQ = query
	if f.err != nil {
		return nil, f.err
	}
	if f.docsBy != nil {
		return f.docsBy[query], nil
	}
	return f.docs, nil
}

type fakeResponder struct {
	intent        string
	intentErr     error
	condensed     string
	condenseErr   error
	answer        string
	lastRespond   types.ChatRespondInput
	condenseCalls int
}

func (f *fakeResponder) ClassifyIntent(ctx context.Context, input types.ChatClassifyInput) (types.ChatClassifyOutput, *ai.TokenUsage, error) {
	if f.intentErr != nil {
		return types.ChatClassifyOutput{}, nil, f.intentErr
	}
	return types.ChatClassifyOutput{Intent: f.intent}, nil, nil
}

func (f *fakeResponder) CondenseQuestion(ctx context.Context, input types.ChatCondenseInput) (types.ChatCondenseOutput, *ai.TokenUsage, error) {
	f.condenseCalls++
	if f.condenseErr != nil {
		return types.ChatCondenseOutput{}, nil, f.condenseErr
	}
	return types.ChatCondenseOutput{Question: f.condensed}, nil, nil
}

func (f *fakeResponder) ChatRespond(ctx context.Context, input types.ChatRespondInput) (types.ChatRespondOutput, *ai.TokenUsage, error) {
	f.lastRespond = input
	return types.ChatRespondOutput{Answer: f.answer}, nil, nil
}

func testLogger(t *testing.T) *errors.Logger {
	t.Helper()
	logger, err := errors.New("error")
	require.NoError(t, err)
	return logger
}

func kbDocs() []rag.Document {
	return []rag.Document{
		{ID: "faq.json#0", Text: "Q: What is a goroutine?\nA: A lightweight thread.", Source: "faq.json"},
		{ID: "faq.json#1", Text: "Q: What is a channel?\nA: A typed conduit.", Source: "faq.json"},
	}
}

func TestRespondKBQuery(t *testing.T) {
	sessions := newFakeSessions("s1")
	retriever := &fakeRetriever{docs: kbDocs()}
	responder := &fakeResponder{intent: IntentKBQuery, answer: "A goroutine is a lightweight thread."}

	chat := NewChat(sessions, retriever, responder, 10, testLogger(t))
	answer, err := chat.Respond(context.Background(), "s1", "What is a goroutine?")
	require.NoError(t, err)

	assert.Equal(t, IntentKBQuery, answer.Intent)
	assert.Equal(t, "A goroutine is a lightweight thread.", answer.Answer)
	assert.Equal(t, []string{"faq.json"}, answer.Sources)

	// Retrieved chunks reach the responder as context
	require.Len(t, responder.lastRespond.Context, 2)
	assert.Contains(t, responder.lastRespond.Context[0], "goroutine")

	// Both sides of the turn are recorded
	require.Len(t, sessions.history["s1"], 2)
	assert.Equal(t, "user", sessions.history["s1"][0].Role)
	assert.Equal(t, "assistant", sessions.history["s1"][1].Role)
}

func TestRespondChitChatSkipsRetrieval(t *testing.T) {
	sessions := newFakeSessions("s1")
	retriever := &fakeRetriever{docs: kbDocs()}
	responder := &fakeResponder{intent: IntentChitChat, answer: "Hello! Ready to practice?"}

	chat := NewChat(sessions, retriever, responder, 10, testLogger(t))
	answer, err := chat.Respond(context.Background(), "s1", "hey there")
	require.NoError(t, err)

	assert.Equal(t, IntentChitChat, answer.Intent)
	assert.Empty(t, answer.Sources)
	assert.Equal(t, 0, retriever.calls)
	assert.Empty(t, responder.lastRespond.Context)
}

func TestRespondCondensesFollowUps(t *testing.T) {
	sessions := newFakeSessions("s1")
	sessions.history["s1"] = []types.ChatMessage{
		{Role: "user", Content: "What is a goroutine?"},
		{Role: "assistant", Content: "A lightweight thread."},
	}
	retriever := &fakeRetriever{docs: kbDocs()}
	responder := &fakeResponder{
		intent:    IntentKBQuery,
		condensed: "How do goroutines compare to OS threads?",
		answer:    "They are much cheaper.",
	}

	chat := NewChat(sessions, retriever, responder, 10, testLogger(t))
	_, err := chat.Respond(context.Background(), "s1", "how do they compare to OS threads?")
	require.NoError(t, err)

	assert.Equal(t, 1, responder.condenseCalls)
	assert.Equal(t, "How do goroutines compare to OS threads?", retriever.lastQ)
}

func TestRespondFirstTurnSkipsCondensing(t *testing.T) {
	sessions := newFakeSessions("s1")
	responder := &fakeResponder{intent: IntentKBQuery, answer: "ok"}
	retriever := &fakeRetriever{docs: kbDocs()}

	chat := NewChat(sessions, retriever, responder, 10, testLogger(t))
	_, err := chat.Respond(context.Background(), "s1", "What is a channel?")
	require.NoError(t, err)

	assert.Equal(t, 0, responder.condenseCalls)
	assert.Equal(t, "What is a channel?", retriever.lastQ)
}

func TestRespondClassifierFailureFallsBackToKB(t *testing.T) {
	sessions := newFakeSessions("s1")
	retriever := &fakeRetriever{docs: kbDocs()}
	responder := &fakeResponder{intentErr: context.DeadlineExceeded, answer: "ok"}

	chat := NewChat(sessions, retriever, responder, 10, testLogger(t))
	answer, err := chat.Respond(context.Background(), "s1", "What is a mutex?")
	require.NoError(t, err)

	assert.Equal(t, IntentKBQuery, answer.Intent)
	assert.Equal(t, 1, retriever.calls)
}

func TestRespondNormalizesQuotedIntent(t *testing.T) {
	sessions := newFakeSessions("s1")
	retriever := &fakeRetriever{docs: kbDocs()}
	responder := &fakeResponder{intent: `'chit_chat'`, answer: "hi"}

	chat := NewChat(sessions, retriever, responder, 10, testLogger(t))
	answer, err := chat.Respond(context.Background(), "s1", "hello!")
	require.NoError(t, err)
	assert.Equal(t, IntentChitChat, answer.Intent)
}

func TestRespondUnknownSession(t *testing.T) {
	chat := NewChat(newFakeSessions(), &fakeRetriever{}, &fakeResponder{}, 10, testLogger(t))

	_, err := chat.Respond(context.Background(), "missing", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRespondEmptyQuestion(t *testing.T) {
	chat := NewChat(newFakeSessions("s1"), &fakeRetriever{}, &fakeResponder{}, 10, testLogger(t))

	_, err := chat.Respond(context.Background(), "s1", "   ")
	require.Error(t, err)
}
