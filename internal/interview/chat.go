package interview

import (
	"context"
	"strings"

	"careerpilot/internal/ai"
	"careerpilot/internal/errors"
	"careerpilot/internal/rag"
	"careerpilot/internal/types"
)

// Chat intents
const (
	IntentChitChat = "chit_chat"
	IntentKBQuery  = "kb_query"
)

// Responder covers the AI operations the chat flow needs. ai.Provider
// satisfies it.
type Responder interface {
	ClassifyIntent(ctx context.Context, input types.ChatClassifyInput) (types.ChatClassifyOutput, *ai.TokenUsage, error)
	CondenseQuestion(ctx context.Context, input types.ChatCondenseInput) (types.ChatCondenseOutput, *ai.TokenUsage, error)
	ChatRespond(ctx context.Context, input types.ChatRespondInput) (types.ChatRespondOutput, *ai.TokenUsage, error)
}

// Retriever returns knowledge base documents for a query. *rag.HybridRetriever
// satisfies it.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]rag.Document, error)
}

// Sessions is the slice of the session store the chat flow uses
type Sessions interface {
	Get(ctx context.Context, sessionID string) (types.ChatSession, error)
	AppendMessage(ctx context.Context, sessionID string, message types.ChatMessage) error
	History(ctx context.Context, sessionID string, window int) ([]types.ChatMessage, error)
}

// Chat answers interview-prep questions. Each question is classified as
// small talk or a knowledge base query; KB queries are condensed against
// the conversation history, retrieved, and answered from the retrieved
// context.
type Chat struct {
	sessions      Sessions
	retriever     Retriever
	responder     Responder
	historyWindow int
	logger        *errors.Logger
}

func NewChat(sessions Sessions, retriever Retriever, responder Responder, historyWindow int, logger *errors.Logger) *Chat {
	return &Chat{
		sessions:      sessions,
		retriever:     retriever,
		responder:     responder,
		historyWindow: historyWindow,
		logger:        logger,
	}
}

// Respond answers one user question within a session and records both
// sides of the turn in the session history.
func (c *Chat) Respond(ctx context.Context, sessionID, question string) (types.ChatAnswer, error) {
	if strings.TrimSpace(question) == "" {
		return types.ChatAnswer{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"question is empty", nil)
	}
	if _, err := c.sessions.Get(ctx, sessionID); err != nil {
		return types.ChatAnswer{}, err
	}

	history, err := c.sessions.History(ctx, sessionID, c.historyWindow)
	if err != nil {
		return types.ChatAnswer{}, err
	}

	intent := c.classify(ctx, history, question)

	var contextChunks []string
	var sources []string
	if intent == IntentKBQuery {
		standalone := c.condense(ctx, history, question)
		docs, err := c.retriever.Retrieve(ctx, standalone)
		if err != nil {
			return types.ChatAnswer{}, err
		}
		for _, doc := range docs {
			contextChunks = append(contextChunks, doc.Text)
		}
		sources = uniqueSources(docs)
	}

	output, _, err := c.responder.ChatRespond(ctx, types.ChatRespondInput{
		Question: question,
		Context:  contextChunks,
		History:  history,
	})
	if err != nil {
		return types.ChatAnswer{}, err
	}

	if err := c.sessions.AppendMessage(ctx, sessionID, types.ChatMessage{Role: "user", Content: question}); err != nil {
		return types.ChatAnswer{}, err
	}
	if err := c.sessions.AppendMessage(ctx, sessionID, types.ChatMessage{Role: "assistant", Content: output.Answer}); err != nil {
		return types.ChatAnswer{}, err
	}

	return types.ChatAnswer{Answer: output.Answer, Intent: intent, Sources: sources}, nil
}

// classify labels the question's intent. Classification failures fall back
// to treating the question as a KB query, which retrieves context it may
// not need rather than skipping context it does.
func (c *Chat) classify(ctx context.Context, history []types.ChatMessage, question string) string {
	output, _, err := c.responder.ClassifyIntent(ctx, types.ChatClassifyInput{
		History:  history,
		Question: question,
	})
	if err != nil {
		c.logger.Warn("Intent classification failed, assuming kb_query", "error", err.Error())
		return IntentKBQuery
	}

	intent := strings.ToLower(strings.Trim(strings.TrimSpace(output.Intent), `'"`))
	if intent == IntentChitChat {
		return IntentChitChat
	}
	return IntentKBQuery
}

// condense rewrites a follow-up question into a standalone one. With no
// history, or when condensing fails, the original question is used.
func (c *Chat) condense(ctx context.Context, history []types.ChatMessage, question string) string {
	if len(history) == 0 {
		return question
	}
	output, _, err := c.responder.CondenseQuestion(ctx, types.ChatCondenseInput{
		History:  history,
		Question: question,
	})
	if err != nil || strings.TrimSpace(output.Question) == "" {
		if err != nil {
			c.logger.Warn("Question condensing failed, using original", "error", err.Error())
		}
		return question
	}
	return output.Question
}

func uniqueSources(docs []rag.Document) []string {
	seen := map[string]struct{}{}
	var sources []string
	for _, doc := range docs {
		if doc.Source == "" {
			continue
		}
		if _, ok := seen[doc.Source]; ok {
			continue
		}
		seen[doc.Source] = struct{}{}
		sources = append(sources, doc.Source)
	}
	return sources
}
