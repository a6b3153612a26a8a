package ai

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"

	"careerpilot/internal/config"
	"careerpilot/internal/errors"
)

// Task types for Gemini embeddings. Documents are embedded for storage,
// queries for lookup; the model optimizes the vectors differently.
const (
	taskTypeDocument = "RETRIEVAL_DOCUMENT"
	taskTypeQuery    = "RETRIEVAL_QUERY"
)

// embedBatchSize caps how many texts go into one EmbedContent call
const embedBatchSize = 100

// Embedder produces embedding vectors via the Gemini embeddings API.
// It is shared across the match pipeline and the retrieval index.
type Embedder struct {
	client *genai.Client
	model  string
	logger *errors.Logger
}

// NewEmbedder creates an embedder using the configured embedding model
func NewEmbedder(cfg *config.Config, logger *errors.Logger) (*Embedder, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.AI.APIKey,
	})
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client for embeddings", err)
	}

	return &Embedder{
		client: client,
		model:  cfg.AI.EmbeddingModel,
		logger: logger,
	}, nil
}

// EmbedDocuments embeds a batch of document texts for storage in an index
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return e.embed(ctx, texts, taskTypeDocument)
}

// EmbedQuery embeds a single query text for similarity lookup
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.embed(ctx, []string{text}, taskTypeQuery)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *Embedder) embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	tracer := otel.Tracer("careerpilot.ai.embedder")
	ctx, span := tracer.Start(ctx, "gemini.embed")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.model", e.model),
		attribute.String("embed.task_type", taskType),
		attribute.Int("embed.texts_count", len(texts)),
	)

	vectors := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += embedBatchSize {
		end := min(start+embedBatchSize, len(texts))

		contents := make([]*genai.Content, 0, end-start)
		for _, text := range texts[start:end] {
			contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
		}

		result, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
			TaskType: taskType,
		})
		if err != nil {
			span.RecordError(err)
			return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
				"Failed to embed content", err)
		}

		if len(result.Embeddings) != end-start {
			return nil, errors.NewAIError(errors.ErrCodeAIResponseInvalid,
				fmt.Sprintf("Embedding count mismatch: sent %d texts, got %d vectors", end-start, len(result.Embeddings)), nil)
		}

		for _, emb := range result.Embeddings {
			vectors = append(vectors, emb.Values)
		}
	}

	e.logger.Debug("Embedded texts",
		"count", len(texts),
		"model", e.model,
		"task_type", taskType)

	return vectors, nil
}

// Model returns the embedding model name
func (e *Embedder) Model() string {
	return e.model
}
