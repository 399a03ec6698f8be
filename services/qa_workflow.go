package services

import (
	"context"
	"fmt"
	"strings"

	"lecture-rag-backend/internal/telemetry"
	"lecture-rag-backend/internal/vectorstore"
)

const answerPromptTemplate = "Answer the question based on the context below.\nContext:\n%s\n\nQuestion: %s"

// AnswerGenerator produces an answer for a fully built prompt.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, prompt string) (string, error)
}

// QAWorkflow answers a question in two stages: retrieve the top-k
// matching chunks, then generate an answer conditioned on them.
// Each call is independent; no conversation memory is kept.
type QAWorkflow struct {
	embedder Embedder
	store    vectorstore.Store
	chat     AnswerGenerator
	topK     int
	alpha    float64
	metrics  *telemetry.Metrics
}

func NewQAWorkflow(embedder Embedder, store vectorstore.Store, chat AnswerGenerator, topK int, alpha float64, metrics *telemetry.Metrics) *QAWorkflow {
	if topK <= 0 {
		topK = 4
	}
	return &QAWorkflow{
		embedder: embedder,
		store:    store,
		chat:     chat,
		topK:     topK,
		alpha:    alpha,
		metrics:  metrics,
	}
}

// Ask retrieves context for question and returns the generated answer.
func (w *QAWorkflow) Ask(ctx context.Context, question string) (string, error) {
	results, err := w.retrieve(ctx, question)
	if err != nil {
		return "", fmt.Errorf("retrieve: %w", err)
	}

	texts := make([]string, 0, len(results))
	for _, r := range results {
		texts = append(texts, r.Text)
	}
	contextText := strings.Join(texts, "\n")

	prompt := fmt.Sprintf(answerPromptTemplate, contextText, question)
	answer, err := w.chat.GenerateAnswer(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// retrieve embeds the question for the memory store; the hybrid store
// receives the question text directly and embeds it server-side.
func (w *QAWorkflow) retrieve(ctx context.Context, question string) ([]vectorstore.Result, error) {
	q := vectorstore.Query{Text: question, Alpha: w.alpha}
	backend := "mongo"

	if _, ok := w.store.(*vectorstore.Memory); ok {
		backend = "memory"
		vec, err := w.embedder.EmbedText(ctx, question)
		if err != nil {
			return nil, err
		}
		q.Vector = vec
	}

	results, err := w.store.Search(ctx, q, w.topK)
	if err != nil {
		return nil, err
	}
	w.metrics.RecordRetrieval(backend)
	return results, nil
}
