// Package tasks layers the fixed text operations (summarization,
// sentiment analysis, question answering) over the conversational
// adapter. Each task pins a model id and a system instruction; empty
// inputs short-circuit to their defined defaults without touching the
// network.
package tasks

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/UrikGon/gen-ai-workshop/llm"
	"github.com/UrikGon/gen-ai-workshop/llm/bedrock"
)

// Model ids pinned per task.
const (
	SummarizeModel = "us.amazon.nova-pro-v1:0"
	SentimentModel = "us.anthropic.claude-3-5-sonnet-20241022-v2:0"
	QAModel        = "mistral.mistral-large-2402-v1:0"
)

// InvalidQAInput is returned when either the question or the context text
// is empty.
const InvalidQAInput = "Invalid input: Question and text are required."

// Converser is the slice of the adapter the task layer needs.
type Converser interface {
	Converse(ctx context.Context, modelID string, system []llm.SystemPrompt, messages []llm.Message) (string, error)
}

// Service exposes the text tasks.
type Service struct {
	client Converser
	logger *zap.Logger
}

// New creates the task service. A nil logger is replaced with a no-op
// logger.
func New(client Converser, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger}
}

// Summarize produces a short summary of the text. Empty text returns ""
// without invoking the endpoint.
func (s *Service) Summarize(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", nil
	}

	system := []llm.SystemPrompt{
		{Text: "You are an app that creates summaries of text in 50 words or less."},
	}
	messages := []llm.Message{
		llm.UserText(fmt.Sprintf("Summarize the following text: %s.", text)),
	}

	s.logger.Debug("summarizing text", zap.Int("input_chars", len(text)))
	return s.client.Converse(ctx, SummarizeModel, system, messages)
}

// AnalyzeSentiment returns a JSON sentiment report for the text. Empty
// text returns "{}" without invoking the endpoint.
func (s *Service) AnalyzeSentiment(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "{}", nil
	}

	system := []llm.SystemPrompt{
		{Text: "You are a bot that takes text and returns a JSON object of sentiment analysis."},
	}
	messages := []llm.Message{llm.UserText(text)}

	s.logger.Debug("analyzing sentiment", zap.Int("input_chars", len(text)))
	return s.client.Converse(ctx, SentimentModel, system, messages)
}

// AnswerQuestion answers a question against the given context text. If
// either input is empty it returns InvalidQAInput without invoking the
// endpoint.
func (s *Service) AnswerQuestion(ctx context.Context, question, text string) (string, error) {
	if question == "" || text == "" {
		return InvalidQAInput, nil
	}

	system := []llm.SystemPrompt{
		{Text: fmt.Sprintf("Given the following text, answer the question. "+
			"If the answer is not in the text, 'say you do not know'. Here is the text: %s", text)},
	}
	messages := []llm.Message{llm.UserText(question)}

	s.logger.Debug("answering question",
		zap.Int("question_chars", len(question)),
		zap.Int("context_chars", len(text)))
	return s.client.Converse(ctx, QAModel, system, messages)
}

// compile-time check that the adapter satisfies Converser.
var _ Converser = (*bedrock.Client)(nil)
