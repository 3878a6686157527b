package llm

import (
	"context"
	"errors"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/apperr"
)

// labelPrefix matches a leading "Label: " the model tends to prepend.
var labelPrefix = regexp.MustCompile(`^[^:]+:\s*`)

// StripLabel trims whitespace and drops a leading "label:" prefix. Replies without a colon are
// returned trimmed but otherwise unchanged.
func StripLabel(reply string) string {
	return labelPrefix.ReplaceAllString(strings.TrimSpace(reply), "")
}

// Summarize sends "{prompt}\n\n{text}" as a single user message and returns the reply with any
// label prefix stripped.
func (g *Gateway) Summarize(ctx context.Context, text, prompt string, maxTokens int) (string, error) {
	const op = "summarize"
	if err := g.wait(ctx, op); err != nil {
		return "", err
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.cfg.SummarizeModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt + "\n\n" + text},
		},
		MaxTokens:   maxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return "", upstream(op, err)
	}
	if len(resp.Choices) == 0 {
		return "", apperr.E(apperr.Upstream, op, errors.New("no response choices returned"))
	}

	reply := StripLabel(resp.Choices[0].Message.Content)
	g.logger.Debug("summarize completed",
		zap.String("prompt", prompt),
		zap.Int("max_tokens", maxTokens),
		zap.Int("reply_len", len(reply)))
	return reply, nil
}
