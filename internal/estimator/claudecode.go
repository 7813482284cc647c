package estimator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	claudecode "github.com/severity1/claude-agent-sdk-go"
)

// ClaudeCodeEstimator estimates story counts through the local Claude Code CLI
type ClaudeCodeEstimator struct {
	model string
	query func(ctx context.Context, prompt string) (string, error)
}

// NewClaudeCodeEstimator creates a CLI-backed estimator. An empty model
// selects "sonnet".
func NewClaudeCodeEstimator(model string) *ClaudeCodeEstimator {
	if model == "" {
		model = "sonnet"
	}
	e := &ClaudeCodeEstimator{model: model}
	e.query = e.executeQuery
	return e
}

// Estimate asks Claude Code for a story count
func (e *ClaudeCodeEstimator) Estimate(ctx context.Context, description string) (int, error) {
	text, err := e.query(ctx, Prompt(description))
	if err != nil {
		return 0, err
	}
	return ParseEstimate(text)
}

func (e *ClaudeCodeEstimator) executeQuery(ctx context.Context, prompt string) (string, error) {
	iterator, err := claudecode.Query(ctx, prompt,
		claudecode.WithModel(e.model),
		claudecode.WithMaxTurns(1),
	)
	if err != nil {
		if claudecode.IsCLINotFoundError(err) {
			return "", fmt.Errorf("%w: claude CLI not found: %v", ErrUnavailable, err)
		}
		return "", fmt.Errorf("claude code error: %w", err)
	}
	defer iterator.Close()

	var sb strings.Builder
	for {
		message, err := iterator.Next(ctx)
		if err != nil {
			if errors.Is(err, claudecode.ErrNoMoreMessages) {
				break
			}
			return "", fmt.Errorf("error reading claude response: %w", err)
		}

		if assistantMsg, ok := message.(*claudecode.AssistantMessage); ok {
			for _, block := range assistantMsg.Content {
				if textBlock, ok := block.(*claudecode.TextBlock); ok {
					sb.WriteString(textBlock.Text)
				}
			}
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response from claude code")
	}
	return sb.String(), nil
}
