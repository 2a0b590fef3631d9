package api

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/phamducminh/relay-cli/internal/logging"
)

// SSEProcessor reads a Server-Sent Events chat-completions stream, handing
// each content delta to the caller in arrival order and accumulating the
// final response.
type SSEProcessor struct {
	reader         *bufio.Reader
	contentBuilder strings.Builder
	finalUsage     Usage
	responseID     string
}

// NewSSEProcessor creates a new SSE stream processor
func NewSSEProcessor(r io.Reader) *SSEProcessor {
	return &SSEProcessor{reader: bufio.NewReader(r)}
}

// Process reads the SSE stream until the [DONE] sentinel or EOF, calling
// onChunk for each content fragment. Malformed events are logged and
// skipped rather than aborting the stream.
func (p *SSEProcessor) Process(ctx context.Context, onChunk func(content string)) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := p.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}

		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			break
		}

		var chunk ChatResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			logging.Debug("skipping malformed streaming chunk", logging.Fields{
				"error": err.Error(),
				"data":  data,
			})
			continue
		}

		if chunk.ID != "" {
			p.responseID = chunk.ID
		}

		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			content := chunk.Choices[0].Delta.Content
			p.contentBuilder.WriteString(content)
			onChunk(content)
		}

		// Usage arrives on the final chunk only.
		if chunk.Usage.TotalTokens > 0 {
			p.finalUsage = chunk.Usage
		}
	}

	return nil
}

// BuildResponse constructs the final ChatResponse from accumulated data
func (p *SSEProcessor) BuildResponse() *ChatResponse {
	return &ChatResponse{
		ID: p.responseID,
		Choices: []Choice{
			{
				Index: 0,
				Message: Message{
					Role:    "assistant",
					Content: p.contentBuilder.String(),
				},
				FinishReason: "stop",
			},
		},
		Usage: p.finalUsage,
	}
}

// Content returns the accumulated content
func (p *SSEProcessor) Content() string {
	return p.contentBuilder.String()
}
