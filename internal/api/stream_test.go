package api

import (
	"context"
	"strings"
	"testing"
)

func TestSSEProcessor_Process_SimpleContent(t *testing.T) {
	input := `data: {"id":"test-1","choices":[{"index":0,"delta":{"content":"Hello"}}]}

data: {"id":"test-1","choices":[{"index":0,"delta":{"content":" World"}}]}

data: [DONE]
`
	processor := NewSSEProcessor(strings.NewReader(input))

	var chunks []string
	err := processor.Process(context.Background(), func(content string) {
		chunks = append(chunks, content)
	})

	if err != nil {
		t.Errorf("Process() unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Errorf("Process() got %d chunks, want 2", len(chunks))
	}
	if chunks[0] != "Hello" || chunks[1] != " World" {
		t.Errorf("chunks = %q, want arrival order preserved", chunks)
	}
	if processor.Content() != "Hello World" {
		t.Errorf("Content() = %q, want %q", processor.Content(), "Hello World")
	}
}

func TestSSEProcessor_Process_MalformedChunkSkipped(t *testing.T) {
	input := `data: {"id":"test-1","choices":[{"index":0,"delta":{"content":"ok"}}]}

data: {not json}

data: {"id":"test-1","choices":[{"index":0,"delta":{"content":" still ok"}}]}

data: [DONE]
`
	processor := NewSSEProcessor(strings.NewReader(input))

	err := processor.Process(context.Background(), func(content string) {})
	if err != nil {
		t.Errorf("Process() unexpected error: %v", err)
	}
	if processor.Content() != "ok still ok" {
		t.Errorf("Content() = %q, want malformed chunk skipped", processor.Content())
	}
}

func TestSSEProcessor_BuildResponse(t *testing.T) {
	input := `data: {"id":"resp-123","choices":[{"index":0,"delta":{"content":"Test response"}}]}

data: {"id":"resp-123","usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}

data: [DONE]
`
	processor := NewSSEProcessor(strings.NewReader(input))

	if err := processor.Process(context.Background(), func(content string) {}); err != nil {
		t.Fatalf("Process() unexpected error: %v", err)
	}

	resp := processor.BuildResponse()
	if resp.ID != "resp-123" {
		t.Errorf("BuildResponse().ID = %q, want %q", resp.ID, "resp-123")
	}
	if got := resp.GetContent(); got != "Test response" {
		t.Errorf("GetContent() = %q, want %q", got, "Test response")
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("Usage.TotalTokens = %d, want 15", resp.Usage.TotalTokens)
	}
}

func TestSSEProcessor_Process_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := NewSSEProcessor(strings.NewReader("data: [DONE]\n"))
	if err := processor.Process(ctx, func(content string) {}); err == nil {
		t.Error("Process() with cancelled context should return an error")
	}
}

func TestSSEProcessor_Process_EOFWithoutDone(t *testing.T) {
	input := `data: {"id":"x","choices":[{"index":0,"delta":{"content":"partial"}}]}
`
	processor := NewSSEProcessor(strings.NewReader(input))

	if err := processor.Process(context.Background(), func(content string) {}); err != nil {
		t.Errorf("Process() on EOF without [DONE] = %v, want nil", err)
	}
	if processor.Content() != "partial" {
		t.Errorf("Content() = %q, want %q", processor.Content(), "partial")
	}
}
