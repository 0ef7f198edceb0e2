package llm_test

import (
	"strings"
	"testing"

	"github.com/Rrens/promptdesk/internal/llm"
)

func TestBuildDocumentPrompt(t *testing.T) {
	prompt := llm.BuildDocumentPrompt("  Quarterly report\n")

	if !strings.HasPrefix(prompt, "Use the following PDF content to answer the user:\n\n") {
		t.Errorf("prompt should start with the instruction, got %q", prompt)
	}

	if !strings.HasSuffix(prompt, "Quarterly report") {
		t.Errorf("prompt should end with the document text, got %q", prompt)
	}
}

func TestSplitSystem(t *testing.T) {
	messages := []llm.Message{
		{Role: "system", Content: "doc"},
		{Role: "user", Content: "hi"},
		{Role: "system", Content: "terse"},
		{Role: "assistant", Content: "hello"},
	}

	system, rest := llm.SplitSystem(messages)

	if system != "doc\n\nterse" {
		t.Errorf("unexpected system prompt %q", system)
	}

	if len(rest) != 2 || rest[0].Role != "user" || rest[1].Role != "assistant" {
		t.Errorf("unexpected remaining messages %+v", rest)
	}
}
