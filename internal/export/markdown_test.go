package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rakshanetra/rakshanetra-cli/internal"
)

func TestMarkdownExport(t *testing.T) {
	session := internal.CreateTestSession("s1", time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	exporter := &MarkdownExporter{}
	if err := exporter.Export(&session, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Session s1",
		"**Messages:** 2",
		"**user:**",
		"**assistant:**",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "bold markers escaped",
			input: "this is **bold** text",
			want:  []string{`\*\*bold\*\*`},
		},
		{
			name:  "code blocks preserved",
			input: "```go\na := **not markdown**\n```",
			want:  []string{"```go", "a := **not markdown**", "```"},
		},
		{
			name:  "underscores escaped",
			input: "__emphasis__",
			want:  []string{`\_\_emphasis\_\_`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := escapeMarkdown(tt.input)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("escapeMarkdown(%q) = %q, missing %q", tt.input, got, want)
				}
			}
		})
	}
}
