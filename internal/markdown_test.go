package internal

import (
	"reflect"
	"testing"
)

func TestParseInline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []InlineNode
	}{
		{
			name:  "plain text",
			input: "hello world",
			want:  []InlineNode{{Text: "hello world"}},
		},
		{
			name:  "bold span",
			input: "a **bold** word",
			want: []InlineNode{
				{Text: "a "},
				{Text: "bold", Bold: true},
				{Text: " word"},
			},
		},
		{
			name:  "entire string bold",
			input: "**all bold**",
			want:  []InlineNode{{Text: "all bold", Bold: true}},
		},
		{
			name:  "two bold spans",
			input: "**one** and **two**",
			want: []InlineNode{
				{Text: "one", Bold: true},
				{Text: " and "},
				{Text: "two", Bold: true},
			},
		},
		{
			name:  "unterminated marker is literal",
			input: "broken **bold",
			want:  []InlineNode{{Text: "broken **bold"}},
		},
		{
			name:  "newlines preserved",
			input: "line one\n**line two**",
			want: []InlineNode{
				{Text: "line one\n"},
				{Text: "line two", Bold: true},
			},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "markup-looking text is data not markup",
			input: "<script>alert(1)</script>",
			want:  []InlineNode{{Text: "<script>alert(1)</script>"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseInline(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseInline(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPlainInline(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a **bold** word", "a bold word"},
		{"no markers", "no markers"},
		{"**x** **y**", "x y"},
	}

	for _, tt := range tests {
		if got := PlainInline(tt.input); got != tt.want {
			t.Errorf("PlainInline(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
