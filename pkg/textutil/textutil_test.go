package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBinary(t *testing.T) {
	t.Parallel()

	beyondSniff := make([]byte, BinarySniffLength+100)
	for i := range beyondSniff {
		beyondSniff[i] = 'a'
	}

	beyondSniff[BinarySniffLength+50] = 0x00

	atBoundary := make([]byte, BinarySniffLength)
	atBoundary[BinarySniffLength-1] = 0x00

	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{name: "nil", data: nil, want: false},
		{name: "empty", data: []byte{}, want: false},
		{name: "plain_text", data: []byte("hello world\n"), want: false},
		{name: "null_byte", data: []byte("hello\x00world"), want: true},
		{name: "null_at_start", data: []byte("\x00start"), want: true},
		{name: "null_at_sniff_boundary", data: atBoundary, want: true},
		{name: "null_beyond_sniff_window", data: beyondSniff, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, IsBinary(tt.data))
		})
	}
}

func TestCountLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want int
	}{
		{name: "nil", data: nil, want: 0},
		{name: "empty", data: []byte{}, want: 0},
		{name: "no_trailing_newline", data: []byte("hello"), want: 1},
		{name: "trailing_newline", data: []byte("hello\n"), want: 1},
		{name: "multiple_lines", data: []byte("a\nb\nc\n"), want: 3},
		{name: "multiple_lines_no_trailing", data: []byte("a\nb\nc"), want: 3},
		{name: "empty_lines", data: []byte("\n\n\n"), want: 3},
		{name: "large_buffer", data: []byte(strings.Repeat("line\n", 10000)), want: 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, CountLines(tt.data))
		})
	}
}
