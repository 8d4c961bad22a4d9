package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"Iceland Adventure 2024", []string{"iceland", "adventure", "2024"}},
		{"a b cc", []string{"cc"}},
		{"Dana-Whitfield, dana", []string{"dana", "whitfield"}},
		{"", nil},
		{"!!!", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Tokenize(tt.input))
	}
}
