package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "a", []string{"a"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"crlf", "a\r\nb", []string{"a", "b"}},
		{"bare cr", "a\rb", []string{"a", "b"}},
		{"inner blank", "a\n\nb", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.in))
		})
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("OPENLP_TEST_VAR", "value")

	env, err := LoadEnv([]string{"OPENLP_TEST_VAR"})
	require.NoError(t, err)
	assert.Equal(t, "value", env["OPENLP_TEST_VAR"])

	_, err = LoadEnv([]string{"OPENLP_TEST_MISSING_VAR"})
	assert.Error(t, err)
}
