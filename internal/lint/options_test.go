package lint

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionsDefaults(t *testing.T) {
	for _, in := range []string{"", "  ", "{}"} {
		opts, err := ParseOptions([]byte(in))
		require.NoError(t, err)
		assert.Equal(t, DefaultOptions(), opts)
	}
}

func TestParseOptionsOverrides(t *testing.T) {
	opts, err := ParseOptions([]byte(`{"verbose": true, "max_line_length": 80, "response_format": "json", "extra": 1}`))
	require.NoError(t, err)
	assert.True(t, opts.Verbose)
	assert.Equal(t, 80, opts.MaxLineLength)
	assert.Equal(t, FormatJSON, opts.ResponseFormat)
	assert.True(t, opts.CheckTagMatching)
}

func TestParseOptionsMalformed(t *testing.T) {
	_, err := ParseOptions([]byte(`{"verbose": `))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedOptions))
}

func TestParseOptionsInvalid(t *testing.T) {
	_, err := ParseOptions([]byte(`{"max_line_length": 0, "response_format": "docx"}`))
	require.Error(t, err)

	var oe *OptionsError
	require.True(t, errors.As(err, &oe))
	require.Len(t, oe.Problems, 2)
	assert.Equal(t, "max_line_length", oe.Problems[0].Field)
	assert.Equal(t, "min", oe.Problems[0].Rule)
	assert.Equal(t, "response_format", oe.Problems[1].Field)
	assert.Contains(t, err.Error(), "response_format must be one of [pdf json]")
}

func TestSuggestWords(t *testing.T) {
	words := []string{"if", "for", "endif", "include", "with"}
	assert.Equal(t, []string{"if"}, suggestWords("iff", words, 1))
	assert.Equal(t, []string{"include"}, suggestWords("inclde", words, 2))
	assert.Empty(t, suggestWords("zzzz", words, 2))
	assert.Equal(t, "", didYouMean("zzzz", words))
}
