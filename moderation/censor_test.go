package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"versefeed/errors"
)

const replacementChar = '*'

func TestCensor_Apply(t *testing.T) {
	req := require.New(t)
	censor, err := NewCensor([]string{"badger", "snake"}, replacementChar)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Simple word and space preservation",
			input:    "The badger is here",
			expected: "The ****** is here",
		},
		{
			name:     "Multiple occurrences",
			input:    "badger badger badger",
			expected: "****** ****** ******",
		},
		{
			name:     "Uppercase and internal punctuation",
			input:    "watch the B.A.D.G.E.R go",
			expected: "watch the *********** go",
		},
		{
			name:     "Clean text untouched",
			input:    "a quiet verse about rivers",
			expected: "a quiet verse about rivers",
		},
		{
			name:     "Empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "Punctuation only",
			input:    "... !!! ...",
			expected: "... !!! ...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, censor.Apply(tt.input))
		})
	}
}

func TestCensor_Requires_Words(t *testing.T) {
	req := require.New(t)
	_, err := NewCensor(nil, replacementChar)
	req.ErrorIs(err, errors.ErrEmptyWordList)
}

func TestCensor_Default_List_Loads(t *testing.T) {
	req := require.New(t)
	censor, err := NewDefaultCensor(replacementChar)
	req.NoError(err)
	req.NotEqual("you scumbag", censor.Apply("you scumbag"))
}
