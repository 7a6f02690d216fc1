package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	testCases := []struct {
		input    string
		expected Type
		wantErr  bool
	}{
		{input: "in-order", expected: InOrder},
		{input: "InOrder", expected: InOrder},
		{input: "in_order", expected: InOrder},
		{input: "random", expected: Random},
		{input: " Shuffle ", expected: Shuffle},
		{input: "round-robin", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseType(tc.input)
			if tc.wantErr {
				var typeErr *UnknownTypeError
				require.ErrorAs(t, err, &typeErr)
				assert.Equal(t, tc.input, typeErr.Name)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestType_TextRoundTrip(t *testing.T) {
	for _, typ := range []Type{InOrder, Random, Shuffle} {
		text, err := typ.MarshalText()
		require.NoError(t, err)

		var back Type
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, typ, back)
	}

	_, err := Type(42).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "Type(42)", Type(42).String())
}
