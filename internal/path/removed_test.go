// internal/path/removed_test.go
package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModifyForRemoved(t *testing.T) {
	const tgt = ".5.5.5.5.5"

	testCases := []struct {
		target   string
		removed  string
		expected string // empty when unchanged
		selfErr  bool
	}{
		{target: ".0", removed: ".1"},
		{target: ".0.0", removed: ".0.1"},
		{target: ".1", removed: ".0", expected: ".0"},
		{target: ".0.1", removed: ".0.0", expected: ".0.0"},

		{target: ".2.3.4", removed: ".0", expected: ".1.3.4"},
		{target: ".2.3.4", removed: ".2.0", expected: ".2.2.4"},
		{target: ".2.3.4", removed: ".2.3.0", expected: ".2.3.3"},
		{target: ".2.3.4", removed: ".2.3.4", selfErr: true},
		{target: ".2.3.4", removed: ".9"},

		{target: tgt, removed: ".0", expected: ".4.5.5.5.5"},
		{target: tgt, removed: ".5.1", expected: ".5.4.5.5.5"},
		{target: tgt, removed: ".5.5.2", expected: ".5.5.4.5.5"},
		{target: tgt, removed: ".5.5.5.3", expected: ".5.5.5.4.5"},
		{target: tgt, removed: ".5.5.5.5.4", expected: ".5.5.5.5.4"},
		{target: tgt, removed: ".5.5.5.5.5", selfErr: true},
		{target: tgt, removed: ".5.5.5.5.6"},
		{target: tgt, removed: ".5.5.5.7"},
		{target: tgt, removed: ".5.5.8"},
		{target: tgt, removed: ".5.9"},
		{target: tgt, removed: ".10"},

		{target: tgt, removed: ".5.5.5.5.5.1"},
		{target: tgt, removed: ".5.5.5.5.5.1.1.1.1"},

		{target: ".3.1", removed: ".3", selfErr: true},
		{target: ".3", removed: ".", selfErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.target+" minus "+tc.removed, func(t *testing.T) {
			target := MustParse(tc.target)
			changed, err := target.ModifyForRemoved(MustParse(tc.removed))

			if tc.selfErr {
				require.ErrorIs(t, err, ErrRemovedSelf)
				assert.Equal(t, tc.target, target.String(), "a dead path is not modified")
				return
			}
			require.NoError(t, err)
			if tc.expected == "" {
				assert.False(t, changed)
				assert.Equal(t, tc.target, target.String())
				return
			}
			assert.True(t, changed)
			assert.Equal(t, tc.expected, target.String())
		})
	}
}

func TestModifyForRemoved_Sequential(t *testing.T) {
	// Renumbering applied after each removal keeps a held path on the same node.
	held := MustParse(".4.2")
	for _, removed := range []string{".0", ".1", ".2.0"} {
		_, err := held.ModifyForRemoved(MustParse(removed))
		require.NoError(t, err, "removing %s", removed)
	}
	assert.Equal(t, ".2.1", held.String())
}
