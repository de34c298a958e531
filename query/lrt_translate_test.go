package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The fixture's five lines sit at call depth 0,0,1,1,0 (lines 3 and 4 are
// inside the one call). depth-0 lines are 1,2,5; depth-1 lines are 3,4.
func TestLrtTranslateSelectsNthLineAtDepth(t *testing.T) {
	q, _ := buildFixture(t)

	line, accum, err := q.LrtTranslate(0, 0, 1, 0, 1000)
	require.NoError(t, err)
	assert.EqualValues(t, 1, line)
	assert.EqualValues(t, 0, accum)

	line, accum, err = q.LrtTranslate(1, 0, 1, 0, 1000)
	require.NoError(t, err)
	assert.EqualValues(t, 2, line)
	assert.EqualValues(t, 1, accum)

	line, accum, err = q.LrtTranslate(2, 0, 1, 0, 1000)
	require.NoError(t, err)
	assert.EqualValues(t, 5, line)
	assert.EqualValues(t, 4, accum)
}

func TestLrtTranslateMayFailPastEnd(t *testing.T) {
	q, _ := buildFixture(t)

	ok, _, accum, err := q.LrtTranslateMayFail(3, 0, 1, 0, 1000)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.EqualValues(t, 5, accum)

	_, _, err = q.LrtTranslate(3, 0, 1, 0, 1000)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestLrtTranslateRangeCountsDepthWindow(t *testing.T) {
	q, _ := buildFixture(t)

	// lines at depth 1 (3 and 4) within the window spanning every depth-0
	// qualified line.
	n, err := q.LrtTranslateRange(0, 3, 0, 1, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = q.LrtTranslateRange(0, 1, 0, 1, 0, 1000)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
