package query

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvalid/tarmac-trace-utilities/arena"
	"github.com/arvalid/tarmac-trace-utilities/indexer"
	"github.com/arvalid/tarmac-trace-utilities/schema"
	"github.com/arvalid/tarmac-trace-utilities/tarmacio"
)

// writeTraceFixture builds a two-event index whose events point at the
// exact byte ranges of a small trace-text file, and returns both paths.
func writeTraceFixture(t *testing.T) (indexPath, tracePath string) {
	t.Helper()
	logger.New("TEST")

	traceText := "0 1000 some first instruction\n0 1004 some second instruction\n"
	tracePath = filepath.Join(t.TempDir(), "trace.txt")
	require.NoError(t, os.WriteFile(tracePath, []byte(traceText), 0o644))

	firstLen := len("0 1000 some first instruction\n")
	secondLen := len("0 1004 some second instruction\n")

	indexPath = filepath.Join(t.TempDir(), "fixture.idx")
	a, err := arena.Create(indexPath, schema.ArenaStart)
	require.NoError(t, err)

	idx, err := indexer.New(a, indexer.Params{RecordMemory: true, RecordCalls: true}, nil, nil, nil)
	require.NoError(t, err)

	require.NoError(t, idx.HandleEvent(tarmacio.Event{
		Kind: tarmacio.EventInstruction, Time: 10, PC: 0x1000,
		BytePos: 0, ByteLen: uint64(firstLen), FirstLine: 1, Lines: 1,
	}))
	require.NoError(t, idx.HandleEvent(tarmacio.Event{
		Kind: tarmacio.EventInstruction, Time: 20, PC: 0x1004,
		BytePos: uint64(firstLen), ByteLen: uint64(secondLen), FirstLine: 2, Lines: 1,
	}))

	require.NoError(t, idx.Finalize(indexer.FinalizeOptions{LineNoOffset: 0}))
	require.NoError(t, a.Close())
	return indexPath, tracePath
}

func TestTraceLinesReadsBackOriginalText(t *testing.T) {
	indexPath, tracePath := writeTraceFixture(t)

	q, err := Open(indexPath, WithTraceFile(tracePath))
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })

	assert.Equal(t, tracePath, q.TraceFilename())

	node, _, err := q.NodeAtLine(1)
	require.NoError(t, err)
	lines, err := q.TraceLines(node)
	require.NoError(t, err)
	assert.Equal(t, []string{"0 1000 some first instruction"}, lines)

	line, err := q.TraceLine(node, 0)
	require.NoError(t, err)
	assert.Equal(t, "0 1000 some first instruction", line)

	node2, _, err := q.NodeAtLine(2)
	require.NoError(t, err)
	lines2, err := q.TraceLines(node2)
	require.NoError(t, err)
	assert.Equal(t, []string{"0 1004 some second instruction"}, lines2)
}

func TestTraceLineRejectsOutOfRangeLineno(t *testing.T) {
	indexPath, tracePath := writeTraceFixture(t)

	q, err := Open(indexPath, WithTraceFile(tracePath))
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })

	node, _, err := q.NodeAtLine(1)
	require.NoError(t, err)
	_, err = q.TraceLine(node, 1)
	assert.Error(t, err)
}

func TestTraceLinesWithoutTraceFileReturnsErrNoTraceFile(t *testing.T) {
	indexPath, _ := writeTraceFixture(t)

	q, err := Open(indexPath)
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })

	node, _, err := q.NodeAtLine(1)
	require.NoError(t, err)
	_, err = q.TraceLines(node)
	assert.ErrorIs(t, err, ErrNoTraceFile)
}
