package query

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"

	"github.com/arvalid/tarmac-trace-utilities/schema"
)

// ErrNoTraceFile is returned by TraceLines/TraceLine when the Index was
// opened without WithTraceFile.
var ErrNoTraceFile = errors.New("query: no original trace file associated with this index")

// TraceLines re-reads the original trace-text file's byte range recorded
// for node and splits it into its constituent lines, in order. The range
// is exactly [node.TraceFilePos, node.TraceFilePos+node.TraceFileLen), the
// same bytes the indexer consumed to produce node.
func (idx *Index) TraceLines(node schema.SeqOrderPayload) ([]string, error) {
	raw, err := idx.readTraceRange(node)
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, node.TraceFileLines)
	sc := bufio.NewScanner(bytes.NewReader(raw))
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("query: trace lines: %w", err)
	}
	return lines, nil
}

// TraceLine returns the single line at lineno within node's range, where
// lineno is relative to node.TraceFileFirstLine: 0 selects the first line
// the node covers.
func (idx *Index) TraceLine(node schema.SeqOrderPayload, lineno uint32) (string, error) {
	if lineno >= node.TraceFileLines {
		return "", fmt.Errorf("query: trace line %d out of range for node spanning %d lines", lineno, node.TraceFileLines)
	}
	lines, err := idx.TraceLines(node)
	if err != nil {
		return "", err
	}
	if int(lineno) >= len(lines) {
		return "", fmt.Errorf("query: trace line %d missing from node's recorded byte range", lineno)
	}
	return lines[lineno], nil
}

func (idx *Index) readTraceRange(node schema.SeqOrderPayload) ([]byte, error) {
	if idx.traceFile == nil {
		return nil, ErrNoTraceFile
	}
	buf := make([]byte, node.TraceFileLen)
	n, err := idx.traceFile.ReadAt(buf, int64(node.TraceFilePos))
	if err != nil && n < len(buf) {
		return nil, fmt.Errorf("query: read trace range: %w", err)
	}
	return buf[:n], nil
}
