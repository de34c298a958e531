package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arvalid/tarmac-trace-utilities/tarmacio"
)

func TestDefaultCallDepthHeuristic(t *testing.T) {
	assert.Equal(t, tarmacio.Normal, defaultCallDepthHeuristic.Classify(0x1000, 0x1004, noImage{}, 0))
	assert.Equal(t, tarmacio.Call, defaultCallDepthHeuristic.Classify(0x1000, 0x9000, noImage{}, 0))
	assert.Equal(t, tarmacio.Return, defaultCallDepthHeuristic.Classify(0x9000, 0x1008, noImage{}, 1))
	assert.Equal(t, tarmacio.Normal, defaultCallDepthHeuristic.Classify(0x9000, 0x1008, noImage{}, 0))
}
