package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPingFitsInsidePongWindow(t *testing.T) {
	// An idle watcher only survives if a ping goes out before its read
	// deadline expires.
	assert.Less(t, pingInterval, pongWait)
	assert.Less(t, writeWait, pingInterval)
}
