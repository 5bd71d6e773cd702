package utils

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpinner(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "packing", time.Millisecond, false)
	s.StopMsg = "done\n"
	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()
	s.Stop()

	out := buf.String()
	assert.Contains(t, out, "packing")
	assert.Contains(t, out, string(spinnerFrames[0]))
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("done\n")))
	assert.NotContains(t, out, "\033[?25l")
}
