package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDecorateText(t *testing.T) {
	assert.Equal(t, SuccessColor+"done"+DefaultColor, DecorateText("done", SuccessMessage))
	assert.Equal(t, WarningColor+"skipped"+DefaultColor, DecorateText("skipped", WarningMessage))
	assert.Equal(t, "plain", DecorateText("plain", MessageType(99)))
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "1.50s", FormatTime(1500*time.Millisecond))
	assert.Equal(t, "2m 5.00s", FormatTime(125*time.Second))
	assert.Equal(t, "1h 5m 0.00s", FormatTime(65*time.Minute))
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "100 B", FormatSize(100))
	assert.Equal(t, "1.5 KiB", FormatSize(1536))
	assert.Equal(t, "3.0 MiB", FormatSize(3<<20))
}
