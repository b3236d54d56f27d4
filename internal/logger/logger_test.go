package logger

import (
	"bytes"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	flags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	return &buf
}

func TestFormatFieldsSorted(t *testing.T) {
	got := formatFields(Fields{"seed": 42, "mood": "calm", "speed": 0.5, "took": 1500 * time.Millisecond})
	assert.Equal(t, "{mood=calm, seed=42, speed=0.50, took=1.5s}", got)
	assert.Empty(t, formatFields(nil))
}

func TestLevels(t *testing.T) {
	buf := capture(t)

	Info("scene built", Fields{"count": 114})
	Warn("slow frame", nil)
	Debug("tick", Fields{"n": 1})
	Error("save failed", errors.New("disk full"), Fields{"id": "calm_1"})

	out := buf.String()
	assert.Contains(t, out, "[INFO] scene built {count=114}")
	assert.Contains(t, out, "[WARN] slow frame")
	assert.Contains(t, out, "[DEBUG] tick {n=1}")
	assert.Contains(t, out, "[ERROR] save failed: disk full {id=calm_1}")
}

func TestInitWithoutDSN(t *testing.T) {
	flush, err := Init("", "development", "dev")
	require.NoError(t, err)
	require.NotNil(t, flush)
	flush()
}

func TestInitBadDSN(t *testing.T) {
	flush, err := Init("not a dsn", "development", "dev")
	assert.Error(t, err)
	flush()
}
