package chromiaclient

import (
	"bytes"
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunnerCapturesStdout(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}

	result, err := NewExecRunner(5*time.Second).Run(context.Background(), Command{
		Binary: "echo",
		Args:   []string{"hello", `"quoted" $(not expanded)`},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello \"quoted\" $(not expanded)\n", string(result.Stdout))
}

func TestExecRunnerTimeout(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	start := time.Now()
	_, err := NewExecRunner(50*time.Millisecond).Run(context.Background(), Command{
		Binary: "sleep",
		Args:   []string{"5"},
	})
	assert.ErrorIs(t, err, ErrCommandFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestExecRunnerMissingBinary(t *testing.T) {
	_, err := NewExecRunner(time.Second).Run(context.Background(), Command{Binary: "definitely-not-a-real-binary-xyz"})
	assert.ErrorIs(t, err, ErrCommandFailed)
}

func TestLimitedWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &limitedWriter{w: &buf, max: 4}

	n, err := w.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = w.Write([]byte("defg"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.Equal(t, "abcd", buf.String())
}
