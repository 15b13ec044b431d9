package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labreg/internal/marks"
)

func TestExitError(t *testing.T) {
	err := WrapExitError(ExitCommandError, "query", errors.New("store not found"))
	assert.Equal(t, "query: store not found", err.Error())
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))

	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestErrorCode(t *testing.T) {
	_, markErr := marks.Normalize("thirty")
	require.Error(t, markErr)
	assert.Equal(t, "MALFORMED_MARK", ErrorCode(markErr))
	assert.Equal(t, "ERROR", ErrorCode(errors.New("plain")))
}

func TestSuccess_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.Success("trace-1", map[string]int{"added": 2}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "trace-1", resp.TraceID)
	assert.Nil(t, resp.Error)
}

func TestSuccess_Text(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	require.NoError(t, f.Success("trace-1", "2 students added"))
	assert.Equal(t, "2 students added\n", buf.String())
}

func TestError_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	_, markErr := marks.Normalize("nope")
	require.NoError(t, f.Error("trace-2", markErr))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "MALFORMED_MARK", resp.Error.Code)
}

func TestWarn_GoesToErrWriter(t *testing.T) {
	var out, errOut bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &out, ErrWriter: &errOut}

	f.Warn("rejected matricola %d", 111)

	assert.Empty(t, out.String())
	assert.Equal(t, "warning: rejected matricola 111\n", errOut.String())
}

func TestVerboseLog(t *testing.T) {
	var errOut bytes.Buffer
	f := &OutputFormatter{Writer: &bytes.Buffer{}, ErrWriter: &errOut}

	f.VerboseLog("opening %s", "students.db")
	assert.Empty(t, errOut.String())

	f.Verbose = true
	f.VerboseLog("opening %s", "students.db")
	assert.Equal(t, "opening students.db\n", errOut.String())
}
