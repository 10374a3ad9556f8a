package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxter/simrec/internal/recording"
	"github.com/maxter/simrec/internal/records"
)

var sampleInfo = recording.Info{
	ID:          7,
	Name:        "lecture.wav",
	Path:        "/r/lecture.wav",
	Length:      90500,
	CreatedTime: 1700000000000,
}

func newTestFormatter(format string) (*OutputFormatter, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &OutputFormatter{Format: format, Writer: out, ErrWriter: errOut}, out, errOut
}

func TestOutputFormatter_RecordText(t *testing.T) {
	f, out, _ := newTestFormatter("text")

	require.NoError(t, f.Record(sampleInfo))
	assert.Equal(t, "#7 lecture.wav (1m30.5s) /r/lecture.wav\n", out.String())
}

func TestOutputFormatter_RecordJSON(t *testing.T) {
	f, out, _ := newTestFormatter("json")

	require.NoError(t, f.Record(sampleInfo))

	var resp struct {
		Status string         `json:"status"`
		Data   recording.Info `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, sampleInfo, resp.Data)
}

func TestOutputFormatter_RecordsText(t *testing.T) {
	f, out, _ := newTestFormatter("text")

	second := sampleInfo
	second.ID, second.Name, second.Path, second.Length = 9, "memo.wav", "/r/memo.wav", 0

	require.NoError(t, f.Records([]recording.Info{sampleInfo, second}))
	assert.Equal(t,
		"0\t#7 lecture.wav (1m30.5s) /r/lecture.wav\n1\t#9 memo.wav (0s) /r/memo.wav\n",
		out.String())
}

func TestOutputFormatter_RecordsEmpty(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		f, out, _ := newTestFormatter("text")
		require.NoError(t, f.Records(nil))
		assert.Equal(t, "No recordings.\n", out.String())
	})

	t.Run("json", func(t *testing.T) {
		f, out, _ := newTestFormatter("json")
		require.NoError(t, f.Records(nil))
		assert.JSONEq(t, `{"status":"ok","data":[]}`, out.String())
	})
}

func TestOutputFormatter_Result(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		f, out, _ := newTestFormatter("text")
		require.NoError(t, f.Result(map[string]int{"count": 2}, "%d", 2))
		assert.Equal(t, "2\n", out.String())
	})

	t.Run("json", func(t *testing.T) {
		f, out, _ := newTestFormatter("json")
		require.NoError(t, f.Result(map[string]int{"count": 2}, "%d", 2))
		assert.JSONEq(t, `{"status":"ok","data":{"count":2}}`, out.String())
	})
}

func TestOutputFormatter_RecordError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
	}{
		{"not_found", records.ErrNotFound, CodeNotFound},
		{"wrapped_not_found", fmt.Errorf("lookup: %w", records.ErrNotFound), CodeNotFound},
		{"index", &records.IndexError{Op: "remove", Index: 3, Len: 2}, CodeIndex},
		{"store", errors.New("disk I/O error"), CodeStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, out, _ := newTestFormatter("json")

			err := f.RecordError("remove", tt.err)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.True(t, IsReported(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.err.Error(), resp.Error.Message)
		})
	}
}

func TestOutputFormatter_RecordErrorTextLeavesReportToCaller(t *testing.T) {
	f, out, _ := newTestFormatter("text")

	err := f.RecordError("get", records.ErrNotFound)
	require.Error(t, err)
	assert.Empty(t, out.String())
	assert.False(t, IsReported(err))
	assert.Equal(t, "get failed: recording not found", err.Error())
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, out, errOut := newTestFormatter("json")
			f.Verbose = tt.verbose

			f.VerboseLog("change listener: new entry added for #%d", sampleInfo.ID)

			assert.Empty(t, out.String(), "stdout carries only the JSON document")
			if tt.wantLog {
				assert.Equal(t, "change listener: new entry added for #7\n", errOut.String())
			} else {
				assert.Empty(t, errOut.String())
			}
		})
	}
}

func TestOutputFormatter_VerboseLogWithoutErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: out, Verbose: true}

	f.VerboseLog("opening %s", "saved_recordings.db")
	assert.Empty(t, out.String())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))

	wrapped := WrapExitError(ExitFailure, "remove failed", assert.AnError)
	assert.ErrorIs(t, wrapped, assert.AnError)
	assert.Contains(t, wrapped.Error(), "remove failed: ")
}

func TestIsReported(t *testing.T) {
	assert.False(t, IsReported(nil))
	assert.False(t, IsReported(assert.AnError))
	assert.False(t, IsReported(NewExitError(ExitFailure, "x")))

	reported := &ExitError{Code: ExitFailure, Message: "x", Reported: true}
	assert.True(t, IsReported(fmt.Errorf("run: %w", reported)))
}
