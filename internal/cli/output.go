package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/maxter/simrec/internal/recording"
	"github.com/maxter/simrec/internal/records"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failure (recording not found, scenarios failed, etc.)
	ExitCommandError = 2 // Command error (bad arguments, database cannot be opened, etc.)
)

// ErrorCode identifies a failure class in JSON error envelopes.
type ErrorCode string

const (
	CodeNotFound   ErrorCode = "E_NOT_FOUND"   // no recording at that index or ID
	CodeIndex      ErrorCode = "E_INDEX"       // index outside the list on remove
	CodeStore      ErrorCode = "E_STORE"       // database failure
	CodeTestFailed ErrorCode = "E_TEST_FAILED" // one or more scenarios failed
)

// ExitError carries the process exit code for a failed command.
//
// Reported is set once the failure has already been written to stdout as a
// JSON envelope; main then exits without printing it again.
type ExitError struct {
	Code     int
	Message  string
	Err      error
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// IsReported reports whether err was already written to stdout.
func IsReported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Reported
}

// CLIResponse is the JSON envelope for every command result.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error part of a CLIResponse.
type CLIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// OutputFormatter writes command results as text or JSON.
//
// Results go to Writer. Verbose diagnostics go to ErrWriter so they never
// mix with a JSON document on stdout.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

func (f *OutputFormatter) isJSON() bool {
	return f.Format == "json"
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	return json.NewEncoder(f.Writer).Encode(resp)
}

// Result writes data as an ok envelope in JSON mode, or the formatted line in
// text mode.
func (f *OutputFormatter) Result(data any, format string, args ...any) error {
	if f.isJSON() {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintf(f.Writer, format+"\n", args...)
	return err
}

// Record writes one recording.
func (f *OutputFormatter) Record(info recording.Info) error {
	return f.Result(info, "%s", info)
}

// Records writes the recordings list, one "<index>\t<recording>" line each.
func (f *OutputFormatter) Records(list []recording.Info) error {
	if f.isJSON() {
		if list == nil {
			list = []recording.Info{}
		}
		return f.encode(CLIResponse{Status: "ok", Data: list})
	}
	if len(list) == 0 {
		_, err := fmt.Fprintln(f.Writer, "No recordings.")
		return err
	}
	for i, info := range list {
		if _, err := fmt.Fprintf(f.Writer, "%d\t%s\n", i, info); err != nil {
			return err
		}
	}
	return nil
}

// Fail reports a failed operation and returns the ExitError for it. In JSON
// mode the error envelope is written to Writer and the ExitError is marked
// Reported; in text mode the error is left for main to print.
func (f *OutputFormatter) Fail(code ErrorCode, op string, err error) error {
	exitErr := WrapExitError(ExitFailure, op+" failed", err)
	if !f.isJSON() {
		return exitErr
	}
	if werr := f.encode(CLIResponse{
		Status: "error",
		Error:  &CLIError{Code: code, Message: err.Error()},
	}); werr != nil {
		return werr
	}
	exitErr.Reported = true
	return exitErr
}

// RecordError classifies a RecordStore error and reports it with Fail.
func (f *OutputFormatter) RecordError(op string, err error) error {
	switch {
	case errors.Is(err, records.ErrNotFound):
		return f.Fail(CodeNotFound, op, err)
	case records.IsIndexError(err):
		return f.Fail(CodeIndex, op, err)
	default:
		return f.Fail(CodeStore, op, err)
	}
}

// VerboseLog writes a diagnostic line when verbose mode is on.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = io.Discard
	}
	fmt.Fprintf(w, format+"\n", args...)
}
