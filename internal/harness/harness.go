package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/maxter/simrec/internal/logging"
	"github.com/maxter/simrec/internal/recording"
	"github.com/maxter/simrec/internal/records"
	"github.com/maxter/simrec/internal/store"
	"github.com/maxter/simrec/internal/testutil"
)

// ClockStep is how far the harness clock moves on every read.
const ClockStep = time.Second

// Harness executes scenario steps against one RecordStore.
type Harness struct {
	records *records.RecordStore
	logger  *slog.Logger
	result  *Result
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// An error is returned only if the harness itself could not run; failed
// expectations are reported in Result.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, logging.Discard())
}

// RunWithLogger is Run with a caller-supplied logger passed to the store.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	result := NewResult()
	h := &Harness{logger: logger, result: result}
	h.records = records.New(st,
		records.WithClock(testutil.NewTickingClock(time.Time{}, ClockStep)),
		records.WithLogger(logger),
		records.WithFileRemover(func(path string) error {
			result.RemovedFiles = append(result.RemovedFiles, path)
			return nil
		}),
		records.WithListener(records.ListenerFunc(func() {
			result.ListenerCalls++
		})),
	)

	ctx := context.Background()
	for i, step := range scenario.Steps {
		h.executeStep(ctx, i, step)
	}

	if scenario.ListenerCalls != nil && *scenario.ListenerCalls != result.ListenerCalls {
		result.AddError(fmt.Sprintf("listener_calls: got %d, want %d",
			result.ListenerCalls, *scenario.ListenerCalls))
	}

	return result, nil
}

// executeStep runs one step, appends its trace event and checks expectations.
func (h *Harness) executeStep(ctx context.Context, i int, step Step) {
	event := TraceEvent{Step: i, Op: step.Op, Args: stepArgs(step)}

	var (
		info    *recording.Info
		count   *int
		id      *int64
		stepErr error
	)

	switch step.Op {
	case OpAdd:
		var newID int64
		newID, stepErr = h.records.Add(ctx, step.Name, step.Path, step.Length)
		if stepErr == nil {
			id = &newID
			event.Result = map[string]any{"id": newID}
		}

	case OpCount:
		var n int
		n, stepErr = h.records.Count(ctx)
		if stepErr == nil {
			count = &n
			event.Result = map[string]any{"count": n}
		}

	case OpGetAt, OpGet:
		var got recording.Info
		if step.Op == OpGetAt {
			got, stepErr = h.records.At(ctx, *step.Index)
		} else {
			got, stepErr = h.records.Get(ctx, step.ID)
		}
		if stepErr == nil {
			info = &got
			event.Result = infoMap(got)
		}

	case OpRemoveAt:
		stepErr = h.records.RemoveAt(ctx, *step.Index)

	case OpRemove:
		stepErr = h.records.Remove(ctx, step.ID)

	case OpRenameAt:
		stepErr = h.records.RenameAt(ctx, *step.Index, step.Name, step.Path)

	case OpRename:
		stepErr = h.records.Rename(ctx, step.ID, step.Name, step.Path)

	case OpList:
		var list []recording.Info
		list, stepErr = h.records.List(ctx)
		if stepErr == nil {
			n := len(list)
			count = &n
			names := make([]string, len(list))
			for j, r := range list {
				names[j] = r.Name
			}
			event.Result = map[string]any{"count": n, "names": names}
		}
	}

	if stepErr != nil {
		event.Error = errorClass(stepErr)
		h.logger.Debug("scenario step failed", "step", i, "op", step.Op, "error", stepErr)
	}
	h.result.Trace = append(h.result.Trace, event)

	h.checkExpect(i, step, stepErr, id, info, count)
}

// checkExpect compares a step's outcome with its expect clause.
func (h *Harness) checkExpect(i int, step Step, stepErr error, id *int64, info *recording.Info, count *int) {
	exp := step.Expect
	prefix := fmt.Sprintf("steps[%d] %s", i, step.Op)

	if stepErr != nil {
		if exp == nil || exp.Error == "" {
			h.result.AddError(fmt.Sprintf("%s: unexpected error: %v", prefix, stepErr))
			return
		}
		if got := errorClass(stepErr); got != exp.Error {
			h.result.AddError(fmt.Sprintf("%s: error class %q, want %q", prefix, got, exp.Error))
		}
		return
	}

	if exp == nil {
		return
	}
	if exp.Error != "" {
		h.result.AddError(fmt.Sprintf("%s: expected %s error, got success", prefix, exp.Error))
		return
	}

	if exp.ID != nil {
		var got int64
		switch {
		case id != nil:
			got = *id
		case info != nil:
			got = info.ID
		}
		if got != *exp.ID {
			h.result.AddError(fmt.Sprintf("%s: id %d, want %d", prefix, got, *exp.ID))
		}
	}
	if exp.Count != nil && (count == nil || *count != *exp.Count) {
		h.result.AddError(fmt.Sprintf("%s: count %v, want %d", prefix, deref(count), *exp.Count))
	}
	if info == nil {
		if exp.Name != nil || exp.Path != nil || exp.Length != nil {
			h.result.AddError(fmt.Sprintf("%s: record fields expected but op returns no record", prefix))
		}
		return
	}
	if exp.Name != nil && info.Name != *exp.Name {
		h.result.AddError(fmt.Sprintf("%s: name %q, want %q", prefix, info.Name, *exp.Name))
	}
	if exp.Path != nil && info.Path != *exp.Path {
		h.result.AddError(fmt.Sprintf("%s: path %q, want %q", prefix, info.Path, *exp.Path))
	}
	if exp.Length != nil && info.Length != *exp.Length {
		h.result.AddError(fmt.Sprintf("%s: length %d, want %d", prefix, info.Length, *exp.Length))
	}
}

// stepArgs returns the arguments that matter for a step's op.
func stepArgs(s Step) map[string]any {
	args := map[string]any{}
	if s.Index != nil {
		args["index"] = *s.Index
	}
	if s.ID != 0 {
		args["id"] = s.ID
	}
	switch s.Op {
	case OpAdd:
		args["name"] = s.Name
		args["path"] = s.Path
		args["length"] = s.Length
	case OpRenameAt, OpRename:
		args["name"] = s.Name
		args["path"] = s.Path
	}
	if len(args) == 0 {
		return nil
	}
	return args
}

// errorClass maps a RecordStore error to its trace name.
func errorClass(err error) string {
	switch {
	case errors.Is(err, records.ErrNotFound):
		return ErrClassNotFound
	case records.IsIndexError(err):
		return ErrClassIndex
	default:
		return ErrClassOther
	}
}

func deref(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
