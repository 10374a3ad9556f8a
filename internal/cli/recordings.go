package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/maxter/simrec/internal/recording"
	"github.com/maxter/simrec/internal/records"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Path   string
	Dir    string
	Length int64
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a recording to the list",
		Long: `Add a recording's metadata to the list. <name> is trimmed and converted to
Unicode NFC before it is stored.

If --path is not given, a fresh time-sortable file name is generated in --dir
using the extension of <name>.

Examples:
  simrec add "Lecture 3.wav" --path /sdcard/rec/lecture3.wav --length 5400000
  simrec add memo.mp4 --dir /sdcard/rec`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, recording.NormalizeName(args[0]), cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Path, "path", "", "audio file path")
	cmd.Flags().StringVar(&opts.Dir, "dir", ".", "directory for generated file paths")
	cmd.Flags().Int64Var(&opts.Length, "length", 0, "duration in milliseconds")

	return cmd
}

func runAdd(opts *AddOptions, name string, cmd *cobra.Command) error {
	if opts.Length < 0 {
		return NewExitError(ExitCommandError, "--length must not be negative")
	}

	rs, err := openRecords(opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer rs.Close()

	f := newFormatter(opts.RootOptions, cmd)
	rs.SetChangeListener(records.ListenerFunc(func() {
		f.VerboseLog("change listener: new entry added")
	}))

	path := opts.Path
	if path == "" {
		path = recording.NewFileName(opts.Dir, filepath.Ext(name))
	}

	id, err := rs.Add(cmd.Context(), name, path, opts.Length)
	if err != nil {
		return f.RecordError("add", err)
	}

	return f.Result(map[string]any{"id": id, "name": name, "path": path},
		"Added recording #%d %s", id, name)
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List recordings in order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := openRecords(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rs.Close()

			f := newFormatter(rootOpts, cmd)
			list, err := rs.List(cmd.Context())
			if err != nil {
				return f.RecordError("list", err)
			}
			return f.Records(list)
		},
	}
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "get <index>",
		Short:         "Show the recording at a list position",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			rs, err := openRecords(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rs.Close()

			f := newFormatter(rootOpts, cmd)
			info, err := rs.At(cmd.Context(), index)
			if err != nil {
				return f.RecordError("get", err)
			}
			return f.Record(info)
		},
	}
}

// NewRemoveCommand creates the rm command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <index>",
		Aliases: []string{"remove"},
		Short:   "Remove the recording at a list position and delete its file",
		Long: `Remove the recording at a list position.

The row is deleted from the database, then the audio file at its path is
deleted. A file that cannot be deleted is reported in verbose logs only.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			rs, err := openRecords(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rs.Close()

			f := newFormatter(rootOpts, cmd)
			if err := rs.RemoveAt(cmd.Context(), index); err != nil {
				return f.RecordError("remove", err)
			}
			return f.Result(map[string]any{"removed": index},
				"Removed recording at index %d", index)
		},
	}
}

// RenameOptions holds flags for the rename command.
type RenameOptions struct {
	*RootOptions
	Path string
}

// NewRenameCommand creates the rename command.
func NewRenameCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenameOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rename <index> <name>",
		Short: "Rename the recording at a list position",
		Long: `Rename the recording at a list position.

<name> is trimmed and converted to Unicode NFC. Without --path the stored
path keeps its directory and takes the normalized name as its base name.
Only metadata changes; the file on disk is not moved.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return runRename(opts, index, recording.NormalizeName(args[1]), cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Path, "path", "", "new file path")

	return cmd
}

func runRename(opts *RenameOptions, index int, name string, cmd *cobra.Command) error {
	rs, err := openRecords(opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer rs.Close()

	f := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	info, err := rs.At(ctx, index)
	if err != nil {
		return f.RecordError("rename", err)
	}

	path := opts.Path
	if path == "" {
		path = filepath.Join(filepath.Dir(info.Path), name)
	}

	if err := rs.Rename(ctx, info.ID, name, path); err != nil {
		return f.RecordError("rename", err)
	}

	return f.Result(map[string]any{"id": info.ID, "name": name, "path": path},
		"Renamed recording #%d to %s", info.ID, name)
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "count",
		Short:         "Print the number of recordings",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := openRecords(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rs.Close()

			f := newFormatter(rootOpts, cmd)
			n, err := rs.Count(cmd.Context())
			if err != nil {
				return f.RecordError("count", err)
			}
			return f.Result(map[string]int{"count": n}, "%d", n)
		},
	}
}

// parseIndex converts a list position argument.
func parseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil || index < 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid index %q: must be a non-negative integer", arg))
	}
	return index, nil
}
