package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/pymaster/internal/curriculum"
	"github.com/abhisek/pymaster/internal/session"
	"github.com/abhisek/pymaster/internal/workspace"
)

// errProgramFailed marks a run whose program raised; the output has already
// been printed.
var errProgramFailed = errors.New("program failed")

var runCmd = &cobra.Command{
	Use:   "run <lesson>",
	Short: "Run code for a lesson task without the TUI",
	Long: `Runs a Python file against a lesson task and records the result exactly
like the Run button does. Reads the code from stdin when --file is "-".
Without --file the code saved for the task, or its starter code, is run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid lesson %q: %w", args[0], err)
		}
		diffFlag, _ := cmd.Flags().GetString("difficulty")
		d, err := curriculum.ParseDifficulty(diffFlag)
		if err != nil {
			return err
		}
		file, _ := cmd.Flags().GetString("file")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		lesson, err := e.catalog.Lesson(id)
		if err != nil {
			return err
		}

		snap := e.session.Progress().Snapshot()
		ws := workspace.Open(lesson, d, snap.CodeCache)
		if file != "" {
			code, err := readCode(cmd, file)
			if err != nil {
				return err
			}
			ws = ws.Edit(code)
		}

		ctx := cmd.Context()
		if err := waitForPython(ctx, e, timeout); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		outcome, err := e.session.Run(ctx, session.AttemptFor(lesson, ws), func(chunk string) {
			fmt.Fprint(out, chunk)
		})
		if err != nil {
			return err
		}

		errOut := cmd.ErrOrStderr()
		switch {
		case outcome.Completed && outcome.Unlocked > id:
			fmt.Fprintf(errOut, "Lesson %d complete. Lesson %d is unlocked.\n", id, outcome.Unlocked)
		case outcome.Completed:
			fmt.Fprintf(errOut, "Lesson %d complete.\n", id)
		case outcome.Saved:
			fmt.Fprintln(errOut, "Code saved.")
		default:
			fmt.Fprintln(errOut, "Code too short to complete the lesson.")
		}
		if outcome.Result.Failed {
			return errProgramFailed
		}
		return nil
	},
}

func readCode(cmd *cobra.Command, file string) (string, error) {
	if file == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read code: %w", err)
	}
	return string(b), nil
}

func init() {
	runCmd.Flags().StringP("difficulty", "d", string(curriculum.Easy), "Task difficulty: easy, medium or hard")
	runCmd.Flags().StringP("file", "f", "", "Python file to run, or - for stdin")
	runCmd.Flags().Duration("timeout", 30*time.Second, "How long to wait for the interpreter to become available")
}
