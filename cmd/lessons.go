package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pymaster/internal/app"
	"github.com/abhisek/pymaster/internal/progress"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson <id>",
	Short: "Open the course at a lesson",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid lesson %q: %w", args[0], err)
		}
		return runApp(cmd, app.LessonRoute(id))
	},
}

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "List lessons and their status",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		snap := e.session.Progress().Snapshot()

		fmt.Fprintf(out, "%-4s  %-40s  %-8s  %s\n", "ID", "Title", "Status", "Quiz")
		fmt.Fprintln(out, strings.Repeat("─", 64))
		for _, l := range e.catalog.All() {
			quiz := ""
			if snap.IsQuizCompleted(l.ID) {
				quiz = "✓"
			}
			fmt.Fprintf(out, "%-4d  %-40s  %-8s  %s\n", l.ID, truncate(l.Title, 40), lessonStatus(snap, l.ID), quiz)
		}
		return nil
	},
}

func lessonStatus(snap progress.Snapshot, id int) string {
	switch {
	case snap.IsCompleted(id):
		return "done"
	case snap.IsUnlocked(id):
		return "open"
	default:
		return "locked"
	}
}
