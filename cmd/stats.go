package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/pymaster/internal/progress"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		snap := e.session.Progress().Snapshot()
		sum := progress.Summarize(snap, e.catalog.Count())

		fmt.Fprintf(out, "Lessons:   %d/%d (%d%%)\n", sum.Completed, sum.Total, sum.Percent)
		fmt.Fprintf(out, "Quizzes:   %d\n", sum.QuizzesCompleted)
		fmt.Fprintf(out, "XP:        %d\n", sum.XP)
		if l, ok := e.catalog.ByID(snap.CurrentLessonID); ok {
			fmt.Fprintf(out, "Current:   Lesson %d · %s\n", l.ID, l.Title)
		}

		events := e.events()
		if events == nil {
			return nil
		}
		recent, err := events.RecentActivity(cmd.Context(), 5)
		if err != nil {
			return fmt.Errorf("query activity: %w", err)
		}
		if len(recent) == 0 {
			return nil
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Recent activity")
		for _, a := range recent {
			fmt.Fprintf(out, "  %s  %-6s  Lesson %-3d %s\n",
				a.Timestamp.Local().Format("2006-01-02 15:04"), a.Kind, a.LessonID, a.Summary)
		}
		return nil
	},
}
