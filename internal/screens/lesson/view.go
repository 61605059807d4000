package lesson

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pymaster/internal/curriculum"
	"github.com/abhisek/pymaster/internal/quiz"
	"github.com/abhisek/pymaster/internal/runner"
	"github.com/abhisek/pymaster/internal/tutor"
	"github.com/abhisek/pymaster/internal/ui/components"
	"github.com/abhisek/pymaster/internal/ui/layout"
	"github.com/abhisek/pymaster/internal/ui/theme"
	"github.com/abhisek/pymaster/internal/workspace"
)

// wideWidth is the frame width from which theory and editor sit side by side.
const wideWidth = 110

func (s *LessonScreen) View(width, height int) string {
	var b strings.Builder

	head := theme.Title.Render(fmt.Sprintf("LESSON %d / %s", s.lesson.ID, strings.ToUpper(s.ws.Difficulty.DisplayName())))
	b.WriteString(" " + head + "  " + theme.Heading.Render(s.lesson.Title) + "\n")
	b.WriteString(" " + s.renderTabs() + "\n")
	b.WriteString(" " + components.Rule(width-2) + "\n")

	status := s.renderStatus(width)
	bodyHeight := max(height-lipgloss.Height(b.String())-lipgloss.Height(status), 4)

	var body string
	switch s.ws.Tab {
	case workspace.TabResources:
		body = window(s.resourcesText(width-4), s.scroll, bodyHeight)
	case workspace.TabQuiz:
		body = s.quizView(width - 4)
	default:
		body = s.learnView(width-2, bodyHeight)
	}
	b.WriteString(lipgloss.NewStyle().PaddingLeft(1).Height(bodyHeight).MaxHeight(bodyHeight).Render(body))
	b.WriteString("\n")
	b.WriteString(status)
	return b.String()
}

func (s *LessonScreen) renderTabs() string {
	diffs := curriculum.Difficulties()
	labels := make([]string, len(diffs))
	active := 0
	for i, d := range diffs {
		labels[i] = fmt.Sprintf("%d %s", i+1, d.DisplayName())
		if d == s.ws.Difficulty {
			active = i
		}
	}

	tabs := workspace.Tabs()
	sections := make([]string, len(tabs))
	for i, t := range tabs {
		sections[i] = t.String()
	}
	return components.Tabs(labels, active) + "   " + components.Tabs(sections, int(s.ws.Tab))
}

func (s *LessonScreen) renderStatus(width int) string {
	switch {
	case s.reviewing:
		return " " + s.spinner.View() + theme.Hint.Render(" Asking the tutor...")
	case s.status == "":
		return ""
	case s.failed:
		return " " + lipgloss.NewStyle().Foreground(theme.Error).Width(width-2).Render(s.status)
	default:
		return " " + lipgloss.NewStyle().Foreground(theme.Success).Width(width-2).Render(s.status)
	}
}

// learnView lays out the lesson text and the coding workspace.
func (s *LessonScreen) learnView(width, height int) string {
	if width >= wideWidth {
		left := width / 2
		right := width - left - 1
		text := window(s.learnText(left-2), s.scroll, height)
		return lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(left).Render(text),
			" ",
			s.workspaceView(right, height),
		)
	}

	ws := s.workspaceView(width, height*3/5)
	textHeight := max(height-lipgloss.Height(ws)-1, 2)
	return window(s.learnText(width), s.scroll, textHeight) + "\n" + ws
}

func (s *LessonScreen) learnText(width int) string {
	lc := s.lesson.Level(s.ws.Difficulty)
	var b strings.Builder

	b.WriteString(theme.Heading.Render(lc.Title) + "\n")
	b.WriteString(theme.Subtitle.Width(width).Render(s.lesson.Description) + "\n\n")
	b.WriteString(s.renderTheory(lc.Theory, width))
	b.WriteString("\n")

	for _, ex := range lc.Examples {
		b.WriteString(theme.Heading.Render("Example: "+ex.Title) + "\n")
		b.WriteString(theme.Code.Width(width).Render(strings.TrimRight(ex.Code, "\n")) + "\n")
		if ex.Explanation != "" {
			b.WriteString(theme.Body.Width(width).Render(ex.Explanation) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(theme.Heading.Render("Your task") + "\n")
	b.WriteString(theme.Body.Width(width).Render(lc.Task.Description) + "\n")
	if s.ws.HintVisible && lc.Task.Hint != "" {
		b.WriteString("\n" + theme.Hint.Width(width).Render("Hint: "+lc.Task.Hint) + "\n")
	}
	return b.String()
}

func (s *LessonScreen) workspaceView(width, height int) string {
	var b strings.Builder

	editorHeight := max(height/2-2, 3)
	ed := s.editor
	ed.SetSize(width-2, editorHeight)
	b.WriteString(ed.View() + "\n")
	b.WriteString(s.runButton().View() + "  ")
	b.WriteString(components.Button{Label: "Reset", Key: "x", Enabled: !s.ws.Running}.View() + "  ")
	hint := "Show hint"
	if s.ws.HintVisible {
		hint = "Hide hint"
	}
	b.WriteString(components.Button{Label: hint, Key: "h", Enabled: true}.View() + "\n")

	if s.review != nil {
		b.WriteString(s.reviewView(width) + "\n")
	}

	outHeight := max(height-lipgloss.Height(b.String())-2, 2)
	b.WriteString(s.outputView(width, outHeight))
	return b.String()
}

func (s *LessonScreen) runButton() components.Button {
	btn := components.Button{Label: "▶ Run", Key: "r"}
	switch rt := s.runner(); {
	case rt.State() == runner.StateFailed:
		btn.Reason = "Python unavailable"
	case !rt.Ready():
		btn.Reason = s.spinner.View() + " loading Python"
	case s.ws.Running:
		btn.Reason = "running"
	default:
		btn.Enabled = true
	}
	return btn
}

func (s *LessonScreen) outputView(width, height int) string {
	text := strings.TrimRight(s.ws.Output, "\n")
	if text == "" {
		text = theme.Hint.Render("Run your code to see output here.")
	} else {
		lines := strings.Split(layout.Truncate(text, height, true), "\n")
		for i, line := range lines {
			if strings.HasPrefix(line, runner.StderrPrefix) || strings.HasPrefix(line, strings.TrimSuffix(runner.FailurePrefix, "\n")) {
				lines[i] = lipgloss.NewStyle().Foreground(theme.Error).Render(line)
			}
		}
		text = strings.Join(lines, "\n")
	}
	return theme.Output.Width(width).Render(text)
}

func (s *LessonScreen) reviewView(width int) string {
	r := s.review
	color := theme.Accent
	switch r.Verdict {
	case tutor.VerdictSolved:
		color = theme.Success
	case tutor.VerdictNotYet:
		color = theme.Error
	}
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(color).Bold(true).Render("Tutor: " + r.Verdict.Label()))
	b.WriteString("\n" + r.Feedback)
	if r.NextStep != "" {
		b.WriteString("\n" + theme.Hint.Render("Next: "+r.NextStep))
	}
	return theme.Card.Width(width).Render(b.String())
}

func (s *LessonScreen) resourcesText(width int) string {
	var b strings.Builder
	if url := s.lesson.VideoURL(); url != "" {
		b.WriteString(theme.Heading.Render("Video") + "\n")
		b.WriteString(theme.Link.Render(url) + "\n\n")
	}
	b.WriteString(theme.Heading.Render("Further reading") + "\n")
	for _, r := range s.lesson.Resources {
		tag := lipgloss.NewStyle().Foreground(theme.Secondary).Render(fmt.Sprintf("[%s]", r.Kind))
		b.WriteString(fmt.Sprintf("%s %s\n    %s\n", tag, theme.Body.Render(r.Title), theme.Link.Render(r.URL)))
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (s *LessonScreen) quizView(width int) string {
	questions := s.lesson.Quiz
	if len(questions) == 0 {
		return theme.Hint.Render("This lesson has no quiz.")
	}

	if s.quiz.Finished {
		var b strings.Builder
		b.WriteString(theme.Title.Render("Quiz finished") + "\n\n")
		b.WriteString(fmt.Sprintf("You scored %d out of %d.\n\n", s.quiz.Score, len(questions)))
		if s.quizPassed() {
			b.WriteString(theme.Correct.Render("Perfect score!") + "\n")
		} else {
			b.WriteString(theme.Hint.Render("Review the lesson and try again.") + "\n")
		}
		b.WriteString("\n" + theme.Hint.Render("Press r to retake the quiz."))
		return b.String()
	}

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Question %d of %d", s.quiz.Index+1, len(questions))) + "\n\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(s.mc.View()))

	if s.quiz.Submitted {
		q, _ := s.quiz.Current(questions)
		b.WriteString("\n")
		if s.quiz.LastCorrect(questions) {
			b.WriteString(theme.Correct.Render("Correct!"))
		} else {
			b.WriteString(theme.Incorrect.Render(fmt.Sprintf("Not quite. The answer is %c) %s.", 'A'+q.CorrectIndex, q.Options[q.CorrectIndex])))
		}
		if q.Explanation != "" {
			b.WriteString("\n" + theme.Body.Width(width).Render(q.Explanation))
		}
		b.WriteString("\n\n" + theme.Hint.Render("Press Enter to continue."))
	} else if s.quiz.Selected != quiz.NoSelection {
		b.WriteString("\n" + theme.Hint.Render("Press Enter to submit."))
	}
	return b.String()
}

// window returns height lines of text starting at offset, clamped so the
// last page stays full.
func window(text string, offset, height int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if height <= 0 {
		return ""
	}
	offset = min(offset, max(len(lines)-height, 0))
	end := min(offset+height, len(lines))
	return strings.Join(lines[offset:end], "\n")
}
