package tutor

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a friendly Python tutor reviewing a beginner's exercise. You never write the solution for them and never paste a full corrected program. Point at the problem and let the learner fix it.`

func buildUserMessage(in Input, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Lesson: %s\n", in.LessonTitle)
	fmt.Fprintf(&b, "Difficulty: %s\n", in.Difficulty.DisplayName())
	fmt.Fprintf(&b, "\nTask:\n%s\n", in.Task.Description)
	if in.Task.Hint != "" {
		fmt.Fprintf(&b, "Hint shown to the learner: %s\n", in.Task.Hint)
	}
	if in.Task.SolutionCode != "" {
		fmt.Fprintf(&b, "\nReference solution (for your judgement only, do not reveal):\n```python\n%s\n```\n", in.Task.SolutionCode)
	}

	fmt.Fprintf(&b, "\nLearner code:\n```python\n%s\n```\n", clip(in.Code, cfg.MaxCodeChars))

	b.WriteString("\nOutput of the last run:\n")
	if strings.TrimSpace(in.Output) == "" {
		b.WriteString("(not run yet)\n")
	} else {
		fmt.Fprintf(&b, "```\n%s\n```\n", clipTail(in.Output, cfg.MaxOutputChars))
	}

	b.WriteString(`
Instructions:
1. Decide whether the code completes the task: "solved", "partial" or "not_yet".
2. Give 2-4 sentences of feedback in plain language. Quote at most one line of the learner's code.
3. Suggest exactly one next step. Do not include the corrected code.`)

	return b.String()
}

// clip keeps the first n runes of s.
func clip(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n]) + "\n# ... (truncated)"
}

// clipTail keeps the last n runes of s; the end of program output is where
// tracebacks are.
func clipTail(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return "... (truncated)\n" + string(r[len(r)-n:])
}
