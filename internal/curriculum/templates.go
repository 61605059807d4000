package curriculum

import (
	"fmt"
	"strings"
)

var complexity = map[Difficulty]string{
	Easy:   "Basics",
	Medium: "Intermediate",
	Hard:   "Advanced",
}

// defaultResources are attached to lessons that do not list their own.
var defaultResources = []Resource{
	{Title: "The Python Tutorial", URL: "https://docs.python.org/3/tutorial/", Kind: KindDoc},
	{Title: "Real Python Tutorials", URL: "https://realpython.com/", Kind: KindBlog},
}

// fillDefaults completes a lesson whose levels or resources were omitted
// from the curriculum file. Authored content is never overwritten.
func fillDefaults(l *Lesson) {
	if l.Levels.Easy == nil {
		l.Levels.Easy = templateLevel(l, Easy)
	}
	if l.Levels.Medium == nil {
		l.Levels.Medium = templateLevel(l, Medium)
	}
	if l.Levels.Hard == nil {
		l.Levels.Hard = templateLevel(l, Hard)
	}
	l.Levels.Easy.Difficulty = Easy
	l.Levels.Medium.Difficulty = Medium
	l.Levels.Hard.Difficulty = Hard

	if len(l.Resources) == 0 {
		l.Resources = append([]Resource(nil), defaultResources...)
	}
}

func templateLevel(l *Lesson, d Difficulty) *LevelContent {
	tier := complexity[d]
	topic := l.Title

	var theory strings.Builder
	fmt.Fprintf(&theory, "### %s (%s)\n\n", topic, tier)
	fmt.Fprintf(&theory, "This section covers **%s** at the %s level.\n\n", topic, strings.ToLower(tier))
	fmt.Fprintf(&theory, "* **Concept:** what %s is and the problem it solves.\n", topic)
	theory.WriteString("* **Usage:** where it shows up in everyday Python code.\n")
	theory.WriteString("* **Pitfalls:** details that trip people up.\n")

	return &LevelContent{
		Title:  fmt.Sprintf("%s - %s", topic, tier),
		Theory: theory.String(),
		Examples: []Example{{
			Title:       fmt.Sprintf("%s example", topic),
			Code:        fmt.Sprintf("# %s example\nprint(\"This is a %s example.\")\n", tier, topic),
			Explanation: "Run the code and study its output.",
		}},
		Task: Task{
			ID:           fmt.Sprintf("task-%d-%s", l.ID, d),
			Description:  fmt.Sprintf("Write a short program that uses %s and prints the result.", topic),
			StarterCode:  "# Write your code here\n",
			SolutionCode: "print(\"Solution\")\n",
			Hint:         "Don't forget to call print().",
		},
	}
}
