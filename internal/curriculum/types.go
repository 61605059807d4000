package curriculum

import "fmt"

// Difficulty selects one of the three content variants of a lesson.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties returns all difficulties in display order.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// ParseDifficulty converts a string to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case Easy, Medium, Hard:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("invalid difficulty %q: must be easy, medium or hard", s)
}

// DisplayName returns a human-readable label for the difficulty.
func (d Difficulty) DisplayName() string {
	switch d {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	default:
		return string(d)
	}
}

// ResourceKind tags an external resource.
type ResourceKind string

const (
	KindVideo ResourceKind = "video"
	KindDoc   ResourceKind = "doc"
	KindBlog  ResourceKind = "blog"
)

// Lesson is one curriculum unit.
type Lesson struct {
	ID          int            `yaml:"id"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	VideoID     string         `yaml:"video,omitempty"`
	Quiz        []QuizQuestion `yaml:"quiz,omitempty"`
	Resources   []Resource     `yaml:"resources,omitempty"`
	Levels      Levels         `yaml:"levels,omitempty"`
}

// Levels holds the three difficulty variants of a lesson.
type Levels struct {
	Easy   *LevelContent `yaml:"easy,omitempty"`
	Medium *LevelContent `yaml:"medium,omitempty"`
	Hard   *LevelContent `yaml:"hard,omitempty"`
}

// Level returns the content for difficulty d. The catalog guarantees all
// three levels are present once loaded.
func (l Lesson) Level(d Difficulty) LevelContent {
	var lc *LevelContent
	switch d {
	case Easy:
		lc = l.Levels.Easy
	case Medium:
		lc = l.Levels.Medium
	case Hard:
		lc = l.Levels.Hard
	}
	if lc == nil {
		return LevelContent{Difficulty: d}
	}
	return *lc
}

// VideoURL returns a watchable URL for the lesson video, or "" if none.
func (l Lesson) VideoURL() string {
	if l.VideoID == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + l.VideoID
}

// LevelContent is the theory, examples and task for one difficulty.
type LevelContent struct {
	Difficulty Difficulty `yaml:"-"`
	Title      string     `yaml:"title"`
	Theory     string     `yaml:"theory"`
	Examples   []Example  `yaml:"examples,omitempty"`
	Task       Task       `yaml:"task"`
}

// Example is a worked code example.
type Example struct {
	Title       string `yaml:"title"`
	Code        string `yaml:"code"`
	Explanation string `yaml:"explanation"`
}

// Task is the coding exercise of a level. SolutionCode is never shown to
// the learner automatically.
type Task struct {
	ID           string `yaml:"id"`
	Description  string `yaml:"description"`
	StarterCode  string `yaml:"starter"`
	SolutionCode string `yaml:"solution"`
	Hint         string `yaml:"hint"`
}

// QuizQuestion is a single multiple-choice question.
type QuizQuestion struct {
	ID           string   `yaml:"id"`
	Question     string   `yaml:"question"`
	Options      []string `yaml:"options"`
	CorrectIndex int      `yaml:"correct"`
	Explanation  string   `yaml:"explanation"`
}

// Resource is an external link attached to a lesson.
type Resource struct {
	Title string       `yaml:"title"`
	URL   string       `yaml:"url"`
	Kind  ResourceKind `yaml:"kind"`
}
