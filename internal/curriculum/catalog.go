package curriculum

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed curriculum.yaml
var embeddedCurriculum []byte

// ErrNotFound is returned when a lesson ID is not in the catalog.
var ErrNotFound = errors.New("lesson not found")

// document is the top-level shape of a curriculum file.
type document struct {
	Version int      `yaml:"version"`
	Lessons []Lesson `yaml:"lessons"`
}

// Catalog is an immutable, ordered set of lessons.
type Catalog struct {
	lessons []Lesson
	byID    map[int]int
}

// def is the package-level catalog built from the embedded curriculum.
var def *Catalog

func init() {
	c, err := Parse(embeddedCurriculum)
	if err != nil {
		panic(fmt.Sprintf("embedded curriculum is invalid: %v", err))
	}
	def = c
}

// Default returns the catalog built from the embedded curriculum.
func Default() *Catalog {
	return def
}

// LoadFile reads and parses a curriculum file from disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open curriculum: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads and parses a curriculum document.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read curriculum: %w", err)
	}
	return Parse(data)
}

// Parse validates a YAML curriculum against the curriculum schema, decodes
// it, fills omitted lesson parts from the generic templates, and checks the
// result structurally.
func Parse(data []byte) (*Catalog, error) {
	if err := validateDocument(data); err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode curriculum: %w", err)
	}

	lessons := doc.Lessons
	for i := range lessons {
		fillDefaults(&lessons[i])
	}
	sort.SliceStable(lessons, func(i, j int) bool {
		return lessons[i].ID < lessons[j].ID
	})

	if err := validateLessons(lessons); err != nil {
		return nil, err
	}

	c := &Catalog{
		lessons: lessons,
		byID:    make(map[int]int, len(lessons)),
	}
	for i, l := range lessons {
		c.byID[l.ID] = i
	}
	return c, nil
}

// All returns every lesson in ID order.
func (c *Catalog) All() []Lesson {
	out := make([]Lesson, len(c.lessons))
	copy(out, c.lessons)
	return out
}

// ByID returns the lesson with the given ID.
func (c *Catalog) ByID(id int) (Lesson, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Lesson{}, false
	}
	return c.lessons[i], true
}

// Lesson is like ByID but returns ErrNotFound for unknown IDs.
func (c *Catalog) Lesson(id int) (Lesson, error) {
	l, ok := c.ByID(id)
	if !ok {
		return Lesson{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return l, nil
}

// Count returns the number of lessons.
func (c *Catalog) Count() int {
	return len(c.lessons)
}

// All returns every lesson of the default catalog.
func All() []Lesson { return def.All() }

// ByID looks up a lesson in the default catalog.
func ByID(id int) (Lesson, bool) { return def.ByID(id) }

// Count returns the number of lessons in the default catalog.
func Count() int { return def.Count() }
