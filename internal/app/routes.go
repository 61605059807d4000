package app

import (
	"strconv"
	"strings"

	"github.com/abhisek/pymaster/internal/screen"
	"github.com/abhisek/pymaster/internal/screens/dashboard"
	"github.com/abhisek/pymaster/internal/screens/lesson"
	"github.com/abhisek/pymaster/internal/screens/notfound"
)

// Route paths.
const (
	RouteDashboard = "/"
	lessonPrefix   = "/lesson/"
)

// LessonRoute returns the path of lesson id.
func LessonRoute(id int) string {
	return lessonPrefix + strconv.Itoa(id)
}

// Resolve maps a path to the screen stack it opens, bottom first. Every
// stack starts at the dashboard; "/lesson/<id>" adds the lesson, or the
// not-found screen when the catalog has no such lesson. Any other path is
// the dashboard.
func Resolve(path string, deps screen.Deps) []screen.Screen {
	stack := []screen.Screen{dashboard.New(deps)}

	raw, ok := strings.CutPrefix(path, lessonPrefix)
	if !ok {
		return stack
	}
	raw = strings.TrimSuffix(raw, "/")

	id, err := strconv.Atoi(raw)
	if err != nil {
		return append(stack, notfound.New(raw))
	}
	l, found := deps.Catalog.ByID(id)
	if !found {
		return append(stack, notfound.New(raw))
	}
	return append(stack, lesson.New(deps, l))
}
