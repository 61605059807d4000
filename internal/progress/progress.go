// Package progress owns the learner's persisted state: completed lessons,
// completed quizzes, the unlock watermark and the per-task code cache.
package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"sync"

	"github.com/abhisek/pymaster/internal/curriculum"
	"github.com/abhisek/pymaster/internal/store"
	"go.uber.org/zap"
	"golang.org/x/mod/semver"
)

// StorageKey is the key-value entry the snapshot is stored under.
const StorageKey = "pyMasterProgress"

// FormatVersion is the semver of the snapshot layout. Stored snapshots with
// a different major version are discarded.
const FormatVersion = "v1.0.0"

// Snapshot is the complete persisted progress value.
type Snapshot struct {
	Version          string            `json:"version,omitempty"`
	CompletedLessons []int             `json:"completedLessons"`
	CompletedQuizzes []int             `json:"completedQuizzes"`
	CurrentLessonID  int               `json:"currentLessonId"`
	CodeCache        map[string]string `json:"codeCache"`
}

// DefaultSnapshot is the fresh-start state: nothing completed, lesson 1
// unlocked, empty cache.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Version:          FormatVersion,
		CompletedLessons: []int{},
		CompletedQuizzes: []int{},
		CurrentLessonID:  1,
		CodeCache:        map[string]string{},
	}
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.CompletedLessons = slices.Clone(s.CompletedLessons)
	out.CompletedQuizzes = slices.Clone(s.CompletedQuizzes)
	out.CodeCache = make(map[string]string, len(s.CodeCache))
	for k, v := range s.CodeCache {
		out.CodeCache[k] = v
	}
	return out
}

// IsCompleted reports whether lesson id has been completed.
func (s Snapshot) IsCompleted(id int) bool {
	return slices.Contains(s.CompletedLessons, id)
}

// IsQuizCompleted reports whether the quiz of lesson id has been completed.
func (s Snapshot) IsQuizCompleted(id int) bool {
	return slices.Contains(s.CompletedQuizzes, id)
}

// IsUnlocked reports whether lesson id may be opened: it is at or below the
// watermark, or it has already been completed.
func (s Snapshot) IsUnlocked(id int) bool {
	return id <= s.CurrentLessonID || s.IsCompleted(id)
}

// CodeKey is the code cache key for a lesson and difficulty.
func CodeKey(lessonID int, d curriculum.Difficulty) string {
	return strconv.Itoa(lessonID) + "-" + string(d)
}

// Summary is the dashboard view of a snapshot.
type Summary struct {
	Completed        int
	Total            int
	Percent          int
	QuizzesCompleted int
	XP               int
}

// XPPerQuiz is awarded for each completed quiz.
const XPPerQuiz = 10

// Summarize computes progress figures for a catalog of lessonCount lessons.
func Summarize(s Snapshot, lessonCount int) Summary {
	sum := Summary{
		Completed:        len(s.CompletedLessons),
		Total:            lessonCount,
		QuizzesCompleted: len(s.CompletedQuizzes),
		XP:               len(s.CompletedQuizzes) * XPPerQuiz,
	}
	if lessonCount > 0 {
		sum.Percent = int(math.Round(float64(sum.Completed) / float64(lessonCount) * 100))
	}
	return sum
}

// Store is the single writer of progress. Every effective mutation persists
// the full snapshot. Methods are safe for concurrent use.
type Store struct {
	mu          sync.Mutex
	kv          store.KVRepo
	lessonCount int
	logger      *zap.Logger
	snap        Snapshot
}

// New loads the stored snapshot once. Absent, unreadable, malformed or
// incompatible data falls back to DefaultSnapshot.
func New(ctx context.Context, kv store.KVRepo, lessonCount int, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		kv:          kv,
		lessonCount: lessonCount,
		logger:      logger.Named("progress"),
	}
	s.snap = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) Snapshot {
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Warn("read progress, starting fresh", zap.Error(err))
		return DefaultSnapshot()
	}
	if !ok {
		return DefaultSnapshot()
	}

	snap, err := decode(raw)
	if err != nil {
		s.logger.Warn("discarding stored progress", zap.Error(err))
		return DefaultSnapshot()
	}
	return snap
}

// decode parses a stored snapshot and checks its format version. A missing
// version is the first layout, v1.0.0.
func decode(raw []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}

	if snap.Version == "" {
		snap.Version = FormatVersion
	}
	if !semver.IsValid(snap.Version) {
		return Snapshot{}, fmt.Errorf("invalid snapshot version %q", snap.Version)
	}
	if semver.Major(snap.Version) != semver.Major(FormatVersion) {
		return Snapshot{}, fmt.Errorf("incompatible snapshot version %s (want %s)", snap.Version, semver.Major(FormatVersion))
	}

	if snap.CompletedLessons == nil {
		snap.CompletedLessons = []int{}
	}
	if snap.CompletedQuizzes == nil {
		snap.CompletedQuizzes = []int{}
	}
	if snap.CodeCache == nil {
		snap.CodeCache = map[string]string{}
	}
	if snap.CurrentLessonID < 1 {
		snap.CurrentLessonID = 1
	}
	return snap, nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Code returns the cached code for key.
func (s *Store) Code(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.snap.CodeCache[key]
	return code, ok
}

// CompleteLesson marks lesson id completed and raises the watermark to
// min(id+1, lessonCount). The watermark never moves backward. Calling it
// again with the same id changes nothing.
func (s *Store) CompleteLesson(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap.IsCompleted(id) {
		return nil
	}
	s.snap.CompletedLessons = append(s.snap.CompletedLessons, id)
	s.snap.CurrentLessonID = max(s.snap.CurrentLessonID, min(id+1, s.lessonCount))

	s.logger.Info("lesson completed",
		zap.Int("lesson_id", id),
		zap.Int("watermark", s.snap.CurrentLessonID),
	)
	return s.persistLocked(ctx)
}

// CompleteQuiz marks the quiz of lesson id completed. Idempotent.
func (s *Store) CompleteQuiz(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap.IsQuizCompleted(id) {
		return nil
	}
	s.snap.CompletedQuizzes = append(s.snap.CompletedQuizzes, id)

	s.logger.Info("quiz completed", zap.Int("lesson_id", id))
	return s.persistLocked(ctx)
}

// SaveCode overwrites the cached code for key.
func (s *Store) SaveCode(ctx context.Context, key, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.CodeCache[key] = text
	s.logger.Debug("code saved", zap.String("key", key), zap.Int("bytes", len(text)))
	return s.persistLocked(ctx)
}

// Reset restores the fresh-start state and removes the stored snapshot, so
// the next load starts fresh too.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = DefaultSnapshot()
	s.logger.Info("progress reset")
	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		s.logger.Error("clear progress", zap.Error(err))
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}

// persistLocked writes the full snapshot. The in-memory state keeps the
// mutation even when the write fails.
func (s *Store) persistLocked(ctx context.Context) error {
	s.snap.Version = FormatVersion
	raw, err := json.Marshal(s.snap)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := s.kv.Put(ctx, StorageKey, raw); err != nil {
		s.logger.Error("persist progress", zap.Error(err))
		return fmt.Errorf("persist progress: %w", err)
	}
	return nil
}
