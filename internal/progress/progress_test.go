package progress

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/abhisek/pymaster/internal/curriculum"
	"github.com/abhisek/pymaster/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lessonCount = 30

func newTestStore(t *testing.T) (*Store, *store.MemoryKV) {
	t.Helper()
	kv := store.NewMemoryKV()
	return New(context.Background(), kv, lessonCount, nil), kv
}

func TestFreshStart(t *testing.T) {
	s, kv := newTestStore(t)
	snap := s.Snapshot()

	assert.Equal(t, DefaultSnapshot(), snap)
	assert.True(t, snap.IsUnlocked(1))
	for id := 2; id <= lessonCount; id++ {
		assert.False(t, snap.IsUnlocked(id), "lesson %d should be locked", id)
	}

	sum := Summarize(snap, lessonCount)
	assert.Equal(t, Summary{Completed: 0, Total: 30, Percent: 0}, sum)
	assert.Equal(t, 0, kv.Puts(), "loading must not write")
}

func TestCompleteLesson_UnlocksNext(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CompleteLesson(ctx, 1))

	snap := s.Snapshot()
	assert.Equal(t, []int{1}, snap.CompletedLessons)
	assert.Equal(t, 2, snap.CurrentLessonID)
	assert.True(t, snap.IsUnlocked(2))
	assert.False(t, snap.IsUnlocked(3))

	sum := Summarize(snap, lessonCount)
	assert.Equal(t, 1, sum.Completed)
	assert.Equal(t, 3, sum.Percent)
	assert.Equal(t, 1, kv.Puts())
}

func TestCompleteLesson_Idempotent(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CompleteLesson(ctx, 1))
	require.NoError(t, s.CompleteLesson(ctx, 1))

	assert.Equal(t, []int{1}, s.Snapshot().CompletedLessons)
	assert.Equal(t, 1, kv.Puts(), "second call writes nothing")
}

func TestCompleteLesson_WatermarkMonotonic(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CompleteLesson(ctx, 5))
	assert.Equal(t, 6, s.Snapshot().CurrentLessonID)

	require.NoError(t, s.CompleteLesson(ctx, 2))
	snap := s.Snapshot()
	assert.Equal(t, 6, snap.CurrentLessonID, "lower id never lowers the watermark")
	assert.ElementsMatch(t, []int{5, 2}, snap.CompletedLessons)
}

func TestCompleteLesson_WatermarkClamped(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.CompleteLesson(context.Background(), lessonCount))
	assert.Equal(t, lessonCount, s.Snapshot().CurrentLessonID)
}

func TestCompletedLessonStaysUnlocked(t *testing.T) {
	snap := DefaultSnapshot()
	snap.CompletedLessons = []int{9}
	assert.True(t, snap.IsUnlocked(9))
	assert.False(t, snap.IsUnlocked(8))
}

func TestCompleteQuiz(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CompleteQuiz(ctx, 1))
	require.NoError(t, s.CompleteQuiz(ctx, 1))
	require.NoError(t, s.CompleteQuiz(ctx, 4))

	snap := s.Snapshot()
	assert.Equal(t, []int{1, 4}, snap.CompletedQuizzes)
	assert.Equal(t, 2, kv.Puts())

	sum := Summarize(snap, lessonCount)
	assert.Equal(t, 2, sum.QuizzesCompleted)
	assert.Equal(t, 20, sum.XP)
}

func TestSaveCode_Overwrites(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	key := CodeKey(1, curriculum.Easy)
	assert.Equal(t, "1-easy", key)

	require.NoError(t, s.SaveCode(ctx, key, "print(1)"))
	require.NoError(t, s.SaveCode(ctx, key, "print(2)"))
	require.NoError(t, s.SaveCode(ctx, key, "print(2)"))

	code, ok := s.Code(key)
	require.True(t, ok)
	assert.Equal(t, "print(2)", code)
	assert.Len(t, s.Snapshot().CodeCache, 1)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CompleteLesson(ctx, 1))
	require.NoError(t, s.SaveCode(ctx, "1-easy", "x"))

	snap := s.Snapshot()
	snap.CompletedLessons[0] = 99
	snap.CodeCache["1-easy"] = "changed"

	again := s.Snapshot()
	assert.Equal(t, []int{1}, again.CompletedLessons)
	assert.Equal(t, "x", again.CodeCache["1-easy"])
}

func TestRoundTrip(t *testing.T) {
	kv := store.NewMemoryKV()
	ctx := context.Background()

	s := New(ctx, kv, lessonCount, nil)
	require.NoError(t, s.CompleteLesson(ctx, 1))
	require.NoError(t, s.CompleteLesson(ctx, 2))
	require.NoError(t, s.CompleteQuiz(ctx, 1))
	require.NoError(t, s.SaveCode(ctx, "2-hard", "x, y = y, x"))

	reloaded := New(ctx, kv, lessonCount, nil)
	assert.Equal(t, s.Snapshot(), reloaded.Snapshot())
}

func TestRoundTrip_SQLite(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(filepath.Join(t.TempDir(), "progress.db"))
	require.NoError(t, err)
	defer db.Close()

	s := New(ctx, db.KVRepo(), lessonCount, nil)
	require.NoError(t, s.CompleteLesson(ctx, 1))
	require.NoError(t, s.SaveCode(ctx, "1-easy", "print('hi')"))

	reloaded := New(ctx, db.KVRepo(), lessonCount, nil)
	assert.Equal(t, s.Snapshot(), reloaded.Snapshot())
}

func TestLoad_Fallbacks(t *testing.T) {
	tests := []struct {
		name   string
		stored string
	}{
		{"malformed json", `{"completedLessons": [1,`},
		{"wrong types", `{"completedLessons": "one"}`},
		{"future major version", `{"version":"v2.0.0","completedLessons":[1],"currentLessonId":2}`},
		{"invalid version", `{"version":"banana","completedLessons":[1]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := store.NewMemoryKV()
			require.NoError(t, kv.Put(ctx, StorageKey, []byte(tt.stored)))

			s := New(ctx, kv, lessonCount, nil)
			assert.Equal(t, DefaultSnapshot(), s.Snapshot())
		})
	}
}

func TestLoad_ReadErrorFallsBack(t *testing.T) {
	kv := store.NewMemoryKV()
	kv.GetErr = errors.New("disk on fire")

	s := New(context.Background(), kv, lessonCount, nil)
	assert.Equal(t, DefaultSnapshot(), s.Snapshot())
}

func TestLoad_UnversionedOriginalFormat(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	stored := `{"completedLessons":[1,2],"completedQuizzes":[1],"currentLessonId":3,"codeCache":{"1-easy":"print(1)"}}`
	require.NoError(t, kv.Put(ctx, StorageKey, []byte(stored)))

	snap := New(ctx, kv, lessonCount, nil).Snapshot()
	assert.Equal(t, FormatVersion, snap.Version)
	assert.Equal(t, []int{1, 2}, snap.CompletedLessons)
	assert.Equal(t, 3, snap.CurrentLessonID)
	assert.Equal(t, "print(1)", snap.CodeCache["1-easy"])
}

func TestLoad_CompatibleMinorVersion(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Put(ctx, StorageKey, []byte(`{"version":"v1.3.0","completedLessons":[4],"currentLessonId":5}`)))

	snap := New(ctx, kv, lessonCount, nil).Snapshot()
	assert.Equal(t, []int{4}, snap.CompletedLessons)
	assert.NotNil(t, snap.CodeCache)
}

func TestPersistError_KeepsMutation(t *testing.T) {
	s, kv := newTestStore(t)
	kv.PutErr = errors.New("read-only")

	err := s.CompleteLesson(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist progress")
	assert.True(t, s.Snapshot().IsCompleted(1))
}

func TestReset(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CompleteLesson(ctx, 3))
	require.NoError(t, s.CompleteQuiz(ctx, 3))

	require.NoError(t, s.Reset(ctx))
	assert.Equal(t, DefaultSnapshot(), s.Snapshot())
	_, ok, err := kv.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.False(t, ok, "stored snapshot removed")

	reloaded := New(ctx, kv, lessonCount, nil)
	assert.Equal(t, DefaultSnapshot(), reloaded.Snapshot())
}

func TestSummarize_Rounding(t *testing.T) {
	snap := DefaultSnapshot()
	snap.CompletedLessons = []int{1, 2}
	assert.Equal(t, 7, Summarize(snap, 30).Percent) // 6.67

	assert.Equal(t, 0, Summarize(snap, 0).Percent)
}
