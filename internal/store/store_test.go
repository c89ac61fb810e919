package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/julianstephens/glowup/internal/clock"
	"github.com/julianstephens/glowup/internal/constants"
	apperr "github.com/julianstephens/glowup/internal/errors"
	"github.com/julianstephens/glowup/internal/models"
	"github.com/julianstephens/glowup/internal/storage"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func setupStore(t *testing.T, date string) (*Store, *storage.MemoryStore, *clock.Manual) {
	t.Helper()
	kv := storage.NewMemoryStore()
	c := clock.Fixed(date)
	s := New(kv, WithClock(c), WithIDGenerator(sequentialIDs()))
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return s, kv, c
}

func everyDay() []int { return []int{0, 1, 2, 3, 4, 5, 6} }

func TestStore_NotLoaded(t *testing.T) {
	s := New(storage.NewMemoryStore())
	if _, err := s.AddHabit(models.Habit{Name: "x", Weight: 1, DaysOfWeek: everyDay()}); !errors.Is(err, apperr.ErrStoreNotLoaded) {
		t.Errorf("AddHabit before Load error = %v, want ErrStoreNotLoaded", err)
	}
	if _, err := s.ExportData(); !errors.Is(err, apperr.ErrStoreNotLoaded) {
		t.Errorf("ExportData before Load error = %v, want ErrStoreNotLoaded", err)
	}
}

func TestStore_HabitCRUD(t *testing.T) {
	s, kv, c := setupStore(t, "2024-03-13")

	h, err := s.AddHabit(models.Habit{Name: "Meditate", Weight: 2, DaysOfWeek: everyDay(), Streak: 9})
	if err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}
	if h.ID != "id-1" || h.CreatedAt == "" || h.Streak != 0 {
		t.Errorf("AddHabit() = %+v, want id-1 with createdAt and zero streak", h)
	}
	if kv.Writes() == 0 {
		t.Error("AddHabit did not persist")
	}

	// returned copies do not alias the store
	got := s.GetHabits()
	got[0].Name = "changed"
	got[0].DaysOfWeek[0] = 5
	if again := s.GetHabits(); again[0].Name != "Meditate" || again[0].DaysOfWeek[0] != 0 {
		t.Errorf("GetHabits() returned a live reference: %+v", again[0])
	}

	c.AddDays(1)
	ok, err := s.UpdateHabit(h.ID, func(h *models.Habit) {
		h.Name = "Meditate 10m"
		h.ID = "hijacked"
	})
	if !ok || err != nil {
		t.Fatalf("UpdateHabit() = %v, %v", ok, err)
	}
	updated, found := s.GetHabit(h.ID)
	if !found || updated.Name != "Meditate 10m" {
		t.Fatalf("GetHabit() = %+v, %v", updated, found)
	}
	if updated.UpdatedAt <= updated.CreatedAt {
		t.Errorf("updatedAt %q not after createdAt %q", updated.UpdatedAt, updated.CreatedAt)
	}

	if ok, err := s.UpdateHabit("missing", func(*models.Habit) {}); ok || err != nil {
		t.Errorf("UpdateHabit(missing) = %v, %v, want false, nil", ok, err)
	}

	ok, err = s.UpdateHabit(h.ID, func(h *models.Habit) { h.Weight = 7 })
	if ok || !apperr.IsValidation(err) {
		t.Errorf("UpdateHabit(invalid) = %v, %v, want validation error", ok, err)
	}
	if cur, _ := s.GetHabit(h.ID); cur.Weight != 2 {
		t.Errorf("invalid update changed state: weight = %d", cur.Weight)
	}

	if _, err := s.AddHabit(models.Habit{Name: "", Weight: 1, DaysOfWeek: everyDay()}); !apperr.IsValidation(err) {
		t.Errorf("AddHabit(no name) error = %v, want validation error", err)
	}
	if n := len(s.GetHabits()); n != 1 {
		t.Errorf("rejected add changed state: %d habits", n)
	}

	if ok, err := s.DeleteHabit(h.ID); !ok || err != nil {
		t.Errorf("DeleteHabit() = %v, %v", ok, err)
	}
	if ok, _ := s.DeleteHabit(h.ID); ok {
		t.Error("second DeleteHabit() reported a removal")
	}
}

func TestStore_CompleteHabit(t *testing.T) {
	s, _, c := setupStore(t, "2024-03-11")
	h, _ := s.AddHabit(models.Habit{Name: "Walk", Weight: 1, DaysOfWeek: everyDay()})

	for i := 0; i < 3; i++ {
		if ok, err := s.CompleteHabit(h.ID, "", models.StatusCompleted, ""); !ok || err != nil {
			t.Fatalf("CompleteHabit() day %d = %v, %v", i, ok, err)
		}
		c.AddDays(1)
	}
	// now 2024-03-14, today still open
	c.AddDays(-1)
	got, _ := s.GetHabit(h.ID)
	if got.Streak != 3 || got.LastCompleted != "2024-03-13" {
		t.Errorf("habit = streak %d last %q, want 3 and 2024-03-13", got.Streak, got.LastCompleted)
	}

	// re-marking the same day replaces the completion
	if _, err := s.CompleteHabit(h.ID, "2024-03-13", models.StatusNotCompleted, ""); err != nil {
		t.Fatal(err)
	}
	if n := len(s.GetHabitCompletions("2024-03-13")); n != 1 {
		t.Errorf("completions on 2024-03-13 = %d, want 1", n)
	}
	if got, _ := s.GetHabit(h.ID); got.Streak != 0 {
		t.Errorf("streak after not_completed today = %d, want 0", got.Streak)
	}

	if ok, err := s.CompleteHabit("missing", "", models.StatusCompleted, ""); ok || err != nil {
		t.Errorf("CompleteHabit(missing) = %v, %v", ok, err)
	}
	if _, err := s.CompleteHabit(h.ID, "2024-03-20", models.StatusCompleted, ""); !apperr.IsValidation(err) {
		t.Errorf("future completion error = %v, want validation error", err)
	}
	if _, err := s.CompleteHabit(h.ID, "", "maybe", ""); !apperr.IsValidation(err) {
		t.Errorf("bad status error = %v, want validation error", err)
	}
}

func TestStore_DeleteCascades(t *testing.T) {
	s, _, _ := setupStore(t, "2024-03-13")
	h, _ := s.AddHabit(models.Habit{Name: "Walk", Weight: 1, DaysOfWeek: everyDay()})
	keep, _ := s.AddHabit(models.Habit{Name: "Read", Weight: 1, DaysOfWeek: everyDay()})
	s.CompleteHabit(h.ID, "", models.StatusCompleted, "")
	s.CompleteHabit(keep.ID, "", models.StatusCompleted, "")

	v, _ := s.AddVice(models.Vice{Name: "Sugar"})
	s.ToggleViceDay(v.ID, "", models.ViceClean)

	s.DeleteHabit(h.ID)
	s.DeleteVice(v.ID)

	completions := s.GetHabitCompletions("")
	if len(completions) != 1 || completions[0].HabitID != keep.ID {
		t.Errorf("completions after cascade = %+v", completions)
	}
	if n := len(s.GetViceCompletions("")); n != 0 {
		t.Errorf("vice completions after cascade = %d, want 0", n)
	}
}

func TestStore_ViceStreak(t *testing.T) {
	s, _, _ := setupStore(t, "2024-03-13")
	v, _ := s.AddVice(models.Vice{Name: "Smoking"})

	s.ToggleViceDay(v.ID, "2024-03-12", models.ViceClean)
	s.ToggleViceDay(v.ID, "2024-03-13", models.ViceClean)
	if got := s.ViceStreak(v.ID); got != 2 {
		t.Fatalf("streak = %d, want 2", got)
	}

	s.ToggleViceDay(v.ID, "2024-03-11", models.ViceRelapse)
	if got := s.ViceStreak(v.ID); got != 0 {
		t.Fatalf("streak with relapse = %d, want 0", got)
	}

	// toggling the relapse again removes it
	s.ToggleViceDay(v.ID, "2024-03-11", models.ViceRelapse)
	if n := len(s.GetViceCompletions(v.ID)); n != 2 {
		t.Fatalf("completions after unmark = %d, want 2", n)
	}
	s.ToggleViceDay(v.ID, "2024-03-11", models.ViceClean)
	if got := s.ViceStreak(v.ID); got != 3 {
		t.Errorf("streak restored = %d, want 3", got)
	}

	if ok, _ := s.ToggleViceDay("missing", "", models.ViceClean); ok {
		t.Error("ToggleViceDay(missing) = true")
	}
}

func TestStore_ReorderVices(t *testing.T) {
	s, _, _ := setupStore(t, "2024-03-13")
	for _, name := range []string{"a", "b", "c", "d"} {
		s.AddVice(models.Vice{Name: name})
	}
	// ids are id-1..id-4 for a..d
	ok, err := s.ReorderVices([]string{"id-3", "unknown", "id-1"})
	if !ok || err != nil {
		t.Fatalf("ReorderVices() = %v, %v", ok, err)
	}
	var names []string
	for _, v := range s.GetVices() {
		names = append(names, v.Name)
	}
	if want := []string{"c", "a", "b", "d"}; !reflect.DeepEqual(names, want) {
		t.Errorf("order = %v, want %v", names, want)
	}
	if ok, _ := s.ReorderVices([]string{"id-3", "id-1"}); ok {
		t.Error("no-op reorder reported a change")
	}
}

func TestStore_Vocabulary(t *testing.T) {
	s, _, c := setupStore(t, "2024-03-13")
	w, err := s.AddVocabularyWord(models.VocabularyWord{Word: "saudade", Definition: "longing"})
	if err != nil {
		t.Fatal(err)
	}
	if s.DueVocabularyCount() != 1 {
		t.Error("new word not due")
	}

	if ok, _ := s.MarkVocabularyReviewed(w.ID, true); !ok {
		t.Fatal("first review rejected")
	}
	if ok, _ := s.MarkVocabularyReviewed(w.ID, true); ok {
		t.Error("second same-day review accepted")
	}
	got, _ := s.GetVocabularyWord(w.ID)
	if got.ReviewCount != 1 || got.IntervalDays != 2 {
		t.Errorf("word = %+v, want one review with interval 2", got)
	}

	c.AddDays(1)
	s.MarkVocabularyReviewed(w.ID, false)
	got, _ = s.GetVocabularyWord(w.ID)
	if got.IntervalDays != 1 || got.ReviewCount != 2 {
		t.Errorf("after failure = %+v", got)
	}
	if ok, _ := s.MarkVocabularyReviewed("missing", true); ok {
		t.Error("review of unknown word accepted")
	}
}

func TestStore_Flashcards(t *testing.T) {
	s, _, _ := setupStore(t, "2024-03-13")
	card, err := s.AddFlashcard(models.Flashcard{Question: "2+2", Answer: "4"})
	if err != nil {
		t.Fatal(err)
	}
	if card.Ease != constants.FlashcardInitialEase || card.Interval != 1 || card.NextReview != "2024-03-13" {
		t.Errorf("new card = %+v", card)
	}
	if len(s.DueFlashcards()) != 1 {
		t.Error("new card not due")
	}

	if ok, err := s.ReviewFlashcard(card.ID, "easy"); !ok || err != nil {
		t.Fatalf("ReviewFlashcard() = %v, %v", ok, err)
	}
	got, _ := s.GetFlashcard(card.ID)
	if got.Interval != 6 || got.Streak != 1 {
		t.Errorf("after easy = interval %d streak %d, want 6 and 1", got.Interval, got.Streak)
	}
	if len(s.DueFlashcards()) != 0 {
		t.Error("reviewed card still due")
	}
	if _, err := s.ReviewFlashcard(card.ID, "perfect"); err == nil {
		t.Error("unknown outcome accepted")
	}
}

func TestStore_PersistenceFailure(t *testing.T) {
	s, kv, _ := setupStore(t, "2024-03-13")
	var notified int
	s.Subscribe(func([]byte) error { notified++; return nil })

	kv.FailWrites(storage.ErrQuotaExceeded)
	h, err := s.AddHabit(models.Habit{Name: "Walk", Weight: 1, DaysOfWeek: everyDay()})
	var perr *apperr.PersistenceError
	if !errors.As(err, &perr) || !errors.Is(err, storage.ErrQuotaExceeded) {
		t.Fatalf("AddHabit() error = %v, want PersistenceError wrapping quota", err)
	}
	if len(s.GetHabits()) != 1 || h.ID == "" {
		t.Error("in-memory document lost the habit after a failed write")
	}
	if !s.Dirty() {
		t.Error("store not marked dirty")
	}
	if notified != 0 {
		t.Errorf("listeners notified %d times after failed write", notified)
	}

	kv.FailWrites(nil)
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if s.Dirty() {
		t.Error("store still dirty after flush")
	}

	reloaded := New(kv)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	if len(reloaded.GetHabits()) != 1 {
		t.Error("flushed habit missing after reload")
	}
}

func TestStore_ImportExport(t *testing.T) {
	s, _, _ := setupStore(t, "2024-03-13")
	s.AddHabit(models.Habit{Name: "Walk", Weight: 3, DaysOfWeek: []int{1, 3}})
	s.AddFinancialEntry(models.FinancialEntry{Type: models.EntryIncome, Amount: 10, Date: "2024-03-01"})
	s.AddQuote(models.Quote{Quote: "Keep going", Author: "me"})
	s.UpdateSettings(func(st *models.Settings) { st.Theme = "dark" })

	exported, err := s.ExportData()
	if err != nil {
		t.Fatal(err)
	}

	other, _, _ := setupStore(t, "2024-03-14")
	if err := other.ImportData(exported); err != nil {
		t.Fatalf("ImportData() error = %v", err)
	}
	a, _ := s.Snapshot()
	b, _ := other.Snapshot()
	a.LastUpdated, b.LastUpdated = "", ""
	if !reflect.DeepEqual(a, b) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", b, a)
	}
}

func TestStore_ImportPartial(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "empty object", input: `{}`},
		{name: "habits only", input: `{"habits":[{"id":"h","name":"Walk","weight":1,"daysOfWeek":[1]}]}`},
		{name: "unknown section", input: `{"aiKeys":["x"],"study":{}}`},
		{name: "array", input: `[]`, wantErr: true},
		{name: "garbage", input: `not json`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := setupStore(t, "2024-03-13")
			s.AddVice(models.Vice{Name: "keep"})
			err := s.ImportData([]byte(tt.input))
			if tt.wantErr {
				if !apperr.IsValidation(err) {
					t.Fatalf("ImportData() error = %v, want validation error", err)
				}
				if len(s.GetVices()) != 1 {
					t.Error("rejected import changed state")
				}
				return
			}
			if err != nil {
				t.Fatalf("ImportData() error = %v", err)
			}
			doc, _ := s.Snapshot()
			if doc.Study.Flashcards == nil || doc.Records.UploadedFiles == nil || doc.Vices == nil {
				t.Error("missing sections not defaulted to empty collections")
			}
			if doc.Settings.Theme != "system" {
				t.Errorf("settings theme = %q, want default", doc.Settings.Theme)
			}
		})
	}
}

func TestStore_Reset(t *testing.T) {
	s, kv, _ := setupStore(t, "2024-03-13")
	s.AddHabit(models.Habit{Name: "Walk", Weight: 1, DaysOfWeek: everyDay()})
	s.SetLastSeenDate("2024-03-12")

	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	if len(s.GetHabits()) != 0 || len(s.AuditLog()) != 0 {
		t.Error("Reset() kept in-memory state")
	}
	for _, key := range []string{constants.DocumentKey, constants.AuditLogKey, constants.LastSeenKey} {
		if _, ok, _ := kv.Get(key); ok {
			t.Errorf("Reset() kept %s", key)
		}
	}
}

func TestStore_LoadCorruptDocument(t *testing.T) {
	kv := storage.NewMemoryStore()
	kv.Set(constants.DocumentKey, "{broken")
	s := New(kv, WithClock(clock.Fixed("2024-03-13")))
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(s.GetHabits()) != 0 {
		t.Error("corrupt document produced data")
	}
	if v, ok, _ := kv.Get(constants.DocumentKey + ".corrupt"); !ok || v != "{broken" {
		t.Error("corrupt document was not kept aside")
	}
}

func TestStore_AuditLog(t *testing.T) {
	s, kv, _ := setupStore(t, "2024-03-13")
	v, _ := s.AddVice(models.Vice{Name: "x"})
	for i := 0; i < constants.AuditLogLimit+5; i++ {
		s.UpdateVice(v.ID, func(v *models.Vice) { v.Note = fmt.Sprint(i) })
	}
	log := s.AuditLog()
	if len(log) != constants.AuditLogLimit {
		t.Fatalf("audit entries = %d, want %d", len(log), constants.AuditLogLimit)
	}
	if last := log[len(log)-1]; last.Action != "update" || last.Kind != "vice" || last.EntityID != v.ID {
		t.Errorf("last entry = %+v", last)
	}

	raw, _, _ := kv.Get(constants.AuditLogKey)
	var persisted []AuditEntry
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil || len(persisted) != constants.AuditLogLimit {
		t.Errorf("persisted audit log = %d entries, err %v", len(persisted), err)
	}
}

func TestStore_Settings(t *testing.T) {
	s, _, _ := setupStore(t, "2024-03-13")
	if err := s.UpdateSettings(func(st *models.Settings) { st.Theme = "neon" }); !apperr.IsValidation(err) {
		t.Errorf("invalid theme error = %v", err)
	}
	if err := s.UpdateSettings(func(st *models.Settings) { st.MinimalMode = true }); err != nil {
		t.Fatal(err)
	}
	if got := s.GetSettings(); !got.MinimalMode || got.Theme != "system" {
		t.Errorf("settings = %+v", got)
	}
}

func TestStore_ArchiveDates(t *testing.T) {
	s, _, _ := setupStore(t, "2024-03-13")
	h, _ := s.AddHabit(models.Habit{Name: "Walk", Weight: 2, DaysOfWeek: everyDay()})
	s.CompleteHabit(h.ID, "2024-03-12", models.StatusCompleted, "")

	n, err := s.ArchiveDates([]string{"2024-03-12"})
	if n != 1 || err != nil {
		t.Fatalf("ArchiveDates() = %d, %v", n, err)
	}
	st, ok := s.GetDailyStats("2024-03-12")
	if !ok || st.Percentage != 100 || st.EarnedPoints != 2 {
		t.Errorf("stats = %+v, %v", st, ok)
	}

	// a later change does not recompute archived stats
	s.CompleteHabit(h.ID, "2024-03-12", models.StatusNotCompleted, "")
	if n, _ := s.ArchiveDates([]string{"2024-03-12"}); n != 0 {
		t.Errorf("re-archive filed %d dates", n)
	}
	if st, _ := s.GetDailyStats("2024-03-12"); st.Percentage != 100 {
		t.Errorf("archived stats recomputed: %+v", st)
	}
}

func TestStore_ArchiveRetryAfterFailedWrite(t *testing.T) {
	s, kv, _ := setupStore(t, "2024-03-13")
	h, _ := s.AddHabit(models.Habit{Name: "Walk", Weight: 2, DaysOfWeek: everyDay()})
	s.CompleteHabit(h.ID, "2024-03-12", models.StatusCompleted, "")

	kv.FailWrites(errors.New("disk full"))
	if _, err := s.ArchiveDates([]string{"2024-03-12"}); !apperr.IsPersistence(err) {
		t.Fatalf("ArchiveDates() error = %v, want PersistenceError", err)
	}

	kv.FailWrites(nil)
	n, err := s.ArchiveDates([]string{"2024-03-12"})
	if err != nil {
		t.Fatalf("retry ArchiveDates() error = %v", err)
	}
	if n != 0 {
		t.Errorf("retry filed %d dates, want 0 since the stats are already in memory", n)
	}
	if s.Dirty() {
		t.Error("store still dirty after a successful retry")
	}

	reloaded := New(kv)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	if st, ok := reloaded.GetDailyStats("2024-03-12"); !ok || st.EarnedPoints != 2 {
		t.Errorf("archived stats after reload = %+v, %v", st, ok)
	}
}

func TestStore_FirstActivityDate(t *testing.T) {
	s, _, _ := setupStore(t, "2024-03-13")
	if got := s.FirstActivityDate(); got != "" {
		t.Errorf("FirstActivityDate() on empty store = %q", got)
	}
	h, _ := s.AddHabit(models.Habit{Name: "Walk", Weight: 1, DaysOfWeek: everyDay()})
	s.CompleteHabit(h.ID, "2024-03-11", models.StatusCompleted, "")
	s.CompleteHabit(h.ID, "2024-03-09", models.StatusJustified, "sick")
	if got := s.FirstActivityDate(); got != "2024-03-09" {
		t.Errorf("FirstActivityDate() = %q, want 2024-03-09", got)
	}
}

func TestStore_ApplyRemote(t *testing.T) {
	s, _, _ := setupStore(t, "2024-03-13")
	s.AddHabit(models.Habit{Name: "Local", Weight: 1, DaysOfWeek: everyDay()})
	var notified int
	s.Subscribe(func([]byte) error { notified++; return nil })

	pulled := []byte(`{"habits":[{"id":"r1","name":"Remote","weight":1,"daysOfWeek":[1]}],"lastUpdated":"2024-03-14T00:00:00Z"}`)

	var seen string
	applied, err := s.ApplyRemote(pulled, func(lastUpdated string) bool {
		seen = lastUpdated
		return false
	})
	if applied || err != nil {
		t.Fatalf("ApplyRemote() refused = %v, %v", applied, err)
	}
	if seen == "" {
		t.Error("accept did not receive the local lastUpdated")
	}
	if habits := s.GetHabits(); len(habits) != 1 || habits[0].Name != "Local" {
		t.Errorf("refused pull changed the document: %+v", habits)
	}

	applied, err = s.ApplyRemote(pulled, func(string) bool { return true })
	if !applied || err != nil {
		t.Fatalf("ApplyRemote() = %v, %v", applied, err)
	}
	if habits := s.GetHabits(); len(habits) != 1 || habits[0].Name != "Remote" {
		t.Errorf("habits after pull = %+v", habits)
	}
	if notified != 0 {
		t.Errorf("pull notified subscribers %d times", notified)
	}
}
