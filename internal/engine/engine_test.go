package engine

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/pspon/babod/internal/models"
	"github.com/pspon/babod/internal/workbook"
)

// fakeWorkbook is an in-memory Provider with per-call error injection and
// read counters, so tests can observe cache behavior and failure paths.
type fakeWorkbook struct {
	settings  workbook.Settings
	days      []string
	templates map[string][]models.ExerciseDef
	weights   map[string]float64
	sessions  []models.CompletionEvent

	templateErr       map[string]error
	templateWeightErr map[string]error
	completionsErr    error
	weightsErr        error
	appendErr         error
	updateWeightErr   error

	templateReads   map[string]int
	completionReads int
}

func newFakeWorkbook() *fakeWorkbook {
	return &fakeWorkbook{
		settings:      workbook.Settings{Timezone: "UTC", WeightUnit: "lbs"},
		days:          []string{"Day 1", "Day 2", "Day 3"},
		templates:     map[string][]models.ExerciseDef{},
		weights:       map[string]float64{},
		templateErr:   map[string]error{},
		templateReads: map[string]int{},
	}
}

func (f *fakeWorkbook) Init() error  { return nil }
func (f *fakeWorkbook) Load() error  { return nil }
func (f *fakeWorkbook) Close() error { return nil }

func (f *fakeWorkbook) GetSettings() (workbook.Settings, error) { return f.settings, nil }
func (f *fakeWorkbook) SaveSettings(s workbook.Settings) error {
	f.settings = s
	return nil
}

func (f *fakeWorkbook) Days() ([]string, error) { return f.days, nil }

func (f *fakeWorkbook) ReadTemplate(day string) ([]models.ExerciseDef, error) {
	f.templateReads[day]++
	if err := f.templateErr[day]; err != nil {
		return nil, err
	}
	return f.templates[day], nil
}

func (f *fakeWorkbook) UpsertTemplateRow(def models.ExerciseDef) error {
	f.templates[def.Day] = append(f.templates[def.Day], def)
	return nil
}

func (f *fakeWorkbook) UpdateTemplateWeight(exercise, day string, weight float64) (bool, error) {
	if f.templateWeightErr != nil {
		if err := f.templateWeightErr[day]; err != nil {
			return false, err
		}
	}
	defs := f.templates[day]
	for i := range defs {
		if defs[i].Name == exercise {
			defs[i].Weight = models.FormatWeight(weight)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeWorkbook) ReadWeights() (map[string]float64, error) {
	if f.weightsErr != nil {
		return nil, f.weightsErr
	}
	out := make(map[string]float64, len(f.weights))
	for k, v := range f.weights {
		out[k] = v
	}
	return out, nil
}

func (f *fakeWorkbook) UpdateWeight(exercise string, weight float64) error {
	if f.updateWeightErr != nil {
		return f.updateWeightErr
	}
	f.weights[exercise] = weight
	return nil
}

func (f *fakeWorkbook) AppendCompletion(event models.CompletionEvent) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.sessions = append(f.sessions, event)
	return nil
}

func (f *fakeWorkbook) ReadCompletions(date string) ([]models.CompletionEvent, error) {
	f.completionReads++
	if f.completionsErr != nil {
		return nil, f.completionsErr
	}
	if date == "" {
		return append([]models.CompletionEvent(nil), f.sessions...), nil
	}
	var out []models.CompletionEvent
	for _, ev := range f.sessions {
		if ev.Date() == date {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeWorkbook) GetConfigPath() string { return "fake" }

func seedTemplates(f *fakeWorkbook) {
	f.templates["Day 1"] = []models.ExerciseDef{
		{Day: "Day 1", Position: 0, Name: "Squat", Sets: "3", Reps: "5", Weight: "135", Description: "High bar"},
		{Day: "Day 1", Position: 1, Name: "Pull-up", Sets: "3", Reps: "8", Weight: "BW"},
	}
	f.templates["Day 2"] = []models.ExerciseDef{
		{Day: "Day 2", Position: 0, Name: "Bench", Sets: "3", Reps: "5", Weight: "95"},
		{Day: "Day 2", Position: 1, Name: "Squat", Sets: "3", Reps: "8", Weight: "135"},
	}
	f.templates["Day 3"] = []models.ExerciseDef{
		{Day: "Day 3", Position: 0, Name: "Deadlift", Sets: "1", Reps: "5", Weight: "185"},
	}
}

type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestEngine(f *fakeWorkbook) (*Engine, *testClock) {
	clock := &testClock{t: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)}
	return NewWithClock(f, clock.now), clock
}

func TestBuildViewMergesStores(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	f.weights["Squat"] = 145
	eng, clock := newTestEngine(f)
	sess := eng.NewSession()

	f.sessions = append(f.sessions, models.CompletionEvent{
		Timestamp: clock.t.Format("2006-01-02 15:04:05"),
		Exercise:  "Bench",
		Completed: true,
	})

	view, err := eng.BuildView(sess, nil)
	if err != nil {
		t.Fatalf("BuildView: %v", err)
	}

	if len(view.Entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(view.Entries))
	}

	byKey := map[string]models.ViewEntry{}
	for _, e := range view.Entries {
		byKey[e.Day+"/"+e.Name] = e
	}

	if e := byKey["Day 1/Squat"]; e.EffectiveWeight != 145 {
		t.Errorf("expected override weight 145 for Squat, got %v", e.EffectiveWeight)
	}
	if e := byKey["Day 2/Squat"]; e.EffectiveWeight != 145 {
		t.Errorf("expected override to apply across days, got %v", e.EffectiveWeight)
	}
	if e := byKey["Day 2/Bench"]; !e.CompletedToday {
		t.Errorf("expected Bench completed today")
	}
	if e := byKey["Day 1/Squat"]; e.CompletedToday {
		t.Errorf("expected Squat not completed today")
	}
	if e := byKey["Day 1/Pull-up"]; !e.Bodyweight {
		t.Errorf("expected Pull-up flagged bodyweight")
	}
	if e := byKey["Day 3/Deadlift"]; e.Bodyweight {
		t.Errorf("expected Deadlift not flagged bodyweight")
	}
}

func TestBuildViewSeedsMissingOverrides(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	eng, _ := newTestEngine(f)
	sess := eng.NewSession()

	view, err := eng.BuildView(sess, nil)
	if err != nil {
		t.Fatalf("BuildView: %v", err)
	}

	if w, ok := f.weights["Deadlift"]; !ok || w != 185 {
		t.Errorf("expected Deadlift seeded to 185, got %v (present=%v)", w, ok)
	}
	if w, ok := f.weights["Pull-up"]; !ok || w != 0 {
		t.Errorf("expected bodyweight exercise seeded to 0, got %v (present=%v)", w, ok)
	}

	for _, e := range view.Entries {
		if e.Name == "Pull-up" && e.EffectiveWeight != 0 {
			t.Errorf("expected effective weight 0 for bodyweight exercise, got %v", e.EffectiveWeight)
		}
	}
}

func TestBuildViewSubsetOfDays(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	eng, _ := newTestEngine(f)
	sess := eng.NewSession()

	view, err := eng.BuildView(sess, []string{"Day 3"})
	if err != nil {
		t.Fatalf("BuildView: %v", err)
	}
	if len(view.Entries) != 1 || view.Entries[0].Name != "Deadlift" {
		t.Errorf("expected only Day 3 entries, got %+v", view.Entries)
	}
}

func TestBuildViewTemplateFailureSurfaces(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	f.templateErr["Day 2"] = errors.New("backend down")
	eng, _ := newTestEngine(f)
	sess := eng.NewSession()

	_, err := eng.BuildView(sess, nil)
	var tmplErr *TemplateUnavailableError
	if !errors.As(err, &tmplErr) {
		t.Fatalf("expected TemplateUnavailableError, got %v", err)
	}
	if tmplErr.Day != "Day 2" {
		t.Errorf("expected failing day reported, got %q", tmplErr.Day)
	}
}

func TestBuildViewLogFailureSurfaces(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	f.completionsErr = errors.New("backend down")
	eng, _ := newTestEngine(f)
	sess := eng.NewSession()

	_, err := eng.BuildView(sess, nil)
	var logErr *LogUnavailableError
	if !errors.As(err, &logErr) {
		t.Fatalf("expected LogUnavailableError, got %v", err)
	}
}

func TestCompleteAppendsAndInvalidates(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	f.weights["Squat"] = 150
	eng, _ := newTestEngine(f)
	sess := eng.NewSession()

	event, err := eng.Complete(sess, "Day 1", "Squat")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if event.Weight != 150 {
		t.Errorf("expected event to snapshot override 150, got %v", event.Weight)
	}
	if !event.Completed {
		t.Errorf("expected event marked completed")
	}
	if len(f.sessions) != 1 {
		t.Fatalf("expected 1 log row, got %d", len(f.sessions))
	}

	// The same session observes its own write immediately.
	view, err := eng.BuildView(sess, []string{"Day 1"})
	if err != nil {
		t.Fatalf("BuildView: %v", err)
	}
	for _, e := range view.Entries {
		if e.Name == "Squat" && !e.CompletedToday {
			t.Errorf("expected completion visible in the same session")
		}
	}
}

func TestCompleteTwiceSameDay(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	eng, _ := newTestEngine(f)
	sess := eng.NewSession()

	if _, err := eng.Complete(sess, "Day 1", "Squat"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	_, err := eng.Complete(sess, "Day 1", "Squat")
	var dupErr *AlreadyCompletedError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected AlreadyCompletedError, got %v", err)
	}
	if len(f.sessions) != 1 {
		t.Errorf("expected no second log row, got %d", len(f.sessions))
	}
}

func TestCompleteResetsNextDay(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	eng, clock := newTestEngine(f)
	sess := eng.NewSession()

	if _, err := eng.Complete(sess, "Day 1", "Squat"); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	clock.advance(24 * time.Hour)
	if _, err := eng.Complete(sess, "Day 1", "Squat"); err != nil {
		t.Fatalf("expected completion allowed on the next civil day, got %v", err)
	}
	if len(f.sessions) != 2 {
		t.Errorf("expected 2 log rows across two days, got %d", len(f.sessions))
	}
}

func TestCompleteUnknownExercise(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	eng, _ := newTestEngine(f)
	sess := eng.NewSession()

	_, err := eng.Complete(sess, "Day 1", "Bench")
	var unkErr *UnknownExerciseError
	if !errors.As(err, &unkErr) {
		t.Fatalf("expected UnknownExerciseError, got %v", err)
	}
	if unkErr.Day != "Day 1" || unkErr.Exercise != "Bench" {
		t.Errorf("unexpected error details: %+v", unkErr)
	}
	if len(f.sessions) != 0 {
		t.Errorf("expected no log row, got %d", len(f.sessions))
	}
}

func TestCompleteSeedsWeightWhenUnseeded(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	eng, _ := newTestEngine(f)
	sess := eng.NewSession()

	event, err := eng.Complete(sess, "Day 3", "Deadlift")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if event.Weight != 185 {
		t.Errorf("expected template fallback weight 185, got %v", event.Weight)
	}
	if w := f.weights["Deadlift"]; w != 185 {
		t.Errorf("expected fallback persisted as seed, got %v", w)
	}
}

func TestCompleteAppendFailure(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	f.appendErr = errors.New("write rejected")
	eng, _ := newTestEngine(f)
	sess := eng.NewSession()

	_, err := eng.Complete(sess, "Day 1", "Squat")
	var wErr *WriteFailedError
	if !errors.As(err, &wErr) {
		t.Fatalf("expected WriteFailedError, got %v", err)
	}
}

func TestSetWeightPropagates(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	eng, _ := newTestEngine(f)
	sess := eng.NewSession()

	if err := eng.SetWeight(sess, "Squat", 155); err != nil {
		t.Fatalf("SetWeight: %v", err)
	}

	if f.weights["Squat"] != 155 {
		t.Errorf("expected override 155, got %v", f.weights["Squat"])
	}
	for _, day := range []string{"Day 1", "Day 2"} {
		for _, def := range f.templates[day] {
			if def.Name == "Squat" && def.Weight != "155" {
				t.Errorf("expected %s template cell updated, got %q", day, def.Weight)
			}
		}
	}
	// Day 3 has no Squat row and must be left alone.
	if f.templates["Day 3"][0].Weight != "185" {
		t.Errorf("expected Day 3 untouched, got %q", f.templates["Day 3"][0].Weight)
	}

	view, err := eng.BuildView(sess, nil)
	if err != nil {
		t.Fatalf("BuildView: %v", err)
	}
	for _, e := range view.Entries {
		if e.Name == "Squat" && e.EffectiveWeight != 155 {
			t.Errorf("expected view to reflect new weight on %s, got %v", e.Day, e.EffectiveWeight)
		}
	}
}

func TestSetWeightTwiceSameValue(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	eng, _ := newTestEngine(f)
	sess := eng.NewSession()

	if err := eng.SetWeight(sess, "Squat", 155); err != nil {
		t.Fatalf("SetWeight: %v", err)
	}
	snapshotWeights := f.weights["Squat"]
	snapshotDay1 := append([]models.ExerciseDef(nil), f.templates["Day 1"]...)
	snapshotDay2 := append([]models.ExerciseDef(nil), f.templates["Day 2"]...)

	if err := eng.SetWeight(sess, "Squat", 155); err != nil {
		t.Fatalf("second SetWeight: %v", err)
	}
	if f.weights["Squat"] != snapshotWeights {
		t.Errorf("override changed on repeat: %v", f.weights["Squat"])
	}
	for i, def := range f.templates["Day 1"] {
		if def != snapshotDay1[i] {
			t.Errorf("Day 1 row %d changed on repeat: %+v", i, def)
		}
	}
	for i, def := range f.templates["Day 2"] {
		if def != snapshotDay2[i] {
			t.Errorf("Day 2 row %d changed on repeat: %+v", i, def)
		}
	}
}

func TestCompletedEventKeepsRecordedWeight(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	f.weights["Squat"] = 135
	eng, _ := newTestEngine(f)
	sess := eng.NewSession()

	event, err := eng.Complete(sess, "Day 1", "Squat")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if event.Weight != 135 {
		t.Fatalf("expected recorded weight 135, got %v", event.Weight)
	}

	if err := eng.SetWeight(sess, "Squat", 155); err != nil {
		t.Fatalf("SetWeight: %v", err)
	}

	events, err := eng.CompletionsOn(eng.Today())
	if err != nil {
		t.Fatalf("CompletionsOn: %v", err)
	}
	if len(events) != 1 || events[0].Weight != 135 {
		t.Errorf("expected historical event to keep weight 135, got %+v", events)
	}
}

func TestSetWeightOverloadsBodyweightExercise(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	eng, _ := newTestEngine(f)
	sess := eng.NewSession()

	// Seed overrides, then load the pull-up with 10.
	if _, err := eng.BuildView(sess, nil); err != nil {
		t.Fatalf("BuildView: %v", err)
	}
	if err := eng.SetWeight(sess, "Pull-up", 10); err != nil {
		t.Fatalf("SetWeight: %v", err)
	}

	view, err := eng.BuildView(sess, []string{"Day 1"})
	if err != nil {
		t.Fatalf("BuildView: %v", err)
	}
	for _, e := range view.Entries {
		if e.Name == "Pull-up" && e.EffectiveWeight != 10 {
			t.Errorf("expected effective weight 10, got %v", e.EffectiveWeight)
		}
	}
}

func TestSetWeightInvalid(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	eng, _ := newTestEngine(f)
	sess := eng.NewSession()

	for _, w := range []float64{-1, math.NaN(), math.Inf(1)} {
		err := eng.SetWeight(sess, "Squat", w)
		var invErr *InvalidWeightError
		if !errors.As(err, &invErr) {
			t.Errorf("expected InvalidWeightError for %v, got %v", w, err)
		}
	}
	if _, ok := f.weights["Squat"]; ok {
		t.Errorf("expected no write on invalid weight")
	}
}

func TestSetWeightZeroAllowed(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	eng, _ := newTestEngine(f)
	sess := eng.NewSession()

	if err := eng.SetWeight(sess, "Pull-up", 0); err != nil {
		t.Fatalf("SetWeight(0): %v", err)
	}
	if f.weights["Pull-up"] != 0 {
		t.Errorf("expected zero override recorded")
	}
}

func TestSetWeightPartialPropagation(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	f.templateWeightErr = map[string]error{"Day 2": errors.New("cell write failed")}
	eng, _ := newTestEngine(f)
	sess := eng.NewSession()

	err := eng.SetWeight(sess, "Squat", 155)
	var wErr *WriteFailedError
	if !errors.As(err, &wErr) {
		t.Fatalf("expected WriteFailedError, got %v", err)
	}
	if len(wErr.DaysUpdated) != 1 || wErr.DaysUpdated[0] != "Day 1" {
		t.Errorf("expected Day 1 reported as updated, got %v", wErr.DaysUpdated)
	}
	// Override write landed before propagation started.
	if f.weights["Squat"] != 155 {
		t.Errorf("expected override committed, got %v", f.weights["Squat"])
	}

	// Retrying the whole operation after the fault clears is safe.
	f.templateWeightErr = nil
	if err := eng.SetWeight(sess, "Squat", 155); err != nil {
		t.Fatalf("retry SetWeight: %v", err)
	}
	for _, def := range f.templates["Day 2"] {
		if def.Name == "Squat" && def.Weight != "155" {
			t.Errorf("expected retry to finish propagation, got %q", def.Weight)
		}
	}
}

func TestTemplateCacheWithinTTL(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	eng, clock := newTestEngine(f)
	sess := eng.NewSession()

	if _, err := eng.BuildView(sess, nil); err != nil {
		t.Fatalf("BuildView: %v", err)
	}
	clock.advance(30 * time.Second)
	if _, err := eng.BuildView(sess, nil); err != nil {
		t.Fatalf("BuildView: %v", err)
	}

	if f.templateReads["Day 1"] != 1 {
		t.Errorf("expected 1 template read within TTL, got %d", f.templateReads["Day 1"])
	}
	// Completions TTL is 60s but the second view is only 30s in, still cached.
	if f.completionReads != 1 {
		t.Errorf("expected 1 completion read within TTL, got %d", f.completionReads)
	}
}

func TestCompletionCacheExpires(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	eng, clock := newTestEngine(f)
	sess := eng.NewSession()

	if _, err := eng.BuildView(sess, nil); err != nil {
		t.Fatalf("BuildView: %v", err)
	}
	clock.advance(61 * time.Second)
	if _, err := eng.BuildView(sess, nil); err != nil {
		t.Fatalf("BuildView: %v", err)
	}

	if f.completionReads != 2 {
		t.Errorf("expected completion reload after TTL, got %d reads", f.completionReads)
	}
	if f.templateReads["Day 1"] != 1 {
		t.Errorf("expected template still cached at 61s, got %d reads", f.templateReads["Day 1"])
	}
}

func TestCrossSessionStaleness(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	eng, clock := newTestEngine(f)
	sessA := eng.NewSession()
	sessB := eng.NewSession()

	// A caches an empty completion log.
	if _, err := eng.BuildView(sessA, nil); err != nil {
		t.Fatalf("BuildView A: %v", err)
	}

	// B completes Squat; B sees it immediately.
	if _, err := eng.Complete(sessB, "Day 1", "Squat"); err != nil {
		t.Fatalf("Complete B: %v", err)
	}
	viewB, err := eng.BuildView(sessB, []string{"Day 1"})
	if err != nil {
		t.Fatalf("BuildView B: %v", err)
	}
	if !entryCompleted(viewB, "Squat") {
		t.Errorf("expected B to see its own completion")
	}

	// A is within its completion TTL and still sees the stale snapshot.
	clock.advance(30 * time.Second)
	viewA, err := eng.BuildView(sessA, []string{"Day 1"})
	if err != nil {
		t.Fatalf("BuildView A: %v", err)
	}
	if entryCompleted(viewA, "Squat") {
		t.Errorf("expected A's view stale within TTL")
	}

	// After the TTL lapses, A converges.
	clock.advance(31 * time.Second)
	viewA, err = eng.BuildView(sessA, []string{"Day 1"})
	if err != nil {
		t.Fatalf("BuildView A: %v", err)
	}
	if !entryCompleted(viewA, "Squat") {
		t.Errorf("expected A to converge after TTL")
	}
}

func TestRefreshDropsStaleReads(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	eng, _ := newTestEngine(f)
	sessA := eng.NewSession()
	sessB := eng.NewSession()

	if _, err := eng.BuildView(sessA, nil); err != nil {
		t.Fatalf("BuildView A: %v", err)
	}
	if _, err := eng.Complete(sessB, "Day 1", "Squat"); err != nil {
		t.Fatalf("Complete B: %v", err)
	}

	sessA.Refresh()
	viewA, err := eng.BuildView(sessA, []string{"Day 1"})
	if err != nil {
		t.Fatalf("BuildView A: %v", err)
	}
	if !entryCompleted(viewA, "Squat") {
		t.Errorf("expected refreshed session to see the foreign write")
	}
}

func entryCompleted(view models.WorkoutView, name string) bool {
	for _, e := range view.Entries {
		if e.Name == name {
			return e.CompletedToday
		}
	}
	return false
}

func TestDuplicateLogRowsCollapse(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	eng, clock := newTestEngine(f)
	sess := eng.NewSession()

	// Two racing sessions each appended a Squat row for today.
	today := clock.t.Format("2006-01-02")
	f.sessions = []models.CompletionEvent{
		{Timestamp: today + " 09:00:00", Exercise: "Squat", Weight: 135, Completed: true},
		{Timestamp: today + " 09:00:03", Exercise: "Squat", Weight: 135, Completed: true},
		{Timestamp: today + " 09:05:00", Exercise: "Bench", Weight: 95, Completed: true},
	}

	events, err := eng.CompletionsOn(today)
	if err != nil {
		t.Fatalf("CompletionsOn: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected duplicates collapsed to 2 events, got %d", len(events))
	}
	if events[0].Exercise != "Squat" || events[0].Timestamp != today+" 09:00:00" {
		t.Errorf("expected earliest Squat row kept, got %+v", events[0])
	}
	if events[1].Exercise != "Bench" {
		t.Errorf("expected Bench second, got %+v", events[1])
	}

	// The view counts Squat once.
	view, err := eng.BuildView(sess, []string{"Day 1"})
	if err != nil {
		t.Fatalf("BuildView: %v", err)
	}
	if view.CompletedCount() != 1 {
		t.Errorf("expected 1 completed entry under Day 1, got %d", view.CompletedCount())
	}
}

func TestCompletionsOnLogFailure(t *testing.T) {
	f := newFakeWorkbook()
	f.completionsErr = errors.New("backend down")
	eng, _ := newTestEngine(f)

	_, err := eng.CompletionsOn("2025-06-02")
	var logErr *LogUnavailableError
	if !errors.As(err, &logErr) {
		t.Fatalf("expected LogUnavailableError, got %v", err)
	}
}

func TestTodayUsesWorkbookTimezone(t *testing.T) {
	f := newFakeWorkbook()
	f.settings.Timezone = "America/New_York"
	// 2025-06-02 01:30 UTC is still 2025-06-01 in New York.
	clock := &testClock{t: time.Date(2025, 6, 2, 1, 30, 0, 0, time.UTC)}
	eng := NewWithClock(f, clock.now)

	if got := eng.Today(); got != "2025-06-01" {
		t.Errorf("expected civil date in workbook timezone, got %q", got)
	}
}

func TestCompletionNearMidnight(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	f.settings.Timezone = "America/New_York"
	// 23:59:30 local on June 1.
	clock := &testClock{t: time.Date(2025, 6, 2, 3, 59, 30, 0, time.UTC)}
	eng := NewWithClock(f, clock.now)
	sess := eng.NewSession()

	if _, err := eng.Complete(sess, "Day 1", "Squat"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got := f.sessions[0].Date(); got != "2025-06-01" {
		t.Errorf("expected event dated June 1 local, got %q", got)
	}

	// One minute later it is June 2 local and the guard resets.
	clock.advance(time.Minute)
	if _, err := eng.Complete(sess, "Day 1", "Squat"); err != nil {
		t.Fatalf("expected completion allowed after local midnight, got %v", err)
	}
	if got := f.sessions[1].Date(); got != "2025-06-02" {
		t.Errorf("expected second event dated June 2 local, got %q", got)
	}
}

func TestViewEntriesPreserveTemplateOrder(t *testing.T) {
	f := newFakeWorkbook()
	seedTemplates(f)
	eng, _ := newTestEngine(f)
	sess := eng.NewSession()

	view, err := eng.BuildView(sess, nil)
	if err != nil {
		t.Fatalf("BuildView: %v", err)
	}

	var got []string
	for _, e := range view.Entries {
		got = append(got, fmt.Sprintf("%s/%s", e.Day, e.Name))
	}
	want := []string{"Day 1/Squat", "Day 1/Pull-up", "Day 2/Bench", "Day 2/Squat", "Day 3/Deadlift"}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
