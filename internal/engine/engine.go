// Package engine reconciles the three workbook stores - day templates, the
// append-only completion log, and the per-exercise weight overrides - into
// one coherent WorkoutView, and owns the two mutating operations with their
// idempotency guarantees. It performs no retries and never degrades a failed
// read into empty data.
package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/pspon/babod/internal/constants"
	"github.com/pspon/babod/internal/models"
	"github.com/pspon/babod/internal/workbook"
)

type Engine struct {
	wb  workbook.Provider
	now func() time.Time
	loc *time.Location
}

func New(wb workbook.Provider) *Engine {
	return NewWithClock(wb, time.Now)
}

// NewWithClock is New with an injectable clock, used by tests to pin "today".
func NewWithClock(wb workbook.Provider, now func() time.Time) *Engine {
	return &Engine{wb: wb, now: now}
}

// location resolves the civil timezone from workbook settings, falling back
// to the default. Resolved once per engine.
func (e *Engine) location() *time.Location {
	if e.loc != nil {
		return e.loc
	}
	name := constants.DefaultTimezone
	if settings, err := e.wb.GetSettings(); err == nil && settings.Timezone != "" {
		name = settings.Timezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		loc = time.UTC
	}
	e.loc = loc
	return loc
}

// Today returns the current civil date in the workbook's timezone.
func (e *Engine) Today() string {
	return e.now().In(e.location()).Format(constants.DateLayout)
}

// BuildView materializes the merged state of every exercise under the given
// days: effective weight and whether it is completed today, in template
// order. A nil days slice means the workbook's configured day order. The
// result is a full snapshot as of the moment the underlying reads were
// taken; reads are not transactional across the three stores.
func (e *Engine) BuildView(sess *Session, days []string) (models.WorkoutView, error) {
	if days == nil {
		configured, err := e.wb.Days()
		if err != nil {
			return models.WorkoutView{}, fmt.Errorf("read day list: %w", err)
		}
		days = configured
	}

	completed, err := e.completedToday(sess)
	if err != nil {
		return models.WorkoutView{}, err
	}

	overrides, err := e.wb.ReadWeights()
	if err != nil {
		return models.WorkoutView{}, fmt.Errorf("read weight overrides: %w", err)
	}

	view := models.WorkoutView{GeneratedAt: e.now().In(e.location())}
	for _, day := range days {
		defs, err := e.readTemplate(sess, day)
		if err != nil {
			return models.WorkoutView{}, err
		}

		for _, def := range defs {
			weight, ok := overrides[def.Name]
			if !ok {
				// First observation of this exercise: seed its override
				// from the template's weight field, persisted so the store
				// stays the single source of truth.
				weight, _ = models.ParseWeight(def.Weight)
				if err := e.wb.UpdateWeight(def.Name, weight); err != nil {
					return models.WorkoutView{}, &WriteFailedError{Op: "seed weight override", Err: err}
				}
				overrides[def.Name] = weight
			}

			_, numeric := models.ParseWeight(def.Weight)
			_, done := completed[def.Name]
			view.Entries = append(view.Entries, models.ViewEntry{
				Day:             day,
				Name:            def.Name,
				Sets:            def.Sets,
				Reps:            def.Reps,
				EffectiveWeight: weight,
				WeightLabel:     def.Weight,
				Bodyweight:      !numeric,
				CompletedToday:  done,
				Description:     def.Description,
			})
		}
	}

	return view, nil
}

// Complete records a completion of exercise under day for today and returns
// the appended event. The weight on the event is a snapshot of the current
// override value. The session's today-completions cache entry is invalidated
// so the caller's next BuildView observes the write immediately.
func (e *Engine) Complete(sess *Session, day, exercise string) (models.CompletionEvent, error) {
	defs, err := e.readTemplate(sess, day)
	if err != nil {
		return models.CompletionEvent{}, err
	}

	var def *models.ExerciseDef
	for i := range defs {
		if defs[i].Name == exercise {
			def = &defs[i]
			break
		}
	}
	if def == nil {
		return models.CompletionEvent{}, &UnknownExerciseError{Day: day, Exercise: exercise}
	}

	// Engine-side guard: the UI disables completed controls, but the state
	// it rendered from may be stale.
	completed, err := e.completedToday(sess)
	if err != nil {
		return models.CompletionEvent{}, err
	}
	if _, done := completed[exercise]; done {
		return models.CompletionEvent{}, &AlreadyCompletedError{Exercise: exercise}
	}

	weight, err := e.currentWeight(*def)
	if err != nil {
		return models.CompletionEvent{}, err
	}

	event := models.CompletionEvent{
		Timestamp:   e.now().In(e.location()).Format(constants.TimestampLayout),
		Exercise:    exercise,
		Sets:        def.Sets,
		Reps:        def.Reps,
		Weight:      weight,
		Completed:   true,
		Description: def.Description,
	}

	if err := e.wb.AppendCompletion(event); err != nil {
		return models.CompletionEvent{}, &WriteFailedError{Op: "append completion", Err: err}
	}

	sess.completions.Invalidate(event.Date())
	return event, nil
}

// SetWeight makes w the authoritative target weight for exercise and
// propagates it into every day template that lists the exercise; days
// without the exercise are skipped. Writes are last-write-wins. A failure
// mid-propagation reports which days were already updated; re-running the
// whole operation is safe.
func (e *Engine) SetWeight(sess *Session, exercise string, w float64) error {
	if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return &InvalidWeightError{Value: w}
	}

	if err := e.wb.UpdateWeight(exercise, w); err != nil {
		return &WriteFailedError{Op: "update weight override", Err: err}
	}

	days, err := e.wb.Days()
	if err != nil {
		return fmt.Errorf("read day list: %w", err)
	}

	var updated []string
	for _, day := range days {
		changed, err := e.wb.UpdateTemplateWeight(exercise, day, w)
		if err != nil {
			return &WriteFailedError{Op: "propagate weight to " + day, DaysUpdated: updated, Err: err}
		}
		if changed {
			updated = append(updated, day)
			sess.templates.Invalidate(day)
		}
	}

	return nil
}

// CompletionsOn returns the deduplicated completion events whose civil date
// equals date, ordered by timestamp. Duplicate rows for one exercise
// (possible under cross-session races) collapse to the earliest event.
func (e *Engine) CompletionsOn(date string) ([]models.CompletionEvent, error) {
	events, err := e.wb.ReadCompletions(date)
	if err != nil {
		return nil, &LogUnavailableError{Err: err}
	}

	deduped := dedupEvents(events)
	out := make([]models.CompletionEvent, 0, len(deduped))
	for _, ev := range events {
		if deduped[ev.Exercise].Timestamp == ev.Timestamp {
			out = append(out, ev)
			delete(deduped, ev.Exercise)
		}
	}
	return out, nil
}

func (e *Engine) readTemplate(sess *Session, day string) ([]models.ExerciseDef, error) {
	defs, err := sess.templates.Get(day, func() ([]models.ExerciseDef, error) {
		return e.wb.ReadTemplate(day)
	})
	if err != nil {
		return nil, &TemplateUnavailableError{Day: day, Err: err}
	}
	return defs, nil
}

func (e *Engine) completedToday(sess *Session) (map[string]models.CompletionEvent, error) {
	today := e.Today()
	events, err := sess.completions.Get(today, func() ([]models.CompletionEvent, error) {
		return e.wb.ReadCompletions(today)
	})
	if err != nil {
		return nil, &LogUnavailableError{Err: err}
	}
	return dedupEvents(events), nil
}

// currentWeight returns the override for an exercise, falling back to the
// template's literal weight field when no override has ever been seeded, in
// which case the fallback is persisted as the seed.
func (e *Engine) currentWeight(def models.ExerciseDef) (float64, error) {
	overrides, err := e.wb.ReadWeights()
	if err != nil {
		return 0, fmt.Errorf("read weight overrides: %w", err)
	}
	if w, ok := overrides[def.Name]; ok {
		return w, nil
	}

	w, _ := models.ParseWeight(def.Weight)
	if err := e.wb.UpdateWeight(def.Name, w); err != nil {
		return 0, &WriteFailedError{Op: "seed weight override", Err: err}
	}
	return w, nil
}

// dedupEvents collapses multiple same-day completions of one exercise into
// the earliest event, so duplicate rows written by racing sessions never
// resurface as duplicate state.
func dedupEvents(events []models.CompletionEvent) map[string]models.CompletionEvent {
	out := make(map[string]models.CompletionEvent, len(events))
	for _, ev := range events {
		prev, ok := out[ev.Exercise]
		if !ok || ev.Timestamp < prev.Timestamp {
			out[ev.Exercise] = ev
		}
	}
	return out
}
