package engine

import (
	"github.com/google/uuid"

	"github.com/pspon/babod/internal/cache"
	"github.com/pspon/babod/internal/constants"
	"github.com/pspon/babod/internal/models"
)

// Session is the explicit per-session context: the two TTL caches that front
// the workbook reads, nothing more. Durable state (templates, weights,
// completions) lives only in the workbook; two sessions against one workbook
// share every write but not each other's caches, so a foreign session may
// observe stale reads for up to one cache lifetime.
type Session struct {
	ID          string
	templates   *cache.Cache[string, []models.ExerciseDef]
	completions *cache.Cache[string, []models.CompletionEvent]
}

// NewSession creates a session with empty caches bound to the engine clock.
func (e *Engine) NewSession() *Session {
	return &Session{
		ID:          uuid.New().String(),
		templates:   cache.NewWithClock[string, []models.ExerciseDef](constants.TemplateCacheTTL, e.now),
		completions: cache.NewWithClock[string, []models.CompletionEvent](constants.CompletionCacheTTL, e.now),
	}
}

// Refresh drops every cached read so the next view reflects the workbook,
// including writes made by other sessions.
func (s *Session) Refresh() {
	s.templates.Clear()
	s.completions.Clear()
}
