package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/fincoach-dev/fincoach/internal/api"
	"github.com/fincoach-dev/fincoach/internal/flow"
	"github.com/fincoach-dev/fincoach/internal/log"
	"github.com/fincoach-dev/fincoach/internal/tui/views"
)

// Journal and event writes are best effort: a failure is logged and the
// journey continues.

// event stamps e with the current user and stage and appends it.
func (a *App) event(e log.LogEvent) {
	e.Time = time.Now()
	if u, ok := a.model.Session.User(); ok {
		e.UserID = u.ID
		e.Username = u.Username
	}
	if e.Stage == "" {
		e.Stage = a.model.Nav.Current().String()
	}
	if err := a.model.Services.Events.Append(e); err != nil {
		a.model.Services.Logger.Warn("append event", zap.String("event", e.Event), zap.Error(err))
	}
}

func (a *App) recordFailure(stage flow.Stage, err error) {
	a.event(log.LogEvent{
		Event: log.EventRequestFailed,
		Stage: stage.String(),
		Kind:  string(api.KindOf(err)),
		Error: api.UserMessage(err),
	})
}

// openJournal resumes the user's active journal session or starts one.
func (a *App) openJournal() {
	store := a.model.Services.Store
	u, ok := a.model.Session.User()
	if store == nil || !ok {
		return
	}
	if s, err := store.GetLatestActive(u.ID); err == nil && s != nil {
		a.model.JournalID = s.ID
		return
	}
	s, err := store.OpenSession(u.ID, u.Username)
	if err != nil {
		a.model.Services.Logger.Warn("open journal session", zap.Error(err))
		return
	}
	a.model.JournalID = s.ID
}

func (a *App) closeJournal() {
	store := a.model.Services.Store
	if store == nil || a.model.JournalID == "" {
		return
	}
	if err := store.CloseSession(a.model.JournalID); err != nil {
		a.model.Services.Logger.Warn("close journal session", zap.Error(err))
	}
}

func (a *App) journalAnswers(answered []views.AnsweredQuestion) {
	store := a.model.Services.Store
	if store == nil || a.model.JournalID == "" {
		return
	}
	for _, q := range answered {
		if err := store.SaveAnswer(a.model.JournalID, q.Index, q.Question, q.Answer); err != nil {
			a.model.Services.Logger.Warn("journal answer", zap.Int("index", q.Index), zap.Error(err))
		}
	}
}

func (a *App) journalRecommendation(id int, description, status string) {
	store := a.model.Services.Store
	if store == nil || a.model.JournalID == "" {
		return
	}
	if err := store.RecordRecommendation(a.model.JournalID, id, description, status); err != nil {
		a.model.Services.Logger.Warn("journal recommendation", zap.Int("id", id), zap.Error(err))
	}
}
