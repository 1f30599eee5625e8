package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fincoach-dev/fincoach/internal/api"
	"github.com/fincoach-dev/fincoach/internal/log"
	"github.com/fincoach-dev/fincoach/internal/session"
)

const journalFile = "journal.db"

var credentials struct {
	email    string
	password string
}

func newLogger(level string) (*zap.Logger, error) {
	logger, err := log.NewZap(log.ZapOptions{Dir: env.dir, Level: level, Console: verbose})
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger, nil
}

func newClient() *api.Client {
	return api.NewClient(env.cfg.API.BaseURL,
		api.WithTimeout(env.cfg.Timeout()),
		api.WithLogger(env.logger))
}

// openEvents returns the journey event log, or nil when it cannot be opened.
func openEvents() *log.Logger {
	events, err := log.NewLogger(env.dir)
	if err != nil {
		env.logger.Warn("event log unavailable", zap.Error(err))
		return nil
	}
	return events
}

// openStore opens the journal when enabled. A nil store disables journaling.
func openStore() *session.Store {
	if !env.cfg.Journal.Enabled {
		return nil
	}
	store, err := session.NewStore(filepath.Join(env.dir, journalFile))
	if err != nil {
		env.logger.Warn("journal unavailable", zap.Error(err))
		return nil
	}
	return store
}

// login authenticates with flag or environment credentials.
func login(ctx context.Context, client *api.Client) (session.User, error) {
	email := firstNonEmpty(credentials.email, os.Getenv("FINCOACH_EMAIL"))
	password := firstNonEmpty(credentials.password, os.Getenv("FINCOACH_PASSWORD"))
	if email == "" || password == "" {
		return session.User{}, errors.New("credentials required: pass --email and --password or set FINCOACH_EMAIL and FINCOACH_PASSWORD")
	}

	resp, err := client.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return session.User{}, fmt.Errorf("login failed: %s", api.UserMessage(err))
	}
	return session.User{ID: resp.ID, Username: resp.Username, Email: resp.Email}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// record appends a journey event for u, ignoring failures.
func record(events *log.Logger, u session.User, e log.LogEvent) {
	e.Time = time.Now()
	e.UserID = u.ID
	e.Username = u.Username
	if err := events.Append(e); err != nil {
		env.logger.Debug("append event", zap.String("event", e.Event), zap.Error(err))
	}
}

// journalSession returns the active journal session for u, opening one if
// needed. It returns "" when journaling is off.
func journalSession(store *session.Store, u session.User) string {
	if store == nil {
		return ""
	}
	if s, err := store.GetLatestActive(u.ID); err == nil && s != nil {
		return s.ID
	}
	s, err := store.OpenSession(u.ID, u.Username)
	if err != nil {
		env.logger.Warn("open journal session", zap.Error(err))
		return ""
	}
	return s.ID
}

// explain turns a backend error into command output. NotFound becomes the
// onboarding hint.
func explain(err error) error {
	if api.IsNotFound(err) {
		return errors.New("no results yet: complete onboarding first with `fincoach onboard`")
	}
	return fmt.Errorf("error: %s", api.UserMessage(err))
}
