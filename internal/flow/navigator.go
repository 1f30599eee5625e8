package flow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fincoach-dev/fincoach/internal/api"
	"github.com/fincoach-dev/fincoach/internal/session"
)

// DefaultRedirectDelay is how long the login success notice shows before
// the client moves on to the analysis stage.
const DefaultRedirectDelay = 1500 * time.Millisecond

// Notice messages shown alongside a Decision.
const (
	MsgLoginRequired      = "Please log in to continue."
	MsgCompleteOnboarding = "Please complete your onboarding to see this page."
	MsgLoggedOut          = "You have been logged out."
)

// Level grades a notice for display.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// Notice is a user-visible message attached to a Decision.
type Notice struct {
	Level Level
	Text  string
}

// Ticket identifies the navigation a piece of async work was started for.
// A result carrying a stale ticket must be discarded.
type Ticket struct {
	Stage Stage
	epoch uint64
}

// Redirect is a deferred navigation. It fires only if its ticket is still
// current when the delay has passed.
type Redirect struct {
	Ticket Ticket
	To     Stage
	After  time.Duration
}

// Decision is the outcome of a navigation request.
type Decision struct {
	Stage    Stage
	Notice   Notice
	Ticket   Ticket
	Redirect *Redirect
}

// Navigator is the single owner of the current stage.
type Navigator struct {
	session *session.State
	delay   time.Duration
	logger  *zap.Logger

	mu    sync.Mutex
	stage Stage
	epoch uint64
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithRedirectDelay sets the post-login redirect delay. Zero redirects on
// the next tick.
func WithRedirectDelay(d time.Duration) Option {
	return func(n *Navigator) {
		if d >= 0 {
			n.delay = d
		}
	}
}

// WithLogger attaches a zap logger.
func WithLogger(l *zap.Logger) Option {
	return func(n *Navigator) {
		if l != nil {
			n.logger = l
		}
	}
}

// NewNavigator starts at the landing stage.
func NewNavigator(state *session.State, opts ...Option) *Navigator {
	n := &Navigator{
		session: state,
		delay:   DefaultRedirectDelay,
		logger:  zap.NewNop(),
		stage:   StageLanding,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Session returns the state the navigator gates on.
func (n *Navigator) Session() *session.State {
	return n.session
}

// Current returns the active stage.
func (n *Navigator) Current() Stage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stage
}

// Ticket returns a ticket for work started at the current stage.
func (n *Navigator) Ticket() Ticket {
	n.mu.Lock()
	defer n.mu.Unlock()
	return Ticket{Stage: n.stage, epoch: n.epoch}
}

// Accept reports whether a result started under t may still be applied.
func (n *Navigator) Accept(t Ticket) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return t.epoch == n.epoch && t.Stage == n.stage
}

// Go moves to target. Unauthenticated requests for a gated stage land on
// the login stage with an explanation instead. Every call invalidates
// outstanding tickets, including a pending redirect.
func (n *Navigator) Go(target Stage) Decision {
	n.mu.Lock()
	defer n.mu.Unlock()

	if target.RequiresAuth() && !n.session.IsAuthenticated() {
		n.logger.Debug("gated stage requested while logged out", zap.Stringer("stage", target))
		return n.move(StageLogin, Notice{Level: LevelWarning, Text: MsgLoginRequired})
	}
	return n.move(target, Notice{})
}

// move must be called with n.mu held.
func (n *Navigator) move(to Stage, notice Notice) Decision {
	n.epoch++
	n.stage = to
	return Decision{Stage: to, Notice: notice, Ticket: Ticket{Stage: to, epoch: n.epoch}}
}

// RegisterSucceeded sends a freshly registered user to the login stage.
func (n *Navigator) RegisterSucceeded(username string) Decision {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.move(StageLogin, Notice{
		Level: LevelSuccess,
		Text:  fmt.Sprintf("Registration successful! Welcome %s. Please log in.", username),
	})
}

// LoginSucceeded records u in the session and shows the success notice on
// the current stage. The returned Redirect moves to the analysis stage
// unless the user navigates or logs out first.
func (n *Navigator) LoginSucceeded(u session.User) Decision {
	n.session.Login(u)

	n.mu.Lock()
	defer n.mu.Unlock()
	t := Ticket{Stage: n.stage, epoch: n.epoch}
	n.logger.Info("login succeeded", zap.Int("user_id", u.ID))
	return Decision{
		Stage:    n.stage,
		Notice:   Notice{Level: LevelSuccess, Text: fmt.Sprintf("Login successful! Welcome back, %s", u.Username)},
		Ticket:   t,
		Redirect: &Redirect{Ticket: t, To: StageAnalysis, After: n.delay},
	}
}

// FireRedirect performs r if it is still current. It reports false when the
// redirect was superseded.
func (n *Navigator) FireRedirect(r Redirect) (Decision, bool) {
	if !n.Accept(r.Ticket) {
		n.logger.Debug("dropping superseded redirect", zap.Stringer("to", r.To))
		return Decision{}, false
	}
	return n.Go(r.To), true
}

// WaitRedirect blocks for r.After and then fires r. Cancelling ctx drops it.
func (n *Navigator) WaitRedirect(ctx context.Context, r Redirect) (Decision, bool) {
	timer := time.NewTimer(r.After)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return Decision{}, false
	case <-timer.C:
		return n.FireRedirect(r)
	}
}

// Logout clears the session and returns to the landing stage.
func (n *Navigator) Logout() Decision {
	n.session.Logout()

	n.mu.Lock()
	defer n.mu.Unlock()
	return n.move(StageLanding, Notice{Level: LevelInfo, Text: MsgLoggedOut})
}

// Fail turns err into a user-visible outcome. A NotFound error means the
// user has not finished onboarding and routes to the profile stage; any
// other error keeps the current stage and shows its message verbatim.
func (n *Navigator) Fail(err error) Decision {
	if err == nil {
		n.mu.Lock()
		defer n.mu.Unlock()
		return Decision{Stage: n.stage, Ticket: Ticket{Stage: n.stage, epoch: n.epoch}}
	}

	if api.IsNotFound(err) {
		d := n.Go(StageProfile)
		if d.Stage == StageProfile {
			d.Notice = Notice{Level: LevelWarning, Text: MsgCompleteOnboarding}
		}
		return d
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.logger.Debug("stage error", zap.Stringer("stage", n.stage), zap.Error(err))
	return Decision{
		Stage:  n.stage,
		Notice: Notice{Level: LevelError, Text: "Error: " + api.UserMessage(err)},
		Ticket: Ticket{Stage: n.stage, epoch: n.epoch},
	}
}
