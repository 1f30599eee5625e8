package flow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincoach-dev/fincoach/internal/api"
	"github.com/fincoach-dev/fincoach/internal/session"
)

func TestRequiresAuth(t *testing.T) {
	open := map[Stage]bool{StageLanding: true, StageRegister: true, StageLogin: true}
	for _, s := range Stages() {
		if got := s.RequiresAuth(); got == open[s] {
			t.Errorf("%s.RequiresAuth() = %v", s, got)
		}
	}
	assert.Equal(t, "unknown", Stage(99).String())
}

func TestGoGatesUnauthenticated(t *testing.T) {
	for _, target := range []Stage{StageProfile, StageQuestions, StageAnalysis, StagePlan, StageRecommendations, StageProgress} {
		n := NewNavigator(session.NewState())
		d := n.Go(target)
		assert.Equal(t, StageLogin, d.Stage, "target %s", target)
		assert.Equal(t, MsgLoginRequired, d.Notice.Text)
		assert.Equal(t, StageLogin, n.Current())
	}
}

func TestGoAllowsOpenStages(t *testing.T) {
	n := NewNavigator(session.NewState())
	d := n.Go(StageRegister)
	assert.Equal(t, StageRegister, d.Stage)
	assert.Empty(t, d.Notice.Text)
}

func TestGoAuthenticated(t *testing.T) {
	st := session.NewState()
	st.Login(session.User{ID: 1})
	n := NewNavigator(st)

	d := n.Go(StageRecommendations)
	assert.Equal(t, StageRecommendations, d.Stage)
	assert.True(t, n.Accept(d.Ticket))
}

func TestStaleTicketRejected(t *testing.T) {
	st := session.NewState()
	st.Login(session.User{ID: 1})
	n := NewNavigator(st)

	n.Go(StageAnalysis)
	ticket := n.Ticket()
	n.Go(StageRecommendations)
	assert.False(t, n.Accept(ticket), "result for a left stage accepted")

	// Returning to the same stage is a new visit.
	n.Go(StageAnalysis)
	assert.False(t, n.Accept(ticket), "result from an earlier visit accepted")
	assert.True(t, n.Accept(n.Ticket()))
}

func TestLoginRedirect(t *testing.T) {
	st := session.NewState()
	n := NewNavigator(st, WithRedirectDelay(0))
	n.Go(StageLogin)

	d := n.LoginSucceeded(session.User{ID: 4, Username: "ana"})
	require.NotNil(t, d.Redirect)
	assert.True(t, st.IsAuthenticated())
	assert.Equal(t, StageLogin, d.Stage, "success notice is shown before moving on")
	assert.Equal(t, "Login successful! Welcome back, ana", d.Notice.Text)
	assert.Equal(t, StageAnalysis, d.Redirect.To)

	next, ok := n.FireRedirect(*d.Redirect)
	require.True(t, ok)
	assert.Equal(t, StageAnalysis, next.Stage)

	_, ok = n.FireRedirect(*d.Redirect)
	assert.False(t, ok, "redirect fired twice")
}

func TestLoginRedirectDroppedAfterLogout(t *testing.T) {
	n := NewNavigator(session.NewState())
	n.Go(StageLogin)
	d := n.LoginSucceeded(session.User{ID: 4})

	n.Logout()
	_, ok := n.FireRedirect(*d.Redirect)
	assert.False(t, ok)
	assert.Equal(t, StageLanding, n.Current())
}

func TestLoginRedirectDroppedAfterNavigation(t *testing.T) {
	n := NewNavigator(session.NewState())
	n.Go(StageLogin)
	d := n.LoginSucceeded(session.User{ID: 4})

	n.Go(StageRecommendations)
	_, ok := n.FireRedirect(*d.Redirect)
	assert.False(t, ok)
	assert.Equal(t, StageRecommendations, n.Current())
}

func TestWaitRedirect(t *testing.T) {
	n := NewNavigator(session.NewState(), WithRedirectDelay(5*time.Millisecond))
	n.Go(StageLogin)
	d := n.LoginSucceeded(session.User{ID: 1})

	next, ok := n.WaitRedirect(context.Background(), *d.Redirect)
	require.True(t, ok)
	assert.Equal(t, StageAnalysis, next.Stage)
}

func TestWaitRedirectCancelled(t *testing.T) {
	n := NewNavigator(session.NewState(), WithRedirectDelay(time.Hour))
	n.Go(StageLogin)
	d := n.LoginSucceeded(session.User{ID: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok := n.WaitRedirect(ctx, *d.Redirect)
	assert.False(t, ok)
	assert.Equal(t, StageLogin, n.Current())
}

func TestLogout(t *testing.T) {
	st := session.NewState()
	st.Login(session.User{ID: 1})
	n := NewNavigator(st)
	n.Go(StageProgress)

	d := n.Logout()
	assert.Equal(t, StageLanding, d.Stage)
	assert.Equal(t, MsgLoggedOut, d.Notice.Text)
	assert.False(t, st.IsAuthenticated())

	n.Logout()
	assert.False(t, st.IsAuthenticated())
}

func TestFail(t *testing.T) {
	st := session.NewState()
	st.Login(session.User{ID: 1})
	n := NewNavigator(st)
	n.Go(StageAnalysis)

	d := n.Fail(api.NewRequestError(500, "Internal failure"))
	assert.Equal(t, StageAnalysis, d.Stage)
	assert.Equal(t, LevelError, d.Notice.Level)
	assert.Equal(t, "Error: Internal failure", d.Notice.Text)

	d = n.Fail(api.NewTransportError(errors.New("connection refused")))
	assert.Equal(t, "Error: connection refused", d.Notice.Text)

	d = n.Fail(api.NewNotFoundError("Questionnaire not found"))
	assert.Equal(t, StageProfile, d.Stage)
	assert.Equal(t, MsgCompleteOnboarding, d.Notice.Text)
}

func TestFailNotFoundWhileLoggedOut(t *testing.T) {
	n := NewNavigator(session.NewState())
	d := n.Fail(api.NewNotFoundError("x"))
	assert.Equal(t, StageLogin, d.Stage)
	assert.Equal(t, MsgLoginRequired, d.Notice.Text)
}

func TestRegisterSucceeded(t *testing.T) {
	n := NewNavigator(session.NewState())
	n.Go(StageRegister)
	d := n.RegisterSucceeded("ana")
	assert.Equal(t, StageLogin, d.Stage)
	assert.Contains(t, d.Notice.Text, "Welcome ana")
}
