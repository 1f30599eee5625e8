package app

import (
	"context"
	"strconv"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincoach-dev/fincoach/internal/analysis"
	"github.com/fincoach-dev/fincoach/internal/api"
	"github.com/fincoach-dev/fincoach/internal/config"
	"github.com/fincoach-dev/fincoach/internal/flow"
	"github.com/fincoach-dev/fincoach/internal/testutil"
	"github.com/fincoach-dev/fincoach/internal/tui"
	"github.com/fincoach-dev/fincoach/internal/tui/views"
)

func newTestApp(t *testing.T, b *testutil.Backend) *App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Flow.RedirectDelayMs = 1
	svc := tui.NewServices(api.NewClient(b.URL()), nil)
	return New(context.Background(), cfg, svc)
}

// send delivers msg and returns the command the app asked for.
func send(a *App, msg tea.Msg) tea.Cmd {
	_, cmd := a.Update(msg)
	return cmd
}

// exec runs cmd one level deep, flattening batches.
func exec(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, exec(c)...)
	}
	return out
}

// find returns the first message of type T produced by cmd.
func find[T any](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	for _, msg := range exec(cmd) {
		if m, ok := msg.(T); ok {
			return m
		}
	}
	var zero T
	t.Fatalf("no %T produced", zero)
	return zero
}

// login drives the login form and returns the pending redirect command.
func login(t *testing.T, a *App) tea.Cmd {
	t.Helper()
	send(a, views.StageSelectedMsg{Stage: flow.StageLogin})
	cmd := send(a, views.LoginSubmitMsg{Email: "ana@example.com", Password: "secret"})
	result := find[tui.LoginResultMsg](t, cmd)
	require.NoError(t, result.Err)
	redirect := send(a, result)
	require.NotNil(t, redirect)
	return redirect
}

func TestLoginRedirectsToAnalysis(t *testing.T) {
	b := testutil.NewBackend(t)
	id := b.AddUser("ana@example.com", "ana", "secret")
	b.Analyses[id] = testutil.Analysis{Summary: "Healthy cash flow", RiskScore: 4}
	a := newTestApp(t, b)

	redirect := login(t, a)
	assert.Equal(t, flow.StageLogin, a.Model().Nav.Current())
	assert.Equal(t, "Login successful! Welcome back, ana", a.Model().Notice.Text)

	load := send(a, find[tui.RedirectMsg](t, redirect))
	assert.Equal(t, flow.StageAnalysis, a.Model().Nav.Current())

	send(a, find[tui.AnalysisLoadedMsg](t, load))
	got, ok := a.Model().Analysis.(*analysis.Structured)
	require.True(t, ok, "want structured analysis, got %T", a.Model().Analysis)
	assert.Equal(t, "Healthy cash flow", *got.Summary)
}

func TestLogoutCancelsPendingRedirect(t *testing.T) {
	b := testutil.NewBackend(t)
	b.AddUser("ana@example.com", "ana", "secret")
	a := newTestApp(t, b)

	redirect := login(t, a)
	send(a, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Equal(t, flow.StageLanding, a.Model().Nav.Current())
	assert.False(t, a.Model().Session.IsAuthenticated())

	send(a, find[tui.RedirectMsg](t, redirect))
	assert.Equal(t, flow.StageLanding, a.Model().Nav.Current(), "superseded redirect must not fire")
}

func TestNavigationCancelsPendingRedirect(t *testing.T) {
	b := testutil.NewBackend(t)
	b.AddUser("ana@example.com", "ana", "secret")
	a := newTestApp(t, b)

	redirect := login(t, a)
	send(a, views.StageSelectedMsg{Stage: flow.StageRecommendations})
	send(a, find[tui.RedirectMsg](t, redirect))
	assert.Equal(t, flow.StageRecommendations, a.Model().Nav.Current())
}

func TestStaleResultIsDropped(t *testing.T) {
	b := testutil.NewBackend(t)
	id := b.AddUser("ana@example.com", "ana", "secret")
	b.Analyses[id] = testutil.Analysis{Summary: "Healthy cash flow"}
	b.Plans[id] = testutil.Plan{BudgetPlan: "50/30/20"}
	a := newTestApp(t, b)

	load := send(a, find[tui.RedirectMsg](t, login(t, a)))
	stale := find[tui.AnalysisLoadedMsg](t, load)

	send(a, views.NextMsg{})
	require.Equal(t, flow.StagePlan, a.Model().Nav.Current())

	send(a, stale)
	assert.Nil(t, a.Model().Analysis, "analysis result arriving after navigation must be ignored")
}

func TestMissingAnalysisRoutesToProfile(t *testing.T) {
	b := testutil.NewBackend(t)
	b.AddUser("ana@example.com", "ana", "secret")
	a := newTestApp(t, b)

	load := send(a, find[tui.RedirectMsg](t, login(t, a)))
	send(a, find[tui.AnalysisLoadedMsg](t, load))

	assert.Equal(t, flow.StageProfile, a.Model().Nav.Current())
	assert.Equal(t, flow.MsgCompleteOnboarding, a.Model().Notice.Text)
}

func TestGatedStageRequiresLogin(t *testing.T) {
	b := testutil.NewBackend(t)
	a := newTestApp(t, b)

	cmd := send(a, views.StageSelectedMsg{Stage: flow.StageRecommendations})
	assert.Equal(t, flow.StageLogin, a.Model().Nav.Current())
	assert.Equal(t, flow.MsgLoginRequired, a.Model().Notice.Text)
	for _, msg := range exec(cmd) {
		_, loaded := msg.(tui.RecommendationsLoadedMsg)
		assert.False(t, loaded, "no recommendations may load while logged out")
	}
	assert.Zero(t, b.CallCount("GET /api/recommendations/{id}"))
}

func TestFailedLoginKeepsStage(t *testing.T) {
	b := testutil.NewBackend(t)
	a := newTestApp(t, b)

	send(a, views.StageSelectedMsg{Stage: flow.StageLogin})
	cmd := send(a, views.LoginSubmitMsg{Email: "nobody@example.com", Password: "x"})
	send(a, find[tui.LoginResultMsg](t, cmd))

	assert.Equal(t, flow.StageLogin, a.Model().Nav.Current())
	assert.Equal(t, flow.LevelError, a.Model().Notice.Level)
	assert.Equal(t, "Error: Incorrect email or password", a.Model().Notice.Text)
}

func TestOnboardingJourney(t *testing.T) {
	b := testutil.NewBackend(t)
	b.AddUser("ana@example.com", "ana", "secret")
	a := newTestApp(t, b)
	login(t, a)

	send(a, views.StageSelectedMsg{Stage: flow.StageProfile})
	cmd := send(a, views.ProfileSubmitMsg{Input: validProfile()})
	send(a, find[tui.ProfileResultMsg](t, cmd))

	require.Equal(t, flow.StageQuestions, a.Model().Nav.Current())
	assert.Equal(t, 2, a.Model().Questions.Len())

	cmd = send(a, views.AnswersSubmitMsg{Answers: onboardingAnswers()})
	send(a, find[tui.AnswersResultMsg](t, cmd))
	assert.Equal(t, flow.StageAnalysis, a.Model().Nav.Current())
	assert.Equal(t, b.AnalysisText, a.Model().AnalysisText)
	assert.JSONEq(t, `{"user_id":1,"answers":"4000 a month No debt"}`, b.LastBody("POST /api/ai-analysis"))
}

func TestInvalidProfileStaysOnProfile(t *testing.T) {
	b := testutil.NewBackend(t)
	b.AddUser("ana@example.com", "ana", "secret")
	a := newTestApp(t, b)
	login(t, a)

	send(a, views.StageSelectedMsg{Stage: flow.StageProfile})
	in := validProfile()
	in.Age = "thirty"
	cmd := send(a, views.ProfileSubmitMsg{Input: in})
	send(a, find[tui.ProfileResultMsg](t, cmd))

	assert.Equal(t, flow.StageProfile, a.Model().Nav.Current())
	assert.Contains(t, a.Model().Notice.Text, "age must be a whole number")
	assert.Zero(t, b.CallCount("POST /api/ai-onboarding"))
}

func TestCompleteRecommendation(t *testing.T) {
	b := testutil.NewBackend(t)
	id := b.AddUser("ana@example.com", "ana", "secret")
	b.Recommendations[id] = []testutil.Recommendation{
		{ID: 7, Description: "Build an emergency fund", Status: "pending"},
		{ID: 8, Description: "Max out your 401k", Status: "complete"},
	}
	a := newTestApp(t, b)
	login(t, a)

	cmd := send(a, views.StageSelectedMsg{Stage: flow.StageRecommendations})
	send(a, find[tui.RecommendationsLoadedMsg](t, cmd))
	assert.Equal(t, 1, a.Model().Services.Tracker.Progress().Completed)

	cmd = send(a, views.CompleteRequestMsg{ID: 7})
	send(a, find[tui.RecommendationUpdatedMsg](t, cmd))

	snap := a.Model().Services.Tracker.Progress()
	assert.Equal(t, 2, snap.Completed)
	assert.Equal(t, 100, snap.Percent)
	assert.Equal(t, "Marked complete: Build an emergency fund", a.Model().Notice.Text)
}

func TestDoubleCtrlCQuits(t *testing.T) {
	b := testutil.NewBackend(t)
	a := newTestApp(t, b)

	send(a, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, a.Model().CtrlCPending)

	cmd := send(a, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	_, quit := cmd().(tea.QuitMsg)
	assert.True(t, quit)
}

func TestViewShowsNotice(t *testing.T) {
	b := testutil.NewBackend(t)
	a := newTestApp(t, b)

	send(a, views.StageSelectedMsg{Stage: flow.StagePlan})
	assert.Contains(t, a.View(), flow.MsgLoginRequired)
}

func TestOnboardedUserCanRevisitOnboarding(t *testing.T) {
	b := testutil.NewBackend(t)
	id := b.AddUser("ana@example.com", "ana", "secret")
	b.Analyses[id] = testutil.Analysis{Summary: "Healthy cash flow"}
	a := newTestApp(t, b)

	load := send(a, find[tui.RedirectMsg](t, login(t, a)))
	send(a, find[tui.AnalysisLoadedMsg](t, load))
	require.Equal(t, flow.StageAnalysis, a.Model().Nav.Current())

	cmd := send(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'o'}})
	send(a, find[views.StageSelectedMsg](t, cmd))
	require.Equal(t, flow.StageProfile, a.Model().Nav.Current())

	cmd = send(a, views.ProfileSubmitMsg{Input: validProfile()})
	send(a, find[tui.ProfileResultMsg](t, cmd))
	require.Equal(t, flow.StageQuestions, a.Model().Nav.Current())
	assert.Len(t, a.Model().Questions, 2)

	cmd = send(a, tea.KeyMsg{Type: tea.KeyEsc})
	send(a, find[views.BackMsg](t, cmd))
	assert.Equal(t, flow.StageProfile, a.Model().Nav.Current())
}

func TestStaticQuestionnaireWhenNoQuestions(t *testing.T) {
	b := testutil.NewBackend(t)
	id := b.AddUser("ana@example.com", "ana", "secret")
	b.QuestionText = "Thanks, we have what we need for now."
	a := newTestApp(t, b)

	login(t, a)
	send(a, views.StageSelectedMsg{Stage: flow.StageProfile})
	cmd := send(a, views.ProfileSubmitMsg{Input: validProfile()})
	send(a, find[tui.ProfileResultMsg](t, cmd))
	require.Equal(t, flow.StageQuestions, a.Model().Nav.Current())
	assert.Contains(t, a.View(), "Investment goal")

	for i, answer := range []string{"Retirement", "Consistent", "Medium"} {
		if i > 0 {
			send(a, tea.KeyMsg{Type: tea.KeyTab})
		}
		send(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(answer)})
	}
	cmd = send(a, tea.KeyMsg{Type: tea.KeyCtrlS})
	cmd = send(a, find[views.StaticSubmitMsg](t, cmd))
	result := find[tui.StaticResultMsg](t, cmd)
	require.NoError(t, result.Err)

	send(a, result)
	assert.Equal(t, flow.StageAnalysis, a.Model().Nav.Current())
	assert.Equal(t, "Questionnaire submitted successfully!", a.Model().Notice.Text)
	assert.JSONEq(t,
		`{"user_id":`+strconv.Itoa(id)+`,"investment_goal":"Retirement","savings_habit":"Consistent","risk_tolerance":"Medium"}`,
		b.LastBody("POST /api/questionnaire"))
	assert.Zero(t, b.CallCount("POST /api/ai-analysis"))
}

func TestStaticQuestionnaireRequiresEveryAnswer(t *testing.T) {
	b := testutil.NewBackend(t)
	b.AddUser("ana@example.com", "ana", "secret")
	b.QuestionText = "No numbered questions here."
	a := newTestApp(t, b)

	login(t, a)
	send(a, views.StageSelectedMsg{Stage: flow.StageProfile})
	send(a, find[tui.ProfileResultMsg](t, send(a, views.ProfileSubmitMsg{Input: validProfile()})))

	cmd := send(a, views.StaticSubmitMsg{})
	send(a, find[tui.StaticResultMsg](t, cmd))
	assert.Equal(t, flow.StageQuestions, a.Model().Nav.Current())
	assert.Equal(t, flow.LevelError, a.Model().Notice.Level)
	assert.Zero(t, b.CallCount("POST /api/questionnaire"))
}
