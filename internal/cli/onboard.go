// onboard.go implements the "fincoach onboard" and "fincoach questionnaire"
// commands.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fincoach-dev/fincoach/internal/analysis"
	"github.com/fincoach-dev/fincoach/internal/api"
	"github.com/fincoach-dev/fincoach/internal/log"
	"github.com/fincoach-dev/fincoach/internal/onboarding"
	"github.com/fincoach-dev/fincoach/internal/ui"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Submit your profile and answer the generated questions",
	Long: `Submit your profile, print the questions the advisor generates and
read one answer per question from stdin. With --answers the questions are
answered with a single free-text reply instead. The resulting analysis is
printed when done.`,
	RunE: runOnboard,
}

var (
	profileIn   onboarding.ProfileInput
	answersBlob string
)

var questionnaireCmd = &cobra.Command{
	Use:   "questionnaire",
	Short: "Submit the short three-question questionnaire",
	RunE:  runQuestionnaire,
}

var staticAnswers = map[string]*string{}

func init() {
	f := onboardCmd.Flags()
	f.StringVar(&profileIn.FullName, "name", "", "Full name")
	f.StringVar(&profileIn.Age, "age", "", "Age in years")
	f.StringVar(&profileIn.Sex, "sex", "", "Sex")
	f.StringVar(&profileIn.TaxStatus, "tax-status", "", "Tax filing status")
	f.StringVar(&profileIn.State, "state", "", "State of residence")
	f.StringVar(&profileIn.City, "city", "", "City of residence")
	f.StringVar(&answersBlob, "answers", "", "Answer everything with one free-text reply")

	for _, q := range onboarding.StaticQuestions() {
		v := new(string)
		staticAnswers[q.Key] = v
		questionnaireCmd.Flags().StringVar(v, strings.ReplaceAll(q.Key, "_", "-"), "", q.Prompt+" ("+q.Example+")")
	}
}

func runOnboard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p := ui.NewPrinter(cmd.OutOrStdout())
	client := newClient()

	u, err := login(ctx, client)
	if err != nil {
		return err
	}
	events := openEvents()
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	sub, err := onboarding.NewSubmitter(client, env.logger).Submit(ctx, profileIn)
	if err != nil {
		record(events, u, log.LogEvent{Event: log.EventRequestFailed, Stage: "profile", Error: err.Error()})
		return fmt.Errorf("error: %s", api.UserMessage(err))
	}
	record(events, u, log.LogEvent{Event: log.EventProfileSubmitted, Questions: sub.Questions.Len()})

	if sub.Preamble != "" {
		p.Info("%s", sub.Preamble)
	}

	var answers onboarding.Answers
	var answered []journalAnswer
	switch {
	case answersBlob != "":
		answers = onboarding.AnswerBlob(answersBlob)
		answered = []journalAnswer{{question: "free text", answer: strings.TrimSpace(answersBlob)}}
	case sub.Questions.Empty():
		p.Warn("No questions were generated. Answer in your own words, then press Ctrl+D.")
		text, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("reading answer: %w", readErr)
		}
		answers = onboarding.AnswerBlob(text)
		answered = []journalAnswer{{question: "free text", answer: strings.TrimSpace(string(text))}}
	default:
		m, pairs, readErr := askQuestions(cmd.InOrStdin(), p, sub.Questions)
		if readErr != nil {
			return readErr
		}
		answers, answered = m, pairs
	}

	text, err := onboarding.NewCollector(client, env.logger).SubmitAnswers(ctx, u.ID, answers)
	if err != nil {
		record(events, u, log.LogEvent{Event: log.EventRequestFailed, Stage: "questions", Error: err.Error()})
		return fmt.Errorf("error: %s", api.UserMessage(err))
	}
	record(events, u, log.LogEvent{Event: log.EventAnswersSubmitted, Questions: len(answered)})

	if sid := journalSession(store, u); sid != "" {
		for _, a := range answered {
			if err := store.SaveAnswer(sid, a.index, a.question, a.answer); err != nil {
				env.logger.Warn("journal answer", zap.Error(err))
			}
		}
	}

	r := analysis.Renderer{Width: p.Width(), Styled: p.Styled()}
	fmt.Fprint(cmd.OutOrStdout(), r.RenderAnalysis(analysis.FromNarrative(text)))
	return nil
}

type journalAnswer struct {
	index    int
	question string
	answer   string
}

// askQuestions prints each question and reads one line per answer. A blank
// line leaves the question unanswered.
func askQuestions(in io.Reader, p *ui.Printer, questions onboarding.QuestionSet) (onboarding.AnswerMap, []journalAnswer, error) {
	reader := bufio.NewReader(in)
	answers := make(onboarding.AnswerMap, questions.Len())
	var answered []journalAnswer

	for i, q := range questions {
		p.Heading("%d. %s", i+1, q)
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, nil, fmt.Errorf("reading answer %d: %w", i+1, err)
		}
		line = strings.TrimSpace(line)
		answers.Set(i, line)
		if line != "" {
			answered = append(answered, journalAnswer{index: i, question: q, answer: line})
		}
		if err == io.EOF {
			break
		}
	}
	return answers, answered, nil
}

func runQuestionnaire(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p := ui.NewPrinter(cmd.OutOrStdout())
	client := newClient()

	u, err := login(ctx, client)
	if err != nil {
		return err
	}

	q := onboarding.StaticQuestionnaire{
		UserID:         u.ID,
		InvestmentGoal: *staticAnswers["investment_goal"],
		SavingsHabit:   *staticAnswers["savings_habit"],
		RiskTolerance:  *staticAnswers["risk_tolerance"],
	}
	if err := onboarding.NewCollector(client, env.logger).SubmitStatic(ctx, q); err != nil {
		return fmt.Errorf("error: %s", api.UserMessage(err))
	}
	record(openEvents(), u, log.LogEvent{Event: log.EventAnswersSubmitted, Questions: len(onboarding.StaticQuestions())})
	p.Success("Questionnaire submitted")
	return nil
}
