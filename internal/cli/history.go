// history.go implements the "fincoach history" command showing the local
// journal.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fincoach-dev/fincoach/internal/session"
	"github.com/fincoach-dev/fincoach/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "Show past sessions from the local journal",
	Long: `List recent sessions recorded in the local journal. With a session id,
show the answers submitted and the recommendations acted on in it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of sessions to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	store := openStore()
	if store == nil {
		return fmt.Errorf("journal is disabled or unavailable (journal.enabled in config.yaml)")
	}
	defer store.Close()

	p := ui.NewPrinter(cmd.OutOrStdout())
	if len(args) == 1 {
		return showSession(cmd, p, store, args[0])
	}

	sessions, err := store.ListSessions(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		p.Info("No sessions recorded yet.")
		return nil
	}

	p.Heading("Sessions")
	for _, s := range sessions {
		fmt.Fprintf(cmd.OutOrStdout(), "  %-36s  %-12s  %-6s  %2d answers  %2d completed  %s\n",
			s.ID, s.Username, s.Status, s.Answers, s.Completed, s.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func showSession(cmd *cobra.Command, p *ui.Printer, store *session.Store, id string) error {
	s, err := store.GetSession(id)
	if err != nil {
		return fmt.Errorf("session %s: %w", id, err)
	}
	out := cmd.OutOrStdout()

	p.Heading("Session %s", s.ID)
	fmt.Fprintf(out, "User: %s  Status: %s  Started: %s\n\n", s.Username, s.Status, s.CreatedAt.Format("2006-01-02 15:04"))

	answers, err := store.GetAnswers(id)
	if err != nil {
		return fmt.Errorf("loading answers: %w", err)
	}
	p.Heading("Answers")
	if len(answers) == 0 {
		p.Info("  none")
	}
	for _, a := range answers {
		fmt.Fprintf(out, "  %d. %s\n     %s\n", a.Index+1, a.Question, a.Answer)
	}

	states, err := store.GetRecommendationStates(id)
	if err != nil {
		return fmt.Errorf("loading recommendations: %w", err)
	}
	fmt.Fprintln(out)
	p.Heading("Recommendations")
	if len(states) == 0 {
		p.Info("  none")
	}
	for _, r := range states {
		fmt.Fprintf(out, "  %3d  %-9s  %s\n", r.RecommendationID, r.Status, r.Description)
	}
	return nil
}
