// recs.go implements the "fincoach recs" and "fincoach progress" commands.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fincoach-dev/fincoach/internal/log"
	"github.com/fincoach-dev/fincoach/internal/recommend"
	"github.com/fincoach-dev/fincoach/internal/session"
	"github.com/fincoach-dev/fincoach/internal/ui"
)

var recsCmd = &cobra.Command{
	Use:   "recs",
	Short: "List your recommendations",
	RunE:  runRecs,
}

var recsCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark a recommendation complete",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecsComplete,
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show how many recommendations are complete",
	RunE:  runProgress,
}

var withInsights bool

func init() {
	recsCmd.AddCommand(recsCompleteCmd)
	progressCmd.Flags().BoolVar(&withInsights, "insights", false, "Ask the advisor for feedback on your progress")
}

// loadTracker logs in and fills a tracker with the user's recommendations.
func loadTracker(cmd *cobra.Command) (*recommend.Tracker, *log.Logger, session.User, error) {
	ctx := cmd.Context()
	client := newClient()

	u, err := login(ctx, client)
	if err != nil {
		return nil, nil, u, err
	}
	events := openEvents()

	tracker := recommend.NewTracker(client, env.logger)
	if _, err := tracker.List(ctx, u.ID); err != nil {
		record(events, u, log.LogEvent{Event: log.EventRequestFailed, Stage: "recommendations", Error: err.Error()})
		return nil, nil, u, explain(err)
	}
	snap := tracker.Progress()
	record(events, u, log.LogEvent{Event: log.EventRecommendationsListed, Completed: snap.Completed, Total: snap.Total})
	return tracker, events, u, nil
}

func runRecs(cmd *cobra.Command, args []string) error {
	tracker, _, _, err := loadTracker(cmd)
	if err != nil {
		return err
	}
	p := ui.NewPrinter(cmd.OutOrStdout())
	p.Heading("Recommendations")
	p.Recommendations(tracker.Items())
	return nil
}

func runRecsComplete(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid recommendation id %q", args[0])
	}

	tracker, events, u, err := loadTracker(cmd)
	if err != nil {
		return err
	}

	rec, err := tracker.MarkComplete(cmd.Context(), id)
	if err != nil {
		record(events, u, log.LogEvent{Event: log.EventRequestFailed, Stage: "recommendations", RecommendationID: id, Error: err.Error()})
		return explain(err)
	}
	snap := tracker.Progress()
	record(events, u, log.LogEvent{
		Event:            log.EventRecommendationCompleted,
		RecommendationID: id,
		Completed:        snap.Completed,
		Total:            snap.Total,
	})

	if store := openStore(); store != nil {
		defer store.Close()
		if sid := journalSession(store, u); sid != "" {
			if err := store.RecordRecommendation(sid, rec.ID, rec.Description, string(rec.Status)); err != nil {
				env.logger.Warn("journal recommendation", zap.Error(err))
			}
		}
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.Success("Marked complete: %s", rec.Description)
	p.Progress(snap)
	return nil
}

func runProgress(cmd *cobra.Command, args []string) error {
	tracker, _, _, err := loadTracker(cmd)
	if err != nil {
		return err
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.Heading("Progress")
	p.Progress(tracker.Progress())
	p.Recommendations(tracker.Items())

	if !withInsights {
		return nil
	}
	text, err := tracker.Insights(cmd.Context())
	if err != nil {
		return explain(err)
	}
	p.Heading("Insights")
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
