// report.go implements the "fincoach report" command for generating progress
// summaries.
package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/fincoach-dev/fincoach/internal/analysis"
	"github.com/fincoach-dev/fincoach/internal/recommend"
	fcreport "github.com/fincoach-dev/fincoach/internal/report"
	"github.com/fincoach-dev/fincoach/internal/ui"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show a report of your analysis, plan and progress",
	Long: `Display a markdown report with your analysis, financial plan,
recommendation progress and the activity recorded in the local event log.`,
	RunE: runReport,
}

var writeReport bool

func init() {
	reportCmd.Flags().BoolVar(&writeReport, "write", false, "Also save the report under the fincoach home directory")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client := newClient()

	u, err := login(ctx, client)
	if err != nil {
		return err
	}

	src := fcreport.Sources{
		Retriever: analysis.NewRetriever(client, env.logger),
		Tracker:   recommend.NewTracker(client, env.logger),
		Events:    openEvents(),
	}
	r, err := fcreport.GenerateReport(ctx, src, u.ID, u.Username)
	if err != nil {
		return explain(err)
	}

	fmt.Fprint(cmd.OutOrStdout(), fcreport.FormatReport(r))

	if writeReport {
		dir := filepath.Join(env.dir, "reports", time.Now().Format("20060102-150405"))
		path, err := fcreport.WriteReport(dir, r)
		if err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		ui.NewPrinter(cmd.ErrOrStderr()).Info("Report saved to %s", path)
	}
	return nil
}
