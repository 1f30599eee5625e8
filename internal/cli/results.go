// results.go implements the "fincoach analysis" and "fincoach plan" commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fincoach-dev/fincoach/internal/analysis"
	"github.com/fincoach-dev/fincoach/internal/config"
	"github.com/fincoach-dev/fincoach/internal/log"
	"github.com/fincoach-dev/fincoach/internal/ui"
)

var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Show your financial analysis",
	RunE:  runAnalysis,
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show your financial plan",
	Long: `Show your financial plan. With analysis.source set to "ai" the plan
is drafted by the advisor from your stored analysis instead of fetched.`,
	RunE: runPlan,
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p := ui.NewPrinter(cmd.OutOrStdout())
	client := newClient()

	u, err := login(ctx, client)
	if err != nil {
		return err
	}
	events := openEvents()

	a, err := analysis.NewRetriever(client, env.logger).FetchAnalysis(ctx, u.ID)
	if err != nil {
		record(events, u, log.LogEvent{Event: log.EventRequestFailed, Stage: "analysis", Error: err.Error()})
		return explain(err)
	}
	record(events, u, log.LogEvent{Event: log.EventAnalysisFetched, Kind: string(a.Kind())})

	r := analysis.Renderer{Width: p.Width(), Styled: p.Styled()}
	fmt.Fprint(cmd.OutOrStdout(), r.RenderAnalysis(a))
	return nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p := ui.NewPrinter(cmd.OutOrStdout())
	client := newClient()

	u, err := login(ctx, client)
	if err != nil {
		return err
	}
	events := openEvents()
	retriever := analysis.NewRetriever(client, env.logger)

	var plan analysis.Plan
	if env.cfg.Analysis.Source == config.SourceAI {
		a, fetchErr := retriever.FetchAnalysis(ctx, u.ID)
		if fetchErr != nil {
			record(events, u, log.LogEvent{Event: log.EventRequestFailed, Stage: "plan", Error: fetchErr.Error()})
			return explain(fetchErr)
		}
		plan, err = retriever.GeneratePlan(ctx, analysis.Markdown("Analysis", analysis.Sections(a)))
	} else {
		plan, err = retriever.FetchPlan(ctx, u.ID)
	}
	if err != nil {
		record(events, u, log.LogEvent{Event: log.EventRequestFailed, Stage: "plan", Error: err.Error()})
		return explain(err)
	}
	record(events, u, log.LogEvent{Event: log.EventPlanFetched, Kind: string(plan.Kind())})

	r := analysis.Renderer{Width: p.Width(), Styled: p.Styled()}
	fmt.Fprint(cmd.OutOrStdout(), r.RenderPlan(plan))
	return nil
}
