package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/draft-advisor/internal/charts"
	"github.com/ramonehamilton/draft-advisor/internal/evaluation"
)

type evaluateOptions struct {
	trainRatio float64
	chart      bool
	chartPath  string
	open       bool
	save       bool
	asJSON     bool
	history    int
}

func newEvaluateCmd(a *app) *cobra.Command {
	opts := &evaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Sweep synergy thresholds against held-out battles",
		Long: `Split the corpus chronologically, build synergy tables from the older
battles, and score every grid cell by how well its synergy lists rank the
pairs that actually win in the newer battles (NDCG) and how many queries
return anything at all (coverage).

The grid and train ratio come from the [evaluation] section of the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.history > 0 {
				return a.evaluationHistory(cmd, opts.history)
			}
			if !cmd.Flags().Changed("train-ratio") {
				opts.trainRatio = a.cfg.Evaluation.TrainRatio
			}
			if opts.chartPath == "" {
				opts.chartPath = a.cfg.Evaluation.ChartPath
			}
			return a.evaluate(cmd, opts)
		},
	}

	cmd.Flags().Float64Var(&opts.trainRatio, "train-ratio", evaluation.DefaultTrainRatio, "share of battles used for training")
	cmd.Flags().BoolVar(&opts.chart, "chart", false, "render the sweep as an HTML chart")
	cmd.Flags().StringVar(&opts.chartPath, "chart-path", "", "chart output file (default from config)")
	cmd.Flags().BoolVar(&opts.open, "open", false, "open the chart in a browser")
	cmd.Flags().BoolVar(&opts.save, "save", false, "store the run in the corpus database")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the full report as JSON")
	cmd.Flags().IntVar(&opts.history, "history", 0, "list the N most recent stored runs instead of evaluating")
	return cmd
}

func (a *app) evaluate(cmd *cobra.Command, opts *evaluateOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	records, err := a.loadRecords(ctx)
	if err != nil {
		return err
	}

	harness := evaluation.NewHarness(a.logger)
	harness.TrainRatio = opts.trainRatio

	startedAt := time.Now()
	report, err := harness.Run(ctx, records, a.cfg.Evaluation.Grid)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printReport(out, report)
	}

	if opts.chart {
		if err := charts.RenderSweep(report, opts.chartPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Chart written to %s\n", opts.chartPath)
		if opts.open {
			if err := charts.OpenInBrowser(opts.chartPath); err != nil {
				a.logger.Warn("could not open chart", "error", err)
			}
		}
	}

	if opts.save {
		store, err := a.openStore()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		run, err := store.SaveEvaluation(ctx, startedAt, report)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved evaluation run %s\n", run.ID)
	}
	return nil
}

func printReport(w io.Writer, r *evaluation.Report) {
	printHeader(w, "Evaluation")
	printField(w, "Train battles", fmt.Sprintf("%d (%s)", r.TrainBattles, r.TrainRange.FormatPeriod()))
	printField(w, "Validation", fmt.Sprintf("%d (%s)", r.ValidationBattles, r.ValidationRange.FormatPeriod()))
	printField(w, "Heroes evaluated", strconv.Itoa(r.HeroesEvaluated))
	printField(w, "Skills evaluated", strconv.Itoa(r.SkillsEvaluated))
	printField(w, "Duration", r.Duration.Round(time.Millisecond).String())

	printHeader(w, "Sweep")
	rows := make([][]string, 0, len(r.Results))
	for _, res := range r.Results {
		rows = append(rows, resultRow(res))
	}
	printTable(w, sweepHeaders, rows)

	printHeader(w, "Best")
	printTable(w, sweepHeaders, [][]string{resultRow(r.Best)})
}

var sweepHeaders = []string{"MIN GAMES", "TOP K", "MIN WILSON", "HERO NDCG", "HERO COV", "SKILL NDCG", "SKILL COV"}

func resultRow(res evaluation.Result) []string {
	return []string{
		strconv.FormatUint(uint64(res.MinGames), 10),
		strconv.Itoa(res.TopK),
		fmt.Sprintf("%.2f", res.MinWilson),
		decimal(res.Hero.NDCG),
		percent(res.Hero.Coverage),
		decimal(res.Skill.NDCG),
		percent(res.Skill.Coverage),
	}
}

func (a *app) evaluationHistory(cmd *cobra.Command, limit int) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.Evaluations().List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printHeader(out, "Evaluation History")
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(run.TrainBattles),
			strconv.Itoa(run.ValidationBattles),
			fmt.Sprintf("%d/%d/%.2f", run.BestMinGames, run.BestTopK, run.BestMinWilson),
			decimal(run.HeroNDCG),
			decimal(run.SkillNDCG),
		})
	}
	printTable(out, []string{"STARTED", "TRAIN", "VALID", "BEST", "HERO NDCG", "SKILL NDCG"}, rows)
	return nil
}
