package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/draft-advisor/internal/aggregate"
	"github.com/ramonehamilton/draft-advisor/internal/export"
)

// Export kinds beyond the two leaderboards.
const (
	exportStatistics = "statistics"
	exportAnalytics  = "analytics"
)

type exportOptions struct {
	format    string
	kind      string
	output    string
	limit     int
	overwrite bool
}

func newExportCmd(a *app) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export aggregated statistics",
		Long: `Export the aggregated tables.

  --kind statistics  every table (hero, skill, pair, cross and team records)
  --kind analytics   the dashboard summary
  --kind hero|skill  a leaderboard with win rates and Wilson scores

Statistics and analytics are JSON only. Without --output the export is
written to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			if format == export.FormatCSV && (opts.kind == exportStatistics || opts.kind == exportAnalytics) {
				return fmt.Errorf("%s export supports json only", opts.kind)
			}

			snap, err := a.loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}

			var data any
			switch opts.kind {
			case exportStatistics:
				data = export.BuildStatistics(snap.Tables)
			case exportAnalytics:
				data = snap.Tables.Analytics()
			default:
				kind, err := aggregate.ParseKind(opts.kind)
				if err != nil {
					return fmt.Errorf("unknown export kind %q: %w", opts.kind, err)
				}
				data = export.Rankings(snap.Tables, kind, opts.limit)
			}

			if opts.output == "" {
				return export.ExportToWriter(cmd.OutOrStdout(), format, data, true)
			}

			exporter := export.NewExporter(export.Options{
				Format:     format,
				FilePath:   opts.output,
				PrettyJSON: true,
				Overwrite:  opts.overwrite,
			})
			if err := exporter.Export(data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s\n", opts.kind, opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", string(export.FormatJSON), "output format: json or csv")
	cmd.Flags().StringVar(&opts.kind, "kind", exportStatistics, "what to export: statistics, analytics, hero or skill")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "leaderboard length (0 for all)")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "replace an existing output file")
	return cmd
}
