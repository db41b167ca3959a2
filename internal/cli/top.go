package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/draft-advisor/internal/aggregate"
	"github.com/ramonehamilton/draft-advisor/internal/charts"
)

func newTopCmd(a *app) *cobra.Command {
	var limit int
	var byUsage bool
	var chartPath string

	cmd := &cobra.Command{
		Use:       "top hero|skill",
		Short:     "Show the best heroes or skills by win rate",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(aggregate.KindHero), string(aggregate.KindSkill)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := aggregate.ParseKind(args[0])
			if err != nil {
				return err
			}

			snap, err := a.loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}

			var ranks []aggregate.EntityRank
			title := fmt.Sprintf("Top %s by win rate", plural(kind))
			if byUsage {
				ranks = snap.Tables.Usage(kind, limit)
				title = fmt.Sprintf("Most played %s", plural(kind))
			} else {
				ranks = snap.Tables.TopEntities(kind, limit)
			}

			out := cmd.OutOrStdout()
			printHeader(out, title)
			rows := make([][]string, 0, len(ranks))
			for i, r := range ranks {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					r.Name,
					strconv.FormatUint(uint64(r.Games), 10),
					strconv.FormatUint(uint64(r.Wins), 10),
					percent(r.WinRate),
				})
			}
			printTable(out, []string{"#", "NAME", "GAMES", "WINS", "WIN RATE"}, rows)

			if chartPath != "" {
				if err := charts.RenderRanking(kind, ranks, chartPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Chart written to %s\n", chartPath)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries (0 for all)")
	cmd.Flags().BoolVar(&byUsage, "usage", false, "sort by games played instead of win rate")
	cmd.Flags().StringVar(&chartPath, "chart", "", "also render a bar chart to this HTML file")
	return cmd
}

func plural(kind aggregate.Kind) string {
	if kind == aggregate.KindHero {
		return "heroes"
	}
	return "skills"
}
