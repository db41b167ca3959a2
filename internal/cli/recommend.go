package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/draft-advisor/internal/aggregate"
	"github.com/ramonehamilton/draft-advisor/internal/recommendations"
)

type recommendOptions struct {
	current string
	heroes  string
	skills  string
	sets    []string
	asJSON  bool
}

func newRecommendCmd(a *app) *cobra.Command {
	opts := &recommendOptions{}

	cmd := &cobra.Command{
		Use:   "recommend hero|skill",
		Short: "Pick the best candidate set for a draft round",
		Long: `Score each candidate set offered in a draft round and recommend one.

Each --set is one candidate, given as a comma-separated list. Hero rounds
need the heroes already drafted (--current); skill rounds need the drafted
heroes (--heroes) and optionally the drafted skills (--skills). Weights come
from the [hero] and [skill] sections of the config.`,
		Example: `  draftadvisor recommend hero --current "Guan Yu" --set "Zhang Fei,Liu Bei" --set "Cao Cao"
  draftadvisor recommend skill --heroes "Guan Yu" --skills "Charge" --set "Ambush" --set "Volley"`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(aggregate.KindHero), string(aggregate.KindSkill)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := aggregate.ParseKind(args[0])
			if err != nil {
				return err
			}

			candidates := make([][]string, 0, len(opts.sets))
			for _, set := range opts.sets {
				candidates = append(candidates, splitList(set))
			}

			snap, err := a.loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}

			var result *recommendations.Result
			if kind == aggregate.KindHero {
				result, err = snap.Scorer.RecommendHeroSet(candidates, splitList(opts.current), a.cfg.Hero)
			} else {
				result, err = snap.Scorer.RecommendSkillSet(candidates, splitList(opts.heroes), splitList(opts.skills), a.cfg.Skill)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printRecommendation(out, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.current, "current", "", "comma-separated heroes on the team (hero rounds)")
	cmd.Flags().StringVar(&opts.heroes, "heroes", "", "comma-separated drafted heroes (skill rounds)")
	cmd.Flags().StringVar(&opts.skills, "skills", "", "comma-separated drafted skills (skill rounds)")
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "candidate set, comma-separated (repeatable)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the full analysis as JSON")
	return cmd
}

func printRecommendation(w io.Writer, r *recommendations.Result) {
	best := r.Recommended()

	printHeader(w, fmt.Sprintf("Recommended %s set", r.Kind))
	printField(w, "Pick", fmt.Sprintf("#%d %s", r.RecommendedIndex+1, strings.Join(best.Items, ", ")))
	printField(w, "Score", decimal(best.TotalScore))
	printField(w, "Why", r.Reasoning)

	printHeader(w, "Candidates")
	rows := make([][]string, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		rows = append(rows, []string{
			strconv.Itoa(c.Rank),
			"#" + strconv.Itoa(c.Index+1),
			strings.Join(c.Items, ", "),
			decimal(c.BaseScore),
			decimal(c.SynergyTotal),
			decimal(c.TotalScore),
			breakdown(c.SynergyBreakdown),
		})
	}
	printTable(w, []string{"RANK", "SET", "ITEMS", "BASE", "SYNERGY", "TOTAL", "TERMS"}, rows)
}

func breakdown(terms map[string]float64) string {
	names := make([]string, 0, len(terms))
	for name := range terms {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%.3f", name, terms[name]))
	}
	return strings.Join(parts, " ")
}
