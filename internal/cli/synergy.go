package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/draft-advisor/internal/synergy"
)

type synergyOptions struct {
	topK     int
	minGames uint
	heroes   string
}

func newSynergyCmd(a *app) *cobra.Command {
	opts := &synergyOptions{}

	cmd := &cobra.Command{
		Use:   "synergy",
		Short: "Query pairwise synergies",
		Long: `Query the partners that win most often with a hero or skill.

Scores are Wilson lower bounds (95%) of the pair's win rate, so pairs with
few games rank below equally winning pairs with many.`,
	}

	cmd.PersistentFlags().IntVarP(&opts.topK, "top", "k", 10, "number of partners (0 for all)")
	cmd.PersistentFlags().UintVar(&opts.minGames, "min-games", 2, "ignore pairs with fewer games")

	heroCmd := &cobra.Command{
		Use:   "hero NAME",
		Short: "Best hero partners for a hero",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			partners := snap.Synergy.HeroSynergies(args[0], opts.topK, opts.minGames)
			printPartners(cmd.OutOrStdout(), fmt.Sprintf("Hero synergies for %s", args[0]), partners)
			return nil
		},
	}

	skillCmd := &cobra.Command{
		Use:   "skill NAME",
		Short: "Best skill partners for a skill",
		Long: `List the skills that win most often with a skill. With --heroes, skills
that win with the drafted heroes are also considered.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			partners := snap.Synergy.SkillSynergies(args[0], splitList(opts.heroes), opts.topK, opts.minGames)
			printPartners(cmd.OutOrStdout(), fmt.Sprintf("Skill synergies for %s", args[0]), partners)
			return nil
		},
	}
	skillCmd.Flags().StringVar(&opts.heroes, "heroes", "", "comma-separated heroes already drafted")

	crossCmd := &cobra.Command{
		Use:   "cross HERO SKILL",
		Short: "Synergy score of a skill on a hero's team",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			hero, skill := args[0], args[1]
			wl := snap.Tables.SkillHero(hero, skill)

			out := cmd.OutOrStdout()
			printHeader(out, fmt.Sprintf("%s with %s", skill, hero))
			printField(out, "Games", strconv.FormatUint(uint64(wl.Total()), 10))
			printField(out, "Win rate", percent(wl.WinRate()))
			printField(out, "Score", decimal(snap.Synergy.SkillHeroSynergy(hero, skill, opts.minGames)))
			return nil
		},
	}

	cmd.AddCommand(heroCmd, skillCmd, crossCmd)
	return cmd
}

func printPartners(w io.Writer, title string, partners []synergy.Partner) {
	printHeader(w, title)
	rows := make([][]string, 0, len(partners))
	for i, p := range partners {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			p.Name,
			decimal(p.Score),
			percent(p.WinRate),
			strconv.FormatUint(uint64(p.Games), 10),
		})
	}
	printTable(w, []string{"#", "PARTNER", "SCORE", "WIN RATE", "GAMES"}, rows)
}
