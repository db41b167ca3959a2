package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/draft-advisor/internal/battle"
)

func newImportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [DIR]",
		Short: "Import battle files into the corpus database",
		Long: `Read every battle JSON file in DIR (default: the configured battles
directory) and upsert it into the SQLite corpus database by source id.
Re-importing a file replaces its stored copy. Draws are not stored.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.Data.BattlesDir
			if len(args) == 1 {
				dir = args[0]
			}

			records, err := battle.NewDirSource(dir, a.logger).Load(cmd.Context())
			if err != nil {
				return err
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			written, err := store.ImportRecords(cmd.Context(), records)
			if err != nil {
				return err
			}
			total, err := store.Battles().Count(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d battles from %s (%d stored)\n", written, dir, total)
			return nil
		},
	}
	return cmd
}
