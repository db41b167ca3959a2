package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/draft-advisor/internal/storage"
)

func newBackupCmd(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up and restore the corpus database",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "backup directory (default: backups next to the database)")

	manager := func() *storage.BackupManager {
		return storage.NewBackupManager(a.cfg.Data.DatabasePath, a.logger)
	}

	var name string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Write a verified copy of the corpus database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := manager().Backup(&storage.BackupConfig{
				BackupDir:    dir,
				BackupName:   name,
				VerifyBackup: true,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", path)
			return nil
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "backup name (default: timestamp)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backups, err := manager().ListBackups(dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printHeader(out, "Backups")
			rows := make([][]string, 0, len(backups))
			for _, b := range backups {
				battles := "invalid"
				if b.Battles >= 0 {
					battles = strconv.Itoa(b.Battles)
				}
				rows = append(rows, []string{
					b.Name,
					b.ModTime.Local().Format("2006-01-02 15:04"),
					strconv.FormatInt(b.Size, 10),
					battles,
					b.Checksum[:min(12, len(b.Checksum))],
				})
			}
			printTable(out, []string{"NAME", "CREATED", "BYTES", "BATTLES", "SHA256"}, rows)
			return nil
		},
	}

	restoreCmd := &cobra.Command{
		Use:   "restore FILE",
		Short: "Replace the corpus database with a backup",
		Long: `Replace the corpus database with a verified backup. The current database
is kept next to it with an .old.<timestamp> suffix. Stop any running
server first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := manager().Restore(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s from %s\n", a.cfg.Data.DatabasePath, args[0])
			return nil
		},
	}

	cmd.AddCommand(createCmd, listCmd, restoreCmd)
	return cmd
}
