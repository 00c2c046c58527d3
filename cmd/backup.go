package cmd

import (
	"fmt"

	"github.com/YangQing-Lin/playbook/internal/i18n"
	"github.com/spf13/cobra"
)

// backupCmd represents the backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up the settings file",
	Long: `Back up, list and restore the settings file.

Every write already keeps a rotating automatic backup (auto_*); this command
creates a manual one (backup_*) that is kept until ten newer manual backups exist.

Subcommands:
  pb backup               # create a backup
  pb backup list          # list backups, newest first
  pb backup restore <id>  # restore a backup`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := loadSettings()
		if err != nil {
			return err
		}

		id, err := store.Backup()
		if err != nil {
			return err
		}
		printSuccess(cmd.ErrOrStderr(), i18n.T("backup.created", id))
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List backups, newest first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStore()
		if err != nil {
			return err
		}

		backups, err := store.Backups()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(backups) == 0 {
			fmt.Fprintln(w, i18n.T("backup.none"))
			return nil
		}
		for _, b := range backups {
			kind := "manual"
			if b.Auto {
				kind = "auto"
			}
			fmt.Fprintf(w, "%-40s %-6s %s  %6.2f KB\n",
				b.ID, kind, b.Timestamp.Local().Format("2006-01-02 15:04:05"), float64(b.Size)/1024)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupListCmd)
}
