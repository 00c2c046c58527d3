package cmd

import (
	"errors"

	"github.com/YangQing-Lin/playbook/internal/i18n"
	"github.com/spf13/cobra"
)

var restoreLatest bool

// restoreCmd represents the backup restore command
var restoreCmd = &cobra.Command{
	Use:   "restore [backup-id]",
	Short: "Restore the settings file from a backup",
	Long: `Restore the settings file from a backup listed by "pb backup list".
The current settings are backed up first, so a restore can be undone.

Examples:
  pb backup restore backup_20250101-120000_ab12cd34
  pb backup restore --latest`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStore()
		if err != nil {
			return err
		}

		var id string
		switch {
		case len(args) > 0:
			id = args[0]
		case restoreLatest:
			backups, err := store.Backups()
			if err != nil {
				return err
			}
			if len(backups) == 0 {
				return errors.New(i18n.T("backup.none"))
			}
			id = backups[0].ID
		default:
			return errors.New("specify a backup id or use --latest")
		}

		previous, err := store.Restore(id)
		if err != nil {
			return err
		}
		printSuccess(cmd.ErrOrStderr(), i18n.T("backup.restored", id, previous))
		return nil
	},
}

func init() {
	backupCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().BoolVar(&restoreLatest, "latest", false, "restore the newest backup")
}
