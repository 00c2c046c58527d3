package cmd

import (
	"github.com/YangQing-Lin/playbook/internal/i18n"
	"github.com/YangQing-Lin/playbook/internal/settings"
	"github.com/YangQing-Lin/playbook/internal/utils"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export settings as JSON, YAML or TOML",
	Long: `Export the settings to stdout or a file, to share scripts or move machines.

YAML keeps the order of your scripts; TOML tables are written sorted.

Examples:
  pb export                          # JSON on stdout
  pb export --format yaml            # YAML on stdout
  pb export --output playbook.toml   # format taken from the extension`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := loadSettings()
		if err != nil {
			return err
		}

		format := settings.FormatFromPath(exportOutput)
		if cmd.Flags().Changed("format") || exportOutput == "" {
			if format, err = settings.ParseFormat(exportFormat); err != nil {
				return err
			}
		}

		data, err := settings.Encode(st, format)
		if err != nil {
			return err
		}

		if exportOutput == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := utils.AtomicWriteFile(exportOutput, data, 0644); err != nil {
			return err
		}
		printSuccess(cmd.ErrOrStderr(), i18n.T("export.done", exportOutput))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "output format: json, yaml, toml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to a file instead of stdout")
}
