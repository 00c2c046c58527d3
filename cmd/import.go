package cmd

import (
	"fmt"
	"os"

	"github.com/YangQing-Lin/playbook/internal/i18n"
	"github.com/YangQing-Lin/playbook/internal/settings"
	"github.com/spf13/cobra"
)

var (
	importMerge  bool
	importDryRun bool
	importFormat string
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import settings from a JSON, YAML or TOML file",
	Long: `Replace the settings with the content of a file written by "pb export".

With --merge, only projects, scripts and options that do not exist yet are
added; nothing already saved is changed. --dry-run prints the difference and
writes nothing.

Examples:
  pb import playbook.yaml
  pb import shared.json --merge --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, current, err := loadSettings()
		if err != nil {
			return err
		}

		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		format := settings.FormatFromPath(path)
		if importFormat != "" {
			if format, err = settings.ParseFormat(importFormat); err != nil {
				return err
			}
		}
		incoming, err := settings.Decode(data, format)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}

		next := incoming
		if importMerge {
			next = mergeSettings(current, incoming)
		}

		diff, changed, err := settings.Diff(current, next, store.Path(), path)
		if err != nil {
			return err
		}
		w := cmd.ErrOrStderr()
		if !changed {
			printHint(w, i18n.T("import.no_changes"))
			return nil
		}
		if importDryRun {
			fmt.Fprint(cmd.OutOrStdout(), settings.FormatDiffForCLI(diff))
			printHint(w, i18n.T("import.dry_run"))
			return nil
		}

		if err := store.Write(next, "import"); err != nil {
			return err
		}
		projects, scripts := countNew(current, next)
		printSuccess(w, i18n.T("import.done", projects, scripts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVar(&importMerge, "merge", false, "only add what is missing")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "print the changes without writing them")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "input format (default: from the file extension)")
}

// mergeSettings adds to current what only incoming has, one level deep for scripts
func mergeSettings(current, incoming *settings.Settings) *settings.Settings {
	out := &settings.Settings{
		Projects: append([]settings.Project(nil), current.Projects...),
		Scripts:  current.Scripts.Clone(),
		Options:  make(map[string]settings.Option, len(current.Options)),
		Language: current.Language,
	}
	for _, p := range incoming.Projects {
		if _, exists := out.FindProject(p.Name); !exists {
			out.Projects = append(out.Projects, p)
		}
	}
	for _, k := range incoming.Scripts.Keys() {
		if _, exists := out.Scripts.Get(k); !exists {
			node, _ := incoming.Scripts.Get(k)
			out.Scripts.Set(k, node)
		}
	}
	for name, opt := range current.Options {
		out.Options[name] = opt
	}
	for name, opt := range incoming.Options {
		if _, exists := out.Options[name]; !exists {
			out.Options[name] = opt
		}
	}
	if out.Language == "" {
		out.Language = incoming.Language
	}
	return out
}

// countNew counts projects and top-level scripts of next missing from current
func countNew(current, next *settings.Settings) (projects, scripts int) {
	for _, p := range next.Projects {
		if _, ok := current.FindProject(p.Name); !ok {
			projects++
		}
	}
	for _, k := range next.Scripts.Keys() {
		if _, ok := current.Scripts.Get(k); !ok {
			scripts++
		}
	}
	return projects, scripts
}
