/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/suderio/arcanum/internal/reportlog"
	"github.com/suderio/arcanum/internal/repository"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <system>",
	Short: "Resolve every component in a rule system",
	Long: `Bulk-resolves all components of a rule system and summarizes the
outcome. Use --log to append each report to a JSONL audit log.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		system := args[0]
		logPath, _ := cmd.Flags().GetString("log")

		loader := repository.NewLoader(dataDirs())
		names, err := loader.Components(system)
		if err != nil {
			fmt.Printf("Error listing system %s: %v\n", system, err)
			os.Exit(1)
		}

		var store *reportlog.Store
		if logPath != "" {
			store, err = reportlog.NewStore(logPath)
			if err != nil {
				fmt.Printf("Error opening report log: %v\n", err)
				os.Exit(1)
			}
			defer store.Close()
		}

		bar := progressbar.Default(int64(len(names)), "Resolving components")

		rejected := 0
		var failures []string
		for _, name := range names {
			report, err := resolveComponent(loader, system, name)
			if err != nil {
				fmt.Printf("\nError resolving %s: %v\n", name, err)
				rejected++
				bar.Add(1)
				continue
			}
			if store != nil {
				if err := store.Append(system, report); err != nil {
					fmt.Printf("\nFailed to log report for %s: %v\n", name, err)
				}
			}
			if !report.Resolved {
				rejected++
				failures = append(failures, report.Summary())
			}
			bar.Add(1)
		}

		fmt.Printf("\nChecked %d components: %d resolved, %d rejected.\n",
			len(names), len(names)-rejected, rejected)
		for _, f := range failures {
			fmt.Printf("  %s\n", f)
		}
		if rejected > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().String("log", "", "Append each resolution report to this JSONL file")
}
