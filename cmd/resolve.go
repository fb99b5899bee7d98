/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/suderio/arcanum/internal/document"
	"github.com/suderio/arcanum/internal/registry"
	"github.com/suderio/arcanum/internal/repository"
	"github.com/suderio/arcanum/internal/resolver"

	"github.com/spf13/cobra"
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve <system> <component>",
	Short: "Resolve a single component and print the result",
	Long: `Loads a component instance with its template and requirements,
evaluates all formulas, and prints the resolved document as YAML.
On rejection, every issue is listed and the exit code is non-zero.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		system, name := args[0], args[1]

		loader := repository.NewLoader(dataDirs())
		report, err := resolveComponent(loader, system, name)
		if err != nil {
			fmt.Printf("Error resolving %s/%s: %v\n", system, name, err)
			os.Exit(1)
		}

		if !report.Resolved {
			fmt.Printf("Component %s/%s rejected:\n", system, name)
			for _, issue := range report.Issues {
				fmt.Printf("  - %s\n", issue)
			}
			os.Exit(1)
		}

		out, err := document.Encode(report.Document)
		if err != nil {
			fmt.Printf("Error encoding resolved document: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(string(out))
	},
}

// resolveComponent wires the full pipeline for one component: sibling set
// for cross-component lookups, system-defined reducers, template overlay and
// requirement checking.
func resolveComponent(loader *repository.Loader, system, name string) (*resolver.Report, error) {
	instance, err := loader.LoadComponent(system, name)
	if err != nil {
		return nil, err
	}
	template, err := loader.LoadTemplate(system, name)
	if err != nil {
		return nil, err
	}
	reqs, err := loader.LoadRequirements(system, name)
	if err != nil {
		return nil, err
	}
	// TODO: resolve sibling documents before adding them to the set, so
	// cross-component references can reach a sibling's computed fields.
	set, err := loader.LoadSet(system)
	if err != nil {
		return nil, err
	}

	reg := registry.New()
	defs, err := loader.LoadFunctions(system)
	if err != nil {
		return nil, err
	}
	if err := registry.RegisterCEL(reg, defs); err != nil {
		return nil, err
	}

	report := resolver.Resolve(instance, template, reqs, resolver.Options{
		Component: name,
		Host:      set,
		Registry:  reg,
	})
	return report, nil
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
