package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/docuport/apiharness/internal/extract"
	"github.com/docuport/apiharness/internal/format"
	"github.com/docuport/apiharness/internal/harness"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <spec-file>",
	Short: "Parse a specification and print its extracted test data",
	Long: `Parses an OpenAPI specification file (YAML or JSON, selected by
extension) and prints the flattened test-data model as JSON. This is the
same structure the e2e assertions run against, so it is the quickest way
to see what a given fixture will assert.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

var (
	noValidate bool
	pathsOnly  bool
)

func init() {
	inspectCmd.Flags().BoolVar(&noValidate, "no-validate", false, "Skip the required info.title/info.version check")
	inspectCmd.Flags().BoolVar(&pathsOnly, "paths", false, "Print endpoint paths only, one per line")
}

func runInspect(cmd *cobra.Command, args []string) error {
	if noValidate {
		viper.Set("parser.validation", false)
	}

	h := harness.New(currentConfig())

	data, err := h.ExtractTestData(args[0], format.FilePath)
	if err != nil {
		return err
	}

	if pathsOnly {
		for _, path := range data.EndpointPaths {
			fmt.Println(path)
		}
		return nil
	}

	return printTestData(data)
}

func printTestData(data *extract.TestData) error {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
