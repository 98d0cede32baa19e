package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sbomdiff/internal/report"
)

var validateStrict bool

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check a diff report for internal consistency",
	Long: `validate parses a previously written diff report (JSON or YAML) and
checks that every key is classified exactly once, change entries carry
an actual change, and changed packages have a non-empty feature diff.

Cosmetic findings are warnings unless --strict is given.

Example:
  sbomdiff validate spdx_diff_20260823-120000.json`,
	Args: cobra.ExactArgs(1),
	Run:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false,
		"Treat cosmetic findings as errors")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) {
	data, err := os.ReadFile(args[0])
	if err != nil {
		fail(err)
	}
	doc, err := report.Parse(data)
	if err != nil {
		fail(err)
	}

	mode := report.ValidationPermissive
	if validateStrict {
		mode = report.ValidationStrict
	}
	result := report.NewValidator(report.WithMode(mode)).Validate(doc)

	for i := range result.Errors {
		fmt.Printf("error: %s\n", result.Errors[i].Error())
	}
	for i := range result.Warnings {
		fmt.Printf("warning: %s\n", result.Warnings[i].Error())
	}
	if !result.Valid {
		os.Exit(1)
	}
	fmt.Printf("%s: report is consistent\n", args[0])
}
