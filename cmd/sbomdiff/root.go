package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sbomdiff/internal/config"
	"sbomdiff/internal/diff"
	"sbomdiff/internal/filterexpr"
	"sbomdiff/internal/logging"
	"sbomdiff/internal/render"
	"sbomdiff/internal/report"
	"sbomdiff/internal/spdx"
	"sbomdiff/internal/version"
)

var (
	outputPath        string
	fullDiff          bool
	ignoreProprietary bool
	summaryOnly       bool
	outputFormat      string
	filterSrc         string
	showAdded         bool
	showRemoved       bool
	showChanged       bool
	showPackages      bool
	showConfig        bool
	showPackageConfig bool
	logFormat         string
	verbosity         int
)

var rootCmd = &cobra.Command{
	Use:   "sbomdiff REFERENCE NEW",
	Short: "Compare build snapshots from SPDX3 SBOMs or kernel configs",
	Long: `sbomdiff compares two snapshots of build metadata and reports which
packages, kernel config options and per-package PACKAGECONFIG features
were added, removed or changed.

Inputs are SPDX3 JSON documents or Linux kernel .config files, plain
or compressed with gzip or zstd.

Examples:
  # Compare two image SBOMs
  sbomdiff reference.spdx.json new.spdx.json

  # Kernel configuration only, console output only
  sbomdiff --format text --show-config reference.spdx.json new.spdx.json

  # Keep only kernel network options
  sbomdiff --filter 'Key startsWith "CONFIG_NET"' old.spdx.json new.spdx.json

  # Compare two kernel configs directly
  sbomdiff .config.old .config.new`,
	Args:    cobra.ExactArgs(2),
	Version: version.Info(),
	Run:     runDiff,
}

func init() {
	rootCmd.SetVersionTemplate("sbomdiff version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console",
		"Log format: console or json")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"Increase verbosity (-v for info, -vv for debug)")

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Report file name (default: spdx_diff_<timestamp>.json)")
	rootCmd.Flags().BoolVar(&fullDiff, "full", false,
		"Include unchanged entries and headers for empty sections")
	rootCmd.Flags().BoolVar(&ignoreProprietary, "ignore-proprietary", false,
		"Ignore packages with LicenseRef-Proprietary")
	rootCmd.Flags().BoolVar(&summaryOnly, "summary", false,
		"Show only summary statistics without detailed differences")
	rootCmd.Flags().StringVar(&outputFormat, "format", "both",
		"Output format: text (console only), json (file only), or both")
	rootCmd.Flags().StringVar(&filterSrc, "filter", "",
		`Expression selecting entries to keep, e.g. 'Key startsWith "CONFIG_NET"'`)
	rootCmd.Flags().BoolVar(&showAdded, "show-added", false, "Show only added items")
	rootCmd.Flags().BoolVar(&showRemoved, "show-removed", false, "Show only removed items")
	rootCmd.Flags().BoolVar(&showChanged, "show-changed", false, "Show only changed items")
	rootCmd.Flags().BoolVar(&showPackages, "show-packages", false, "Show only package differences")
	rootCmd.Flags().BoolVar(&showConfig, "show-config", false, "Show only kernel config differences")
	rootCmd.Flags().BoolVar(&showPackageConfig, "show-packageconfig", false, "Show only PACKAGECONFIG differences")
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}

func runDiff(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}

	// Command line flags win over config file and environment values.
	if !cmd.Flags().Changed("format") {
		outputFormat = cfg.Format
	}
	if !cmd.Flags().Changed("ignore-proprietary") {
		ignoreProprietary = cfg.IgnoreProprietary
	}
	if !cmd.Flags().Changed("full") {
		fullDiff = cfg.Full
	}
	if !cmd.Flags().Changed("log-format") {
		logFormat = cfg.LogFormat
	}

	switch outputFormat {
	case "text", "json", "both":
	default:
		fail(fmt.Errorf("invalid format: %s (valid: text, json, both)", outputFormat))
	}

	log, err := logging.New(logging.Config{
		Format:    logging.Format(logFormat),
		Verbosity: verbosity,
	})
	if err != nil {
		fail(err)
	}

	result, err := computeDiff(args[0], args[1], log)
	if err != nil {
		fail(err)
	}

	if summaryOnly {
		fmt.Print(render.Summary(diff.Summarize(result)))
	} else if outputFormat == "text" || outputFormat == "both" {
		fmt.Print(render.Text(result, render.Options{Full: fullDiff, View: view()}))
	}

	if outputFormat == "json" || outputFormat == "both" {
		path := outputPath
		if path == "" {
			path = fmt.Sprintf("spdx_diff_%s.json", time.Now().Format("20060102-150405"))
		}
		if err := writeReport(result, path, log); err != nil {
			fail(err)
		}
	}
}

func computeDiff(refPath, newPath string, log zerolog.Logger) (*diff.Result, error) {
	opts := spdx.ExtractOptions{IgnoreProprietary: ignoreProprietary}
	ref, refKind, err := spdx.Load(refPath, opts, log)
	if err != nil {
		return nil, err
	}
	cur, curKind, err := spdx.Load(newPath, opts, log)
	if err != nil {
		return nil, err
	}
	if refKind != curKind {
		return nil, fmt.Errorf("cannot compare %s input %s with %s input %s",
			refKind, refPath, curKind, newPath)
	}

	result := diff.Snapshots(ref, cur, diff.Options{IncludeUnchanged: fullDiff})

	if filterSrc == "" {
		return result, nil
	}
	f, err := filterexpr.Compile(filterSrc)
	if err != nil {
		return nil, err
	}
	var matchErr error
	result = result.FilterFunc(func(e diff.Entry) bool {
		ok, err := f.Match(filterexpr.Entry{
			Category: string(e.Category),
			Bucket:   string(e.Bucket),
			Package:  e.Package,
			Key:      e.Key,
			Value:    e.Value,
			From:     e.From,
			To:       e.To,
		})
		if err != nil && matchErr == nil {
			matchErr = err
		}
		return ok
	})
	if matchErr != nil {
		return nil, matchErr
	}
	return result, nil
}

// view builds the text output selection from the show flags. No flags
// on an axis means everything on that axis is shown.
func view() diff.View {
	var v diff.View
	if showPackages {
		v.Categories = append(v.Categories, diff.CategoryPackages)
	}
	if showConfig {
		v.Categories = append(v.Categories, diff.CategoryKernelConfig)
	}
	if showPackageConfig {
		v.Categories = append(v.Categories, diff.CategoryPackageConfig)
	}
	if showAdded {
		v.Buckets = append(v.Buckets, diff.BucketAdded)
	}
	if showRemoved {
		v.Buckets = append(v.Buckets, diff.BucketRemoved)
	}
	if showChanged {
		v.Buckets = append(v.Buckets, diff.BucketChanged)
	}
	return v
}

func writeReport(r *diff.Result, path string, log zerolog.Logger) error {
	log.Info().Str("file", path).Msg("writing diff report")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.New(r).Encode(f, report.FormatForPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
