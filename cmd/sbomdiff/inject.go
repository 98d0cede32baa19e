package main

import (
	"github.com/spf13/cobra"

	"sbomdiff/internal/logging"
	"sbomdiff/internal/spdx"
)

var (
	injectSPDXPath   string
	injectConfigPath string
	injectOutputPath string
)

var injectCmd = &cobra.Command{
	Use:   "inject",
	Short: "Attach a kernel .config to an SPDX3 document",
	Long: `inject reads a kernel .config file and appends its options to an SPDX3
document as a build_Build element tied to the kernel package, so a later
diff of two such documents covers the kernel configuration.

The kernel package is located by its description "Linux kernel.".

Example:
  sbomdiff inject --spdx image.spdx.json --config .config -o image-kernel.spdx.json`,
	Run: runInject,
}

func init() {
	injectCmd.Flags().StringVar(&injectSPDXPath, "spdx", "", "Input SPDX3 JSON document")
	injectCmd.Flags().StringVar(&injectConfigPath, "config", "", "Linux kernel .config file")
	injectCmd.Flags().StringVarP(&injectOutputPath, "output", "o", "", "Output SPDX3 JSON document")
	_ = injectCmd.MarkFlagRequired("spdx")
	_ = injectCmd.MarkFlagRequired("config")
	_ = injectCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(injectCmd)
}

func runInject(cmd *cobra.Command, args []string) {
	log, err := logging.New(logging.Config{
		Format:    logging.Format(logFormat),
		Verbosity: verbosity,
	})
	if err != nil {
		fail(err)
	}

	if err := spdx.InjectFile(injectSPDXPath, injectConfigPath, injectOutputPath, log); err != nil {
		fail(err)
	}
}
