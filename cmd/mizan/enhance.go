package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mizanlabs/mizan/internal/cli"
	"github.com/mizanlabs/mizan/internal/config"
	"github.com/mizanlabs/mizan/internal/enhance"
)

func enhanceCmd() *cobra.Command {
	var noReport bool

	cmd := &cobra.Command{
		Use:   "enhance <standards.yaml>",
		Short: "Run the standards-enhancement workflow",
		Long: `Enhance reviews the standards in the given YAML file, evaluates
enhancement opportunities for Shariah compliance, financial impact and
regulatory alignment, and prints prioritized amendment proposals.

The input file is a list of standards:

  - id: "FAS 10"
    title: "Istisna'a and Parallel Istisna'a"
    content: |
      ...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			standards, err := loadStandards(args[0])
			if err != nil {
				return err
			}

			generator, err := initGenerator(cfg)
			if err != nil {
				return err
			}
			defer generator.Close()

			outputDir := cfg.OutputDir
			if noReport {
				outputDir = ""
			}

			coordinator := enhance.NewCoordinator(generator, nil, enhance.Config{
				OutputDir: outputDir,
				Secondary: generator,
			})

			summary, err := coordinator.Run(cmd.Context(), standards)
			if err != nil {
				return err
			}

			cmd.Print(cli.RenderEnhancementSummary(summary))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noReport, "no-report", false, "do not write a workflow report file")
	return cmd
}

func loadStandards(path string) ([]enhance.Standard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read standards file: %w", err)
	}

	var standards []enhance.Standard
	if err := yaml.Unmarshal(data, &standards); err != nil {
		return nil, fmt.Errorf("failed to parse standards file: %w", err)
	}
	return standards, nil
}
