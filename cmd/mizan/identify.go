package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mizanlabs/mizan/internal/cli"
	"github.com/mizanlabs/mizan/internal/config"
	"github.com/mizanlabs/mizan/internal/engine"
	"github.com/mizanlabs/mizan/internal/report"
)

func identifyCmd() *cobra.Command {
	var (
		inputFile   string
		interactive bool
		markdown    bool
	)

	cmd := &cobra.Command{
		Use:   "identify [transaction text]",
		Short: "Identify the AAOIFI standards applicable to a transaction",
		Long: `Identify parses a transaction scenario, retrieves matching corpus
passages and prints the applicable standards ranked by probability.

The scenario comes from the arguments, --file, or interactively from
stdin (blank line ends a scenario, EOF exits).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			passages, err := initStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = passages.Close() }()

			generator, err := initGenerator(cfg)
			if err != nil {
				return err
			}
			defer generator.Close()

			pipeline := engine.New(passages, generator, nil)

			render := cli.RenderResponse
			if markdown {
				render = func(r report.Response) string { return report.FormatText(r) }
			}

			switch {
			case len(args) > 0:
				return runScenario(cmd, pipeline, strings.Join(args, " "), render)
			case inputFile != "":
				data, err := os.ReadFile(inputFile)
				if err != nil {
					return fmt.Errorf("failed to read input file: %w", err)
				}
				return runScenario(cmd, pipeline, string(data), render)
			case interactive:
				return runInteractive(cmd, pipeline, render)
			default:
				return errors.New("provide transaction text, --file, or --interactive")
			}
		},
	}

	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "read the scenario from a file")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "read scenarios from stdin")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "print the report as Markdown instead of styled output")

	return cmd
}

func runScenario(cmd *cobra.Command, pipeline *engine.Pipeline, text string, render func(report.Response) string) error {
	outcome, err := pipeline.ProcessTransaction(cmd.Context(), text)
	if err != nil {
		return err
	}
	cmd.Print(render(outcome.Response))
	return nil
}

func runInteractive(cmd *cobra.Command, pipeline *engine.Pipeline, render func(report.Response) string) error {
	reader := cli.NewScenarioReader(cmd.InOrStdin())
	cmd.Println(cli.FormatPrompt("Enter a transaction scenario (blank line to analyze, Ctrl+D to exit)"))

	for {
		scenario, err := reader.ReadScenario(cmd.Context())
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, cli.ErrInputCancelled) {
				return nil
			}
			return err
		}

		if err := runScenario(cmd, pipeline, scenario, render); err != nil {
			cmd.PrintErrln(cli.FormatError(err.Error()))
		}
		cmd.Println(cli.FormatPrompt("Next scenario"))
	}
}
