package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mizanlabs/mizan/internal/cli"
	"github.com/mizanlabs/mizan/internal/config"
)

func corpusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Manage the standards corpus",
	}

	cmd.AddCommand(corpusIngestCmd())
	cmd.AddCommand(corpusStatusCmd())
	return cmd
}

func corpusIngestCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "ingest <manifest.yaml>",
		Short: "Ingest standard documents listed in a manifest",
		Long: `Ingest reads the YAML manifest, chunks each listed document into
passages and stores them in the corpus database. Document paths in the
manifest are resolved relative to the manifest file.`,
		Args: cobra.ExactArgs(1),
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

			count, err := passages.Ingest(cmd.Context(), args[0], quiet)
			if err != nil {
				return err
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf(
				"Ingested %d passages into %s", count, cfg.DatabasePath)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the progress bar")
	return cmd
}

func corpusStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show corpus statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			passages, err := initStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = passages.Close() }()

			count, err := passages.Count(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Printf("Database: %s\nPassages: %d\n", cfg.DatabasePath, count)
			return nil
		},
	}
}
