package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mizanlabs/mizan/internal/parser"
)

func parseCmd() *cobra.Command {
	var inputFile string

	cmd := &cobra.Command{
		Use:   "parse [transaction text]",
		Short: "Parse a transaction scenario and print the extracted features",
		Long: `Parse runs only the feature extractor and prints the structured
transaction as JSON: financial values, accounts, contract terms,
transaction types, journal entries and context.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			switch {
			case len(args) > 0:
				text = strings.Join(args, " ")
			case inputFile != "":
				data, err := os.ReadFile(inputFile)
				if err != nil {
					return fmt.Errorf("failed to read input file: %w", err)
				}
				text = string(data)
			default:
				return errors.New("provide transaction text or --file")
			}

			txn := parser.New().Parse(text)

			out, err := json.MarshalIndent(txn, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal transaction: %w", err)
			}
			cmd.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "read the scenario from a file")
	return cmd
}
