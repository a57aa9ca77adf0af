package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/meridian-advisory/renewal-intel/internal/service"
)

var (
	flagsCustomer string
	flagsInput    string
)

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "Evaluate a book of business and print per-policy flags",
	Long:  "Fetches the customer's policies (or reads a local JSON fixture), runs the flag rules, and prints the evaluated book with alerts and stats as JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		var result *service.Evaluation
		if flagsInput != "" {
			raw, err := readPolicyFixture(flagsInput)
			if err != nil {
				return err
			}
			result, err = e.Service.EvaluateRecords(ctx, flagsCustomer, raw)
			if err != nil {
				return err
			}
		} else {
			result, err = e.Service.EvaluateBook(ctx, flagsCustomer)
			if err != nil {
				return err
			}
		}

		return printJSON(cmd, result)
	},
}

func readPolicyFixture(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read policy fixture")
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(err, "decode policy fixture")
	}
	return raw, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode output")
}

func init() {
	flagsCmd.Flags().StringVar(&flagsCustomer, "customer", "", "customer identifier")
	flagsCmd.Flags().StringVar(&flagsInput, "input", "", "local JSON fixture of raw policy records")
	flagsCmd.MarkFlagRequired("customer")
	rootCmd.AddCommand(flagsCmd)
}
