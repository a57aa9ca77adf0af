package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	recommendClient  string
	recommendChanges string
	recommendList    bool
	recommendLimit   int
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Synthesize product recommendations for a client",
	Long:  "Merges an optional profile-changes JSON document onto the client's baseline suitability profile, ranks the product catalog against it, and prints the full run with explanation and reasons to switch.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		if recommendList {
			records, err := e.Store.ListRecommendationRuns(ctx, recommendClient, recommendLimit)
			if err != nil {
				return err
			}
			return printJSON(cmd, records)
		}

		var changesJSON []byte
		if recommendChanges != "" {
			changesJSON, err = os.ReadFile(recommendChanges)
			if err != nil {
				return eris.Wrap(err, "read changes file")
			}
		}

		run, err := e.Service.Recommend(ctx, recommendClient, changesJSON)
		if err != nil {
			return err
		}
		return printJSON(cmd, run)
	},
}

func init() {
	recommendCmd.Flags().StringVar(&recommendClient, "client", "", "client identifier")
	recommendCmd.Flags().StringVar(&recommendChanges, "changes", "", "path to a profile-changes JSON document")
	recommendCmd.Flags().BoolVar(&recommendList, "list", false, "list persisted runs instead of creating one")
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", 0, "max runs to list")
	recommendCmd.MarkFlagRequired("client")
	rootCmd.AddCommand(recommendCmd)
}
