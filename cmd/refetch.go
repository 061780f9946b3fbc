package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/travelblogr/placemedia/internal/model"
)

var refetchFlags placeFlags

var refetchCmd = &cobra.Command{
	Use:   "refetch <place-name>",
	Short: "Force-refresh cached media for a place",
	Long:  "Runs a fresh acquisition and swaps the result into the cache. The existing entry keeps serving until fresh candidates exist, so a failing refetch never loses the last good data.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := refetchFlags.request(args[0])
		if err != nil {
			return err
		}

		env, err := buildEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Facade.Refetch(cmd.Context(), req)
		if err != nil {
			return err
		}
		printRefetch(result)
		return nil
	},
}

func printRefetch(result *model.AcquisitionResult) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
}

func init() {
	refetchFlags.register(refetchCmd)
	rootCmd.AddCommand(refetchCmd)
}
