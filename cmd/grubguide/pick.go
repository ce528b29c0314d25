package main

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"grubguide-api/internal/places"
	"grubguide-api/internal/selector"
)

var (
	pickAddress    string
	pickRadius     float64
	pickReroll     bool
	pickPreviousID string
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick one restaurant and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		if pickRadius <= 0 {
			return eris.New("--radius must be positive")
		}

		svc, err := buildService(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer svc.Close()

		if !svc.places.Configured() {
			return eris.Wrap(places.ErrMissingAPIKey, "set GOOGLE_API_KEY")
		}

		body, err := svc.selector.Select(cmd.Context(), selector.Query{
			Origin:      pickAddress,
			RadiusMiles: pickRadius,
			Reroll:      pickReroll,
			PreviousID:  pickPreviousID,
		})
		if err != nil {
			return err
		}

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, body, "", "  "); err != nil {
			return eris.Wrap(err, "format result")
		}
		pretty.WriteByte('\n')
		if _, err := pretty.WriteTo(cmd.OutOrStdout()); err != nil {
			return eris.Wrap(err, "write result")
		}
		return nil
	},
}

func init() {
	pickCmd.Flags().StringVar(&pickAddress, "address", "", "origin address")
	pickCmd.Flags().Float64Var(&pickRadius, "radius", 5, "search radius in miles")
	pickCmd.Flags().BoolVar(&pickReroll, "reroll", false, "skip the cached pick")
	pickCmd.Flags().StringVar(&pickPreviousID, "previous-id", "", "place id to exclude")
	_ = pickCmd.MarkFlagRequired("address")
}
