package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/travelblogr/placemedia/internal/hierarchy"
	"github.com/travelblogr/placemedia/internal/model"
)

var acquireFlags placeFlags

var acquireCmd = &cobra.Command{
	Use:   "acquire <place-name>",
	Short: "Fetch ranked media candidates for a place",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := acquireFlags.request(args[0])
		if err != nil {
			return err
		}

		env, err := buildEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Facade.Acquire(cmd.Context(), req)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

// placeFlags is the shared flag set for commands that address one place.
type placeFlags struct {
	kind      string
	district  string
	county    string
	region    string
	country   string
	continent string
	limit     int
	min       int
	bulk      bool
}

func (f *placeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "kind", "image", "candidate kind: image or poi")
	cmd.Flags().StringVar(&f.district, "district", "", "district or neighborhood")
	cmd.Flags().StringVar(&f.county, "county", "", "county or province")
	cmd.Flags().StringVar(&f.region, "region", "", "region or state")
	cmd.Flags().StringVar(&f.country, "country", "", "country")
	cmd.Flags().StringVar(&f.continent, "continent", "", "continent (inferred from country when omitted)")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "max results per level (default from config)")
	cmd.Flags().IntVar(&f.min, "min", 0, "minimum acceptable results (default from config)")
	cmd.Flags().BoolVar(&f.bulk, "bulk", false, "gallery mode: fetch a full quota from the best provider")
}

func (f *placeFlags) request(name string) (model.AcquisitionRequest, error) {
	kind, err := model.ParseKind(f.kind)
	if err != nil {
		return model.AcquisitionRequest{}, err
	}

	h, err := hierarchy.Resolve(hierarchy.Place{
		Name:      name,
		District:  f.district,
		County:    f.county,
		Region:    f.region,
		Country:   f.country,
		Continent: f.continent,
	})
	if err != nil {
		return model.AcquisitionRequest{}, err
	}

	req := model.AcquisitionRequest{
		EntityKey:          name,
		Kind:               kind,
		Hierarchy:          h,
		MinResults:         orDefault(f.min, cfg.Acquire.MinResults),
		MaxResultsPerLevel: orDefault(f.limit, cfg.Acquire.MaxResultsPerLevel),
		BulkQuota:          cfg.Acquire.BulkQuota,
		ProviderTimeout:    cfg.Acquire.ProviderTimeout(),
	}
	if f.bulk {
		req.MaxResultsPerLevel = req.Normalize().BulkQuota
	}
	return req, nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func init() {
	acquireFlags.register(acquireCmd)
	rootCmd.AddCommand(acquireCmd)
}
