package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/travelblogr/placemedia/internal/hierarchy"
	"github.com/travelblogr/placemedia/internal/model"
)

var revalidateOnce bool

// revalidateEntity is one row of the entities file: a place plus the kinds
// to keep fresh for it.
type revalidateEntity struct {
	Name      string   `yaml:"name"`
	District  string   `yaml:"district"`
	County    string   `yaml:"county"`
	Region    string   `yaml:"region"`
	Country   string   `yaml:"country"`
	Continent string   `yaml:"continent"`
	Kinds     []string `yaml:"kinds"`
}

type revalidateFile struct {
	Entities []revalidateEntity `yaml:"entities"`
}

var revalidateCmd = &cobra.Command{
	Use:   "revalidate",
	Short: "Periodically refetch the configured entity list",
	Long:  "Reads the entities file and refetches each place on the configured cron schedule, keeping popular destinations fresh without waiting for TTL expiry.",
	RunE: func(cmd *cobra.Command, args []string) error {
		entities, err := loadEntities(cfg.Revalidate.EntitiesPath)
		if err != nil {
			return err
		}
		if len(entities) == 0 {
			return eris.New("revalidate: entities file lists no entities")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := buildEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if revalidateOnce {
			sweep(ctx, env, entities)
			return nil
		}

		c := cron.New()
		if _, err := c.AddFunc(cfg.Revalidate.Schedule, func() {
			sweep(ctx, env, entities)
		}); err != nil {
			return eris.Wrapf(err, "revalidate: bad schedule %q", cfg.Revalidate.Schedule)
		}

		zap.L().Info("revalidation scheduler running",
			zap.String("schedule", cfg.Revalidate.Schedule),
			zap.Int("entities", len(entities)))
		c.Start()
		<-ctx.Done()
		<-c.Stop().Done()
		return nil
	},
}

func loadEntities(path string) ([]revalidateEntity, error) {
	if path == "" {
		return nil, eris.New("revalidate: revalidate.entities_path is not configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "revalidate: reading %s", path)
	}
	var f revalidateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "revalidate: parsing %s", path)
	}
	return f.Entities, nil
}

// sweep refetches every entity/kind pair, logging and continuing on failure
// so one broken place never stalls the rest of the list.
func sweep(ctx context.Context, env *engine, entities []revalidateEntity) {
	for _, e := range entities {
		h, err := hierarchy.Resolve(hierarchy.Place{
			Name:      e.Name,
			District:  e.District,
			County:    e.County,
			Region:    e.Region,
			Country:   e.Country,
			Continent: e.Continent,
		})
		if err != nil {
			zap.L().Warn("skipping unresolvable entity",
				zap.String("entity", e.Name), zap.Error(err))
			continue
		}

		kinds := e.Kinds
		if len(kinds) == 0 {
			kinds = []string{string(model.KindImage), string(model.KindPOI)}
		}
		for _, ks := range kinds {
			kind, err := model.ParseKind(ks)
			if err != nil {
				zap.L().Warn("skipping unknown kind",
					zap.String("entity", e.Name), zap.String("kind", ks))
				continue
			}

			req := model.AcquisitionRequest{
				EntityKey:          e.Name,
				Kind:               kind,
				Hierarchy:          h,
				MinResults:         cfg.Acquire.MinResults,
				MaxResultsPerLevel: cfg.Acquire.MaxResultsPerLevel,
				BulkQuota:          cfg.Acquire.BulkQuota,
				ProviderTimeout:    cfg.Acquire.ProviderTimeout(),
			}
			result, err := env.Facade.Refetch(ctx, req)
			if err != nil {
				zap.L().Warn("refetch failed",
					zap.String("entity", e.Name),
					zap.String("kind", ks),
					zap.Error(err))
				continue
			}
			zap.L().Info("refetched",
				zap.String("entity", e.Name),
				zap.String("kind", ks),
				zap.Int("candidates", len(result.Candidates)))
		}

		if ctx.Err() != nil {
			return
		}
	}
}

func init() {
	revalidateCmd.Flags().BoolVar(&revalidateOnce, "once", false, "run one sweep immediately and exit")
	rootCmd.AddCommand(revalidateCmd)
}
