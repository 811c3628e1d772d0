package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fieldops/surveyroute/pkg/engine"
	"github.com/fieldops/surveyroute/pkg/exporter"
	"github.com/fieldops/surveyroute/pkg/importer"
	"github.com/fieldops/surveyroute/pkg/logger"
	"github.com/fieldops/surveyroute/pkg/model"
	"github.com/fieldops/surveyroute/pkg/routeoptimizer"
	"github.com/fieldops/surveyroute/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	inputPath      = flag.String("input", "", "address csv file to group")
	district       = flag.String("district", "", "district the addresses belong to")
	village        = flag.String("village", "", "village the addresses belong to")
	targetSize     = flag.Int("target_size", 0, "addresses per group (exclusive with target_groups)")
	targetGroups   = flag.Int("target_groups", 0, "number of groups to form (takes priority over target_size)")
	strategy       = flag.String("strategy", "", "grouping strategy: auto|geographic|street-first|neighbor-first|distance-based|simple")
	algorithm      = flag.String("clustering", "", "clustering algorithm: kmeans|dbscan|simple")
	routeAlgorithm = flag.String("route", "", "route optimization: nearest_neighbor|two_opt|genetic")
	outputDir      = flag.String("out", ".", "directory the exports are written to")
	formats        = flag.String("formats", "csv,json", "comma-separated export formats: csv|summary|json|geojson")
)

func main() {
	flag.Parse()

	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	viper.SetDefault("TARGET_SIZE", 0)
	viper.SetDefault("STRATEGY", "")
	viper.SetDefault("CLUSTERING_ALGORITHM", "")
	viper.SetDefault("ROUTE_ALGORITHM", "")
	viper.SetDefault("WORKERS", 0)

	// Flags always win; the config file just supplies site defaults.
	if err := util.ReadConfig(); err != nil {
		log.Info("no config file found, running on flags and defaults")
	}

	cfg, err := buildConfig()
	if err != nil {
		log.Error("invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	if *inputPath == "" {
		log.Error("missing -input address csv")
		os.Exit(1)
	}

	addrs, err := importer.ReadAddresses(*inputPath)
	if err != nil {
		log.Error("reading addresses failed", zap.String("path", *inputPath), zap.Error(err))
		os.Exit(1)
	}
	if len(addrs) == 0 {
		log.Error("not enough address data to form any group", zap.String("path", *inputPath))
		os.Exit(1)
	}

	log.Info("loaded addresses",
		zap.String("path", *inputPath),
		zap.Int("count", len(addrs)))

	groupingEngine, err := engine.New(cfg, log)
	if err != nil {
		log.Error("engine construction failed", zap.Error(err))
		os.Exit(1)
	}

	result, err := groupingEngine.Run(addrs, *district, *village)
	if err != nil {
		log.Error("grouping run failed", zap.Error(err))
		os.Exit(1)
	}

	stats := result.Statistics()
	log.Info("grouping finished",
		zap.Int("groups", result.TotalGroups()),
		zap.Float64("avg_group_size", stats.AvgGroupSize),
		zap.Float64("total_distance_m", stats.TotalEstimatedDistance),
		zap.Int("total_time_min", stats.TotalEstimatedTime))

	if err := export(result, log); err != nil {
		log.Error("export failed", zap.Error(err))
		os.Exit(1)
	}
}

func buildConfig() (engine.Config, error) {
	cfg := engine.Config{
		TargetSize:       firstNonZero(*targetSize, viper.GetInt("TARGET_SIZE")),
		TargetGroupCount: *targetGroups,
		Workers:          viper.GetInt("WORKERS"),
	}

	strategyName := firstNonEmpty(*strategy, viper.GetString("STRATEGY"))
	if strategyName != "" {
		parsed, err := model.ParseGroupingStrategy(strategyName)
		if err != nil {
			return engine.Config{}, err
		}
		cfg.Strategy = parsed
	}

	algorithmName := firstNonEmpty(*algorithm, viper.GetString("CLUSTERING_ALGORITHM"))
	if algorithmName != "" {
		parsed, err := model.ParseClusteringAlgorithm(algorithmName)
		if err != nil {
			return engine.Config{}, err
		}
		cfg.Algorithm = parsed
	}

	routeName := firstNonEmpty(*routeAlgorithm, viper.GetString("ROUTE_ALGORITHM"))
	if routeName != "" {
		parsed, err := routeoptimizer.ParseAlgorithm(routeName)
		if err != nil {
			return engine.Config{}, err
		}
		cfg.RouteAlgorithm = parsed
	}

	return cfg, nil
}

// export writes every requested format concurrently; they only read the
// result.
func export(result *model.GroupingResult, log *zap.Logger) error {
	prefix := fmt.Sprintf("%s%s_groups", result.District, result.Village)

	g := errgroup.Group{}
	for _, format := range strings.Split(*formats, ",") {
		format := strings.TrimSpace(format)
		if format == "" {
			continue
		}

		path := filepath.Join(*outputDir, prefix+"."+extensionFor(format))
		g.Go(func() error {
			var err error
			switch format {
			case "csv":
				err = exporter.ExportGroupsCSV(result, path)
			case "summary":
				err = exporter.ExportSummaryCSV(result, path)
			case "json":
				err = exporter.ExportJSON(result, path)
			case "geojson":
				err = exporter.ExportGeoJSON(result, path)
			default:
				return fmt.Errorf("unknown export format %q", format)
			}
			if err != nil {
				return err
			}
			log.Info("export written", zap.String("format", format), zap.String("path", path))
			return nil
		})
	}

	return g.Wait()
}

func extensionFor(format string) string {
	switch format {
	case "summary":
		return "summary.csv"
	case "geojson":
		return "geojson"
	case "json":
		return "json"
	default:
		return "csv"
	}
}

func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
