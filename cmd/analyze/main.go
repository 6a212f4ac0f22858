// Package main is the entry point for the dealengine analyzer. It reads a
// deal description as JSON, runs the full analysis pipeline (hedonic rent
// prediction, decile classification, yields, appreciation, total returns,
// risk and arbitrage) and prints the analysis record as JSON on stdout.
//
// Reference data (benchmarks, hedonic coefficients, rent thresholds) is
// seeded into a local SQLite database from the embedded research datasets
// on first run. Analysis snapshots are cached so re-running an unchanged
// deal is instant.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/aequitas-re/dealengine/internal/config"
	"github.com/aequitas-re/dealengine/internal/database"
	"github.com/aequitas-re/dealengine/internal/domain"
	"github.com/aequitas-re/dealengine/internal/modules/appreciation"
	"github.com/aequitas-re/dealengine/internal/modules/arbitrage"
	"github.com/aequitas-re/dealengine/internal/modules/benchmarks"
	"github.com/aequitas-re/dealengine/internal/modules/deals"
	"github.com/aequitas-re/dealengine/internal/modules/hedonic"
	"github.com/aequitas-re/dealengine/internal/modules/renttiers"
	"github.com/aequitas-re/dealengine/internal/modules/returns"
	"github.com/aequitas-re/dealengine/internal/modules/risk"
	"github.com/aequitas-re/dealengine/internal/modules/yields"
	"github.com/aequitas-re/dealengine/internal/refcache"
	"github.com/aequitas-re/dealengine/pkg/logger"
)

func main() {
	dealPath := flag.String("f", "", "path to deal JSON (default: read stdin)")
	noCache := flag.Bool("no-cache", false, "skip the snapshot cache for this run")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.PrettyLogs,
	})

	deal, err := readDeal(*dealPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read deal")
	}
	if deal.Geography == "" {
		deal.Geography = cfg.DefaultGeography
	}

	refDB, err := database.New(database.Config{
		Path:    cfg.ReferenceDBPath(),
		Profile: database.ProfileStandard,
		Name:    "reference",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open reference database")
	}
	defer refDB.Close()
	if err := refDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate reference database")
	}

	cacheDB, err := database.New(database.Config{
		Path:    cfg.CacheDBPath(),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer cacheDB.Close()
	if err := cacheDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate cache database")
	}

	snapshots := refcache.NewStore(cacheDB.Conn(), log)
	key := deals.CacheKey(*deal, cfg.ModelVersion)

	useCache := !cfg.DisableSnapshots && !*noCache
	if useCache {
		var cached deals.Analysis
		found, err := snapshots.GetIfFresh(key, &cached)
		if err != nil {
			log.Warn().Err(err).Msg("Snapshot lookup failed, recomputing")
		} else if found {
			log.Info().Str("id", cached.ID).Msg("Serving cached analysis")
			printAnalysis(&cached, log)
			return
		}
	}

	analyzer, err := buildAnalyzer(refDB, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize analysis engines")
	}

	analysis, err := analyzer.Analyze(*deal)
	if err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}

	if useCache {
		if err := snapshots.Store(key, analysis, cfg.SnapshotTTL); err != nil {
			log.Warn().Err(err).Msg("Failed to cache analysis snapshot")
		}
		if _, err := snapshots.DeleteExpired(); err != nil {
			log.Warn().Err(err).Msg("Failed to sweep expired snapshots")
		}
	}

	printAnalysis(analysis, log)
}

// buildAnalyzer seeds the reference data and wires the engine graph.
func buildAnalyzer(refDB *database.DB, cfg *config.Config, log zerolog.Logger) (*deals.Analyzer, error) {
	benchRepo := benchmarks.NewRepository(refDB.Conn(), log)
	if _, err := benchRepo.SeedFromEmbedded(); err != nil {
		return nil, fmt.Errorf("failed to seed benchmarks: %w", err)
	}

	coefRepo := hedonic.NewRepository(refDB.Conn(), log)
	if _, err := coefRepo.SeedFromEmbedded(); err != nil {
		return nil, fmt.Errorf("failed to seed hedonic coefficients: %w", err)
	}

	tierRepo := renttiers.NewRepository(refDB.Conn(), log)
	if _, err := tierRepo.SeedFromEmbedded(); err != nil {
		return nil, fmt.Errorf("failed to seed rent thresholds: %w", err)
	}

	riskEngine, err := risk.NewEngine(benchRepo, log)
	if err != nil {
		return nil, err
	}

	engines := deals.Engines{
		Predictor:  hedonic.NewPredictor(coefRepo, 0, log),
		Classifier: renttiers.NewClassifier(tierRepo, log),
		Returns: returns.NewCalculator(
			yields.NewCalculator(benchRepo, log),
			appreciation.NewProjector(benchRepo, log),
			benchRepo,
			log,
		),
		Risk:      riskEngine,
		Arbitrage: arbitrage.NewEngine(log),
	}

	return deals.NewAnalyzer(engines, cfg.ModelVersion, cfg.HoldingPeriod, log), nil
}

// readDeal parses a deal from the given file, or stdin when path is empty.
func readDeal(path string) (*domain.Deal, error) {
	var raw []byte
	var err error
	if path == "" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read deal input: %w", err)
	}

	var deal domain.Deal
	if err := json.Unmarshal(raw, &deal); err != nil {
		return nil, fmt.Errorf("failed to parse deal JSON: %w", err)
	}
	return &deal, nil
}

func printAnalysis(analysis *deals.Analysis, log zerolog.Logger) {
	out, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode analysis")
	}
	fmt.Println(string(out))
}
