package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/kanon0111/sdlg-edu/internal/config"
	"github.com/kanon0111/sdlg-edu/internal/generator"
	"github.com/kanon0111/sdlg-edu/internal/logger"
	"github.com/kanon0111/sdlg-edu/internal/output"
	"github.com/kanon0111/sdlg-edu/internal/pools"
	"github.com/kanon0111/sdlg-edu/internal/recipe"
)

type runSummary struct {
	RunID         string             `json:"run_id"`
	Seed          int64              `json:"seed"`
	Deterministic bool               `json:"deterministic"`
	PerTopic      int                `json:"n_per_topic"`
	Settings      config.Settings    `json:"settings"`
	Stats         generator.RunStats `json:"stats"`
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	recipePath := flag.String("recipe", "", "Path to recipe JSONL file")
	seed := flag.Int64("seed", 42, "Random seed")
	deterministic := flag.Bool("deterministic", false, "Derive the run id from the inputs instead of a random uuid")
	outDir := flag.String("outdir", "", "Output directory")
	perTopic := flag.Int("n-per-topic", 100, "Items to generate per recipe line")
	settingsPath := flag.String("settings", cfg.SettingsPath, "Optional YAML file overriding generation settings")
	poolsPath := flag.String("pools", cfg.PoolsPath, "Optional YAML file replacing the built-in lexical pools")
	logMode := flag.String("log-mode", cfg.LogMode, "Log mode: dev or prod")
	flag.Parse()

	if *recipePath == "" || *outDir == "" {
		fmt.Fprintln(os.Stderr, "--recipe and --outdir are required")
		os.Exit(2)
	}

	log, err := logger.New(*logMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		log.Fatal("Failed to load settings", "error", err)
	}
	lexicon, poolsDigest, err := pools.LoadWithDigest(*poolsPath)
	if err != nil {
		log.Fatal("Failed to load pools", "error", err)
	}
	specs, err := recipe.Load(*recipePath)
	if err != nil {
		log.Fatal("Failed to load recipe", "path", *recipePath, "error", err)
	}

	runID := uuid.New()
	if *deterministic {
		runID = recipe.Fingerprint(*seed, *perTopic, specs, settings.String()+" pools="+poolsDigest)
	}
	log = log.With("run_id", runID.String())
	log.Info("Starting generation",
		"recipe", *recipePath,
		"recipe_lines", len(specs),
		"n_per_topic", *perTopic,
		"seed", *seed,
	)

	driver, err := generator.NewDriver(settings, lexicon, generator.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to build driver", "error", err)
	}

	w, outPath, err := output.Create(*outDir)
	if err != nil {
		log.Fatal("Failed to create output", "error", err)
	}
	stats, runErr := driver.Run(generator.NewState(*seed), specs, *perTopic, w)
	if err := w.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		log.Fatal("Generation aborted", "error", runErr)
	}

	statsPath, err := output.WriteJSON(*outDir, output.StatsFile, runSummary{
		RunID:         runID.String(),
		Seed:          *seed,
		Deterministic: *deterministic,
		PerTopic:      *perTopic,
		Settings:      settings,
		Stats:         stats,
	})
	if err != nil {
		log.Warn("Failed to write stats", "error", err)
	}

	fmt.Printf("Saved: %s  (%d rows)\n", outPath, w.Rows())
	fmt.Printf("Recipe lines: %d | per-topic: %d\n", len(specs), *perTopic)
	for _, ts := range stats.Topics {
		if ts.Short {
			fmt.Printf("Short: %q (%s) %d/%d after %d attempts\n", ts.Topic, ts.Pattern, ts.Accepted, ts.Requested, ts.Attempts)
		}
	}
	fmt.Printf("Accepted: %d/%d | attempts: %d | discarded slots: %d | short topics: %d\n",
		stats.Accepted, stats.Requested, stats.Attempts, stats.DiscardedSlots, stats.ShortTopics)
	if statsPath != "" {
		fmt.Printf("Stats: %s\n", statsPath)
	}
}
