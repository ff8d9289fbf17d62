package main

import (
	"context"
	"flag"
	"time"

	"clan_war_stats/internal/app"
	"clan_war_stats/internal/clanapi"
	"clan_war_stats/internal/demo"
	"clan_war_stats/internal/deployment"
	"clan_war_stats/internal/processing"
	"clan_war_stats/internal/sheets"
	"clan_war_stats/internal/storage"
	"clan_war_stats/internal/warehouse"
	"clan_war_stats/internal/web"

	"github.com/rs/zerolog/log"
)

func main() {
	app.SetupEnvironment()

	// Parse command line flags
	interval := flag.Duration("interval", 5*time.Minute, "Interval between war updates (e.g., 5m, 10m)")
	runOnce := flag.Bool("once", false, "Run once and exit (don't start scheduler)")
	runDemo := flag.Bool("demo", false, "Run a simulated season instead of polling the API")
	demoSeed := flag.Int64("demo-seed", time.Now().UnixNano(), "Seed for the simulated season")
	flag.Parse()

	log.Info().
		Dur("interval", *interval).
		Bool("run_once", *runOnce).
		Msg("Starting Clan War Stats application")

	if *runDemo {
		runSimulatedSeason(*demoSeed)
		return
	}

	// Load configuration
	config, err := app.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set the update interval from command line flag
	config.UpdateInterval = *interval

	ctx := context.Background()

	// Initialize clients
	clanClient := clanapi.NewClient(config.APIBaseURL, config.APIToken)

	store := storage.NewLedgerStore(config.DataDir)
	ledger := store.Load()

	var uploader processing.ArchiveUploaderInterface
	if config.DeployURL != "" {
		uploader = deployment.NewArchiveUploader(config.DeployURL)
	}

	var exporter processing.StandingsExporterInterface
	if config.SpreadsheetID != "" {
		sheetsClient, err := sheets.NewClient(ctx, config.CredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create sheets client")
		}
		exporter = sheets.NewStandingsExporter(sheetsClient, config.SpreadsheetID)
	}

	var sink processing.DeltaSinkInterface
	if config.BigQueryProject != "" && config.BigQueryDataset != "" {
		deltaSink, err := warehouse.NewDeltaSink(ctx, config.BigQueryProject, config.BigQueryDataset)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create warehouse sink")
		}
		defer deltaSink.Close()
		sink = deltaSink
	}

	// Initialize war processor
	cache := processing.NewStateCache()
	merger := processing.NewHistoryMerger(store, uploader)
	warProcessor := processing.NewWarProcessor(clanClient, merger, cache, exporter, sink, config, ledger)

	// Define the main processing function
	processWar := func() {
		log.Debug().Msg("Starting war processing cycle")

		// Reset API call counter at the start of each cycle
		clanClient.ResetAPICallCount()

		if err := warProcessor.ProcessCurrentWar(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to process current war")
			return
		}

		apiCalls := clanClient.GetAPICallCount()
		log.Info().
			Int64("api_calls", apiCalls).
			Msg("Completed war processing cycle")
	}

	// Run initial processing
	log.Info().Msg("Running initial war processing")
	processWar()

	// Exit if run-once flag is set
	if *runOnce {
		log.Info().Msg("Run-once mode: exiting after initial processing")
		return
	}

	// Serve cached state while the scheduler runs
	server := web.NewServer(cache, config.Port)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Start scheduled processing
	log.Info().
		Dur("interval", *interval).
		Msg("Starting scheduled war processing")

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for range ticker.C {
		processWar()
	}
}

// runSimulatedSeason drives a synthetic season through the real merge path
// and logs the resulting standings, useful for trying the stats pipeline
// without API credentials.
func runSimulatedSeason(seed int64) {
	log.Info().Int64("seed", seed).Msg("Running simulated season")

	store := storage.NewLedgerStore(".")
	merger := processing.NewHistoryMerger(store, nil)
	ledger := demo.NewGenerator(seed, merger).RunWeeks(1, 0, 1)

	decks := processing.Aggregate(ledger, processing.AllDays, processing.MetricDecks)
	fame := processing.Aggregate(ledger, processing.AllDays, processing.MetricFame)

	for tag, total := range decks.ParticipantTotals {
		log.Info().
			Str("tag", tag).
			Int("decks", total).
			Int("fame", fame.ParticipantTotals[tag]).
			Msg("Simulated member")
	}

	log.Info().
		Int("total_decks", decks.Total).
		Int("max_decks", decks.MaxPossible).
		Int("total_fame", fame.Total).
		Msg("Simulated season complete")
}
