package main

import (
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"claimsql/adapters/docs"
	"claimsql/adapters/export"
	"claimsql/adapters/llm"
	"claimsql/adapters/postgres"
	"claimsql/adapters/warehouse"
	"claimsql/ai"
	"claimsql/api"
	"claimsql/app"
	"claimsql/domain/criteria"
	"claimsql/domain/rules"
	"claimsql/domain/sqlguard"
	"claimsql/internal/config"
	"claimsql/internal/usage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[Main] No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("[Main] Configuration error: %v", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		log.Printf("[Main] Fatal: %v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	tables, err := rules.LoadTables(cfg.Paths.TablesConfig)
	if err != nil {
		return err
	}
	lookup, err := rules.LoadLookup(cfg.Paths.LookupConfig)
	if err != nil {
		return err
	}
	normalizer, err := criteria.NewNormalizer(cfg.Paths.ReplacementsFile)
	if err != nil {
		return err
	}

	warehouseDB, err := sqlx.Connect("postgres", cfg.Warehouse.URL)
	if err != nil {
		return err
	}
	defer warehouseDB.Close()

	// Bookkeeping shares the warehouse connection unless pointed elsewhere.
	bookkeepingDB := warehouseDB
	if cfg.Bookkeeping.URL != "" && cfg.Bookkeeping.URL != cfg.Warehouse.URL {
		bookkeepingDB, err = sqlx.Connect("postgres", cfg.Bookkeeping.URL)
		if err != nil {
			return err
		}
		defer bookkeepingDB.Close()
	}

	llmClient, err := llm.NewOpenAIClient(llm.Config{
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
		Seed:        cfg.AI.Seed,
		Timeout:     5 * time.Minute,
	})
	if err != nil {
		return err
	}

	exporter, err := export.ForFormat(cfg.Paths.ExportFormat, cfg.Paths.ExportDir)
	if err != nil {
		return err
	}

	catalog := rules.NewCatalog()
	tracker := usage.NewTracker()
	sessions := postgres.NewSessionRepository(bookkeepingDB)
	usageRepo := postgres.NewUsageRepository(bookkeepingDB)

	pipeline := app.NewPipeline(app.PipelineDeps{
		Normalizer: normalizer,
		Assembler:  ai.NewPromptAssembler(catalog, tables),
		Generator:  ai.NewQueryGenerator(llmClient),
		Sanitizer:  sqlguard.NewSanitizer(catalog, tables),
		Executor: app.NewExecutor(
			warehouse.New(warehouseDB, cfg.Pipeline.RowCap),
			cfg.Pipeline.RowCap,
			cfg.Pipeline.PollInterval,
			cfg.Pipeline.ExecuteTimeout,
			tracker,
		),
		Post:      app.NewPostProcessor(catalog, lookup),
		Retriever: docs.NewRetriever(tables),
		Exporter:  exporter,
		Sessions:  sessions,
		UsageRepo: usageRepo,
		Tracker:   tracker,
		RetrieveK: cfg.Pipeline.RetrieveK,
		Model:     cfg.AI.Model,
	})

	server := api.NewServer(pipeline, sessions, tracker, cfg.Server.Port)
	return server.Start()
}
