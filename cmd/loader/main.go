package main

import (
	"context"
	"fmt"
	"os"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finefoods-recommender/internal/graph"
	"finefoods-recommender/internal/ingest"
	"finefoods-recommender/pkg/config"
	"finefoods-recommender/pkg/logger"
)

var maxRecords int

func main() {
	rootCmd := &cobra.Command{
		Use:   "loader [files...]",
		Short: "Bulk-load review records into the graph store",
		Long: `Loads blank-line-delimited "key: value" review records into the
graph store, one user/product/review write per record. Store coordinates come
from the environment (NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD).`,
		Args: cobra.MinimumNArgs(1),
		RunE: run,
	}
	rootCmd.Flags().IntVar(&maxRecords, "max-records", 0, "stop after this many records per file (0 = unlimited)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		return fmt.Errorf("failed to create Neo4j driver: %w", err)
	}
	defer driver.Close(context.Background())

	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("failed to verify Neo4j connectivity: %w", err)
	}

	loader := ingest.NewLoader(graph.NewRepository(driver))
	loader.MaxRecords = maxRecords

	total := 0
	for _, path := range args {
		stats, err := loader.LoadFile(ctx, path)
		if err != nil {
			return err
		}
		total += stats.Records
	}
	log.Info("Ingestion complete", zap.Int("records", total), zap.Int("files", len(args)))
	return nil
}
