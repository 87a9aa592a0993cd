// Command pulsebackup exports and imports the community database from the
// command line, producing and consuming the same document format as the
// in-app backup endpoints. It talks to MongoDB directly, so it works
// without a running server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	snapshotstore "github.com/pod44apps/community-pulse/internal/app/store/snapshot"
	"github.com/pod44apps/community-pulse/internal/app/transfer"
	"github.com/pod44apps/community-pulse/internal/domain/models"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportURI := exportCmd.String("uri", defaultURI(), "MongoDB connection URI")
	exportDB := exportCmd.String("db", defaultDB(), "MongoDB database name")
	exportAs := exportCmd.String("as", "cli@localhost", "Email recorded as the exporter")
	exportOutput := exportCmd.String("output", "", "Output file path (default: community_hub_export_YYYY-MM-DD.json)")

	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importURI := importCmd.String("uri", defaultURI(), "MongoDB connection URI")
	importDB := importCmd.String("db", defaultDB(), "MongoDB database name")
	importAs := importCmd.String("as", "cli@localhost", "Email recorded as created_by on restored records")
	importInput := importCmd.String("input", "", "Input file path (required)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	opID := uuid.NewString()
	logger = logger.With(zap.String("operation_id", opID))

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		runExport(logger, *exportURI, *exportDB, *exportAs, *exportOutput)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Fprintln(os.Stderr, "error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		runImport(logger, *importURI, *importDB, *importAs, *importInput)

	default:
		printUsage()
		os.Exit(1)
	}
}

func defaultURI() string {
	if v := os.Getenv("COMMUNITYPULSE_MONGO_URI"); v != "" {
		return v
	}
	return "mongodb://localhost:27017"
}

func defaultDB() string {
	if v := os.Getenv("COMMUNITYPULSE_MONGO_DATABASE"); v != "" {
		return v
	}
	return "community_pulse"
}

// cliIdentity stands in for a session: the operator already has database
// credentials, so they act as an admin.
type cliIdentity struct {
	email string
}

func (c cliIdentity) Me(ctx context.Context) (transfer.Caller, error) {
	return transfer.Caller{Email: c.email, Role: models.RoleAdmin}, nil
}

func newTransfer(db *mongo.Database, email string, logger *zap.Logger) *transfer.Transfer {
	return &transfer.Transfer{
		Stores: transfer.Stores{
			Members:     snapshotstore.New(db, "members"),
			Messages:    snapshotstore.New(db, "messages"),
			Settings:    snapshotstore.New(db, "settings"),
			ActionCards: snapshotstore.New(db, "action_cards"),
			Ventures:    snapshotstore.New(db, "ventures"),
		},
		Identity: cliIdentity{email: email},
		Progress: func(step transfer.Step) {
			logger.Info("processing", zap.String("entity", string(step)))
		},
	}
}

func connect(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}
	return client, client.Database(dbName), nil
}

func runExport(logger *zap.Logger, uri, dbName, email, outputPath string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client, db, err := connect(ctx, uri, dbName)
	if err != nil {
		logger.Fatal("mongo connect failed", zap.Error(err))
	}
	defer client.Disconnect(ctx)

	if outputPath == "" {
		outputPath = transfer.ExportFilename(time.Now())
	}
	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatal("create output directory failed", zap.Error(err))
		}
	}

	snap, err := newTransfer(db, email, logger).Export(ctx)
	if err != nil {
		logger.Fatal("export failed", zap.Error(err))
	}
	data, err := transfer.EncodeSnapshot(snap)
	if err != nil {
		logger.Fatal("encode failed", zap.Error(err))
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		logger.Fatal("write failed", zap.Error(err))
	}

	logger.Info("export complete",
		zap.String("file", outputPath),
		zap.Int("bytes", len(data)),
		zap.Int("members", snap.Info.EntityCounts.Members),
		zap.Int("messages", snap.Info.EntityCounts.Messages),
		zap.Int("settings", snap.Info.EntityCounts.Settings),
		zap.Int("action_cards", snap.Info.EntityCounts.ActionCards),
		zap.Int("ventures", snap.Info.EntityCounts.Ventures))
}

func runImport(logger *zap.Logger, uri, dbName, email, inputPath string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	data, err := os.ReadFile(inputPath)
	if err != nil {
		logger.Fatal("read input failed", zap.Error(err))
	}

	client, db, err := connect(ctx, uri, dbName)
	if err != nil {
		logger.Fatal("mongo connect failed", zap.Error(err))
	}
	defer client.Disconnect(ctx)

	if err := newTransfer(db, email, logger).Import(ctx, data); err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}
	logger.Info("import complete", zap.String("file", inputPath))
}

func printUsage() {
	fmt.Println("Community Pulse Database Backup Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pulsebackup export [options]    Export database to a JSON document")
	fmt.Println("  pulsebackup import [options]    Import a previously exported document")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -uri <uri>        MongoDB connection URI")
	fmt.Println("  -db <name>        Database name")
	fmt.Println("  -as <email>       Email recorded as the exporter")
	fmt.Println("  -output <file>    Output file path (default: community_hub_export_YYYY-MM-DD.json)")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -uri <uri>        MongoDB connection URI")
	fmt.Println("  -db <name>        Database name")
	fmt.Println("  -as <email>       Email recorded as created_by on restored records")
	fmt.Println("  -input <file>     Input file path (required)")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  COMMUNITYPULSE_MONGO_URI         Default MongoDB URI")
	fmt.Println("  COMMUNITYPULSE_MONGO_DATABASE    Default database name")
}
