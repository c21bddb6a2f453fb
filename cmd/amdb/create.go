package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/albummap/amdb/internal/iodb"
	"github.com/albummap/amdb/internal/ioschema"
	"github.com/albummap/amdb/pkg/db"
	"github.com/gnames/gnlib"
	"github.com/spf13/cobra"
)

var forceCreate bool

func getCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the album store schema",
		Long: `Create the AlbumMap PostgreSQL schema from scratch.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Checks for existing tables and prompts for confirmation if found
  3. Creates all tables using GORM AutoMigrate

Use --force to skip confirmation and drop existing tables automatically.

Examples:
  amdb create
  amdb create --force
  amdb create --config custom.yaml`,
		RunE: runCreate,
	}

	cmd.Flags().BoolVar(&forceCreate, "force", false,
		"drop existing tables before creating schema (destructive)")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := getConfig()

	var op db.Operator = iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		gnlib.PrintUserMessage(err)
		return err
	}
	defer op.Close()

	fmt.Printf("Connected to database: %s@%s:%d/%s\n",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		gnlib.PrintUserMessage(err)
		return err
	}

	sm := ioschema.NewManager(op)

	if hasTables {
		if !forceCreate {
			fmt.Println("\nWarning: Database contains existing tables.")
			fmt.Println("Creating schema will drop ALL existing tables and data.")
			fmt.Print("\nDo you want to continue? (yes/no): ")

			reader := bufio.NewReader(os.Stdin)
			response, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read user input: %w", err)
			}
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "yes" && response != "y" {
				fmt.Println("Aborted. No changes made to the database.")
				return nil
			}
		}
		fmt.Println("Dropping all existing tables...")
		if err := sm.DropAll(ctx); err != nil {
			gnlib.PrintUserMessage(err)
			return err
		}
		fmt.Println("✓ All tables dropped")
	}

	fmt.Println("Creating schema using GORM AutoMigrate...")
	if err := sm.Create(ctx); err != nil {
		gnlib.PrintUserMessage(err)
		return err
	}

	successMsg := gnlib.FormatMessage(`
<em>✓ Album store schema created.</em>
Next steps:
  - run <em>amdb normalize</em> and <em>amdb enrich</em> over a raw snapshot
  - run <em>amdb project</em> to load albums and their map positions
`, nil)
	fmt.Println(successMsg)

	return nil
}
