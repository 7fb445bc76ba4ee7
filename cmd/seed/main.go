package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"workspace/internal/config"
	"workspace/internal/domain/services"
	"workspace/internal/repository/postgres"
	"workspace/internal/service"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// catalogFile is the YAML layout accepted by -catalog.
type catalogFile struct {
	Services []struct {
		Name        string  `yaml:"name"`
		Description *string `yaml:"description"`
		ServiceURL  string  `yaml:"service_url"`
		Icon        *string `yaml:"icon"`
	} `yaml:"services"`
}

func main() {
	catalogPath := flag.String("catalog", "", "YAML file with catalog services to insert (existing names are skipped)")
	userList := flag.String("users", "", "Comma-separated user ids whose \"all\" folder should be provisioned")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, closeLog, err := config.NewLogger(cfg, "workspace-seed")
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()

	userIDs, err := parseUserIDs(*userList)
	if err != nil {
		log.Fatalf("Invalid -users: %v", err)
	}

	var catalog *catalogFile
	if *catalogPath != "" {
		if catalog, err = loadCatalog(*catalogPath); err != nil {
			log.Fatalf("Failed to load catalog: %v", err)
		}
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{MaxConns: 2, MinConns: 1})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	repoConfig := &postgres.RepositoryConfig{Pool: pool, Logger: logger}
	folderService := service.NewFolderService(postgres.NewFolderRepository(repoConfig), logger)
	catalogService := service.NewCatalogService(postgres.NewCatalogServiceRepository(repoConfig), logger)

	for _, userID := range userIDs {
		folder, err := folderService.EnsureAllFolder(ctx, userID)
		if err != nil {
			log.Fatalf("Failed to provision all folder for user %d: %v", userID, err)
		}
		logger.Info("all folder ready", "user_id", userID, "folder_uuid", folder.UUID)
	}

	if catalog != nil {
		if err := seedCatalog(ctx, catalogService, catalog, logger); err != nil {
			log.Fatalf("Failed to seed catalog: %v", err)
		}
	}

	logger.Info("seed complete", "users", len(userIDs))
}

func parseUserIDs(list string) ([]int32, error) {
	var ids []int32
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 32)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("%q is not a non-negative 32-bit user id", part)
		}
		ids = append(ids, int32(id))
	}
	return ids, nil
}

func loadCatalog(path string) (*catalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &file, nil
}

func seedCatalog(ctx context.Context, catalog services.CatalogService, file *catalogFile, logger *slog.Logger) error {
	existing, err := catalog.ListServices(ctx)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(existing))
	for _, svc := range existing {
		seen[svc.Name] = true
	}

	for _, entry := range file.Services {
		if seen[entry.Name] {
			logger.Info("catalog service exists, skipping", "name", entry.Name)
			continue
		}
		created, err := catalog.CreateService(ctx, &services.CreateCatalogServiceRequest{
			Name:        entry.Name,
			Description: entry.Description,
			ServiceURL:  entry.ServiceURL,
			Icon:        entry.Icon,
		})
		if err != nil {
			return fmt.Errorf("create %q: %w", entry.Name, err)
		}
		seen[entry.Name] = true
		logger.Info("catalog service created", "name", created.Name, "uuid", created.UUID)
	}
	return nil
}
