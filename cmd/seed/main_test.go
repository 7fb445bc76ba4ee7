package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"workspace/internal/domain/models"
	"workspace/internal/domain/services"
)

func TestParseUserIDs(t *testing.T) {
	tests := []struct {
		in      string
		want    []int32
		wantErr bool
	}{
		{in: "", want: nil},
		{in: "7", want: []int32{7}},
		{in: " 1, 2,,3 ", want: []int32{1, 2, 3}},
		{in: "-1", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "2147483648", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseUserIDs(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

type recordingCatalog struct {
	services.CatalogService
	existing []models.CatalogService
	created  []string
}

func (c *recordingCatalog) ListServices(ctx context.Context) ([]models.CatalogService, error) {
	return c.existing, nil
}

func (c *recordingCatalog) CreateService(ctx context.Context, req *services.CreateCatalogServiceRequest) (*models.CatalogService, error) {
	c.created = append(c.created, req.Name)
	return &models.CatalogService{UUID: uuid.New(), Name: req.Name, ServiceURL: req.ServiceURL}, nil
}

func TestSeedCatalog_SkipsExistingNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	yamlDoc := `services:
  - name: Jira
    service_url: https://jira.example.com
  - name: Grafana
    description: Dashboards
    service_url: https://grafana.example.com
  - name: Grafana
    service_url: https://grafana.example.com
`
	if err := os.WriteFile(path, []byte(yamlDoc), 0o600); err != nil {
		t.Fatal(err)
	}

	file, err := loadCatalog(path)
	if err != nil {
		t.Fatalf("loadCatalog: %v", err)
	}
	if file.Services[1].Description == nil || *file.Services[1].Description != "Dashboards" {
		t.Errorf("description not parsed: %+v", file.Services[1])
	}

	catalog := &recordingCatalog{existing: []models.CatalogService{{Name: "Jira"}}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := seedCatalog(context.Background(), catalog, file, logger); err != nil {
		t.Fatalf("seedCatalog: %v", err)
	}
	if len(catalog.created) != 1 || catalog.created[0] != "Grafana" {
		t.Errorf("created = %v, want [Grafana]", catalog.created)
	}
}
