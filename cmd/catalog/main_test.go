package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ProductCatalog/internal/catalog"
	"ProductCatalog/internal/config"
)

func baseConfig() config.Config {
	return config.Config{
		Port:            "0",
		CatalogSource:   config.SourceEmbedded,
		LoadTimeout:     time.Second,
		ShutdownTimeout: time.Second,
	}
}

func TestLoadCatalog_Embedded(t *testing.T) {
	c, err := loadCatalog(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("loadCatalog: %v", err)
	}
	if c.Len() == 0 {
		t.Fatalf("embedded catalog is empty")
	}
}

func TestLoadCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	if err := os.WriteFile(path, []byte(`[{"id":1,"name":"Widget","category":"Tools"}]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := baseConfig()
	cfg.CatalogSource = config.SourceFile
	cfg.CatalogPath = path

	c, err := loadCatalog(context.Background(), cfg)
	if err != nil {
		t.Fatalf("loadCatalog: %v", err)
	}
	if p, ok := c.FindByID(1); !ok || p.Name != "Widget" {
		t.Fatalf("product 1=%+v ok=%v", p, ok)
	}
}

func TestLoadCatalog_MissingFileIsFatal(t *testing.T) {
	cfg := baseConfig()
	cfg.CatalogSource = config.SourceFile
	cfg.CatalogPath = filepath.Join(t.TempDir(), "missing.json")

	_, err := loadCatalog(context.Background(), cfg)
	if !errors.Is(err, catalog.ErrSourceUnavailable) {
		t.Fatalf("err=%v want ErrSourceUnavailable", err)
	}
}

func TestLoadCatalog_SQLiteWithoutTableIsFatal(t *testing.T) {
	cfg := baseConfig()
	cfg.CatalogSource = config.SourceSQLite
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "empty.db")

	_, err := loadCatalog(context.Background(), cfg)
	if !errors.Is(err, catalog.ErrMalformedSource) {
		t.Fatalf("err=%v want ErrMalformedSource", err)
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	if got := strings.TrimSpace(out.String()); got != "catalog dev" {
		t.Fatalf("version output=%q", got)
	}
}
