package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bitfantasy/qr-label/internal/config"
	"github.com/bitfantasy/qr-label/internal/label/service"
)

func TestFileTemplateSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.xlsx")
	f, err := service.NewTemplateWorkbook(2, service.CaptionsEN)
	if err != nil {
		t.Fatalf("NewTemplateWorkbook failed: %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	f.Close()

	src := NewFileTemplateSource(path)
	for i := 0; i < 2; i++ {
		opened, err := src.Open(context.Background())
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		got, _ := opened.GetCellValue(service.DefaultSheetName, "A10")
		if got != service.CaptionsEN.Company {
			t.Errorf("Expected second block caption at A10, got %q", got)
		}
		// mutating one copy must not leak into the next Open
		opened.SetCellValue(service.DefaultSheetName, "A10", "dirty")
		opened.Close()
	}

	if _, err := NewFileTemplateSource(filepath.Join(t.TempDir(), "none.xlsx")).Open(context.Background()); err == nil {
		t.Error("Expected error for missing template file")
	}
}

func TestNewTemplateSource(t *testing.T) {
	cfg := &config.Config{}
	src, err := NewTemplateSource(cfg)
	if err != nil {
		t.Fatalf("NewTemplateSource failed: %v", err)
	}
	if _, ok := src.(*BuiltinTemplateSource); !ok {
		t.Errorf("Expected built-in source, got %T", src)
	}

	cfg.Label.TemplatePath = "plant.xlsx"
	src, _ = NewTemplateSource(cfg)
	if _, ok := src.(*FileTemplateSource); !ok {
		t.Errorf("Expected file source, got %T", src)
	}

	cfg.Label.TemplateObject = "templates/plant.xlsx"
	if _, err := NewTemplateSource(cfg); err == nil {
		t.Error("Expected error when template_object is set without minio endpoint")
	}

	cfg.MinIO.Endpoint = "127.0.0.1:9000"
	cfg.MinIO.Bucket = "labels"
	src, err = NewTemplateSource(cfg)
	if err != nil {
		t.Fatalf("NewTemplateSource failed: %v", err)
	}
	if _, ok := src.(*MinIOTemplateSource); !ok {
		t.Errorf("Expected minio source, got %T", src)
	}
}

func TestNewRepositoriesWithoutRedis(t *testing.T) {
	repos, err := NewRepositories(&config.Config{}, nil)
	if err != nil {
		t.Fatalf("NewRepositories failed: %v", err)
	}
	if _, ok := repos.Artifacts.(*MemoryArtifactStore); !ok {
		t.Errorf("Expected memory store, got %T", repos.Artifacts)
	}
}
