package repository

import (
	"fmt"

	"github.com/bitfantasy/qr-label/internal/config"
	"github.com/bitfantasy/qr-label/internal/label/service"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
)

// Repositories 仓库集合
type Repositories struct {
	Artifacts ArtifactStore
	Templates service.TemplateSource
}

// NewRepositories rdb may be nil, in which case batches are cached in memory.
func NewRepositories(cfg *config.Config, rdb *redis.Client) (*Repositories, error) {
	templates, err := NewTemplateSource(cfg)
	if err != nil {
		return nil, err
	}

	var artifacts ArtifactStore
	if rdb != nil {
		artifacts = NewRedisArtifactStore(rdb, cfg.Artifact.TTL)
	} else {
		artifacts = NewMemoryArtifactStore(cfg.Artifact.TTL)
	}
	return &Repositories{Artifacts: artifacts, Templates: templates}, nil
}

// NewTemplateSource order of preference: MinIO object, local file, built-in.
func NewTemplateSource(cfg *config.Config) (service.TemplateSource, error) {
	lc := cfg.Label
	switch {
	case lc.TemplateObject != "":
		if cfg.MinIO.Endpoint == "" {
			return nil, fmt.Errorf("label.template_object set but minio.endpoint is empty")
		}
		client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("init minio client: %w", err)
		}
		return NewMinIOTemplateSource(client, cfg.MinIO.Bucket, lc.TemplateObject), nil
	case lc.TemplatePath != "":
		return NewFileTemplateSource(lc.TemplatePath), nil
	}
	captions, err := service.CaptionsByLocale(lc.Locale)
	if err != nil {
		return nil, err
	}
	return NewBuiltinTemplateSource(lc.TemplateBlocks, captions), nil
}
