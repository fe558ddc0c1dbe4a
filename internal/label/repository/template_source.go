package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bitfantasy/qr-label/internal/label/service"
	"github.com/minio/minio-go/v7"
	"github.com/xuri/excelize/v2"
)

// FileTemplateSource 本地模板文件
type FileTemplateSource struct {
	path string
}

// NewFileTemplateSource 创建本地模板源
func NewFileTemplateSource(path string) *FileTemplateSource {
	return &FileTemplateSource{path: path}
}

// Open re-reads the file on every call so each batch gets an untouched copy.
func (s *FileTemplateSource) Open(ctx context.Context) (*excelize.File, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", s.path, err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", s.path, err)
	}
	return f, nil
}

// MinIOTemplateSource 模板存放在对象存储
type MinIOTemplateSource struct {
	client *minio.Client
	bucket string
	object string
}

// NewMinIOTemplateSource 创建对象存储模板源
func NewMinIOTemplateSource(client *minio.Client, bucket, object string) *MinIOTemplateSource {
	return &MinIOTemplateSource{client: client, bucket: bucket, object: object}
}

// Open 下载并解析模板
func (s *MinIOTemplateSource) Open(ctx context.Context) (*excelize.File, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get template %s/%s: %w", s.bucket, s.object, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("download template %s/%s: %w", s.bucket, s.object, err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse template %s/%s: %w", s.bucket, s.object, err)
	}
	return f, nil
}

// BuiltinTemplateSource generates the template in memory.
type BuiltinTemplateSource struct {
	blocks   int
	captions service.Captions
}

// NewBuiltinTemplateSource 创建内置模板源
func NewBuiltinTemplateSource(blocks int, captions service.Captions) *BuiltinTemplateSource {
	return &BuiltinTemplateSource{blocks: blocks, captions: captions}
}

// Open 生成内置模板
func (s *BuiltinTemplateSource) Open(ctx context.Context) (*excelize.File, error) {
	return service.NewTemplateWorkbook(s.blocks, s.captions)
}
