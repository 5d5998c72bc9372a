// Package archive 每份生成的报表保留一份副本
package archive

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/camaramunicipal/prestacontas/internal/platform/config"
)

// Archive 保存生成的 PDF，返回存储位置
type Archive interface {
	Store(ctx context.Context, key string, data []byte) (string, error)
}

// New 根据配置选择实现
func New(cfg config.ArchiveConfig) (Archive, error) {
	switch cfg.Driver {
	case "", "none":
		return Nop{}, nil
	case "local":
		return NewLocal(cfg.Dir)
	case "s3":
		return NewS3(cfg.Bucket, cfg.Region, cfg.Prefix)
	default:
		return nil, fmt.Errorf("unknown archive driver %q", cfg.Driver)
	}
}

// Key 归档路径: <prestacao_id>/<arquivo>
func Key(prestacaoID int64, filename string) string {
	return path.Join(fmt.Sprint(prestacaoID), filename)
}

// Nop 不归档
type Nop struct{}

func (Nop) Store(context.Context, string, []byte) (string, error) { return "", nil }

// ---------------------------------------------------------

// Local 写入本地目录
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) Store(_ context.Context, key string, data []byte) (string, error) {
	target := filepath.Join(l.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}
	// 先写临时文件再改名，避免读到半个文件
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, target); err != nil {
		return "", err
	}
	return target, nil
}

// ---------------------------------------------------------

// S3 上传到 bucket/prefix/key
type S3 struct {
	bucket   string
	prefix   string
	uploader *s3manager.Uploader
}

func NewS3(bucket, region, prefix string) (*S3, error) {
	cfg := &aws.Config{}
	if region != "" {
		cfg.Region = aws.String(region)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return &S3{
		bucket:   bucket,
		prefix:   prefix,
		uploader: s3manager.NewUploader(sess),
	}, nil
}

func (s *S3) Store(ctx context.Context, key string, data []byte) (string, error) {
	out, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path.Join(s.prefix, key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return out.Location, nil
}
