package media

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dom/videotube/internal/config"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// Asset is a file stored on the media host.
type Asset struct {
	URL        string
	ObjectName string
	// Duration is set for video uploads, in seconds.
	Duration float64
}

// NewClient connects to the media host described by cfg.
func NewClient(cfg config.MediaConfig) (*minio.Client, error) {
	return minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
}

// Gateway moves local temporary files to the media host.
type Gateway struct {
	client  *minio.Client
	bucket  string
	baseURL string
	probe   func(string) (float64, error)
}

func NewGateway(client *minio.Client, cfg config.MediaConfig) *Gateway {
	return &Gateway{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: PublicBaseURL(cfg),
		probe:   ProbeDuration,
	}
}

// PublicBaseURL is the prefix shared by every asset URL, bucket included.
func PublicBaseURL(cfg config.MediaConfig) string {
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + cfg.Endpoint
	}
	return base + "/" + cfg.Bucket
}

// EnsureBucket creates the bucket when it does not exist yet.
func (g *Gateway) EnsureBucket(ctx context.Context) error {
	exists, err := g.client.BucketExists(ctx, g.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := g.client.MakeBucket(ctx, g.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	logrus.WithField("bucket", g.bucket).Info("created media bucket")
	return nil
}

// Upload stores the file at localPath and removes the local copy whether or
// not the transfer succeeded. Failures are not retried.
func (g *Gateway) Upload(ctx context.Context, localPath string) (*Asset, error) {
	defer removeLocal(localPath)

	ext := strings.ToLower(filepath.Ext(localPath))
	contentType := contentTypeFor(ext)

	asset := &Asset{ObjectName: uuid.New().String() + ext}
	if strings.HasPrefix(contentType, "video/") {
		duration, err := g.probe(localPath)
		if err != nil {
			logrus.WithError(err).WithField("file", localPath).Warn("could not probe video duration")
		}
		asset.Duration = duration
	}

	_, err := g.client.FPutObject(ctx, g.bucket, asset.ObjectName, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	asset.URL = g.baseURL + "/" + asset.ObjectName
	return asset, nil
}

// Delete removes the asset named by ref, a URL returned from Upload or a bare
// object name. Failures are logged and otherwise ignored.
func (g *Gateway) Delete(ctx context.Context, ref string) {
	name := ObjectName(g.baseURL, ref)
	if name == "" {
		return
	}
	if err := g.client.RemoveObject(ctx, g.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		logrus.WithError(err).WithField("object", name).Warn("failed to delete media asset")
	}
}

// ObjectName extracts the object name from ref.
func ObjectName(baseURL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, baseURL+"/") {
		return strings.TrimPrefix(ref, baseURL+"/")
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" {
		return path.Base(u.Path)
	}
	return ref
}

// videoTypes covers the common containers, which the platform mime table
// may not list.
var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".ogv":  "video/ogg",
	".3gp":  "video/3gpp",
}

func contentTypeFor(ext string) string {
	if t, ok := videoTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

func removeLocal(p string) {
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).WithField("file", p).Warn("failed to remove temporary file")
	}
}
