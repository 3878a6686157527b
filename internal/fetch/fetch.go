// Package fetch downloads lecture documents referenced by inbound jobs. Plain http(s) URLs are
// fetched with GET; s3://bucket/key URLs go through the AWS SDK.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"go.uber.org/zap"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/apperr"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/logging"
)

// DefaultTimeout bounds a single download.
const DefaultTimeout = time.Minute

// ObjectGetter is the part of the S3 API the fetcher needs.
type ObjectGetter interface {
	GetObjectWithContext(ctx aws.Context, input *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error)
}

// Fetcher downloads documents by URL.
type Fetcher struct {
	httpClient *http.Client
	region     string
	logger     *zap.Logger

	s3Once sync.Once
	s3     ObjectGetter
	s3Err  error
}

// Option customizes the fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.httpClient = client
		}
	}
}

// WithObjectGetter sets the S3 client instead of building one from the default AWS session.
func WithObjectGetter(getter ObjectGetter) Option {
	return func(f *Fetcher) {
		f.s3Once.Do(func() { f.s3 = getter })
	}
}

// New creates a fetcher. region is only used for s3:// URLs.
func New(timeout time.Duration, region string, logger *zap.Logger, opts ...Option) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	f := &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		region:     region,
		logger:     logging.Component(logger, "fetch"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the bytes behind rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	const op = "fetch"
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, apperr.E(apperr.Fetch, op, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return f.fetchHTTP(ctx, u.String())
	case "s3":
		return f.fetchS3(ctx, u.Host, strings.TrimPrefix(u.Path, "/"))
	default:
		return nil, apperr.Errorf(apperr.Fetch, op, "unsupported url %q", rawURL)
	}
}

func (f *Fetcher) fetchHTTP(ctx context.Context, target string) ([]byte, error) {
	const op = "fetch http"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, apperr.E(apperr.Fetch, op, err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, apperr.E(apperr.Fetch, op, err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			f.logger.Warn("error closing response body", zap.Error(err))
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.Errorf(apperr.Fetch, op, "%s returned status %s", target, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.E(apperr.Fetch, op, err)
	}
	f.logger.Debug("downloaded document", zap.String(logging.FieldFileURL, target), zap.Int("bytes", len(data)))
	return data, nil
}

func (f *Fetcher) fetchS3(ctx context.Context, bucket, key string) ([]byte, error) {
	const op = "fetch s3"
	if bucket == "" || key == "" {
		return nil, apperr.Errorf(apperr.Fetch, op, "s3 url needs a bucket and a key")
	}

	getter, err := f.objectGetter()
	if err != nil {
		return nil, apperr.E(apperr.Fetch, op, err)
	}

	output, err := getter.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, apperr.E(apperr.Fetch, op, fmt.Errorf("bucket %s, key %s: %w", bucket, key, err))
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			f.logger.Warn("error closing S3 response body", zap.Error(err))
		}
	}(output.Body)

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, apperr.E(apperr.Fetch, op, err)
	}
	return data, nil
}

func (f *Fetcher) objectGetter() (ObjectGetter, error) {
	f.s3Once.Do(func() {
		cfg := aws.NewConfig()
		if f.region != "" {
			cfg = cfg.WithRegion(f.region)
		}
		sess, err := session.NewSession(cfg)
		if err != nil {
			f.s3Err = fmt.Errorf("create AWS session: %w", err)
			return
		}
		f.s3 = s3.New(sess)
	})
	return f.s3, f.s3Err
}
