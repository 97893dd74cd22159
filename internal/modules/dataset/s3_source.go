package dataset

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/aristath/talentwatch/internal/domain"
)

// S3Config locates a dataset export object in S3.
type S3Config struct {
	Region          string
	Bucket          string
	Key             string
	AccessKeyID     string // Optional; default credential chain when empty
	SecretAccessKey string
}

// Enabled reports whether an S3 source is configured at all.
func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.Key != ""
}

// S3Source pulls msgpack dataset exports from an S3 bucket. This is how
// deployments feed the dashboard from a data warehouse's periodic dumps.
type S3Source struct {
	cfg        S3Config
	downloader *manager.Downloader
	log        zerolog.Logger
}

// NewS3Source builds an S3 source. Static credentials are used when
// provided, the default chain otherwise.
func NewS3Source(ctx context.Context, cfg S3Config, log zerolog.Logger) (*S3Source, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Source{
		cfg:        cfg,
		downloader: manager.NewDownloader(client),
		log:        log.With().Str("component", "s3_source").Logger(),
	}, nil
}

// FetchExport downloads and decodes the configured export object.
func (s *S3Source) FetchExport(ctx context.Context) ([]domain.JobRecord, error) {
	buf := manager.NewWriteAtBuffer(nil)
	n, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.cfg.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download s3://%s/%s: %w", s.cfg.Bucket, s.cfg.Key, err)
	}
	s.log.Info().Int64("bytes", n).Str("bucket", s.cfg.Bucket).Str("key", s.cfg.Key).Msg("Export downloaded")

	return ReadExport(bytes.NewReader(buf.Bytes()))
}

// Sync pulls the export and imports it into the service, replacing the
// current dataset.
func (s *S3Source) Sync(ctx context.Context, svc *Service) (int, error) {
	records, err := s.FetchExport(ctx)
	if err != nil {
		return 0, err
	}
	return svc.Import(records, true)
}
