package logs

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/anongap/anongap/internal/logging"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
)

// ArchiverConfig carries the object-storage settings for event batches.
type ArchiverConfig struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	RootUser     string
	RootPassword string
}

// Archiver buffers event lines in memory and ships them as one object per
// flush, keyed events/<yyyy>/<mm>/<dd>/<uuid>.log. Events carry outcome
// names and timestamps only, never message content or ticket values.
type Archiver struct {
	cfg    ArchiverConfig
	logger logging.Logger
	now    func() time.Time

	mu    sync.Mutex
	lines []string
}

func NewArchiver(cfg ArchiverConfig, logger logging.Logger) *Archiver {
	return &Archiver{
		cfg:    cfg,
		logger: logger.With("module", "archiver"),
		now:    time.Now,
	}
}

// Record queues one event line.
func (a *Archiver) Record(event string) {
	line := a.now().UTC().Format(time.RFC3339) + " " + event

	a.mu.Lock()
	a.lines = append(a.lines, line)
	a.mu.Unlock()
}

func (a *Archiver) getClient() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(a.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			a.cfg.RootUser,     // MINIO_ROOT_USER
			a.cfg.RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(a.cfg.BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

// Flush uploads the buffered lines as a single object and clears the
// buffer. Buffered lines are restored on upload failure so the next flush
// retries them.
func (a *Archiver) Flush(ctx context.Context) error {
	a.mu.Lock()
	lines := a.lines
	a.lines = nil
	a.mu.Unlock()

	if len(lines) == 0 {
		return nil
	}

	client, err := a.getClient()
	if err != nil {
		a.restore(lines)
		return err
	}

	d := a.now().UTC()
	key := fmt.Sprintf("events/%d/%02d/%02d/%v.log", d.Year(), d.Month(), d.Day(), uuid.New())
	body := strings.NewReader(strings.Join(lines, "\n") + "\n")

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket: &a.cfg.Bucket,
		Key:    &key,
		Body:   body,
	})
	if err != nil {
		a.restore(lines)
		return err
	}

	a.logger.Debug(ctx, "archived event batch", "key", key, "lines", len(lines))
	return nil
}

func (a *Archiver) restore(lines []string) {
	a.mu.Lock()
	a.lines = append(lines, a.lines...)
	a.mu.Unlock()
}

// Run flushes on the given interval until ctx is canceled, then makes one
// final flush.
func (a *Archiver) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := a.Flush(flushCtx); err != nil {
				a.logger.Warn(flushCtx, "final flush", "error", err)
			}
			return
		case <-ticker.C:
			if err := a.Flush(ctx); err != nil {
				a.logger.Warn(ctx, "flushing event batch", "error", err)
			}
		}
	}
}
