package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"nexusiq/pkg/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

// Logger that we will use to save our logs.
// Every entry goes to stdout and to a temporary file that can be shipped to the log bucket.
type Logger struct {
	mu       *sync.Mutex
	zl       zerolog.Logger
	logFile  *os.File
	filePath string
}

// New creates the log instance with a temporary file.
func New(level string) (*Logger, error) {
	f, err := os.CreateTemp("", "log-*.log")
	if err != nil {
		return nil, err
	}

	l := &Logger{
		mu:       &sync.Mutex{},
		logFile:  f,
		filePath: f.Name(),
	}

	// The file writer goes through the logger mutex, so truncating on upload is safe.
	writer := zerolog.MultiLevelWriter(os.Stdout, lockedWriter{l})
	l.zl = zerolog.New(writer).With().Timestamp().Logger().Level(parseLevel(level))

	return l, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{mu: &sync.Mutex{}, zl: zerolog.Nop()}
}

// NewWithWriter creates a logger writing only to the given writer.
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{mu: &sync.Mutex{}, zl: zerolog.New(w).With().Timestamp().Logger()}
}

func parseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return parsed
}

// Log a debug message.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

// Log a simple info.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

// Log a warning.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

// Log a error.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

// With returns a child logger carrying the given field on every entry.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{
		mu:       l.mu,
		zl:       l.zl.With().Str(key, value).Logger(),
		logFile:  l.logFile,
		filePath: l.filePath,
	}
}

// Write something to the file.
func (l *Logger) writeFile(p []byte) (int, error) {
	if l.logFile == nil {
		return len(p), nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.logFile.Write(p)
}

// Clean the file contents.
func (l *Logger) CleanFile() {
	if l.logFile == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.logFile.Truncate(0)

	l.logFile.Seek(0, 0)
}

// Close the log file and remove it.
func (l *Logger) Close() error {
	if l.logFile == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.logFile.Close(); err != nil {
		return err
	}
	return os.Remove(l.filePath)
}

// Upload the log to a s3 bucket.
func (l *Logger) UploadToS3Bucket(ctx context.Context, bucket config.BucketConfiguration, objectKey string) error {
	if l.logFile == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.logFile.Seek(0, 0); err != nil {
		return fmt.Errorf("failed to rewind file: %v", err)
	}

	// Get the config.
	cfg := aws.Config{
		Region: bucket.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(
				bucket.AccessKey,
				bucket.AccessSecret,
				"",
			),
		),
	}

	// Create the client.
	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(bucket.Endpoint)
		o.UsePathStyle = true
	})

	// Run the put.
	_, err := s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket.LogBucket),
		Key:    aws.String(objectKey),
		Body:   l.logFile,
		ACL:    types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to S3 bucket: %v", objectKey, err)
	}

	// Clean the file after sending.
	l.logFile.Truncate(0)
	l.logFile.Seek(0, 0)

	return nil
}

// lockedWriter sends the zerolog output to the log file.
type lockedWriter struct {
	l *Logger
}

func (w lockedWriter) Write(p []byte) (int, error) {
	return w.l.writeFile(p)
}

// ShipToBucket uploads the log file on every tick until the context is done, then one last time.
// A failed upload cleans the file anyway, so it doesn't grow forever.
func (l *Logger) ShipToBucket(ctx context.Context, bucket config.BucketConfiguration, prefix string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ship := func(ctx context.Context) {
		objectKey := fmt.Sprintf("%s/%s.log", prefix, time.Now().UTC().Format("2006-01-02-15-04"))
		if err := l.UploadToS3Bucket(ctx, bucket, objectKey); err != nil {
			l.Warnf("Couldn't send the log to s3: %v", err)
			l.CleanFile()
		}
	}

	for {
		select {
		case <-ctx.Done():
			shipCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
			ship(shipCtx)
			cancel()
			return
		case <-ticker.C:
			ship(ctx)
		}
	}
}
