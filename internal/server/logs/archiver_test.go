package logs

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testArchiverConfig() ArchiverConfig {
	return ArchiverConfig{
		Bucket:       "anongap-logs",
		Region:       "us-east-1",
		BaseEndpoint: "http://127.0.0.1:9000",
		RootUser:     "minio",
		RootPassword: "minio123",
	}
}

func TestArchiverFlushEmptyIsNoop(t *testing.T) {
	orig := putObject
	defer func() { putObject = orig }()

	called := false
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		called = true
		return &s3.PutObjectOutput{}, nil
	}

	a := NewArchiver(testArchiverConfig(), testLogger())
	require.NoError(t, a.Flush(context.Background()))
	assert.False(t, called)
}

func TestArchiverFlushUploadsBatch(t *testing.T) {
	orig := putObject
	defer func() { putObject = orig }()

	var gotKey, gotBody, gotBucket string
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		gotBucket = *in.Bucket
		gotKey = *in.Key
		b, err := io.ReadAll(in.Body)
		require.NoError(t, err)
		gotBody = string(b)
		return &s3.PutObjectOutput{}, nil
	}

	a := NewArchiver(testArchiverConfig(), testLogger())
	a.Record("outcome=delivered")
	a.Record("outcome=sender_blocked")

	require.NoError(t, a.Flush(context.Background()))

	assert.Equal(t, "anongap-logs", gotBucket)
	assert.True(t, strings.HasPrefix(gotKey, "events/"))
	assert.True(t, strings.HasSuffix(gotKey, ".log"))
	assert.Contains(t, gotBody, "outcome=delivered")
	assert.Contains(t, gotBody, "outcome=sender_blocked")

	// Buffer is cleared after a successful flush.
	require.NoError(t, a.Flush(context.Background()))
	assert.True(t, strings.HasPrefix(gotKey, "events/"))
}

func TestArchiverFlushFailureKeepsLines(t *testing.T) {
	orig := putObject
	defer func() { putObject = orig }()

	calls := 0
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection refused")
		}
		b, err := io.ReadAll(in.Body)
		require.NoError(t, err)
		assert.Contains(t, string(b), "outcome=delivered")
		return &s3.PutObjectOutput{}, nil
	}

	a := NewArchiver(testArchiverConfig(), testLogger())
	a.Record("outcome=delivered")

	require.Error(t, a.Flush(context.Background()))
	require.NoError(t, a.Flush(context.Background()))
	assert.Equal(t, 2, calls)
}
