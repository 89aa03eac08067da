package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/ai-slides/pkg/logger"
)

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	bodies  [][]byte
	putErr  error
	headErr error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.puts = append(f.puts, in)
	f.bodies = append(f.bodies, data)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(_ context.Context, _ *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

func TestLocalUpload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public", "temp_pptx")
	store, err := NewLocalStore(dir, "temp_pptx")
	require.NoError(t, err)
	require.NoError(t, store.Health(context.Background()))

	up := NewUploader(store, 1024, logger.Nop())
	resp, err := up.Upload(context.Background(), strings.NewReader("PK\x03\x04 fake deck"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(resp.URL, "/temp_pptx/"), resp.URL)
	require.True(t, strings.HasSuffix(resp.URL, ".pptx"), resp.URL)
	require.NotEmpty(t, resp.Mime)

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(resp.URL)))
	require.NoError(t, err)
	require.Equal(t, "PK\x03\x04 fake deck", string(data))
}

func TestLocalUpload_UniqueNames(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/temp_pptx")
	require.NoError(t, err)
	up := NewUploader(store, 0, logger.Nop())

	a, err := up.Upload(context.Background(), strings.NewReader("one"))
	require.NoError(t, err)
	b, err := up.Upload(context.Background(), strings.NewReader("two"))
	require.NoError(t, err)
	require.NotEqual(t, a.URL, b.URL)
}

func TestUpload_Limits(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/temp_pptx")
	require.NoError(t, err)
	up := NewUploader(store, 4, logger.Nop())

	_, err = up.Upload(context.Background(), strings.NewReader("12345"))
	require.ErrorIs(t, err, ErrTooLarge)

	_, err = up.Upload(context.Background(), strings.NewReader(""))
	require.ErrorIs(t, err, ErrEmpty)

	_, err = up.Upload(context.Background(), strings.NewReader("1234"))
	require.NoError(t, err)
}

func TestLocalStore_RejectsPaths(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/temp_pptx")
	require.NoError(t, err)
	_, err = store.Put(context.Background(), "../escape.pptx", bytes.NewReader(nil), 0, "")
	require.Error(t, err)
}

func TestNewLocalStore_EmptyDir(t *testing.T) {
	_, err := NewLocalStore(" ", "/temp_pptx")
	require.Error(t, err)
}

func TestS3Upload(t *testing.T) {
	api := &fakeS3{}
	store, err := NewS3Store(api, S3Options{Bucket: "decks", Region: "us-east-1", Prefix: "/uploads/"})
	require.NoError(t, err)

	up := NewUploader(store, 0, logger.Nop())
	resp, err := up.Upload(context.Background(), strings.NewReader("deck-bytes"))
	require.NoError(t, err)

	require.Len(t, api.puts, 1)
	in := api.puts[0]
	require.Equal(t, "decks", *in.Bucket)
	require.True(t, strings.HasPrefix(*in.Key, "uploads/"), *in.Key)
	require.Equal(t, int64(len("deck-bytes")), *in.ContentLength)
	require.NotEmpty(t, *in.ContentType)
	require.Equal(t, "deck-bytes", string(api.bodies[0]))
	require.Equal(t, "https://decks.s3.us-east-1.amazonaws.com/"+*in.Key, resp.URL)
}

func TestS3Store_ObjectURL(t *testing.T) {
	cases := []struct {
		opts S3Options
		want string
	}{
		{S3Options{Bucket: "b", Region: "eu-west-1"}, "https://b.s3.eu-west-1.amazonaws.com/k.pptx"},
		{S3Options{Bucket: "b", Region: "eu-west-1", UsePathStyle: true}, "https://s3.eu-west-1.amazonaws.com/b/k.pptx"},
		{S3Options{Bucket: "b", Endpoint: "http://localhost:9000/"}, "http://localhost:9000/b/k.pptx"},
		{S3Options{Bucket: "b", PublicBaseURL: "https://cdn.example.com/"}, "https://cdn.example.com/k.pptx"},
	}
	for _, tc := range cases {
		s, err := NewS3Store(&fakeS3{}, tc.opts)
		require.NoError(t, err)
		require.Equal(t, tc.want, s.objectURL("k.pptx"))
	}
}

func TestS3Store_Errors(t *testing.T) {
	_, err := NewS3Store(nil, S3Options{Bucket: "b"})
	require.Error(t, err)
	_, err = NewS3Store(&fakeS3{}, S3Options{})
	require.Error(t, err)

	api := &fakeS3{putErr: errors.New("denied"), headErr: errors.New("no bucket")}
	store, err := NewS3Store(api, S3Options{Bucket: "b"})
	require.NoError(t, err)

	_, err = NewUploader(store, 0, logger.Nop()).Upload(context.Background(), strings.NewReader("x"))
	require.ErrorContains(t, err, "denied")
	require.Error(t, store.Health(context.Background()))
}
