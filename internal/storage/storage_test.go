package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stewz00/go-student-portal/internal/config"
)

func TestLocalStore_Put(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	path, err := store.Put(context.Background(), "7-resume-1700000000000.pdf", strings.NewReader("%PDF"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/7-resume-1700000000000.pdf", path)

	data, err := os.ReadFile(filepath.Join(dir, "7-resume-1700000000000.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "../x", "a/b", `a\b`, "a\x00b"} {
		_, err := store.Put(context.Background(), key, strings.NewReader("x"), "")
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
}

func TestCleanExt(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"pdf", "resume.pdf", ".pdf"},
		{"upper case", "CV.DOCX", ".docx"},
		{"path prefix", "../../etc/passwd.txt", ".txt"},
		{"no extension", "resume", ""},
		{"bare dot", "resume.", ""},
		{"symbols", "a.p$f", ""},
		{"too long", "a.abcdefghij", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanExt(tt.in))
		})
	}
}

type fakeS3 struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Store_Put(t *testing.T) {
	fake := &fakeS3{}
	store := newS3Store(fake, config.S3Config{Bucket: "portal", Endpoint: "http://127.0.0.1:9000/"})

	url, err := store.Put(context.Background(), "1-cover_letter-5.pdf", strings.NewReader("hi"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/portal/1-cover_letter-5.pdf", url)
	assert.Equal(t, "portal", aws.ToString(fake.in.Bucket))
	assert.Equal(t, "1-cover_letter-5.pdf", aws.ToString(fake.in.Key))
	assert.Equal(t, "application/pdf", aws.ToString(fake.in.ContentType))
	assert.Equal(t, "hi", fake.body)
}

func TestS3Store_PublicURL(t *testing.T) {
	store := newS3Store(&fakeS3{}, config.S3Config{Bucket: "b", Region: "eu-west-1"})
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com", store.publicURL)

	store = newS3Store(&fakeS3{}, config.S3Config{Bucket: "b", PublicURL: "https://cdn.example.com/"})
	assert.Equal(t, "https://cdn.example.com", store.publicURL)
}

func TestS3Store_PutError(t *testing.T) {
	store := newS3Store(&fakeS3{err: errors.New("boom")}, config.S3Config{Bucket: "b", Region: "r"})
	_, err := store.Put(context.Background(), "k", strings.NewReader(""), "")
	assert.Error(t, err)
}
