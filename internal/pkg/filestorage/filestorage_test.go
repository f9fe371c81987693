package filestorage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestUploadValidate(t *testing.T) {
	data := pngBytes(t)
	ok := &Upload{Filename: "a.png", ContentType: DetectContentType(data), Data: data}
	require.NoError(t, ok.Validate())
	assert.Equal(t, "image/png", ok.ContentType)

	text := []byte("plain text, not an image")
	assert.Error(t, (&Upload{Filename: "a.png", ContentType: DetectContentType(text), Data: text}).Validate())
	assert.Error(t, (&Upload{Filename: "a.png", ContentType: "image/png"}).Validate())
	assert.Error(t, (&Upload{Filename: "a.png", ContentType: "image/png", Data: make([]byte, MaxUploadSize+1)}).Validate())
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "my-photo.png", SanitizeFilename("my photo.png"))
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "x.jpg", SanitizeFilename(`C:\Users\me\x.jpg`))
	assert.Equal(t, "file", SanitizeFilename("..."))
	assert.Equal(t, "students/photos/a.png", (&Upload{Filename: "a.png"}).Key(FolderStudentPhotos))
}

func TestLocalStorage_StoreAndDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "http://localhost:8080/")
	require.NoError(t, err)

	url, err := ls.Store(ctx, pngBytes(t), "image/png", "students/photos/me.PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/students/photos/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	full, err := ls.GetFullPath(url)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(full, filepath.Join(dir, "students", "photos")))
	_, err = os.Stat(full)
	require.NoError(t, err)

	require.NoError(t, ls.Delete(ctx, url))
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))

	// second delete is a no-op
	require.NoError(t, ls.Delete(ctx, url))
}

func TestLocalStorage_RejectsForeignPaths(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	err = ls.Delete(context.Background(), "https://elsewhere.example/a.png")
	assert.True(t, errors.Is(err, apperrors.ErrStorage))

	full, err := ls.GetFullPath("/uploads/../../secret")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ls.BasePath(), "secret"), full)
}

type fakeS3 struct {
	put     []*s3.PutObjectInput
	deleted []string
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.put = append(f.put, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Storage(t *testing.T) {
	ctx := context.Background()
	client := &fakeS3{}
	s := newS3Storage(client, "campus", "ap-south-1", "/uploads/")
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	url, err := s.Store(ctx, []byte("img"), "image/png", "courses/go.png")
	require.NoError(t, err)
	assert.Equal(t, "https://campus.s3.ap-south-1.amazonaws.com/uploads/courses/1700000000000-go.png", url)
	require.Len(t, client.put, 1)
	assert.Equal(t, "image/png", *client.put[0].ContentType)

	require.NoError(t, s.Delete(ctx, url))
	assert.Equal(t, []string{"uploads/courses/1700000000000-go.png"}, client.deleted)

	err = s.Delete(ctx, "https://other.s3.ap-south-1.amazonaws.com/x.png")
	assert.True(t, errors.Is(err, apperrors.ErrStorage))
}

func TestS3Storage_Failure(t *testing.T) {
	s := newS3Storage(&fakeS3{err: errors.New("boom")}, "campus", "us-east-1", "")
	_, err := s.Store(context.Background(), []byte("img"), "image/png", "a.png")
	assert.True(t, errors.Is(err, apperrors.ErrStorage))
}
