package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flywise/internal/storage"
)

type fakeStorage struct {
	objects map[string][]byte
	putErr  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) PutObject(_ context.Context, body io.Reader, opts storage.PutOptions) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.objects[opts.Key] = data
	return "s3://" + opts.Bucket + "/" + opts.Key, nil
}

func (f *fakeStorage) ListObjects(_ context.Context, _ string, prefix string) ([]storage.ObjectInfo, error) {
	var out []storage.ObjectInfo
	for k, v := range f.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, storage.ObjectInfo{Key: k, Size: int64(len(v))})
		}
	}
	return out, nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, _ string, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) GetObjectURL(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return "https://" + bucket + ".example/" + key + "?signed", nil
}

func TestStatementService_Unavailable(t *testing.T) {
	ctx := context.Background()

	svc := NewStatementService(nil, StatementConfig{Bucket: "b"})
	_, err := svc.Upload(ctx, "alice", "a.pdf", "application/pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	svc = NewStatementService(newFakeStorage(), StatementConfig{})
	_, err = svc.List(ctx, "alice")
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = svc.List(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestStatementService_UploadListDelete(t *testing.T) {
	ctx := context.Background()
	store := newFakeStorage()
	svc := NewStatementService(store, StatementConfig{Bucket: "bucket", KeyPrefix: "/statements/"})

	stmt, err := svc.Upload(ctx, "alice", `C:\docs\my statement (1).pdf`, "application/pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "my_statement_1_.pdf", stmt.Name)
	assert.True(t, strings.HasPrefix(stmt.Key, "statements/alice/"), stmt.Key)
	assert.True(t, strings.HasSuffix(stmt.ID, "-my_statement_1_.pdf"), stmt.ID)
	assert.Equal(t, []byte("%PDF"), store.objects[stmt.Key])

	_, err = svc.Upload(ctx, "bob", "other.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)

	list, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, stmt.ID, list[0].ID)
	assert.Equal(t, "my_statement_1_.pdf", list[0].Name)
	assert.Equal(t, int64(4), list[0].Size)
	assert.Contains(t, list[0].URL, "signed")

	err = svc.Delete(ctx, "bob", stmt.ID)
	assert.ErrorIs(t, err, ErrStatementNotFound)

	require.NoError(t, svc.Delete(ctx, "alice", stmt.ID))
	list, err = svc.List(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStatementService_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewStatementService(newFakeStorage(), StatementConfig{Bucket: "bucket"})

	for _, name := range []string{"", "  ", "..", "/", "***"} {
		_, err := svc.Upload(ctx, "alice", name, "", strings.NewReader("x"))
		assert.True(t, IsValidation(err), "name %q: %v", name, err)
	}

	err := svc.Delete(ctx, "alice", "../bob/x")
	assert.True(t, IsValidation(err), "got %v", err)
}

func TestStatementService_PutFailure(t *testing.T) {
	store := newFakeStorage()
	store.putErr = errors.New("access denied")
	svc := NewStatementService(store, StatementConfig{Bucket: "bucket"})

	_, err := svc.Upload(context.Background(), "alice", "a.pdf", "", strings.NewReader("x"))
	assert.ErrorIs(t, err, store.putErr)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "a.pdf", displayName("123e4567-e89b-12d3-a456-426614174000-a.pdf"))
	assert.Equal(t, "plain.pdf", displayName("plain.pdf"))
}
