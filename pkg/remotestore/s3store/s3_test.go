package s3store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"bat-monitor-be/pkg/remotestore"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 keeps keys in insertion order and answers ListObjectsV2 with the
// prefix/delimiter semantics the store relies on.
type fakeS3 struct {
	keys    []string
	data    map[string][]byte
	listErr error
	calls   int
}

func newFakeS3(keys ...string) *fakeS3 {
	f := &fakeS3{data: map[string][]byte{}}
	for _, k := range keys {
		f.keys = append(f.keys, k)
		f.data[k] = []byte("data:" + k)
	}
	return f
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	prefix := aws.ToString(in.Prefix)
	delim := aws.ToString(in.Delimiter)
	out := &s3.ListObjectsV2Output{}
	seen := map[string]bool{}
	modified := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	for _, k := range f.keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := strings.TrimPrefix(k, prefix)
		if delim != "" {
			if i := strings.Index(rest, delim); i >= 0 {
				cp := prefix + rest[:i+1]
				if !seen[cp] {
					seen[cp] = true
					out.CommonPrefixes = append(out.CommonPrefixes, types.CommonPrefix{Prefix: aws.String(cp)})
				}
				continue
			}
		}
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(k),
			Size:         aws.Int64(int64(len(f.data[k]))),
			LastModified: aws.Time(modified),
		})
		if in.MaxKeys != nil && int32(len(out.Contents)) >= *in.MaxKeys {
			break
		}
	}
	return out, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.data[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Key)
	f.keys = append(f.keys, key)
	f.data[key] = b
	return &s3.PutObjectOutput{}, nil
}

func TestStore_FindFolder(t *testing.T) {
	api := newFakeS3("SERVER1_CLIENT2_121/Spectogram.jpg", "SERVER1_CLIENT2_121/Audio.wav")
	store := NewWithClient(api, "bats")

	c, err := store.FindFolder(context.Background(), "SERVER1_CLIENT2_121")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "SERVER1_CLIENT2_121/", c.ID)
	assert.Equal(t, "SERVER1_CLIENT2_121", c.Name)
	assert.Equal(t, 1, api.calls)

	// A shared name prefix is not a match.
	c, err = store.FindFolder(context.Background(), "SERVER1_CLIENT2_12")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestStore_FindFolder_Error(t *testing.T) {
	api := newFakeS3()
	api.listErr = errors.New("connection refused")
	store := NewWithClient(api, "bats")

	_, err := store.FindFolder(context.Background(), "SERVER1_CLIENT1_1")
	assert.ErrorContains(t, err, "connection refused")
}

func TestStore_ListChildren(t *testing.T) {
	api := newFakeS3(
		"SERVER1_CLIENT2_121/",
		"SERVER1_CLIENT2_121/Spectogram.jpg",
		"SERVER1_CLIENT2_121/Sensor.txt",
		"SERVER1_CLIENT2_121/nested/deep.jpg",
		"SERVER9_CLIENT9_9/Other.jpg",
	)
	store := NewWithClient(api, "bats")

	files, err := store.ListChildren(context.Background(), "SERVER1_CLIENT2_121/")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "Spectogram.jpg", files[0].Name)
	assert.Equal(t, "image/jpeg", files[0].MediaType)
	assert.Equal(t, "SERVER1_CLIENT2_121/Spectogram.jpg", files[0].ID)
	assert.Equal(t, "Sensor.txt", files[1].Name)
}

func TestStore_FetchAndUpload(t *testing.T) {
	api := newFakeS3("SERVER1_CLIENT1_5/Spectogram.jpg")
	store := NewWithClient(api, "bats")
	ctx := context.Background()

	rc, err := store.Fetch(ctx, "SERVER1_CLIENT1_5/Spectogram.jpg")
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "data:SERVER1_CLIENT1_5/Spectogram.jpg", string(b))

	_, err = store.Fetch(ctx, "SERVER1_CLIENT1_5/missing.jpg")
	assert.ErrorIs(t, err, remotestore.ErrObjectNotFound)

	f, err := store.Upload(ctx, "SERVER1_CLIENT1_5/", "Sensor.txt", strings.NewReader("t=1"))
	require.NoError(t, err)
	assert.Equal(t, "SERVER1_CLIENT1_5/Sensor.txt", f.ID)
	assert.Equal(t, "t=1", string(api.data[f.ID]))
}

func TestStore_ListFoldersAndRoot(t *testing.T) {
	api := newFakeS3("A/x.jpg", "B/y.txt", "readme.md")
	store := NewWithClient(api, "bats")

	folders, err := store.ListFolders(context.Background())
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "A", folders[0].Name)
	assert.Equal(t, "B", folders[1].Name)

	items, err := store.ListRoot(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, remotestore.FolderMediaType, items[0].MediaType)
	assert.Equal(t, "readme.md", items[2].Title)
}
