// Package s3store implements remotestore.Store on an S3-compatible bucket.
// Top-level key prefixes ("SERVER1_CLIENT2_121/") act as folders and the
// objects directly below a prefix are its children.
package s3store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"bat-monitor-be/pkg/remotestore"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const delimiter = "/"

// API is the subset of the S3 client the store uses.
type API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Store struct {
	client API
	bucket string
}

var _ remotestore.Store = (*Store)(nil)

type Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PathStyle bool
}

// New builds the S3 client. Static credentials are used when provided,
// otherwise the default AWS credential chain applies.
func New(ctx context.Context, opts Options) (*Store, error) {
	if opts.Bucket == "" {
		return nil, errors.New("s3store: bucket is required")
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")
		loadOpts = append(loadOpts, config.WithCredentialsProvider(creds))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.PathStyle
	})

	return NewWithClient(client, opts.Bucket), nil
}

func NewWithClient(client API, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

func (s *Store) FindFolder(ctx context.Context, name string) (*remotestore.Container, error) {
	prefix := name + delimiter
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("search folder %q: %w", name, err)
	}
	if len(out.Contents) == 0 {
		return nil, nil
	}

	return &remotestore.Container{
		ID:         prefix,
		Name:       name,
		ModifiedAt: aws.ToTime(out.Contents[0].LastModified),
	}, nil
}

func (s *Store) ListChildren(ctx context.Context, containerID string) ([]remotestore.File, error) {
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(containerID),
		Delimiter: aws.String(delimiter),
	})
	if err != nil {
		return nil, fmt.Errorf("list folder %s: %w", containerID, err)
	}

	files := make([]remotestore.File, 0, len(out.Contents))
	for _, obj := range out.Contents {
		key := aws.ToString(obj.Key)
		// The folder marker object some tools create.
		if key == containerID {
			continue
		}
		files = append(files, toFile(obj))
	}
	return files, nil
}

func (s *Store) Fetch(ctx context.Context, fileID string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fileID),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("fetch %s: %w", fileID, remotestore.ErrObjectNotFound)
		}
		return nil, fmt.Errorf("get object %s/%s: %w", s.bucket, fileID, err)
	}
	return out.Body, nil
}

func (s *Store) ListFolders(ctx context.Context) ([]remotestore.Container, error) {
	out, err := s.listRoot(ctx)
	if err != nil {
		return nil, err
	}

	folders := make([]remotestore.Container, 0, len(out.CommonPrefixes))
	for _, p := range out.CommonPrefixes {
		prefix := aws.ToString(p.Prefix)
		folders = append(folders, remotestore.Container{
			ID:   prefix,
			Name: strings.TrimSuffix(prefix, delimiter),
		})
	}
	return folders, nil
}

func (s *Store) ListRoot(ctx context.Context) ([]remotestore.Item, error) {
	out, err := s.listRoot(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]remotestore.Item, 0, len(out.CommonPrefixes)+len(out.Contents))
	for _, p := range out.CommonPrefixes {
		prefix := aws.ToString(p.Prefix)
		items = append(items, remotestore.Item{
			ID:        prefix,
			Title:     strings.TrimSuffix(prefix, delimiter),
			MediaType: remotestore.FolderMediaType,
			Parents:   []string{"root"},
		})
	}
	for _, obj := range out.Contents {
		f := toFile(obj)
		items = append(items, remotestore.Item{
			ID:         f.ID,
			Title:      f.Name,
			MediaType:  f.MediaType,
			ModifiedAt: f.ModifiedAt,
			Parents:    []string{"root"},
		})
	}
	return items, nil
}

func (s *Store) Upload(ctx context.Context, containerID, name string, r io.Reader) (*remotestore.File, error) {
	key := containerID + name
	mediaType := mediaTypeOf(name)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(mediaType),
	})
	if err != nil {
		return nil, fmt.Errorf("put object %s/%s: %w", s.bucket, key, err)
	}

	return &remotestore.File{
		ID:         key,
		Name:       name,
		MediaType:  mediaType,
		ModifiedAt: time.Now().UTC(),
	}, nil
}

func (s *Store) listRoot(ctx context.Context) (*s3.ListObjectsV2Output, error) {
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Delimiter: aws.String(delimiter),
	})
	if err != nil {
		return nil, fmt.Errorf("list objects in %s: %w", s.bucket, err)
	}
	return out, nil
}

func toFile(obj types.Object) remotestore.File {
	key := aws.ToString(obj.Key)
	return remotestore.File{
		ID:         key,
		Name:       path.Base(key),
		MediaType:  mediaTypeOf(key),
		Size:       aws.ToInt64(obj.Size),
		ModifiedAt: aws.ToTime(obj.LastModified),
	}
}

func mediaTypeOf(name string) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
