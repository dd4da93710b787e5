package archive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"print-exporter/core/storage"

	"github.com/minio/minio-go/v7"
)

// BucketArchive serves an extracted archive uploaded under a bucket prefix.
type BucketArchive struct {
	client storage.Client
	bucket string
	prefix string
}

// NewBucketArchive creates an archive over bucket/prefix.
func NewBucketArchive(client storage.Client, bucket, prefix string) *BucketArchive {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &BucketArchive{client: client, bucket: bucket, prefix: prefix}
}

// ReadRaw implements Archive.
func (a *BucketArchive) ReadRaw(ctx context.Context, p string) ([]byte, error) {
	p = Clean(p)
	data, err := a.get(ctx, p)
	if err == nil {
		return data, nil
	}
	if minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return nil, fmt.Errorf("failed to read %s: %w", p, err)
	}

	// Retry with the stored letter case.
	siblings, listErr := a.list(ctx, Dir(p), false)
	if listErr != nil {
		return nil, listErr
	}
	real, ok := findFold(siblings, p)
	if !ok {
		return nil, fmt.Errorf("%s: %w", p, ErrNotExist)
	}
	data, err = a.get(ctx, real)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", real, err)
	}
	return data, nil
}

func (a *BucketArchive) get(ctx context.Context, p string) ([]byte, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, a.prefix+p, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	return io.ReadAll(obj)
}

// SearchByGlob implements Archive.
func (a *BucketArchive) SearchByGlob(ctx context.Context, pattern string) ([]string, error) {
	m, err := compile(pattern)
	if err != nil {
		return nil, err
	}
	all, err := a.list(ctx, m.root, true)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, p := range all {
		if m.Match(p) {
			out = append(out, p)
		}
	}
	return sorted(out), nil
}

// list returns archive paths under dir. Object keys are case-sensitive, so
// the listing prefix is only the directory as written.
func (a *BucketArchive) list(ctx context.Context, dir string, recursive bool) ([]string, error) {
	prefix := a.prefix
	if dir != "" {
		prefix += dir + "/"
	}
	var out []string
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: recursive}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		out = append(out, strings.TrimPrefix(obj.Key, a.prefix))
	}
	return out, nil
}
