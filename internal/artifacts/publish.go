package artifacts

import (
	"context"
	"fmt"

	"github.com/imamik/chzner/internal/util/naming"
)

// Uploader stores objects in a bucket.
type Uploader interface {
	EnsureBucket(ctx context.Context, bucket string) error
	PutObject(ctx context.Context, bucket, key, contentType string, data []byte) error
}

// Key returns the object key of f below prefix.
func Key(prefix string, f File) string {
	if f.Node == "" {
		return prefix + "/" + f.Name
	}
	return naming.ArtifactKey(prefix, f.Node, f.Name)
}

// Publish uploads files to bucket below prefix and returns the keys written.
func Publish(ctx context.Context, up Uploader, bucket, prefix string, files []File) ([]string, error) {
	if err := up.EnsureBucket(ctx, bucket); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket %s: %w", bucket, err)
	}

	keys := make([]string, 0, len(files))
	for _, f := range files {
		key := Key(prefix, f)
		if err := up.PutObject(ctx, bucket, key, f.ContentType, f.Data); err != nil {
			return keys, fmt.Errorf("failed to upload %s: %w", key, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}
