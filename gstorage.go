package exprdiff

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// IsGoogleStorage reports whether path names a Google Storage object.
func IsGoogleStorage(path string) bool {
	return strings.HasPrefix(path, "gs://")
}

// NewStorageClientIfNeeded initializes a Google Storage client only if one
// of the paths actually points to Google Storage. For purely local runs it
// returns a nil client, which Open accepts.
func NewStorageClientIfNeeded(ctx context.Context, paths ...string) (*storage.Client, error) {
	for _, path := range paths {
		if IsGoogleStorage(path) {
			client, err := storage.NewClient(ctx)
			if err != nil {
				return nil, pfx.Err(err)
			}

			return client, nil
		}
	}

	return nil, nil
}

// OpenGoogleStorage opens a gs://bucket/object path for sequential reading
// with default credentials.
func OpenGoogleStorage(path string, client *storage.Client) (io.ReadCloser, error) {
	if client == nil {
		return nil, fmt.Errorf("%s is a google storage path, but no storage client was provided", path)
	}

	// Detect the bucket and the path to the actual file
	pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
	if len(pathParts) != 2 {
		return nil, fmt.Errorf("tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
	}
	bucketName := pathParts[0]
	pathName := pathParts[1]

	rdr, err := client.Bucket(bucketName).Object(pathName).NewReader(context.Background())
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %s", path, err))
	}

	return rdr, nil
}
