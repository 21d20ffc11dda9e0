// Package media uploads user images to the media host.
package media

import "context"

// Asset is the result of a successful upload.
type Asset struct {
	URL string
	Key string
}

// Uploader pushes a local file to the media host and returns where it
// landed. Delete removes an object by its key; the account flows keep
// the key around but do not currently call Delete when an image is
// replaced.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (*Asset, error)
	Delete(ctx context.Context, key string) error
}
