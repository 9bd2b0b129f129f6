// Package ports declares the boundaries the pipeline depends on without
// naming an implementation.
package ports

import "context"

// Storage folders under the provider's base namespace.
const (
	FolderVideos = "videos"
	FolderMusic  = "music"
	FolderOutput = "output"
)

// UploadResult is what the remote store reports after accepting a file.
type UploadResult struct {
	RemoteURL       string
	RemoteID        string
	Format          string
	SizeBytes       int64
	DurationSeconds float64
}

// RemoteAssetMeta describes one object in a remote folder.
type RemoteAssetMeta struct {
	RemoteID  string
	Name      string
	SizeBytes int64
}

// StorageProvider is the remote asset store: uploads of rendered outputs and
// the listing/fetching the pool syncer reconciles against.
type StorageProvider interface {
	Provider() string

	Upload(ctx context.Context, localPath, folder string) (UploadResult, error)
	List(ctx context.Context, folder string) ([]RemoteAssetMeta, error)
	Fetch(ctx context.Context, remoteID, localPath string) error
	Delete(ctx context.Context, remoteID string) error
}
