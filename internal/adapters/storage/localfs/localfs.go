// Package localfs implements ports.StorageProvider on the local filesystem,
// mainly for development and tests. Objects live under root/<folder>/<name>
// and the RemoteID is the folder-relative path.
package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"quotereel/internal/media"
	"quotereel/internal/ports"
)

type LocalFS struct {
	root    string
	baseURL string // prefix for the returned RemoteURL, e.g. "/files"
}

func New(root, baseURL string) *LocalFS {
	return &LocalFS{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (l *LocalFS) Provider() string { return "localfs" }

func (l *LocalFS) Upload(ctx context.Context, localPath, folder string) (ports.UploadResult, error) {
	name := filepath.Base(localPath)
	dst := filepath.Join(l.root, folder, name)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return ports.UploadResult{}, err
	}

	src, err := os.Open(localPath)
	if err != nil {
		return ports.UploadResult{}, err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return ports.UploadResult{}, err
	}
	defer out.Close()

	n, err := io.Copy(out, src)
	if err != nil {
		return ports.UploadResult{}, err
	}

	res := ports.UploadResult{
		RemoteURL: l.baseURL + "/" + folder + "/" + name,
		RemoteID:  folder + "/" + name,
		Format:    strings.TrimPrefix(filepath.Ext(name), "."),
		SizeBytes: n,
	}
	if info, err := media.Probe(dst); err == nil {
		res.DurationSeconds = info.Duration
	}
	return res, nil
}

func (l *LocalFS) List(ctx context.Context, folder string) ([]ports.RemoteAssetMeta, error) {
	entries, err := os.ReadDir(filepath.Join(l.root, folder))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []ports.RemoteAssetMeta
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, ports.RemoteAssetMeta{
			RemoteID:  folder + "/" + e.Name(),
			Name:      e.Name(),
			SizeBytes: info.Size(),
		})
	}
	return out, nil
}

func (l *LocalFS) Fetch(ctx context.Context, remoteID, localPath string) error {
	src, err := os.Open(filepath.Join(l.root, filepath.FromSlash(remoteID)))
	if err != nil {
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return err
	}
	dst, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("fetch %s: %w", remoteID, err)
	}
	return nil
}

func (l *LocalFS) Delete(ctx context.Context, remoteID string) error {
	return os.Remove(filepath.Join(l.root, filepath.FromSlash(remoteID)))
}
