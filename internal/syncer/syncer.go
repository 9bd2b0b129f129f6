// Package syncer reconciles the local asset pools against the remote store.
// The remote side is the source of truth: missing files are downloaded and
// local files with no remote counterpart are pruned.
package syncer

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"quotereel/internal/pkg/errors"
	"quotereel/internal/pkg/logger"
	"quotereel/internal/ports"
	"quotereel/internal/storage"
)

// Syncer mirrors the remote videos and music folders into the local pools.
type Syncer struct {
	Storage  storage.Provider
	VideoDir string
	MusicDir string
	Log      *logger.Logger
}

// Report summarizes the reconciliation of one folder.
type Report struct {
	Folder     string   `json:"folder"`
	Downloaded []string `json:"downloaded"`
	Pruned     []string `json:"pruned"`
	Kept       int      `json:"kept"`
}

// Sync reconciles both pools. A folder listing failure aborts the sync;
// individual file transfers only log and continue.
func (s *Syncer) Sync(ctx context.Context) ([]Report, error) {
	if s.Storage == nil {
		return nil, errors.New(errors.CodeBadRequest, "no storage provider configured")
	}

	folders := []struct {
		name string
		dir  string
	}{
		{ports.FolderVideos, s.VideoDir},
		{ports.FolderMusic, s.MusicDir},
	}

	reports := make([]Report, 0, len(folders))
	for _, f := range folders {
		report, err := s.syncFolder(ctx, f.name, f.dir)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

func (s *Syncer) syncFolder(ctx context.Context, folder, dir string) (*Report, error) {
	log := s.Log.FromContext(ctx).WithComponent("syncer")

	remote, err := s.Storage.List(ctx, folder)
	if err != nil {
		return nil, errors.Wrap(err, "syncer.syncFolder", "failed to list remote "+folder)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "syncer.syncFolder", "failed to create pool dir")
	}

	local, err := localFiles(dir)
	if err != nil {
		return nil, errors.Wrap(err, "syncer.syncFolder", "failed to scan pool dir")
	}

	report := &Report{Folder: folder, Downloaded: []string{}, Pruned: []string{}}

	remoteNames := make(map[string]bool, len(remote))
	for _, asset := range remote {
		remoteNames[asset.Name] = true
		if local[asset.Name] {
			report.Kept++
			continue
		}
		localPath := filepath.Join(dir, asset.Name)
		if err := s.Storage.Fetch(ctx, asset.RemoteID, localPath); err != nil {
			log.Warn("failed to fetch remote asset",
				"folder", folder, "name", asset.Name, "error", err.Error())
			os.Remove(localPath)
			continue
		}
		report.Downloaded = append(report.Downloaded, asset.Name)
	}

	for name := range local {
		if remoteNames[name] {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			log.Warn("failed to prune local asset",
				"folder", folder, "name", name, "error", err.Error())
			continue
		}
		report.Pruned = append(report.Pruned, name)
	}

	log.Info("pool synced",
		"folder", folder,
		"downloaded", len(report.Downloaded),
		"pruned", len(report.Pruned),
		"kept", report.Kept)
	return report, nil
}

func localFiles(dir string) (map[string]bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		files[e.Name()] = true
	}
	return files, nil
}
