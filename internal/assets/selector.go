// Package assets manages the local source pools: random selection for the
// pipeline and listing/deletion for the pool-management endpoints.
package assets

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

// Ref identifies one source video or music file in a local pool.
type Ref struct {
	Filename  string `json:"filename"`
	LocalPath string `json:"localPath"`
}

// VideoExtensions is the allow-list for the video pool.
var VideoExtensions = []string{".mp4", ".mov"}

// MusicExtensions is the allow-list for the music pool.
var MusicExtensions = []string{".mp3", ".wav", ".aac", ".m4a"}

// Selector picks assets uniformly at random from the local pools. Each call
// is independent and memoryless: selection is with replacement.
type Selector struct {
	VideoDir string
	MusicDir string
}

// RandomVideo returns a uniformly random video from the pool, or nil when the
// pool is empty. Callers treat nil as "no content available".
func (s *Selector) RandomVideo() (*Ref, error) {
	files, err := listPool(s.VideoDir, VideoExtensions)
	if err != nil {
		return nil, fmt.Errorf("failed to scan video pool: %w", err)
	}
	return pick(s.VideoDir, files), nil
}

// RandomMusic returns a uniformly random track from the music pool, or nil
// when the pool is empty or missing. Callers treat nil as "skip music".
func (s *Selector) RandomMusic() (*Ref, error) {
	if _, err := os.Stat(s.MusicDir); os.IsNotExist(err) {
		return nil, nil
	}
	files, err := listPool(s.MusicDir, MusicExtensions)
	if err != nil {
		return nil, fmt.Errorf("failed to scan music pool: %w", err)
	}
	return pick(s.MusicDir, files), nil
}

// List enumerates the video pool.
func (s *Selector) List() ([]Ref, error) {
	files, err := listPool(s.VideoDir, VideoExtensions)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	refs := make([]Ref, 0, len(files))
	for _, f := range files {
		refs = append(refs, Ref{Filename: f, LocalPath: filepath.Join(s.VideoDir, f)})
	}
	return refs, nil
}

// Delete removes a file from the video pool. The filename is resolved against
// the pool directory and must not escape it.
func (s *Selector) Delete(filename string) error {
	p, err := s.SafePath(filename)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

// SafePath resolves filename inside the video pool, rejecting traversal.
func (s *Selector) SafePath(filename string) (string, error) {
	p := filepath.Join(s.VideoDir, filepath.Base(filename))
	resolved, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	dir, err := filepath.Abs(s.VideoDir)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(resolved, dir+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid file path %q", filename)
	}
	return p, nil
}

func pick(dir string, files []string) *Ref {
	if len(files) == 0 {
		return nil
	}
	chosen := files[rand.Intn(len(files))]
	return &Ref{Filename: chosen, LocalPath: filepath.Join(dir, chosen)}
}

func listPool(dir string, allowed []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, a := range allowed {
			if ext == a {
				out = append(out, e.Name())
				break
			}
		}
	}
	return out, nil
}
