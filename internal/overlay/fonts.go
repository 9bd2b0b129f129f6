package overlay

import (
	"os"
	"path/filepath"
	"runtime"
)

// fontCandidates maps logical family names to font file names, in preference
// order. Unrecognized families fall back to the default sans mapping.
var fontCandidates = map[string][]string{
	"Arial":           {"Arial.ttf", "arial.ttf", "LiberationSans-Regular.ttf", "DejaVuSans.ttf"},
	"Times New Roman": {"Times New Roman.ttf", "times.ttf", "LiberationSerif-Regular.ttf", "DejaVuSerif.ttf"},
	"Courier New":     {"Courier New.ttf", "cour.ttf", "LiberationMono-Regular.ttf", "DejaVuSansMono.ttf"},
	"Georgia":         {"Georgia.ttf", "georgia.ttf", "DejaVuSerif.ttf"},
	"Verdana":         {"Verdana.ttf", "verdana.ttf", "DejaVuSans.ttf"},
	"Impact":          {"Impact.ttf", "impact.ttf", "DejaVuSans-Bold.ttf"},
}

var defaultFontFamily = "Arial"

// FontResolver maps logical font family names to font files on disk. A
// project-local font directory is preferred over platform font directories
// when a same-named file exists there.
type FontResolver struct {
	// CustomDir is the project-local font directory, searched first.
	CustomDir string
}

// Resolve returns the font file path for a family. It never fails: an
// unrecognized family resolves through the default sans mapping, and if no
// candidate exists on disk the last (most generic) candidate path is returned
// so the renderer reports a comprehensible missing-file error.
func (f FontResolver) Resolve(family string) string {
	candidates, ok := fontCandidates[family]
	if !ok {
		candidates = fontCandidates[defaultFontFamily]
	}

	dirs := f.searchDirs()
	for _, name := range candidates {
		for _, dir := range dirs {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}

	last := candidates[len(candidates)-1]
	if len(dirs) > 0 {
		return filepath.Join(dirs[len(dirs)-1], last)
	}
	return last
}

func (f FontResolver) searchDirs() []string {
	var dirs []string
	if f.CustomDir != "" {
		dirs = append(dirs, f.CustomDir)
	}
	switch runtime.GOOS {
	case "darwin":
		dirs = append(dirs, "/Library/Fonts", "/System/Library/Fonts")
	case "windows":
		dirs = append(dirs, `C:\Windows\Fonts`)
	default:
		dirs = append(dirs,
			"/usr/share/fonts/truetype/liberation",
			"/usr/share/fonts/truetype/dejavu",
			"/usr/share/fonts",
		)
	}
	return dirs
}
