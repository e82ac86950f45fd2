package extract

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"

	"msfs_hangar/internal/models"
)

// DefaultBGLMaxBytes bounds how much of a single BGL file is read
const DefaultBGLMaxBytes = 32 << 20

type bglKey struct {
	path    string
	size    int64
	modTime int64
}

// BGLScanner is the last-resort stage: it looks for known ICAO codes in BGL
// file names and then in their raw bytes. Byte matches can be coincidental.
type BGLScanner struct {
	MaxDepth int   // directory levels below the package root
	MaxBytes int64 // per-file read limit

	// candidate runs keyed by file identity, so rescans skip unchanged files
	cache *lru.Cache[bglKey, []string]
}

// NewBGLScanner creates a scanner caching up to cacheSize file results
func NewBGLScanner(maxDepth, cacheSize int) (*BGLScanner, error) {
	cache, err := lru.New[bglKey, []string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create BGL cache: %w", err)
	}
	return &BGLScanner{
		MaxDepth: maxDepth,
		MaxBytes: DefaultBGLMaxBytes,
		cache:    cache,
	}, nil
}

type bglFile struct {
	path string
	info os.FileInfo
}

// Scan searches the BGL files below dir. File names are checked for every
// file before any content is read. A file name matching a reference ident
// that is not a record ICAO (K1A) does not stop the content scan.
func (s *BGLScanner) Scan(fsys afero.Fs, dir string, known Codes) Result {
	if known == nil {
		return NotFound
	}

	var files []bglFile
	walkBounded(fsys, dir, s.MaxDepth, func(path string, info os.FileInfo) {
		if strings.EqualFold(filepath.Ext(path), ".bgl") {
			files = append(files, bglFile{path: path, info: info})
		}
	})
	if len(files) == 0 {
		return NotFound
	}

	name := filepath.Base(dir)
	for _, f := range files {
		code := filenameCode(f.path, known)
		if code == "" {
			continue
		}
		if icao, err := models.NormalizeICAO(code); err == nil {
			return Found(icao, name, StageBGL)
		}
		slog.Debug("BGL file name matches a non-ICAO ident", "path", f.path, "ident", code)
	}

	for _, f := range files {
		if code := s.contentCode(fsys, f, known); code != "" {
			slog.Debug("ICAO code found in BGL content", "path", f.path, "icao", code)
			return Found(code, name, StageBGL)
		}
	}
	return NotFound
}

// filenameCode returns the longest known code the file name starts with.
// A 3-character code only counts when it is not the start of a longer word.
func filenameCode(path string, known Codes) string {
	base := strings.ToUpper(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if len(base) >= 4 && known.Has(base[:4]) {
		return base[:4]
	}
	if len(base) >= 3 && (len(base) == 3 || !isUpperAlnum(base[3])) && known.Has(base[:3]) {
		return base[:3]
	}
	return ""
}

func (s *BGLScanner) contentCode(fsys afero.Fs, f bglFile, known Codes) string {
	for _, code := range s.contentRuns(fsys, f) {
		if known.Has(code) {
			return code
		}
	}
	return ""
}

// contentRuns returns the distinct 4-character runs of a file in order of appearance
func (s *BGLScanner) contentRuns(fsys afero.Fs, f bglFile) []string {
	key := bglKey{path: f.path, size: f.info.Size(), modTime: f.info.ModTime().UnixNano()}
	if s.cache != nil {
		if runs, ok := s.cache.Get(key); ok {
			return runs
		}
	}

	file, err := fsys.Open(f.path)
	if err != nil {
		slog.Debug("Unable to open BGL", "path", f.path, "error", err)
		return nil
	}
	defer file.Close()

	limit := s.MaxBytes
	if limit <= 0 {
		limit = DefaultBGLMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(file, limit))
	if err != nil {
		slog.Debug("Unable to read BGL", "path", f.path, "error", err)
		return nil
	}

	var runs []string
	seen := make(map[string]bool)
	fourCharRun(data, func(code string) bool {
		if !seen[code] {
			seen[code] = true
			runs = append(runs, code)
		}
		return false
	})

	if s.cache != nil {
		s.cache.Add(key, runs)
	}
	return runs
}
