package extract

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const contentHistoryName = "contenthistory.json"

type contentHistory struct {
	PackageName string `json:"package-name"`
	Items       []struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	} `json:"items"`
}

// findContentHistory returns ContentHistory.json files below dir, at most
// maxDepth directories deep
func findContentHistory(fsys afero.Fs, dir string, maxDepth int) []string {
	var found []string
	walkBounded(fsys, dir, maxDepth, func(path string, info os.FileInfo) {
		if strings.ToLower(info.Name()) == contentHistoryName {
			found = append(found, path)
		}
	})
	return found
}

// FromContentHistory resolves an ICAO code from the ContentInfo/*/ContentHistory.json
// files of a package. Items typed "Airport" are trusted even when the code is
// not in the reference table.
func FromContentHistory(fsys afero.Fs, pkgDir string, known Codes) Result {
	if known == nil {
		known = noCodes{}
	}

	for _, path := range findContentHistory(fsys, pkgDir, 3) {
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			continue
		}
		var ch contentHistory
		if err := json.Unmarshal(trimBOM(data), &ch); err != nil {
			slog.Debug("Malformed content history", "path", path, "error", err)
			continue
		}

		name := ch.PackageName
		if name == "" {
			name = filepath.Base(pkgDir)
		}

		var unverified string
		for _, item := range ch.Items {
			if !strings.EqualFold(item.Type, "airport") {
				continue
			}
			code := strings.ToUpper(strings.TrimSpace(item.Content))
			if known.Has(code) {
				return Found(code, name, StageContentHistory)
			}
			if unverified == "" && len(code) == 4 && fourCharRun([]byte(code), func(string) bool { return true }) != "" {
				unverified = code
			}
		}
		if unverified != "" {
			return Found(unverified, name, StageContentHistory)
		}

		if code := knownToken(ch.PackageName, known); code != "" {
			return Found(code, name, StageContentHistory)
		}
	}
	return NotFound
}
