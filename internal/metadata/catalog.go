package metadata

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pytatbro/metaltrophysolidv/internal/fileutil"
	"github.com/pytatbro/metaltrophysolidv/internal/logging"
)

// DefaultBody is the notification body used when a trophy has no description.
const DefaultBody = "Achievement unlocked!"

// Achievement describes one trophy's display metadata as recorded in the
// descriptor file.
type Achievement struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Display is the resolved notification content for one trophy.
type Display struct {
	Title    string
	Body     string
	IconPath string
}

// Catalog maps trophy identifiers to display metadata. A nil or empty catalog
// is valid and falls back to identifier-only displays.
type Catalog struct {
	baseDir string
	entries map[string]Achievement
}

// LoadCatalog reads the optional achievements descriptor. An empty path, a
// missing file, or a malformed descriptor all yield an empty catalog; the
// sync must not depend on metadata being present.
func LoadCatalog(path string, logger *slog.Logger) *Catalog {
	log := logging.NewComponentLogger(logger, "metadata")
	catalog := &Catalog{entries: make(map[string]Achievement)}
	if strings.TrimSpace(path) == "" {
		return catalog
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("metadata descriptor not present", logging.String(logging.FieldPath, path))
		} else {
			log.Warn("metadata descriptor unreadable; notifications fall back to identifiers",
				logging.String(logging.FieldPath, path),
				logging.Error(err),
			)
		}
		return catalog
	}

	var records []Achievement
	if err := json.Unmarshal(data, &records); err != nil {
		log.Warn("metadata descriptor malformed; notifications fall back to identifiers",
			logging.String(logging.FieldPath, path),
			logging.Error(err),
		)
		return catalog
	}

	catalog.baseDir = filepath.Dir(path)
	for _, record := range records {
		if record.Name == "" {
			continue
		}
		catalog.entries[record.Name] = record
	}
	log.Debug("metadata descriptor loaded",
		logging.String(logging.FieldPath, path),
		logging.Int("achievements", len(catalog.entries)),
	)
	return catalog
}

// Len returns the number of described trophies.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Describe resolves the notification content for a trophy identifier. The
// identifier doubles as the title when no display name is recorded, and icon
// paths resolve relative to the descriptor's directory. Icons that do not
// exist on disk are dropped rather than handed to a notifier that would fail
// on them.
func (c *Catalog) Describe(id string) Display {
	display := Display{Title: id, Body: DefaultBody}
	if c == nil {
		return display
	}
	record, ok := c.entries[id]
	if !ok {
		return display
	}
	if record.DisplayName != "" {
		display.Title = record.DisplayName
	}
	if record.Description != "" {
		display.Body = record.Description
	}
	if record.Icon != "" {
		iconPath := record.Icon
		if !filepath.IsAbs(iconPath) {
			iconPath = filepath.Join(c.baseDir, iconPath)
		}
		if fileutil.FileExists(iconPath) {
			display.IconPath = iconPath
		}
	}
	return display
}
