package vision

import (
	"os"
	"path/filepath"

	"gocv.io/x/gocv"

	"github.com/callout-gg/callout/internal/log"
)

// TemplateSet holds the loaded reference images keyed by template name.
// Missing files degrade the dependent feature rather than failing startup.
type TemplateSet struct {
	mats map[string]gocv.Mat
}

// LoadTemplates loads the profile's reference images from its template
// directory. Files that are absent or unreadable are logged and skipped.
func LoadTemplates(p *Profile) *TemplateSet {
	ts := &TemplateSet{mats: make(map[string]gocv.Mat)}
	logger := log.Component("vision.templates")

	for key, filename := range p.Templates {
		path := filepath.Join(p.TemplateDir, filename)
		if _, err := os.Stat(path); err != nil {
			logger.Warn("template not found, feature degraded", "key", key, "path", path)
			continue
		}
		mat := gocv.IMRead(path, gocv.IMReadColor)
		if mat.Empty() {
			logger.Warn("template failed to load", "key", key, "path", path)
			continue
		}
		ts.mats[key] = mat
		logger.Info("template loaded", "key", key)
	}
	return ts
}

// Get returns the template for a key, if loaded.
func (t *TemplateSet) Get(key string) (gocv.Mat, bool) {
	m, ok := t.mats[key]
	return m, ok
}

// Has reports whether a template is available.
func (t *TemplateSet) Has(key string) bool {
	_, ok := t.mats[key]
	return ok
}

// Len returns the number of loaded templates.
func (t *TemplateSet) Len() int {
	return len(t.mats)
}

// Close releases all loaded template mats.
func (t *TemplateSet) Close() {
	for key, m := range t.mats {
		m.Close()
		delete(t.mats, key)
	}
}
