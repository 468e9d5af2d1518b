// ABOUTME: Parsed template cache for the web frontend
// ABOUTME: Each page template is parsed together with the base layout

package handlers

import (
	"fmt"
	"html/template"
	"log/slog"
	"path/filepath"
	"strconv"
	"sync"
)

// TemplateCache holds parsed templates keyed by page file name.
type TemplateCache struct {
	cache map[string]*template.Template
	mu    sync.RWMutex
	funcs template.FuncMap
}

func NewTemplateCache() *TemplateCache {
	return &TemplateCache{
		cache: make(map[string]*template.Template),
		funcs: make(template.FuncMap),
	}
}

// AddFunc registers a template function. Must be called before Load.
func (tc *TemplateCache) AddFunc(name string, fn interface{}) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.funcs[name] = fn
}

// Load parses every page template in dir against the base layout.
func (tc *TemplateCache) Load(dir string) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.funcs["price"] = func(value string) string {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return value
		}
		return fmt.Sprintf("$%.2f", f)
	}
	tc.funcs["priceFloat"] = func(value float64) string {
		return fmt.Sprintf("$%.2f", value)
	}

	base := filepath.Join(dir, "base.html")
	files, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return err
	}
	for _, file := range files {
		name := filepath.Base(file)
		if name == "base.html" {
			continue
		}
		tmpl, err := template.New(name).Funcs(tc.funcs).ParseFiles(base, file)
		if err != nil {
			slog.Error("Failed to parse template", "file", file, "error", err)
			return err
		}
		tc.cache[name] = tmpl
		slog.Debug("Cached template", "name", name)
	}
	if len(tc.cache) == 0 {
		return fmt.Errorf("no page templates found in %q", dir)
	}
	return nil
}

// Get returns a parsed template by page file name, or nil.
func (tc *TemplateCache) Get(name string) *template.Template {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.cache[name]
}
