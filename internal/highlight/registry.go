// internal/highlight/registry.go
package highlight

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/darealtrueblue/codeforge/internal/logger"
)

// Registry holds compiled languages keyed by name and extension. It is
// built once and read-only afterwards, so concurrent lookups need no
// locking.
type Registry struct {
	byName map[string]*Language
	byExt  map[string]*Language
	plain  *Language
}

var (
	defaultRegistry *Registry
	registryOnce    sync.Once
)

// DefaultRegistry returns the process-wide registry of builtin languages,
// compiling it on first use. A language whose spec fails to compile is
// registered as plain text rather than aborting startup.
func DefaultRegistry() *Registry {
	registryOnce.Do(func() {
		defaultRegistry = newRegistry(builtinSpecs())
	})
	return defaultRegistry
}

func newRegistry(specs []LanguageSpec) *Registry {
	r := &Registry{
		byName: make(map[string]*Language),
		byExt:  make(map[string]*Language),
		plain:  PlainText(),
	}
	for _, spec := range specs {
		lang, err := Compile(spec)
		if err != nil {
			logger.Errorf("Highlight: language %q disabled: %v", spec.Name, err)
			lang = PlainText()
		}
		r.byName[spec.Name] = lang
		for _, ext := range spec.Extensions {
			r.byExt[strings.ToLower(ext)] = lang
		}
	}
	return r
}

// Get returns the language registered under name, or plain text.
func (r *Registry) Get(name string) *Language {
	if lang, ok := r.byName[strings.ToLower(name)]; ok {
		return lang
	}
	return r.plain
}

// Detect picks a language from a file path's extension, or plain text when
// no language claims it.
func (r *Registry) Detect(path string) *Language {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := r.byExt[ext]; ok {
		return lang
	}
	return r.plain
}

// Names lists the registered language names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	return names
}
