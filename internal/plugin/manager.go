package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ayusman/tuicher/internal/config"
)

// Registry maps keywords to registered plugins.
type Registry struct {
	pluginDir string
	log       zerolog.Logger
	byKeyword map[string]*Plugin
	byID      map[string]*Plugin
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry resolving executables under pluginDir.
func NewRegistry(pluginDir string, log zerolog.Logger) *Registry {
	return &Registry{
		pluginDir: pluginDir,
		log:       log.With().Str("component", "plugins").Logger(),
		byKeyword: make(map[string]*Plugin),
		byID:      make(map[string]*Plugin),
	}
}

// Load replaces the registry contents with the given registrations.
// A registration whose executable is missing is kept so that its keyword
// still routes; invoking it reports a spawn failure.
func (r *Registry) Load(entries []config.PluginConfig) error {
	byKeyword := make(map[string]*Plugin, len(entries))
	byID := make(map[string]*Plugin, len(entries))

	for _, entry := range entries {
		if entry.ID == "" || entry.Keyword == "" {
			return fmt.Errorf("plugin registration needs an id and a keyword: %+v", entry)
		}
		if other, ok := byKeyword[entry.Keyword]; ok {
			return fmt.Errorf("keyword %q registered by both %q and %q", entry.Keyword, other.ID, entry.ID)
		}

		p := r.resolve(entry)
		byKeyword[p.Keyword] = p
		byID[p.ID] = p
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKeyword = byKeyword
	r.byID = byID

	r.log.Debug().Int("count", len(byID)).Msg("plugins registered")
	return nil
}

// resolve locates the executable at <dir>/<id>/<id>, falling back to <dir>/<id>.
func (r *Registry) resolve(entry config.PluginConfig) *Plugin {
	nested := filepath.Join(r.pluginDir, entry.ID, entry.ID)
	if isExecutableFile(nested) {
		return &Plugin{
			ID:         entry.ID,
			Keyword:    entry.Keyword,
			Dir:        filepath.Dir(nested),
			Executable: nested,
		}
	}

	flat := filepath.Join(r.pluginDir, entry.ID)
	if !isExecutableFile(flat) {
		r.log.Warn().
			Str("plugin", entry.ID).
			Str("path", flat).
			Msg("plugin executable not found")
	}
	return &Plugin{
		ID:         entry.ID,
		Keyword:    entry.Keyword,
		Dir:        r.pluginDir,
		Executable: flat,
	}
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}

// Lookup returns the plugin registered under keyword.
// Returns ErrPluginNotFound if there is none.
func (r *Registry) Lookup(keyword string) (*Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byKeyword[keyword]
	if !ok {
		return nil, ErrPluginNotFound
	}
	return p, nil
}

// Get returns a plugin by ID.
// Returns ErrPluginNotFound if the plugin does not exist.
func (r *Registry) Get(id string) (*Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, ErrPluginNotFound
	}
	return p, nil
}

// List returns all registered plugins ordered by ID.
func (r *Registry) List() []*Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plugins := make([]*Plugin, 0, len(r.byID))
	for _, p := range r.byID {
		plugins = append(plugins, p)
	}
	sort.Slice(plugins, func(i, j int) bool { return plugins[i].ID < plugins[j].ID })

	return plugins
}

// PluginDir returns the plugin directory path.
func (r *Registry) PluginDir() string {
	return r.pluginDir
}
