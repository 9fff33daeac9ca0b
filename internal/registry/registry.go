// Package registry keeps track of registered and enqueued scripts for one page
// and prints them as <script> tags in dependency order.
package registry

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	ErrEmptyHandle     = errors.New("script handle cannot be empty")
	ErrNotRegistered   = errors.New("script is not registered")
	ErrEmptyObjectName   = errors.New("localized object name cannot be empty")
	ErrInvalidObjectName = errors.New("localized object name is not a JavaScript identifier")
	ErrDependencyCycle = errors.New("script dependency cycle")
)

var objectNamePattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// ValidObjectName reports whether name can be printed as `var name = ...;`.
func ValidObjectName(name string) bool {
	return objectNamePattern.MatchString(name)
}

// LocalizedObject is a global JS object printed before its script.
type LocalizedObject struct {
	Name string         `json:"name"`
	Data map[string]any `json:"data"`
}

// Registration is what the registry knows about one handle.
type Registration struct {
	Handle       string            `json:"handle"`
	Src          string            `json:"src"`
	Dependencies []string          `json:"dependencies"`
	Version      string            `json:"version"`
	InFooter     bool              `json:"in_footer"`
	TextDomain   string            `json:"text_domain,omitempty"`
	Translations string            `json:"translations_path,omitempty"`
	Localized    []LocalizedObject `json:"localized,omitempty"`
}

// clone copies reg so callers cannot reach the registry's slices and maps.
func (reg *Registration) clone() Registration {
	c := *reg
	c.Dependencies = append([]string(nil), reg.Dependencies...)
	if reg.Localized != nil {
		c.Localized = make([]LocalizedObject, len(reg.Localized))
		for i, obj := range reg.Localized {
			c.Localized[i] = LocalizedObject{Name: obj.Name, Data: maps.Clone(obj.Data)}
		}
	}
	return c
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithBaseURL sets the URL that script sources are made relative to when
// looking up hashed translation catalogs.
func WithBaseURL(baseURL string) Option {
	return func(r *Registry) {
		r.baseURL = baseURL
	}
}

// Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	scripts map[string]*Registration
	queue   []string
	queued  map[string]bool

	baseURL string
	logger  *log.Logger
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		scripts: make(map[string]*Registration),
		queued:  make(map[string]bool),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a script. Registering a handle twice keeps the first registration.
func (r *Registry) Register(handle, src string, deps []string, version string, inFooter bool) error {
	if handle == "" {
		return ErrEmptyHandle
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.scripts[handle]; exists {
		r.logger.Debug("script already registered, keeping first registration", "handle", handle)
		return nil
	}

	r.scripts[handle] = &Registration{
		Handle:       handle,
		Src:          src,
		Dependencies: append([]string(nil), deps...),
		Version:      version,
		InFooter:     inFooter,
	}
	r.logger.Debug("registered script", "handle", handle, "src", src, "version", version, "deps", deps, "footer", inFooter)
	return nil
}

// Deregister removes a script and takes it out of the queue.
func (r *Registry) Deregister(handle string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.scripts, handle)
	if r.queued[handle] {
		delete(r.queued, handle)
		for i, h := range r.queue {
			if h == handle {
				r.queue = append(r.queue[:i], r.queue[i+1:]...)
				break
			}
		}
	}
}

// Enqueue marks a registered handle for output. Enqueueing twice is a no-op.
func (r *Registry) Enqueue(handle string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.scripts[handle]; !exists {
		return fmt.Errorf("%w: %s", ErrNotRegistered, handle)
	}
	if r.queued[handle] {
		return nil
	}

	r.queued[handle] = true
	r.queue = append(r.queue, handle)
	r.logger.Debug("enqueued script", "handle", handle)
	return nil
}

func (r *Registry) IsRegistered(handle string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.scripts[handle]
	return exists
}

func (r *Registry) IsEnqueued(handle string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.queued[handle]
}

// SetTranslations records the text domain and catalog directory of a script.
func (r *Registry) SetTranslations(handle, domain, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, exists := r.scripts[handle]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotRegistered, handle)
	}

	reg.TextDomain = domain
	reg.Translations = path
	r.logger.Debug("set script translations", "handle", handle, "domain", domain, "path", path)
	return nil
}

// Localize attaches a data object to a script. A second call with the same
// object name replaces the data.
func (r *Registry) Localize(handle, objectName string, data map[string]any) error {
	if objectName == "" {
		return ErrEmptyObjectName
	}
	if !ValidObjectName(objectName) {
		return fmt.Errorf("%w: %q", ErrInvalidObjectName, objectName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	reg, exists := r.scripts[handle]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotRegistered, handle)
	}

	for i := range reg.Localized {
		if reg.Localized[i].Name == objectName {
			reg.Localized[i].Data = data
			return nil
		}
	}
	reg.Localized = append(reg.Localized, LocalizedObject{Name: objectName, Data: data})
	r.logger.Debug("localized script", "handle", handle, "object", objectName)
	return nil
}

// Get returns a copy of the registration for handle.
func (r *Registry) Get(handle string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, exists := r.scripts[handle]
	if !exists {
		return Registration{}, false
	}
	return reg.clone(), true
}

// Scripts returns copies of all registrations sorted by handle.
func (r *Registry) Scripts() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Registration, 0, len(r.scripts))
	for _, reg := range r.scripts {
		result = append(result, reg.clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Handle < result[j].Handle
	})
	return result
}

// Queue returns the enqueued handles in enqueue order.
func (r *Registry) Queue() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.queue...)
}
