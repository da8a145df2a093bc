package banners

import (
	"sync"

	"github.com/portaldovale/backend/internal/models"
)

// TemplateKind enumerates the known rendering strategies for a slot.
// Adding a kind requires extending Render's switch, which the compiler
// and exhaustiveness tests keep honest.
type TemplateKind int

const (
	TemplateCarousel TemplateKind = iota
	TemplateGrid
	TemplateStatic
	TemplateVideo
	TemplateCustom
)

// templateKinds lists every kind, in registration order.
var templateKinds = []TemplateKind{
	TemplateCarousel, TemplateGrid, TemplateStatic, TemplateVideo, TemplateCustom,
}

// String returns the symbolic id of the kind.
func (k TemplateKind) String() string {
	switch k {
	case TemplateCarousel:
		return "carousel"
	case TemplateGrid:
		return "grid"
	case TemplateStatic:
		return "static"
	case TemplateVideo:
		return "video"
	case TemplateCustom:
		return "custom"
	}
	return "unknown"
}

// ParseTemplateKind maps a symbolic id to its kind.
func ParseTemplateKind(s string) (TemplateKind, bool) {
	for _, k := range templateKinds {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// componentTypeTable maps the component-type strings stored in slot
// configuration to template kinds. It carries three generations of
// naming: the current identifiers, the Portuguese names older slot rows
// still hold, and the bare lowercase ids.
var componentTypeTable = map[string]TemplateKind{
	"BannerCarousel":      TemplateCarousel,
	"BannerGrid":          TemplateGrid,
	"BannerStatic":        TemplateStatic,
	"BannerVideo":         TemplateVideo,
	"BannerCustom":        TemplateCustom,
	"BannerCarrossel":     TemplateCarousel,
	"BannerGrade":         TemplateGrid,
	"BannerEstatico":      TemplateStatic,
	"BannerPersonalizado": TemplateCustom,
	"carousel":            TemplateCarousel,
	"grid":                TemplateGrid,
	"static":              TemplateStatic,
	"video":               TemplateVideo,
	"custom":              TemplateCustom,
}

// Template describes a registered rendering strategy with its default
// configuration, for admin display and slot setup.
type Template struct {
	Kind        TemplateKind      `json:"-"`
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Defaults    models.SlotConfig `json:"defaults"`
}

// Registry maps template kinds to their metadata and defaults. It is
// constructed explicitly and injected; there is no package-level instance.
type Registry struct {
	mu        sync.RWMutex
	templates map[TemplateKind]Template
}

// NewRegistry creates a registry with the five default templates registered.
func NewRegistry() *Registry {
	r := &Registry{templates: make(map[TemplateKind]Template)}
	r.Register(Template{Kind: TemplateCarousel, Name: "Carrossel", Description: "Rotaciona os banners em intervalos configuraveis",
		Defaults: models.SlotConfig{RotationMS: DefaultRotationMS, InfiniteLoop: true, Autoplay: true}})
	r.Register(Template{Kind: TemplateGrid, Name: "Grade", Description: "Exibe todos os banners em colunas",
		Defaults: models.SlotConfig{Columns: 3}})
	r.Register(Template{Kind: TemplateStatic, Name: "Estatico", Description: "Exibe apenas o primeiro banner"})
	r.Register(Template{Kind: TemplateVideo, Name: "Video", Description: "Player de video com fallback para imagem",
		Defaults: models.SlotConfig{Autoplay: false}})
	r.Register(Template{Kind: TemplateCustom, Name: "Personalizado", Description: "Bloco decorativo sob medida"})
	return r
}

// Register records a template under its kind. Re-registering a kind
// silently overwrites the previous entry.
func (r *Registry) Register(t Template) {
	t.ID = t.Kind.String()
	r.mu.Lock()
	r.templates[t.Kind] = t
	r.mu.Unlock()
}

// Get returns the template for a kind. Never errors; the second result
// reports whether the kind is registered.
func (r *Registry) Get(kind TemplateKind) (Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[kind]
	return t, ok
}

// GetByComponentType resolves an external component-type string (as stored
// in slot configuration) to its template.
func (r *Registry) GetByComponentType(componentType string) (Template, bool) {
	kind, ok := componentTypeTable[componentType]
	if !ok {
		return Template{}, false
	}
	return r.Get(kind)
}

// All lists registered templates for administrative display.
func (r *Registry) All() []Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Template, 0, len(r.templates))
	for _, k := range templateKinds {
		if t, ok := r.templates[k]; ok {
			out = append(out, t)
		}
	}
	return out
}
