package scenes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spektr-org/macroscene/dataset"
	"github.com/spektr-org/macroscene/engine"
)

// ============================================================================
// SCENES: filter → aggregate / join → chart config
// ============================================================================
// A scene reads the shared dataset and produces a render-ready ChartConfig.
// Scenes never load or join data themselves and never draw.
// ============================================================================

var (
	// ErrUnknownScene is returned for a scene name the registry does not hold.
	ErrUnknownScene = errors.New("unknown scene")
	// ErrNoDataset is returned when a scene is built without data.
	ErrNoDataset = errors.New("no dataset")
)

// Scene builds one chart from the dataset.
type Scene interface {
	Name() string
	Build(d *dataset.Dataset) (*engine.ChartConfig, error)
}

// Registry holds scenes in presentation order.
type Registry struct {
	scenes []Scene
	byName map[string]Scene
}

// NewRegistry registers scenes in the given order. Later duplicates of a
// name replace earlier ones in lookups but keep the first position.
func NewRegistry(scenes ...Scene) *Registry {
	r := &Registry{byName: make(map[string]Scene, len(scenes))}
	for _, s := range scenes {
		if _, dup := r.byName[s.Name()]; !dup {
			r.scenes = append(r.scenes, s)
		}
		r.byName[s.Name()] = s
	}
	for i, s := range r.scenes {
		r.scenes[i] = r.byName[s.Name()]
	}
	return r
}

// Default returns the four scenes in story order, sharing explorer so its
// selection survives across builds.
func Default(explorer *Explorer) *Registry {
	if explorer == nil {
		explorer = NewExplorer("")
	}
	return NewRegistry(Trend{}, Regional{}, Income{}, explorer)
}

// Get looks a scene up by name, case-insensitively.
func (r *Registry) Get(name string) (Scene, error) {
	if s, ok := r.byName[name]; ok {
		return s, nil
	}
	for n, s := range r.byName {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownScene, name, strings.Join(r.Names(), ", "))
}

// Resolve maps names to scenes. No names means every scene.
func (r *Registry) Resolve(names []string) ([]Scene, error) {
	if len(names) == 0 {
		return r.All(), nil
	}
	out := make([]Scene, 0, len(names))
	for _, n := range names {
		s, err := r.Get(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Names lists scene names in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.scenes))
	for i, s := range r.scenes {
		names[i] = s.Name()
	}
	return names
}

// All returns every scene in order.
func (r *Registry) All() []Scene {
	return append([]Scene(nil), r.scenes...)
}

func checkDataset(d *dataset.Dataset) error {
	if d == nil {
		return ErrNoDataset
	}
	return nil
}

func yearTitle(prefix string, r engine.YearRange) string {
	return fmt.Sprintf("%s (%d-%d)", prefix, r.From, r.To)
}
