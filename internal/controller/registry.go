package controller

import "fmt"

// Factory builds a controller bound to one robot. Params come from the
// scenario or run settings.
type Factory func(robot Robot, params map[string]float64) Controller

// Registry maps controller names to factories. It replaces any ambient
// global store: the simulator owns one registry and instantiates from it
// at load and on reload.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry preloaded with the builtin controllers.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("none", func(Robot, map[string]float64) Controller { return nil })
	r.Register("constant", func(robot Robot, params map[string]float64) Controller {
		return NewConstant(robot, params)
	})
	r.Register("bang_bang", func(robot Robot, params map[string]float64) Controller {
		return NewBangBang(robot, params)
	})
	r.Register("corridor", func(robot Robot, params map[string]float64) Controller {
		return NewCorridor(robot, params)
	})
	return r
}

// Register adds or replaces a factory.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// New instantiates a controller by name. Unknown names are the caller's
// missing-controller case.
func (r *Registry) New(name string, robot Robot, params map[string]float64) (Controller, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s", name)
	}
	return f(robot, params), nil
}

// Names lists registered controller names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}
