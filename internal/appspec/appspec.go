// Package appspec defines the post-link intermediate representation: the
// fully resolved, semantically validated description of an application.
//
// Every type here is a frozen value object. The linker constructs an App
// exactly once per compilation run; downstream consumers share it read-only
// and model any "edit" as building a new value. There are no setters and no
// lazily mutated caches, so sharing an App across goroutines needs no
// synchronization.
package appspec

// App is the top-level application specification. Lookup methods never
// mutate state.
type App struct {
	Name    string
	Title   string
	Version string

	Domain        Domain
	Surfaces      []Surface
	Experiences   []Experience
	Services      []Service
	ForeignModels []ForeignModel
	Integrations  []Integration
}

// Entity looks an entity up by its resolved name.
func (a *App) Entity(name string) (Entity, bool) {
	return a.Domain.Entity(name)
}

// Surface looks a surface up by name.
func (a *App) Surface(name string) (Surface, bool) {
	for _, s := range a.Surfaces {
		if s.Name == name {
			return s, true
		}
	}
	return Surface{}, false
}

// Experience looks an experience up by name.
func (a *App) Experience(name string) (Experience, bool) {
	for _, e := range a.Experiences {
		if e.Name == name {
			return e, true
		}
	}
	return Experience{}, false
}

// Service looks a service up by name.
func (a *App) Service(name string) (Service, bool) {
	for _, s := range a.Services {
		if s.Name == name {
			return s, true
		}
	}
	return Service{}, false
}

// ForeignModel looks a foreign model up by name.
func (a *App) ForeignModel(name string) (ForeignModel, bool) {
	for _, m := range a.ForeignModels {
		if m.Name == name {
			return m, true
		}
	}
	return ForeignModel{}, false
}

// Integration looks an integration up by name.
func (a *App) Integration(name string) (Integration, bool) {
	for _, i := range a.Integrations {
		if i.Name == name {
			return i, true
		}
	}
	return Integration{}, false
}

// IntegrationAction looks an integration action up by name across all
// integrations. Surface action outcomes target these.
func (a *App) IntegrationAction(name string) (IntegrationAction, bool) {
	for _, ig := range a.Integrations {
		for _, act := range ig.Actions {
			if act.Name == name {
				return act, true
			}
		}
	}
	return IntegrationAction{}, false
}
