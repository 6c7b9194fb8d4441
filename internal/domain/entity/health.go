package entity

// Dependency identifies one external dependency probed before each run.
type Dependency string

// The fixed set of probed dependencies.
const (
	DependencyGeneration Dependency = "generation"
	DependencyWeather    Dependency = "weather"
	DependencyMailbox    Dependency = "mailbox"
)

// Dependencies lists every probed dependency in a stable order.
func Dependencies() []Dependency {
	return []Dependency{DependencyGeneration, DependencyWeather, DependencyMailbox}
}

// HealthStatus is a per-dependency reachability snapshot. It is computed
// fresh at the start of every run and never cached across runs.
type HealthStatus struct {
	Generation bool
	Weather    bool
	Mailbox    bool
}

// Of returns the flag for the named dependency. Unknown names report false.
func (h HealthStatus) Of(dep Dependency) bool {
	switch dep {
	case DependencyGeneration:
		return h.Generation
	case DependencyWeather:
		return h.Weather
	case DependencyMailbox:
		return h.Mailbox
	default:
		return false
	}
}
