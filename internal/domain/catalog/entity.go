package catalog

import "time"

// Entity is one trackable boss: its canonical name, the fixed period after a
// death until it respawns, and the alternate names players type for it.
type Entity struct {
	Name          string   `yaml:"name"`
	PeriodMinutes int      `yaml:"period_minutes"`
	Aliases       []string `yaml:"aliases,omitempty"`
}

// Period returns the respawn period as a duration.
func (e Entity) Period() time.Duration {
	return time.Duration(e.PeriodMinutes) * time.Minute
}
