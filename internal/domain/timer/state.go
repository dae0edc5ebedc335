package timer

import "time"

// Mode records which anchor a timer was registered from: the moment the boss
// died, or an explicitly stated respawn time.
type Mode string

const (
	ModeDeath    Mode = "death"
	ModeExplicit Mode = "explicit"
)

// Record is the next respawn of one entity within one scope. RespawnAt is
// always the next future occurrence at the moment the record was written;
// it is never rolled forward afterwards.
type Record struct {
	RespawnAt       time.Time `json:"respawn_at"`
	LastNotifiedKey string    `json:"last_notified_key,omitempty"`
	Mode            Mode      `json:"mode"`
}

// NotifyKey identifies one respawn occurrence for reminder deduplication.
func NotifyKey(respawnAt time.Time) string {
	return respawnAt.Format(time.RFC3339)
}

// Confirmation is a single-use, time-boxed authorization for a bulk clear.
type Confirmation struct {
	RequestedAt time.Time `json:"requested_at"`
	TTLSeconds  int       `json:"ttl_seconds"`
}

// Live reports whether the confirmation can still be consumed at now.
func (c Confirmation) Live(now time.Time) bool {
	deadline := c.RequestedAt.Add(time.Duration(c.TTLSeconds) * time.Second)
	return !now.After(deadline)
}

// ScopeState is everything owned by one notification scope (a chat room):
// registered timers keyed by entity name, and the push targets to remind.
type ScopeState struct {
	Timers  map[string]Record `json:"timers"`
	Targets []string          `json:"targets,omitempty"`
}

// AddTarget appends a push target unless it is already registered.
// Reports whether the list changed.
func (s *ScopeState) AddTarget(target string) bool {
	for _, t := range s.Targets {
		if t == target {
			return false
		}
	}
	s.Targets = append(s.Targets, target)
	return true
}

// State is the whole persisted document: all scopes plus the pending
// bulk-clear confirmations keyed by scope.
type State struct {
	Scopes        map[string]*ScopeState  `json:"scopes"`
	Confirmations map[string]Confirmation `json:"confirmations,omitempty"`
}

// NewState returns an empty, fully initialized document.
func NewState() *State {
	return &State{
		Scopes:        make(map[string]*ScopeState),
		Confirmations: make(map[string]Confirmation),
	}
}

// Scope returns the state for scopeID, creating it on first use.
func (s *State) Scope(scopeID string) *ScopeState {
	sc, ok := s.Scopes[scopeID]
	if !ok {
		sc = &ScopeState{Timers: make(map[string]Record)}
		s.Scopes[scopeID] = sc
	}
	return sc
}

// Reset fills in any nil maps after a load from disk, so callers can index
// freely regardless of what the stored document contained.
func (s *State) Reset() {
	if s.Scopes == nil {
		s.Scopes = make(map[string]*ScopeState)
	}
	if s.Confirmations == nil {
		s.Confirmations = make(map[string]Confirmation)
	}
	for _, sc := range s.Scopes {
		if sc.Timers == nil {
			sc.Timers = make(map[string]Record)
		}
	}
}
