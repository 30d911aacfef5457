package domain

import "time"

// Selections is the persisted record for one save.
type Selections struct {
	SaveID    string           `json:"saveId"`
	Options   map[ToolKind]int `json:"options"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Option returns the stored option for kind, or 0 when absent.
// The value is not range checked; the controller clamps it on its first refresh.
func (s Selections) Option(kind ToolKind) int {
	return s.Options[kind]
}

// SelectionStore persists selections per save identifier.
type SelectionStore interface {
	// Load returns ok=false when the save has no record.
	Load(saveID string) (Selections, bool, error)
	Save(record Selections) error
}
