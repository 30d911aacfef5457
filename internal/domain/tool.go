package domain

import (
	"fmt"
	"strings"
)

// ToolKind identifies a tool that owns a selectable reach option.
type ToolKind string

const (
	ToolNone        ToolKind = ""
	ToolWateringCan ToolKind = "wateringCan"
	ToolHoe         ToolKind = "hoe"
)

// ToolKinds lists every supported tool kind in a stable order.
func ToolKinds() []ToolKind {
	return []ToolKind{ToolWateringCan, ToolHoe}
}

// ParseToolKind maps host spellings to a tool kind. Anything unrecognized is ToolNone.
func ParseToolKind(raw string) ToolKind {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer("_", "", "-", "", " ", "").Replace(normalized)
	switch normalized {
	case "wateringcan":
		return ToolWateringCan
	case "hoe":
		return ToolHoe
	default:
		return ToolNone
	}
}

func (k ToolKind) String() string {
	if k == ToolNone {
		return "none"
	}
	return string(k)
}

// PromptKey returns the translation key for the selection dialog question.
func (k ToolKind) PromptKey() string {
	switch k {
	case ToolWateringCan:
		return PromptKeyWateringCan
	case ToolHoe:
		return PromptKeyHoe
	default:
		return ""
	}
}

// ToolCapabilities are read from the host every refresh.
type ToolCapabilities struct {
	UpgradeLevel        int
	HasReachEnchantment bool
}

// MaxUpgradeLevel is the highest upgrade tier with a known option range.
const MaxUpgradeLevel = 4

// UnsupportedToolError reports an upgrade level without a known option range.
type UnsupportedToolError struct {
	Kind         ToolKind
	UpgradeLevel int
}

func (e *UnsupportedToolError) Error() string {
	return fmt.Sprintf("unsupported tool %s: upgrade level %d", e.Kind, e.UpgradeLevel)
}

// MaxSelectable returns the highest option the tool can use.
// Levels 0 to 3 map to themselves; level 4 unlocks 5 with the reach enchantment.
func MaxSelectable(kind ToolKind, caps ToolCapabilities) (int, error) {
	switch caps.UpgradeLevel {
	case 0, 1, 2, 3:
		return caps.UpgradeLevel, nil
	case 4:
		if caps.HasReachEnchantment {
			return 5, nil
		}
		return 4, nil
	default:
		return 0, &UnsupportedToolError{Kind: kind, UpgradeLevel: caps.UpgradeLevel}
	}
}

// Mode is the controller state derived from its configuration.
type Mode string

const (
	ModeManual        Mode = "manual"
	ModeAuto          Mode = "auto"
	ModeAutoTemporary Mode = "auto_temporary"
)

// Activation is the outcome of the single-activation gate.
type Activation int

const (
	// ActivationSuppress leaves the tool's charge-up untouched.
	ActivationSuppress Activation = iota
	// ActivationAllow treats the press as a single activation; the host cancels the charge-up.
	ActivationAllow
)

func (a Activation) String() string {
	if a == ActivationAllow {
		return "allow"
	}
	return "suppress"
}
