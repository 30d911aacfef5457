package telemetry

import (
	"time"

	"go.uber.org/zap"

	"gardenreach/internal/domain"
)

const (
	FieldEvent      = "event"
	FieldTool       = "tool"
	FieldSaveID     = "saveId"
	FieldSessionID  = "session_id"
	FieldOption     = "option"
	FieldDurationMs = "duration_ms"
)

const (
	EventSessionStart     = "session_start"
	EventSessionStop      = "session_stop"
	EventSelectionRestore = "selection_restore"
	EventSelectionPersist = "selection_persist"
	EventMenuOpen         = "menu_open"
	EventConfigReload     = "config_reload"
)

func EventField(event string) zap.Field {
	return zap.String(FieldEvent, event)
}

func ToolField(kind domain.ToolKind) zap.Field {
	return zap.String(FieldTool, kind.String())
}

func SaveIDField(saveID string) zap.Field {
	return zap.String(FieldSaveID, saveID)
}

func SessionIDField(value string) zap.Field {
	return zap.String(FieldSessionID, value)
}

func OptionField(option int) zap.Field {
	return zap.Int(FieldOption, option)
}

func DurationField(duration time.Duration) zap.Field {
	return zap.Int64(FieldDurationMs, duration.Milliseconds())
}
