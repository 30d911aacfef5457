package domain

const (
	// DefaultTicksPerSecond is the host update cadence the countdown assumes.
	// It is a configuration note, not a contract: timers count host cycles.
	DefaultTicksPerSecond    = 60
	DefaultTimerStart        = 3600
	DefaultSelectionOpenKey  = "R"
	DefaultToolEnabled       = true
	DefaultAlwaysHighest     = false
	DefaultSelectTemporary   = false
	DefaultToolHold          = 600
	DefaultMetricsListenAddr = "127.0.0.1:9464"

	// Settings UIs expose the countdown in whole seconds within this range.
	MinTimerStartSeconds = 10
	MaxTimerStartSeconds = 90
)

const (
	PromptKeyWateringCan = "dialogbox.wateringCanQuestion"
	PromptKeyHoe         = "dialogbox.hoeQuestion"
	CurrentOptionKey     = "dialogbox.currentOption"
	optionLabelKeyPrefix = "dialogbox.option"
)

// TimerStartSeconds converts a countdown in host cycles to whole seconds.
func TimerStartSeconds(ticks int) int {
	return ticks / DefaultTicksPerSecond
}

// TimerStartFromSeconds converts whole seconds to host cycles.
func TimerStartFromSeconds(seconds int) int {
	return seconds * DefaultTicksPerSecond
}
