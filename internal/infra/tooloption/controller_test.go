package tooloption

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"gardenreach/internal/domain"
)

func manualConfig() domain.ControllerConfig {
	return domain.ControllerConfig{Enabled: true, PromptKey: domain.PromptKeyHoe}
}

func caps(level int, reach bool) domain.ToolCapabilities {
	return domain.ToolCapabilities{UpgradeLevel: level, HasReachEnchantment: reach}
}

func TestSetSelectedOption_InRangeChangeMarksDirty(t *testing.T) {
	ctrl := NewController(domain.ToolHoe, manualConfig(), 0)
	require.NoError(t, ctrl.Refresh(caps(3, false)))
	require.False(t, ctrl.Dirty())

	ctrl.SetSelectedOption(2)
	require.Equal(t, 2, ctrl.SelectedOption())
	require.True(t, ctrl.Dirty())
}

func TestSetSelectedOption_SameValueIsNoop(t *testing.T) {
	ctrl := NewController(domain.ToolHoe, manualConfig(), 2)
	require.NoError(t, ctrl.Refresh(caps(3, false)))
	require.False(t, ctrl.Dirty())

	ctrl.SetSelectedOption(2)
	require.Equal(t, 2, ctrl.SelectedOption())
	require.False(t, ctrl.Dirty())
}

func TestSetSelectedOption_OutOfRangeResetsToZero(t *testing.T) {
	for _, value := range []int{-1, 4, 9} {
		ctrl := NewController(domain.ToolHoe, manualConfig(), 1)
		require.NoError(t, ctrl.Refresh(caps(3, false)))

		ctrl.SetSelectedOption(value)
		require.Equal(t, 0, ctrl.SelectedOption(), "value %d", value)
		require.True(t, ctrl.Dirty(), "value %d", value)
	}
}

func TestManualOverflowClampsToZero(t *testing.T) {
	ctrl := NewController(domain.ToolWateringCan, manualConfig(), 0)
	require.NoError(t, ctrl.Refresh(caps(2, false)))

	ctrl.ApplySelection(5)
	require.Equal(t, 0, ctrl.SelectedOption())
	require.True(t, ctrl.Dirty())
}

func TestRefresh_RestoredValueRevalidated(t *testing.T) {
	ctrl := NewController(domain.ToolHoe, manualConfig(), 5)
	require.Equal(t, 5, ctrl.SelectedOption())

	require.NoError(t, ctrl.Refresh(caps(4, true)))
	require.Equal(t, 5, ctrl.SelectedOption())
	require.False(t, ctrl.Dirty())

	require.NoError(t, ctrl.Refresh(caps(4, false)))
	require.Equal(t, 0, ctrl.SelectedOption())
	require.True(t, ctrl.Dirty())
}

func TestRefresh_UnsupportedLevel(t *testing.T) {
	ctrl := NewController(domain.ToolHoe, manualConfig(), 1)
	require.NoError(t, ctrl.Refresh(caps(1, false)))

	err := ctrl.Refresh(caps(6, false))
	var unsupported *domain.UnsupportedToolError
	require.True(t, errors.As(err, &unsupported))
	require.Equal(t, 1, ctrl.SelectedOption())
	require.Equal(t, caps(1, false), ctrl.Capabilities())
}

func TestTick_ManualKeepsSelection(t *testing.T) {
	ctrl := NewController(domain.ToolHoe, manualConfig(), 3)
	for i := 0; i < 5; i++ {
		power, err := ctrl.Tick(caps(4, true))
		require.NoError(t, err)
		require.Equal(t, 3, power)
	}
}

func TestTick_AutoForcesMaximum(t *testing.T) {
	cfg := domain.ControllerConfig{Enabled: true, AlwaysHighest: true}
	ctrl := NewController(domain.ToolWateringCan, cfg, 0)

	power, err := ctrl.Tick(caps(3, false))
	require.NoError(t, err)
	require.Equal(t, 3, power)

	ctrl.ApplySelection(1)
	require.Equal(t, 1, ctrl.SelectedOption())

	power, err = ctrl.Tick(caps(3, false))
	require.NoError(t, err)
	require.Equal(t, 3, power)
	require.Equal(t, 3, ctrl.SelectedOption())

	power, err = ctrl.Tick(caps(4, true))
	require.NoError(t, err)
	require.Equal(t, 5, power)
}

func TestTick_AutoTemporaryCountdown(t *testing.T) {
	cfg := domain.ControllerConfig{Enabled: true, AlwaysHighest: true, SelectTemporary: true, TimerStartValue: 10}
	ctrl := NewController(domain.ToolWateringCan, cfg, 0)
	full := caps(4, true)

	power, err := ctrl.Tick(full)
	require.NoError(t, err)
	require.Equal(t, 5, power, "expired countdown forces the maximum")

	menu, err := ctrl.RequestOpenSelectionMenu()
	require.NoError(t, err)
	require.NotNil(t, menu)
	ctrl.ApplySelection(2)

	menu, err = ctrl.RequestOpenSelectionMenu()
	require.NoError(t, err)
	require.NotNil(t, menu)
	require.Equal(t, 10, ctrl.Timer())

	for i := 1; i <= 10; i++ {
		power, err := ctrl.Tick(full)
		require.NoError(t, err)
		require.Equal(t, 2, power, "tick %d", i)
		require.Equal(t, 10-i, ctrl.Timer())
	}

	power, err = ctrl.Tick(full)
	require.NoError(t, err)
	require.Equal(t, 5, power)
}

func TestTick_UnsupportedLevelReturnsError(t *testing.T) {
	ctrl := NewController(domain.ToolHoe, domain.ControllerConfig{Enabled: true, AlwaysHighest: true}, 0)
	_, err := ctrl.Tick(caps(9, false))
	require.Error(t, err)
}

func TestRequestOpenSelectionMenu_Blocked(t *testing.T) {
	cases := []struct {
		name string
		cfg  domain.ControllerConfig
	}{
		{name: "disabled", cfg: domain.ControllerConfig{Enabled: false}},
		{name: "auto", cfg: domain.ControllerConfig{Enabled: true, AlwaysHighest: true}},
		{name: "auto disabled", cfg: domain.ControllerConfig{Enabled: false, AlwaysHighest: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := NewController(domain.ToolHoe, tc.cfg, 0)
			require.True(t, ctrl.MenuBlocked())
			menu, err := ctrl.RequestOpenSelectionMenu()
			require.NoError(t, err)
			require.Nil(t, menu)
		})
	}
}

func TestRequestOpenSelectionMenu_Choices(t *testing.T) {
	ctrl := NewController(domain.ToolHoe, manualConfig(), 1)
	require.NoError(t, ctrl.Refresh(caps(2, false)))

	menu, err := ctrl.RequestOpenSelectionMenu()
	require.NoError(t, err)

	want := &domain.MenuSpec{
		Tool:             domain.ToolHoe,
		PromptKey:        domain.PromptKeyHoe,
		CurrentOptionKey: domain.CurrentOptionKey,
		Choices: []domain.MenuChoice{
			{Key: "0", LabelKey: "dialogbox.option0"},
			{Key: "1", LabelKey: "dialogbox.option1", Current: true},
			{Key: "2", LabelKey: "dialogbox.option2"},
		},
	}
	if diff := cmp.Diff(want, menu); diff != "" {
		t.Fatalf("menu mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 0, ctrl.Timer(), "manual mode does not arm the countdown")
}

func TestOnSingleActivationAttempt(t *testing.T) {
	cases := []struct {
		name      string
		level     int
		selected  int
		busy      bool
		usingTool bool
		enabled   bool
		want      domain.Activation
	}{
		{name: "unupgraded", level: 0, selected: 0, enabled: true, want: domain.ActivationAllow},
		{name: "upgraded option zero", level: 3, selected: 0, enabled: true, want: domain.ActivationAllow},
		{name: "upgraded option two", level: 3, selected: 2, enabled: true, want: domain.ActivationSuppress},
		{name: "busy idle", level: 0, selected: 0, busy: true, enabled: true, want: domain.ActivationSuppress},
		{name: "busy swinging", level: 0, selected: 0, busy: true, usingTool: true, enabled: true, want: domain.ActivationAllow},
		{name: "disabled", level: 0, selected: 0, enabled: false, want: domain.ActivationSuppress},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := manualConfig()
			cfg.Enabled = tc.enabled
			ctrl := NewController(domain.ToolHoe, cfg, tc.selected)
			require.NoError(t, ctrl.Refresh(caps(tc.level, false)))
			require.Equal(t, tc.want, ctrl.OnSingleActivationAttempt(tc.busy, tc.usingTool))
		})
	}
}

func TestDisableStopsController(t *testing.T) {
	ctrl := NewController(domain.ToolHoe, manualConfig(), 0)
	require.True(t, ctrl.Enabled())
	ctrl.Disable()
	require.False(t, ctrl.Enabled())
	require.True(t, ctrl.MenuBlocked())
}

func TestNewControllerClampsNegativeTimerStart(t *testing.T) {
	cfg := domain.ControllerConfig{Enabled: true, AlwaysHighest: true, SelectTemporary: true, TimerStartValue: -5}
	ctrl := NewController(domain.ToolHoe, cfg, 0)
	_, err := ctrl.RequestOpenSelectionMenu()
	require.NoError(t, err)
	require.Equal(t, 0, ctrl.Timer())
}
