package bridge

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"gardenreach/internal/domain"
)

func TestDecoder_Next(t *testing.T) {
	input := strings.Join([]string{
		`{"type":"update","worldReady":true,"tool":"hoe","upgradeLevel":4,"reach":true}`,
		``,
		`{"type":"button_released","worldReady":true,"tool":"wateringCan","button":"R"}`,
		`{"type":"selection","worldReady":true,"tool":"hoe","choice":"2"}`,
	}, "\n")
	dec := NewDecoder(strings.NewReader(input))

	var got []domain.HostEvent
	for {
		event, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, event)
	}

	want := []domain.HostEvent{
		{Type: domain.EventUpdateTicked, WorldReady: true, Tool: "hoe", UpgradeLevel: 4, Reach: true},
		{Type: domain.EventButtonReleased, WorldReady: true, Tool: "wateringCan", Button: "R"},
		{Type: domain.EventSelection, WorldReady: true, Tool: "hoe", Choice: "2"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestDecoder_MalformedLineContinues(t *testing.T) {
	input := "not json\n{\"type\":\"teleport\"}\n{\"type\":\"second\",\"primary\":\"held\"}\n"
	dec := NewDecoder(strings.NewReader(input))

	_, err := dec.Next()
	var lineErr *LineError
	require.ErrorAs(t, err, &lineErr)
	require.Equal(t, 1, lineErr.Line)
	code, ok := domain.CodeFrom(err)
	require.True(t, ok)
	require.Equal(t, domain.CodeInvalidArgument, code)

	_, err = dec.Next()
	require.ErrorIs(t, err, domain.ErrUnknownEvent)

	event, err := dec.Next()
	require.NoError(t, err)
	require.Equal(t, domain.ButtonHeld, event.Primary)

	_, err = dec.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestDecoder_RejectsUnknownFields(t *testing.T) {
	dec := NewDecoder(strings.NewReader(`{"type":"update","level":3}`))
	_, err := dec.Next()
	require.Error(t, err)
}

func TestDecoder_LineTooLong(t *testing.T) {
	long := `{"type":"update","tool":"` + strings.Repeat("x", maxLineLength) + `"}`
	dec := NewDecoder(strings.NewReader(long + "\n" + `{"type":"update"}` + "\n"))

	_, err := dec.Next()
	require.ErrorIs(t, err, ErrLineTooLong)

	event, err := dec.Next()
	require.NoError(t, err)
	require.Equal(t, domain.EventUpdateTicked, event.Type)
}

func TestEncoder_Write(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	require.NoError(t, enc.Write([]domain.HostAction{
		{Type: domain.ActionToolPower, Tool: domain.ToolHoe, Value: 3},
		{Type: domain.ActionToolHold, Tool: domain.ToolHoe, Value: 600},
	}))
	require.NoError(t, enc.Write(nil))

	want := `[{"type":"tool_power","tool":"hoe","value":3},{"type":"tool_hold","tool":"hoe","value":600}]` + "\n" + "[]\n"
	require.Equal(t, want, buf.String())
}

func TestEncoder_WriteKeepsZeroPower(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Write([]domain.HostAction{
		{Type: domain.ActionToolPower, Tool: domain.ToolWateringCan},
	}))
	require.Equal(t, `[{"type":"tool_power","tool":"wateringCan","value":0}]`+"\n", buf.String())
}
