package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gardenreach/internal/app"
	"gardenreach/internal/domain"
)

func writeJSON(w io.Writer, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func optionsPayload(options map[domain.ToolKind]int) map[string]int {
	out := make(map[string]int, len(options))
	for kind, value := range options {
		out[kind.String()] = value
	}
	return out
}

func printConfig(w io.Writer, path string, cfg domain.Config, jsonOutput bool) error {
	if jsonOutput {
		tools := make(map[string]any, len(domain.ToolKinds()))
		for _, kind := range domain.ToolKinds() {
			tool := cfg.Tool(kind)
			tools[kind.String()] = map[string]any{
				"enabled":           tool.Enabled,
				"mode":              string(cfg.ControllerConfig(kind).Mode()),
				"timerStart":        tool.TimerStart,
				"timerStartSeconds": domain.TimerStartSeconds(tool.TimerStart),
			}
		}
		return writeJSON(w, map[string]any{
			"config":           path,
			"selectionOpenKey": cfg.SelectionOpenKey,
			"tools":            tools,
		})
	}
	fmt.Fprintf(w, "config=%s selectionOpenKey=%s\n", path, cfg.SelectionOpenKey)
	for _, kind := range domain.ToolKinds() {
		tool := cfg.Tool(kind)
		fmt.Fprintf(w, "%s\tenabled=%t mode=%s timerStart=%d\n",
			kind, tool.Enabled, cfg.ControllerConfig(kind).Mode(), tool.TimerStart)
	}
	return nil
}

func printSelections(w io.Writer, saveID string, record domain.Selections, found bool, jsonOutput bool) error {
	if jsonOutput {
		payload := map[string]any{
			"saveId":  saveID,
			"found":   found,
			"options": optionsPayload(record.Options),
		}
		if !record.UpdatedAt.IsZero() {
			payload["updatedAt"] = record.UpdatedAt
		}
		return writeJSON(w, payload)
	}
	if !found {
		fmt.Fprintf(w, "save=%s no stored selections\n", saveID)
		return nil
	}
	fmt.Fprintf(w, "save=%s\n", saveID)
	for _, kind := range domain.ToolKinds() {
		fmt.Fprintf(w, "%s\t%d\n", kind, record.Option(kind))
	}
	return nil
}

func printSaveList(w io.Writer, saves []string, jsonOutput bool) error {
	if jsonOutput {
		if saves == nil {
			saves = []string{}
		}
		return writeJSON(w, map[string]any{"saves": saves})
	}
	fmt.Fprintf(w, "saves=%d\n", len(saves))
	for _, save := range saves {
		fmt.Fprintln(w, save)
	}
	return nil
}

func printReplayReport(w io.Writer, report app.ReplayReport, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, report)
	}
	status := "ok"
	if !report.OK() {
		status = "mismatch"
	}
	fmt.Fprintf(w, "%s save=%s frames=%d errors=%d\n", status, report.SaveID, report.Frames, len(report.Errors))
	types := make([]string, 0, len(report.Actions))
	for actionType := range report.Actions {
		types = append(types, string(actionType))
	}
	sort.Strings(types)
	for _, actionType := range types {
		fmt.Fprintf(w, "action\t%s\t%d\n", actionType, report.Actions[domain.HostActionType(actionType)])
	}
	for _, kind := range domain.ToolKinds() {
		fmt.Fprintf(w, "selection\t%s\t%d\n", kind, report.Selections[kind])
	}
	for _, mismatch := range report.Mismatches {
		got := "none"
		if mismatch.Got != nil {
			got = fmt.Sprint(*mismatch.Got)
		}
		fmt.Fprintf(w, "mismatch\tstep=%d frame=%d want=%d got=%s\n", mismatch.Step, mismatch.Frame, mismatch.Want, got)
	}
	return nil
}
