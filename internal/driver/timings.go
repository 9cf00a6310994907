package driver

import (
	"encoding/json"
	"fmt"

	"ormsynth/internal/diag"
	"ormsynth/internal/observ"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	Cached  bool                 `json:"cached,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

func appendTimingDiagnostic(snap *Snapshot, payload timingPayload) {
	if snap == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "program"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s, %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	snap.Diagnostics = append(snap.Diagnostics, DiagnosticInfo{
		Severity: diag.SevInfo.String(),
		Code:     diag.ObsTimings.ID(),
		Message:  msg,
		Notes:    []NoteInfo{{Msg: string(data)}},
	})
	report := payload.report()
	snap.Timings = &report
}

func (p timingPayload) report() observ.Report {
	return observ.Report{TotalMS: p.TotalMS, Phases: p.Phases}
}
