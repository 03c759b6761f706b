package analysis

import (
	"encoding/json"
	"strings"
)

// AnalysisPoint is one titled guidance bullet (symptom, reason, precaution, ...).
type AnalysisPoint struct {
	Title   string `json:"title"`
	Details string `json:"details,omitempty"`
}

// UnmarshalJSON accepts both the structured {"title","details"} shape and the
// legacy shape where the element is a bare string.
func (p *AnalysisPoint) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		p.Title = s
		p.Details = ""
		return nil
	}
	type plain AnalysisPoint
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = AnalysisPoint(v)
	return nil
}

// PointList is an ordered guidance list. Element-level unmarshalling makes it
// tolerant of mixed string/object arrays coming back from the model.
type PointList []AnalysisPoint

// SkinAnalysis is the canonical single-image result.
type SkinAnalysis struct {
	IsSkin        bool      `json:"isSkin"`
	IsHealthy     bool      `json:"isHealthy"`
	DiseaseName   string    `json:"diseaseName"`
	Description   string    `json:"description"`
	Symptoms      PointList `json:"symptoms"`
	Reasons       PointList `json:"reasons"`
	Precautions   PointList `json:"precautions"`
	Prevention    PointList `json:"prevention"`
	Treatments    PointList `json:"treatments"`
	Medicines     []string  `json:"medicines"`
	HealingPeriod string    `json:"healingPeriod"`
}

// Verdict classifies progression between two images of the same subject.
type Verdict string

const (
	VerdictImproved Verdict = "IMPROVED"
	VerdictWorsened Verdict = "WORSENED"
	VerdictStable   Verdict = "STABLE"
	VerdictUnclear  Verdict = "UNCLEAR"
	// VerdictMismatch means the two images do not depict comparable subjects
	// and preempts any progression call.
	VerdictMismatch Verdict = "MISMATCH"
)

// ParseVerdict maps a free-form model token onto a known verdict, tolerating
// case and surrounding whitespace. Unknown tokens collapse to UNCLEAR.
func ParseVerdict(s string) Verdict {
	switch Verdict(strings.ToUpper(strings.TrimSpace(s))) {
	case VerdictImproved:
		return VerdictImproved
	case VerdictWorsened:
		return VerdictWorsened
	case VerdictStable:
		return VerdictStable
	case VerdictMismatch:
		return VerdictMismatch
	default:
		return VerdictUnclear
	}
}

// ComparisonResult is the canonical two-image result.
type ComparisonResult struct {
	Verdict        Verdict  `json:"verdict"`
	Changes        []string `json:"changes"`
	Recommendation string   `json:"recommendation"`
}
