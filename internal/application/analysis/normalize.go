package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	domain "github.com/bintangp/dermalens/internal/domain/analysis"
)

// Backfill holds the generic guidance substituted into empty result lists so
// a consumer never renders an empty section. It must not override content the
// model actually produced.
type Backfill struct {
	Symptoms    domain.PointList
	Reasons     domain.PointList
	Precautions domain.PointList
	Prevention  domain.PointList
	Treatments  domain.PointList
}

// DefaultBackfill returns non-diagnostic, generally safe guidance.
func DefaultBackfill() Backfill {
	return Backfill{
		Symptoms: domain.PointList{
			{Title: "Visible Irritation", Details: "Redness, dryness or texture changes in the photographed area."},
		},
		Reasons: domain.PointList{
			{Title: "Common Triggers", Details: "Dry air, friction, sun exposure or mild irritants are frequent causes of skin changes."},
		},
		Precautions: domain.PointList{
			{Title: "Keep the Area Clean", Details: "Wash gently with lukewarm water and a mild cleanser; avoid scratching."},
			{Title: "Avoid Harsh Products", Details: "Skip fragranced soaps and exfoliants until the area settles."},
		},
		Prevention: domain.PointList{
			{Title: "Sun Protection", Details: "Use a broad-spectrum sunscreen on exposed skin."},
			{Title: "Stay Hydrated", Details: "Drink enough water and moisturize daily."},
		},
		Treatments: domain.PointList{
			{Title: "Gentle Skincare", Details: "Apply a fragrance-free moisturizer and monitor the area for a few days."},
			{Title: "See a Professional", Details: "Consult a dermatologist if the condition persists or worsens."},
		},
	}
}

// Normalize parses the model's textual JSON body into a SkinAnalysis and
// enforces the result invariants. A body that is not valid JSON is a hard
// failure for the caller to translate; everything else is repaired in place.
func Normalize(raw string, bf Backfill) (*domain.SkinAnalysis, error) {
	var a domain.SkinAnalysis
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedReply, err)
	}

	if !a.IsSkin {
		// A rejection must always carry an explanation, and must not carry
		// fabricated medical content.
		a.IsHealthy = false
		if a.DiseaseName == "" {
			a.DiseaseName = "No Skin Detected"
		}
		if a.Description == "" {
			a.Description = "The photo does not appear to show human skin, so no condition could be assessed."
		}
		if len(a.Reasons) == 0 {
			a.Reasons = domain.PointList{
				{Title: "Scan Failed", Details: "The image may be blurry, poorly lit, or not of skin."},
			}
		}
		if len(a.Precautions) == 0 {
			a.Precautions = domain.PointList{
				{Title: "Retake the Photo", Details: "Use good lighting and fill the frame with the affected area."},
			}
		}
		// Symptoms describe what is visible in the photo, so anything the
		// model reported stays; the prescriptive lists are dropped.
		if a.Symptoms == nil {
			a.Symptoms = domain.PointList{}
		}
		a.Treatments = domain.PointList{}
		a.Prevention = domain.PointList{}
		a.Medicines = []string{}
		return &a, nil
	}

	if len(a.Symptoms) == 0 {
		a.Symptoms = bf.Symptoms
	}
	if len(a.Reasons) == 0 {
		a.Reasons = bf.Reasons
	}
	if len(a.Precautions) == 0 {
		a.Precautions = bf.Precautions
	}
	if len(a.Prevention) == 0 {
		a.Prevention = bf.Prevention
	}
	if len(a.Treatments) == 0 {
		a.Treatments = bf.Treatments
	}
	if a.Medicines == nil {
		a.Medicines = []string{}
	}
	return &a, nil
}

// NormalizeComparison parses the model's progression reply and enforces the
// non-empty changes/recommendation invariant.
func NormalizeComparison(raw string) (*domain.ComparisonResult, error) {
	var r domain.ComparisonResult
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedReply, err)
	}

	r.Verdict = domain.ParseVerdict(string(r.Verdict))

	changes := r.Changes[:0]
	for _, c := range r.Changes {
		if strings.TrimSpace(c) != "" {
			changes = append(changes, c)
		}
	}
	r.Changes = changes
	if len(r.Changes) == 0 {
		if r.Verdict == domain.VerdictMismatch {
			r.Changes = []string{"The two photos do not show a comparable area, so changes could not be assessed."}
		} else {
			r.Changes = []string{"No clearly attributable differences between the two photos."}
		}
	}
	if strings.TrimSpace(r.Recommendation) == "" {
		r.Recommendation = "Keep monitoring the area and consult a dermatologist if it changes."
	}
	return &r, nil
}
