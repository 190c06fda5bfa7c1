package analyzer

import (
	"errors"
	"fmt"
	"strings"
)

// Each analysis kind has its own response record. Decoding fills the record
// and Validate rejects anything downstream code could not trust.

// StructureResponse is the "structure" analysis result.
type StructureResponse struct {
	SectionType        string   `json:"section_type"`
	MainTopics         []string `json:"main_topics"`
	ComplexityLevel    string   `json:"complexity_level"`
	MandatoryPractices []string `json:"mandatory_practices"`
}

var validSectionTypes = map[string]bool{
	"definition":      true,
	"rights":          true,
	"obligations":     true,
	"data_collection": true,
	"data_usage":      true,
	"third_parties":   true,
	"retention":       true,
	"security":        true,
	"cookies":         true,
	"contact":         true,
	"other":           true,
}

var validComplexity = map[string]bool{"simple": true, "moderate": true, "complex": true}

func (r *StructureResponse) Validate() error {
	r.SectionType = strings.ToLower(strings.TrimSpace(r.SectionType))
	r.ComplexityLevel = strings.ToLower(strings.TrimSpace(r.ComplexityLevel))
	if !validSectionTypes[r.SectionType] {
		return fmt.Errorf("unknown section_type %q", r.SectionType)
	}
	if r.ComplexityLevel == "" {
		r.ComplexityLevel = "moderate"
	}
	if !validComplexity[r.ComplexityLevel] {
		return fmt.Errorf("unknown complexity_level %q", r.ComplexityLevel)
	}
	r.MainTopics = compact(r.MainTopics)
	r.MandatoryPractices = compact(r.MandatoryPractices)
	return nil
}

// EntityPayload is one extracted entity as returned by the service.
type EntityPayload struct {
	EntityType string  `json:"entity_type"`
	Value      string  `json:"value"`
	Context    string  `json:"context"`
	Confidence float64 `json:"confidence"`
}

// EntitiesResponse is the "entities" analysis result.
type EntitiesResponse struct {
	Entities []EntityPayload `json:"entities"`
}

func (r *EntitiesResponse) Validate() error {
	if r.Entities == nil {
		return errors.New("entities is required")
	}
	kept := r.Entities[:0]
	for _, e := range r.Entities {
		e.EntityType = strings.ToLower(strings.TrimSpace(e.EntityType))
		e.Value = strings.TrimSpace(e.Value)
		if e.EntityType == "" || e.Value == "" {
			continue
		}
		if e.Confidence < 0 || e.Confidence > 1 {
			return fmt.Errorf("entity %q confidence %v outside [0,1]", e.Value, e.Confidence)
		}
		kept = append(kept, e)
	}
	r.Entities = kept
	return nil
}

// FrameworksResponse is the "frameworks" analysis result.
type FrameworksResponse struct {
	Frameworks []string `json:"frameworks"`
}

func (r *FrameworksResponse) Validate() error {
	if r.Frameworks == nil {
		return errors.New("frameworks is required")
	}
	return nil
}

// ImpactResponse is the "impact" analysis result. Pointers distinguish a
// missing score from a zero score.
type ImpactResponse struct {
	SensitivityScore   *float64 `json:"sensitivity_score"`
	PrivacyImpactScore *float64 `json:"privacy_impact_score"`
	DataSharingRisk    *float64 `json:"data_sharing_risk"`
	UserControl        *float64 `json:"user_control"`
	TransparencyScore  *float64 `json:"transparency_score"`
	KeyConcerns        []string `json:"key_concerns"`
	ActionableRights   []string `json:"actionable_rights"`
}

func (r *ImpactResponse) Validate() error {
	checks := []struct {
		name string
		v    *float64
		max  float64
	}{
		{"sensitivity_score", r.SensitivityScore, 10},
		{"privacy_impact_score", r.PrivacyImpactScore, 10},
		{"data_sharing_risk", r.DataSharingRisk, 10},
		{"user_control", r.UserControl, 5},
		{"transparency_score", r.TransparencyScore, 5},
	}
	for _, c := range checks {
		if c.v == nil {
			return fmt.Errorf("%s is required", c.name)
		}
		if *c.v < 0 || *c.v > c.max {
			return fmt.Errorf("%s %v outside [0,%v]", c.name, *c.v, c.max)
		}
	}
	r.KeyConcerns = compact(r.KeyConcerns)
	return nil
}

// SummaryResponse is the "summary" analysis result.
type SummaryResponse struct {
	Summary string `json:"summary"`
}

func (r *SummaryResponse) Validate() error {
	r.Summary = strings.Trim(strings.TrimSpace(r.Summary), `"`)
	if r.Summary == "" {
		return errors.New("summary is empty")
	}
	return nil
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
