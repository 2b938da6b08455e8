package drafting

import (
	"fmt"
	"strings"

	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
)

// Trend is the direction of a patient's symptoms.
type Trend string

const (
	TrendImproving Trend = "Improving"
	TrendNoChange  Trend = "No change"
	TrendWorsening Trend = "Worsening"
)

const insufficientNote = "Patient-reported feedback was insufficient to determine clear symptom progression."

// ProgressInput is what a patient reports some days into a prescription.
type ProgressInput struct {
	InitialSymptoms       string
	DaysSincePrescription int
	Feedback              models.FeedbackStatus
	Comments              string
}

// ProgressSummary is a neutral clinical note about the report.
type ProgressSummary struct {
	Trend     Trend  `json:"trend"`
	Duration  int    `json:"duration"`
	Note      string `json:"note"`
	Formatted string `json:"formattedSummary"`
	// Sufficient is false when the input could not support a trend.
	Sufficient bool `json:"sufficient"`
}

// SummarizeProgress turns patient feedback into a short summary.
func SummarizeProgress(in ProgressInput) ProgressSummary {
	s := ProgressSummary{Trend: TrendNoChange, Duration: max(in.DaysSincePrescription, 0)}

	valid := strings.TrimSpace(in.InitialSymptoms) != "" && in.DaysSincePrescription >= 1
	switch {
	case !valid:
		s.Note = insufficientNote
	case in.Feedback == models.FeedbackBetter:
		s.Trend = TrendImproving
		s.Note = "Patient reports reduced symptom severity with gradual improvement over the observed period."
		if strings.Contains(strings.ToLower(in.Comments), "pain") {
			s.Note = "Patient reports improvement in pain levels and general comfort."
		}
	case in.Feedback == models.FeedbackWorse:
		s.Trend = TrendWorsening
		s.Note = "Patient reports increase in symptom intensity; reassessment may be required."
	case in.Feedback == models.FeedbackSame:
		s.Note = "Patient reports status is unchanged from previous visit."
	default:
		s.Note = insufficientNote
		valid = false
	}
	s.Sufficient = valid

	s.Formatted = fmt.Sprintf("Progress Summary:\n• Symptom trend: %s\n• Duration observed: %d days\n• Clinical note: %s", s.Trend, s.Duration, s.Note)
	return s
}
