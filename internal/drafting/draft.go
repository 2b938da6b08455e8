// Package drafting suggests prescription drafts and progress notes from free
// text. Everything here is pure: the same input always yields the same
// output, and nothing is persisted. A doctor reviews every draft.
package drafting

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// VisitType distinguishes first consultations from follow-ups.
type VisitType string

const (
	VisitFirst    VisitType = "first"
	VisitFollowUp VisitType = "follow-up"
)

const (
	maxSuggestions    = 4
	maxPerCategory    = 2
	defaultAge        = 30
	followUpMaxDays   = 14
	pediatricAgeBelow = 12
	geriatricAgeAbove = 60
)

// Request is the clinical context of a draft.
type Request struct {
	PatientAge    string
	PatientGender string
	Symptoms      string
	Diagnosis     string
	VisitType     VisitType
}

// StockItem is one inventory row as the drafter sees it.
type StockItem struct {
	ID       string
	Name     string
	Quantity int
}

// Suggestion is one proposed prescription line.
type Suggestion struct {
	MedicineID   string `json:"medicineId,omitempty"`
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     int    `json:"durationDays"`
	Qty          int    `json:"qty"`
	Instructions string `json:"instructions"`
	Category     string `json:"category"`
	InStock      bool   `json:"inStock"`
	InInventory  bool   `json:"inInventory"`
	StockQty     int    `json:"stockQty"`
}

// Suggestions is a complete draft.
type Suggestions struct {
	Medicines          []Suggestion `json:"medicines"`
	Notes              []string     `json:"notes"`
	DetectedCategories []Category   `json:"detectedConditions"`
}

// DetectCategories returns the condition groups mentioned in the text, in
// dictionary order, or general when nothing matches.
func DetectCategories(symptoms, diagnosis string) []Category {
	text := strings.ToLower(symptoms + " " + diagnosis)

	var out []Category
	for _, set := range conditionKeywords {
		for _, kw := range set.keywords {
			if strings.Contains(text, kw) {
				out = append(out, set.category)
				break
			}
		}
	}
	if len(out) == 0 {
		return []Category{CategoryGeneral}
	}
	return out
}

// Draft builds suggestions for req against the given stock.
func Draft(req Request, stock []StockItem) Suggestions {
	categories := DetectCategories(req.Symptoms, req.Diagnosis)
	res := Suggestions{DetectedCategories: categories, Medicines: []Suggestion{}, Notes: []string{}}

	switch age := parseAge(req.PatientAge); {
	case age < pediatricAgeBelow:
		res.Notes = append(res.Notes, "Pediatric dosage applied (half dose)")
	case age > geriatricAgeAbove:
		res.Notes = append(res.Notes, "Geriatric consideration (reduced dose recommended)")
	}
	if strings.EqualFold(strings.TrimSpace(req.PatientGender), "female") && hasCategory(categories, CategoryGynecological) {
		res.Notes = append(res.Notes, "Female-specific formulations prioritized")
	}
	followUp := req.VisitType == VisitFollowUp
	if followUp {
		res.Notes = append(res.Notes, "Follow-up visit: Consider adjusting based on previous response")
	}

	stockNames := make([]string, 0, len(stock))
	for _, s := range stock {
		if n := strings.ToLower(strings.TrimSpace(s.Name)); n != "" {
			stockNames = append(stockNames, n)
		}
	}

	added := map[string]bool{}
	for _, cat := range categories {
		if len(res.Medicines) >= maxSuggestions {
			break
		}
		want := min(maxPerCategory, maxSuggestions-len(res.Medicines))

		candidates := make([]Formulation, 0, len(formulary[cat]))
		for _, f := range formulary[cat] {
			if !added[strings.ToLower(f.Name)] {
				candidates = append(candidates, f)
			}
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return resembles(stockNames, candidates[i].Name) && !resembles(stockNames, candidates[j].Name)
		})

		for _, f := range candidates[:min(want, len(candidates))] {
			s := suggest(f, stock, followUp)
			added[strings.ToLower(s.Name)] = true
			res.Medicines = append(res.Medicines, s)
		}
	}

	if hasCategory(categories, CategoryDigestive) {
		res.Notes = append(res.Notes, "Advise light, easily digestible diet")
	}
	if hasCategory(categories, CategoryRespiratory) {
		res.Notes = append(res.Notes, "Avoid cold foods and exposure to cold air")
	}
	if hasCategory(categories, CategoryStress) {
		res.Notes = append(res.Notes, "Recommend lifestyle modifications and adequate rest")
	}
	return res
}

func suggest(f Formulation, stock []StockItem, followUp bool) Suggestion {
	duration := f.Duration
	if followUp {
		duration = min(duration, followUpMaxDays)
	}

	s := Suggestion{
		Name:         f.Name,
		Dosage:       f.Dose,
		Frequency:    f.Frequency,
		Duration:     duration,
		Qty:          quantityFor(f.Frequency, duration),
		Instructions: f.Frequency,
		Category:     f.Category,
	}
	for _, item := range stock {
		if strings.EqualFold(strings.TrimSpace(item.Name), f.Name) {
			s.MedicineID = item.ID
			s.Name = strings.TrimSpace(item.Name)
			s.InInventory = true
			s.StockQty = item.Quantity
			s.InStock = item.Quantity > 0
			break
		}
	}
	return s
}

// quantityFor converts a regimen into units to dispense.
func quantityFor(frequency string, duration int) int {
	step, perStep := 3, 1
	switch {
	case strings.Contains(frequency, "twice"):
		step, perStep = 2, 2
	case strings.Contains(frequency, "thrice"):
		step, perStep = 1, 3
	}
	return int(math.Ceil(float64(duration)/float64(step))) * perStep
}

// resembles reports a loose stock match: either name contains the other.
func resembles(stockNames []string, name string) bool {
	name = strings.ToLower(name)
	for _, n := range stockNames {
		if strings.Contains(n, name) || strings.Contains(name, n) {
			return true
		}
	}
	return false
}

func hasCategory(cats []Category, c Category) bool {
	for _, v := range cats {
		if v == c {
			return true
		}
	}
	return false
}

var leadingInt = regexp.MustCompile(`^\s*([+-]?\d+)`)

// parseAge reads the leading integer of s. Missing, unreadable and zero ages
// count as an adult of 30.
func parseAge(s string) int {
	m := leadingInt.FindStringSubmatch(s)
	if m == nil {
		return defaultAge
	}
	age, err := strconv.Atoi(m[1])
	if err != nil || age == 0 {
		return defaultAge
	}
	return age
}
