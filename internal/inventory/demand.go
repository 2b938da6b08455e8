package inventory

// DemandStatus grades how long current stock will last.
type DemandStatus string

const (
	DemandCritical DemandStatus = "Critical"
	DemandLow      DemandStatus = "Low"
	DemandNormal   DemandStatus = "Normal"
)

// Forecast is the stock outlook for one medicine. EstimatedDays is nil when
// usage is too low to divide by, and Note says why.
type Forecast struct {
	Status        DemandStatus `json:"status"`
	EstimatedDays *int         `json:"estimatedDays"`
	Note          string       `json:"note,omitempty"`
	Suggestion    string       `json:"suggestion"`
}

// ForecastDemand estimates whole days of stock left at the given daily usage.
func ForecastDemand(stock, dailyUsage int) Forecast {
	if dailyUsage <= 0 {
		return Forecast{
			Status:     DemandNormal,
			Note:       "Usage too low to estimate",
			Suggestion: "Stock levels appear stable",
		}
	}

	days := stock / dailyUsage
	f := Forecast{EstimatedDays: &days}
	switch {
	case days < 7:
		f.Status = DemandCritical
		f.Suggestion = "Restock immediately to avoid shortage."
	case days <= 15:
		f.Status = DemandLow
		f.Suggestion = "Plan procurement soon."
	default:
		f.Status = DemandNormal
		f.Suggestion = "Stock levels are healthy."
	}
	return f
}
