package model

// WorkingDaysPerWeek is the divisor for RTO day ratios.
const WorkingDaysPerWeek = 5.0

// AttendanceProfile holds observed in-office attendance for one unit,
// joined one-to-one with a Unit by name.
type AttendanceProfile struct {
	UnitName       string   `json:"unit_name"`
	MedianHC       float64  `json:"monthly_median_hc"`
	MaxHC          float64  `json:"monthly_max_hc"`
	RTODaysPerWeek float64  `json:"avg_rto_days_per_week"` // 0-5
	Stability      *float64 `json:"stability,omitempty"`   // 0-1, 1 = most stable
}

// RTORatio is the fraction of a working week attended.
func (a AttendanceProfile) RTORatio() float64 {
	return a.RTODaysPerWeek / WorkingDaysPerWeek
}

// PeakToMedianRatio expresses how spiky attendance is.
func (a AttendanceProfile) PeakToMedianRatio() float64 {
	if a.MedianHC == 0 {
		return 1.0
	}
	return a.MaxHC / a.MedianHC
}
