package domain

import "time"

// PerformanceRecord is one timing sample for a solution.
type PerformanceRecord struct {
	Year       int       `json:"year"`
	Day        int       `json:"day"`
	Part       Part      `json:"part"`
	DurationMS float64   `json:"durationMs"`
	Timestamp  time.Time `json:"timestamp"`
}

// Duration converts the stored milliseconds back into a time.Duration.
func (r PerformanceRecord) Duration() time.Duration {
	return time.Duration(r.DurationMS * float64(time.Millisecond))
}

// YearPerformance summarizes the records of one year.
type YearPerformance struct {
	Year  int
	Count int
	Mean  time.Duration
	Min   time.Duration
	Max   time.Duration
}

// PerformanceReport is the aggregate view built from cached records.
type PerformanceReport struct {
	Records []PerformanceRecord
	Years   []YearPerformance
}
