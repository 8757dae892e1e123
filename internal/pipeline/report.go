package pipeline

import (
	"sort"
	"time"
)

// Report aggregates one run's outcomes. TotalDuration is the wall-clock
// span of the run, not the sum of task durations, since tasks overlap.
type Report struct {
	RequestedFiles int           `json:"requested_files"`
	ProducedFiles  int           `json:"produced_files"`
	Outcomes       []Outcome     `json:"outcomes"`
	Succeeded      int           `json:"succeeded"`
	Failed         int           `json:"failed"`
	TimedOut       int           `json:"timed_out"`
	OverallSuccess bool          `json:"overall_success"`
	TotalDuration  time.Duration `json:"total_duration"`
	TaskDurations  DurationStats `json:"task_durations"`
}

// DurationStats summarizes per-task render latencies.
type DurationStats struct {
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
}

// Summarize is pure aggregation: counts by status, overall success iff every
// outcome succeeded, wall-clock duration passed through.
func Summarize(outcomes []Outcome, requested int, wallClock time.Duration) Report {
	rep := Report{
		RequestedFiles: requested,
		Outcomes:       outcomes,
		TotalDuration:  wallClock,
	}
	for _, o := range outcomes {
		switch o.Status {
		case StatusSuccess:
			rep.Succeeded++
		case StatusTimeout:
			rep.TimedOut++
		default:
			rep.Failed++
		}
	}
	rep.ProducedFiles = rep.Succeeded
	rep.OverallSuccess = len(outcomes) > 0 && rep.Succeeded == len(outcomes)
	rep.TaskDurations = durationStats(outcomes)
	return rep
}

func durationStats(outcomes []Outcome) DurationStats {
	if len(outcomes) == 0 {
		return DurationStats{}
	}

	values := make([]int64, 0, len(outcomes))
	var sum int64
	for _, o := range outcomes {
		ms := o.Duration.Milliseconds()
		values = append(values, ms)
		sum += ms
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	return DurationStats{
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
	}
}

func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
