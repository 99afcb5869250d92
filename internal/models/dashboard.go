package models

import (
	"math"
	"sort"
	"time"
)

type DashboardStats struct {
	TotalPolicies      int64 `json:"total_policies"`
	ActivePolicies     int64 `json:"active_policies"`
	TotalEvents        int64 `json:"total_events"`
	OpenViolations     int64 `json:"open_violations"`
	EventsLast24h      int64 `json:"events_last_24h"`
	CriticalViolations int64 `json:"critical_violations"`
}

// TimelineRow is one (date, severity) count as returned by the group-by.
type TimelineRow struct {
	Date     string // YYYY-MM-DD
	Severity Severity
	Count    int64
}

// TimelineBucket is one dashboard chart point: a calendar date with its
// total event count and a per-severity breakdown. Every severity appears in
// the breakdown, zero when not observed that date.
type TimelineBucket struct {
	Date              string             `json:"date"`
	Total             int64              `json:"total"`
	SeverityBreakdown map[Severity]int64 `json:"severity_breakdown"`
}

// BuildTimeline folds grouped (date, severity, count) rows into
// chronologically ordered buckets.
func BuildTimeline(rows []TimelineRow) []TimelineBucket {
	byDate := make(map[string]*TimelineBucket)
	for _, row := range rows {
		bucket, ok := byDate[row.Date]
		if !ok {
			bucket = &TimelineBucket{
				Date:              row.Date,
				SeverityBreakdown: make(map[Severity]int64, 4),
			}
			for _, s := range Severities() {
				bucket.SeverityBreakdown[s] = 0
			}
			byDate[row.Date] = bucket
		}
		bucket.Total += row.Count
		bucket.SeverityBreakdown[row.Severity] = row.Count
	}

	buckets := make([]TimelineBucket, 0, len(byDate))
	for _, b := range byDate {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date < buckets[j].Date })
	return buckets
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// ActivityItem is one entry in the recent-activity feed, sourced from
// either an event or a violation.
type ActivityItem struct {
	Type      string    `json:"type"` // event, violation
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Severity  Severity  `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

// MergeRecentActivity interleaves the most recent events and violations by
// descending timestamp and truncates to limit.
func MergeRecentActivity(events []Event, violations []Violation, limit int) []ActivityItem {
	items := make([]ActivityItem, 0, len(events)+len(violations))
	for _, ev := range events {
		items = append(items, ActivityItem{
			Type:      "event",
			ID:        ev.ID,
			Title:     ev.Title,
			Severity:  ev.Severity,
			Timestamp: ev.TriggerDate,
			Status:    string(ev.Status),
		})
	}
	for _, v := range violations {
		items = append(items, ActivityItem{
			Type:      "violation",
			ID:        v.ID,
			Title:     v.Title,
			Severity:  v.Severity,
			Timestamp: v.CreatedAt,
			Status:    string(v.Status),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Timestamp.After(items[j].Timestamp) })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// PerformanceModeRow is one per-mode aggregate as returned by the group-by.
type PerformanceModeRow struct {
	Mode       PerformanceMode
	AvgLatency float64
	AvgCost    float64
	Count      int64
}

type ModePerformance struct {
	Mode            PerformanceMode `json:"mode"`
	AvgLatencyMS    float64         `json:"avg_latency_ms"`
	AvgCostPerEvent float64         `json:"avg_cost_per_event"`
	PolicyCount     int64           `json:"policy_count"`
}

type PerformanceMetrics struct {
	AvgEventDurationMS float64           `json:"avg_event_duration_ms"`
	PolicyPerformance  []ModePerformance `json:"policy_performance"`
}

// BuildPerformanceMetrics rounds the per-mode aggregates for the dashboard:
// latency to 2 decimal places, cost to 4.
func BuildPerformanceMetrics(avgEventDuration float64, rows []PerformanceModeRow) PerformanceMetrics {
	out := PerformanceMetrics{
		AvgEventDurationMS: roundTo(avgEventDuration, 2),
		PolicyPerformance:  make([]ModePerformance, 0, len(rows)),
	}
	for _, row := range rows {
		out.PolicyPerformance = append(out.PolicyPerformance, ModePerformance{
			Mode:            row.Mode,
			AvgLatencyMS:    roundTo(row.AvgLatency, 2),
			AvgCostPerEvent: roundTo(row.AvgCost, 4),
			PolicyCount:     row.Count,
		})
	}
	return out
}

func roundTo(x float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(x*scale) / scale
}
