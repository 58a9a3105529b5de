package analytics

import (
	"sort"

	"snsdedupe/internal/schedule"
	"snsdedupe/internal/store/journal"
)

// DailyActivity aggregates journal events into per-day buckets (UTC+9 dates)
// counted by event type.
func DailyActivity(events []journal.Event) map[schedule.Date]map[string]int {
	buckets := make(map[schedule.Date]map[string]int)
	for _, e := range events {
		key := schedule.DateOf(e.TS)
		if _, ok := buckets[key]; !ok {
			buckets[key] = make(map[string]int)
		}
		buckets[key][e.Type]++
	}
	return buckets
}

// SortedDays returns bucket keys oldest first.
func SortedDays(m map[schedule.Date]map[string]int) []schedule.Date {
	keys := make([]schedule.Date, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// SortedTypes returns the event types of one bucket in name order.
func SortedTypes(b map[string]int) []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
