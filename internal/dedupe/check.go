package dedupe

import (
	"strings"

	"snsdedupe/internal/model"
	"snsdedupe/internal/platform"
	"snsdedupe/internal/schedule"
)

// CheckResult reports, for one date, which requested platforms still need a
// post. Platforms keep the spelling they were requested with.
type CheckResult struct {
	Date      string   `json:"date"`
	Needed    []string `json:"needed"`
	Scheduled []string `json:"scheduled"`
}

// OnDate is a fetch filter keeping posts whose remote date equals date.
func OnDate(date schedule.Date) func(model.RemotePost) bool {
	return func(p model.RemotePost) bool {
		return schedule.RemoteDate(p.ScheduledFor) == date
	}
}

// ScheduledPlatforms collects the normalized platforms holding a non-failed
// entry on any remote post dated date.
func ScheduledPlatforms(date schedule.Date, remote []model.RemotePost) map[string]bool {
	taken := map[string]bool{}
	for _, p := range remote {
		if schedule.RemoteDate(p.ScheduledFor) != date {
			continue
		}
		for _, ps := range p.Platforms {
			if ps.Status.Blocks() {
				taken[platform.Normalize(ps.Platform)] = true
			}
		}
	}
	return taken
}

// CheckScheduled classifies each requested platform as needed or already
// scheduled on date. An empty request checks every supported platform.
func CheckScheduled(date schedule.Date, requested []string, remote []model.RemotePost) CheckResult {
	if len(requested) == 0 {
		requested = platform.SupportedNames()
	}
	taken := ScheduledPlatforms(date, remote)
	res := CheckResult{Date: date.String(), Needed: []string{}, Scheduled: []string{}}
	for _, r := range requested {
		name := strings.ToLower(strings.TrimSpace(r))
		if name == "" {
			continue
		}
		if taken[platform.Normalize(name)] {
			res.Scheduled = append(res.Scheduled, name)
		} else {
			res.Needed = append(res.Needed, name)
		}
	}
	return res
}
