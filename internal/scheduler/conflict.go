package scheduler

import (
	"sort"

	"github.com/LVcicario/optines-sub000/internal/civil"
)

// Task is the scheduling core's view of a dated, timed unit of work.
type Task struct {
	ID              string
	Title           string
	Date            civil.Date
	Start           civil.TimeOfDay
	End             civil.TimeOfDay
	DurationSeconds int
	DurationLabel   string
	Packages        int
	MemberIDs       []string
	Completed       bool
	Pinned          bool
	// TemplateID links a materialized task back to its template; empty for
	// manually created tasks.
	TemplateID string
}

// Candidate describes a proposed task placement to check for roster
// conflicts.
type Candidate struct {
	Date      civil.Date
	Start     civil.TimeOfDay
	End       civil.TimeOfDay
	MemberIDs []string
}

// FindConflicts returns the member IDs from the candidate roster that are
// already committed to an overlapping task on the same date. Tasks matching
// excludeTaskID (the task being edited) and completed tasks are ignored.
// Overlap uses the half-open intervals [start, end) at minute granularity, so
// back-to-back tasks do not conflict. Each member appears at most once, in
// sorted order.
func FindConflicts(candidate Candidate, existing []Task, excludeTaskID string) []string {
	if len(candidate.MemberIDs) == 0 {
		return nil
	}

	proposed := make(map[string]struct{}, len(candidate.MemberIDs))
	for _, id := range candidate.MemberIDs {
		if id != "" {
			proposed[id] = struct{}{}
		}
	}

	conflicted := make(map[string]struct{})
	for _, task := range existing {
		if task.Date != candidate.Date {
			continue
		}
		if excludeTaskID != "" && task.ID == excludeTaskID {
			continue
		}
		if task.Completed {
			continue
		}
		if !overlaps(candidate.Start, candidate.End, task.Start, task.End) {
			continue
		}
		for _, member := range task.MemberIDs {
			if _, ok := proposed[member]; ok {
				conflicted[member] = struct{}{}
			}
		}
	}

	if len(conflicted) == 0 {
		return nil
	}
	result := make([]string, 0, len(conflicted))
	for member := range conflicted {
		result = append(result, member)
	}
	sort.Strings(result)
	return result
}

// overlaps reports a non-empty intersection of two half-open minute
// intervals, including containment in either direction.
func overlaps(aStart, aEnd, bStart, bEnd civil.TimeOfDay) bool {
	return aStart.Minutes() < bEnd.Minutes() && aEnd.Minutes() > bStart.Minutes()
}
