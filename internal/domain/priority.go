package domain

import "strings"

// PriorityClass buckets the free-text scheduling priority labels emitted
// by different profiler versions into a small fixed set.
type PriorityClass string

const (
	PriorityUrgent     PriorityClass = "urgent"
	PriorityNormal     PriorityClass = "normal"
	PriorityBackground PriorityClass = "background"
	PriorityUnknown    PriorityClass = "unknown"
)

// ClassifyPriority maps a scheduler label to a PriorityClass by
// case-insensitive substring match. Labels vary across React versions
// ("Immediate", "user-blocking", "Idle", ...), so matching is loose.
func ClassifyPriority(label string) PriorityClass {
	l := strings.ToLower(label)
	switch {
	case l == "":
		return PriorityUnknown
	case strings.Contains(l, "immediate"),
		strings.Contains(l, "urgent"),
		strings.Contains(l, "discrete"),
		strings.Contains(l, "user-blocking"):
		return PriorityUrgent
	case strings.Contains(l, "idle"),
		strings.Contains(l, "low"),
		strings.Contains(l, "background"):
		return PriorityBackground
	case strings.Contains(l, "normal"), strings.Contains(l, "default"):
		return PriorityNormal
	default:
		return PriorityUnknown
	}
}
