package domain

import "testing"

func TestClassifyPriority(t *testing.T) {
	cases := []struct {
		label string
		want  PriorityClass
	}{
		{"Immediate", PriorityUrgent},
		{"user-blocking", PriorityUrgent},
		{"DiscreteEventPriority", PriorityUrgent},
		{"Normal", PriorityNormal},
		{"DefaultLane", PriorityNormal},
		{"Idle", PriorityBackground},
		{"low-priority", PriorityBackground},
		{"", PriorityUnknown},
		{"whatever", PriorityUnknown},
	}
	for _, c := range cases {
		if got := ClassifyPriority(c.label); got != c.want {
			t.Fatalf("ClassifyPriority(%q) = %q, want %q", c.label, got, c.want)
		}
	}
}
