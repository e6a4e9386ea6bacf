package domain

// LiveSample is one periodic telemetry message from the instrumented
// runtime, nominally one per second.
type LiveSample struct {
	FPS        float64 `json:"fps"`
	JSStallsMs float64 `json:"jsStallsMs"`
}

// LiveSessionMetrics is a snapshot of the running accumulators for a
// capture session. WorstFPS is nil until the first sample arrives.
type LiveSessionMetrics struct {
	WorstFPS     *float64 `json:"worstFps"`
	StallTotalMs float64  `json:"stallTotalMs"`
}
