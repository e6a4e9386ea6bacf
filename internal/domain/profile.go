package domain

// ProfileRoot is one profiled React root inside an export document.
type ProfileRoot struct {
	DisplayName string   `json:"displayName,omitempty"`
	CommitData  []Commit `json:"commitData,omitempty"`
}

// ProfileDocument is the raw profiling export uploaded by the user or
// pushed by the instrumented runtime. The shape varies across producer
// versions; every field is optional.
type ProfileDocument struct {
	DataForRoots       []ProfileRoot `json:"dataForRoots,omitempty"`
	ProfilingStartTime float64       `json:"profilingStartTime,omitempty"`
	ProfilingEndTime   float64       `json:"profilingEndTime,omitempty"`
	Version            int           `json:"version,omitempty"`
}

// ProfilingWindowMs returns the absolute profiling window in
// milliseconds. A zero or negative window means the document carried no
// usable timing bounds.
func (d ProfileDocument) ProfilingWindowMs() float64 {
	return d.ProfilingEndTime - d.ProfilingStartTime
}
