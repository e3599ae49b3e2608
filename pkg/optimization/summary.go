// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the result of a purchase price optimization.
type Summary struct {
	TargetName      string   `json:"targetName"`
	Field           string   `json:"field"`
	Original        float64  `json:"original"`
	Value           float64  `json:"value"`
	TargetIRR       float64  `json:"targetIRR"`
	AchievedIRR     float64  `json:"achievedIRR"`
	Headroom        float64  `json:"headroom"`
	Iterations      int      `json:"iterations"`
	Converged       bool     `json:"converged"`
	Notes           []string `json:"notes,omitempty"`
	OriginalDisplay string   `json:"originalDisplay,omitempty"`
	ValueDisplay    string   `json:"valueDisplay,omitempty"`
}

// Premium is how far the optimized value sits above the original, as a
// fraction of the original. It is 0 without an original value.
func (s Summary) Premium() float64 {
	if s.Original == 0 {
		return 0
	}
	return (s.Value - s.Original) / s.Original
}
