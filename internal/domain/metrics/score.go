package metrics

import "math"

// Weights turns completed-work counts into an engagement score.
type Weights struct {
	Task      float64
	Milestone float64
	Comment   float64
	Document  float64
	// Divisor scales the weighted sum onto roughly [0, Max].
	Divisor float64
	Max     int
}

// DefaultWeights is the production weighting: milestones weigh most, then
// tasks, then comments and documents equally.
var DefaultWeights = Weights{
	Task:      2,
	Milestone: 3,
	Comment:   1,
	Document:  1,
	Divisor:   3,
	Max:       10,
}

// Score returns the engagement score for s, always within [0, w.Max].
func (w Weights) Score(s Snapshot) int {
	divisor := w.Divisor
	if divisor == 0 {
		divisor = 1
	}
	raw := float64(s.TasksCompleted)*w.Task +
		float64(s.MilestonesCompleted)*w.Milestone +
		float64(s.CommentsAdded)*w.Comment +
		float64(s.DocumentsUploaded)*w.Document
	score := int(math.Round(raw / divisor))
	return min(max(score, 0), w.Max)
}
