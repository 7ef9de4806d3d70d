package handler

// Recorder counts domain activity for metrics
type Recorder interface {
	ScoreSubmitted()
	OpportunityCreated(outcome string)
}

// NopRecorder discards everything
type NopRecorder struct{}

func (NopRecorder) ScoreSubmitted()           {}
func (NopRecorder) OpportunityCreated(string) {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return NopRecorder{}
	}
	return r
}
