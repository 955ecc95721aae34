package model

// Stage names the phases of a prediction run, in execution order.
type Stage string

const (
	StageInitializing Stage = "Initializing"
	StageFetching     Stage = "Fetching Market Data"
	StageTechnical    Stage = "Processing Technical Analysis"
	StageSentiment    Stage = "Processing Sentiment Analysis"
	StageCalculating  Stage = "Calculating Predictions"
	StageComplete     Stage = "Complete"
	StageError        Stage = "Error"
	StageCancelled    Stage = "Cancelled"
)

// Reference percentages for each stage. Sentiment advances fine-grained
// between StageSentimentStart and StageSentimentEnd.
const (
	PctInitializing   = 5.0
	PctFetching       = 25.0
	PctTechnical      = 50.0
	PctSentimentStart = 50.0
	PctSentimentEnd   = 75.0
	PctCalculating    = 90.0
	PctComplete       = 100.0
)

// RunProgress is a point-in-time snapshot of a run's progress.
type RunProgress struct {
	Percentage     float64 `json:"percentage"` // 0 ~ 100, non-decreasing within a run
	Stage          Stage   `json:"stage"`
	CurrentSource  string  `json:"current_source"`
	ETASeconds     float64 `json:"eta_seconds"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}
