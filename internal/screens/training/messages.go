package training

import (
	"time"

	"github.com/pioneer-academy/nmotrain/internal/flow"
)

// verdictMsg is sent when the evaluator finishes judging an answer.
type verdictMsg struct {
	answer  string
	nodeID  string
	verdict flow.Verdict
}

// savedMsg confirms a background progress save completed.
type savedMsg struct {
	err error
}

// spinnerTickMsg animates the evaluation spinner.
type spinnerTickMsg time.Time
