package alert

import (
	"fmt"

	"github.com/liquidmon/lmon/internal/api"
)

// NormalMessage is the status text when no metric is in warning or critical.
const NormalMessage = "System normal"

// Status is the single highest-severity label for a reading.
type Status struct {
	Level   api.Level
	Message string

	// Metric is the metric that set the status; empty when normal.
	Metric Metric
}

// Combine computes the overall status without regard to cooldowns. The first
// critical metric in evaluation order sets the message; failing that, the
// first warning does.
func Combine(r Reading) Status {
	var firstWarning *Status

	for _, mv := range r.ordered() {
		switch Classify(mv.metric, mv.value) {
		case api.LevelCritical:
			return Status{Level: api.LevelCritical, Message: statusMessage("CRITICAL", mv), Metric: mv.metric}
		case api.LevelWarning:
			if firstWarning == nil {
				firstWarning = &Status{Level: api.LevelWarning, Message: statusMessage("Warning", mv), Metric: mv.metric}
			}
		}
	}

	if firstWarning != nil {
		return *firstWarning
	}
	return Status{Level: api.LevelNormal, Message: NormalMessage}
}

func statusMessage(prefix string, mv metricValue) string {
	if mv.metric == MetricTemp {
		return fmt.Sprintf("%s: %s %.1f°C", prefix, mv.metric.Label(), mv.value)
	}
	return fmt.Sprintf("%s: %s %.1f%%", prefix, mv.metric.Label(), mv.value)
}
