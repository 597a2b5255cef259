package observability

// Metric name prefix
const MetricPrefix = "montyhall"

// Metric names
const (
	SimulationsTotal   = MetricPrefix + ".simulations.total"
	RoundsPlayedTotal  = MetricPrefix + ".rounds.played_total"
	SimulationDuration = MetricPrefix + ".simulations.duration"
	WinRate            = MetricPrefix + ".strategy.win_rate"
)

// Label keys
const (
	LabelStatus   = "status"
	LabelStrategy = "strategy"
)

// Status label values
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)
