package domain

// TimeWindow is an inclusive [start, end] range in epoch milliseconds.
// StartMS is never greater than EndMS. Windows are derived per invocation
// and never persisted.
type TimeWindow struct {
	StartMS int64
	EndMS   int64
}
