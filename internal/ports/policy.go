package ports

import "time"

type DriverPolicy struct {
	BatchSize     int
	Cycles        int // 0 runs until the context is cancelled
	Interval      time.Duration
	SourceRetries int
	RetryBackoff  time.Duration
}

type QueuePolicy struct {
	MaxQueueLen int
	IdleSleep   time.Duration

	OnQueueFull string // "reject", "block"
}
