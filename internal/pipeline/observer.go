package pipeline

// Observer receives progress notifications as the pipeline works through the
// universe. Implementations must not block; the pipeline calls them inline.
type Observer interface {
	Progress(message string, fraction float64)
}

// NoopObserver discards progress notifications.
type NoopObserver struct{}

func (NoopObserver) Progress(string, float64) {}
