package ports

import "time"

// PipelineObserver receives progress signals from the processing pipeline.
// Implementations must be safe for concurrent use.
type PipelineObserver interface {
	// QueueLag reports the delay between a document's upload and the
	// moment a worker started processing it.
	QueueLag(lag time.Duration)

	// ChunkFailed reports a PDF chunk whose extraction call failed and
	// was skipped.
	ChunkFailed()

	// MatchRowsPersisted reports how many match rows a successful
	// processing pass wrote.
	MatchRowsPersisted(count int)
}

// NopObserver discards all signals.
type NopObserver struct{}

func (NopObserver) QueueLag(time.Duration) {}
func (NopObserver) ChunkFailed()           {}
func (NopObserver) MatchRowsPersisted(int) {}
