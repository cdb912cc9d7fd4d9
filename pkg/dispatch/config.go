package dispatch

// Config holds dispatcher tuning loaded from the environment.
type Config struct {
	// ChunkSize bounds how many recipients of a bulk operation are processed
	// concurrently. Chunking affects throughput only, never outcomes.
	ChunkSize int `env:"DISPATCH_CHUNK_SIZE" envDefault:"25"`

	// PushQueue is the work-queue name push delivery jobs are submitted to.
	PushQueue string `env:"DISPATCH_PUSH_QUEUE" envDefault:"push"`
}
