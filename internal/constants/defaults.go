package constants

const (
	// DefaultRootSymbol names the synthetic frame pushed when a session begins.
	DefaultRootSymbol = "main"

	// DefaultCallgraphSlots is the hash chain count of the call graph table.
	DefaultCallgraphSlots = 256

	// DefaultMaxFrames bounds the frame pool; deeper stacks drop data points.
	DefaultMaxFrames = 1 << 16

	// DefaultMaxBuckets bounds the number of distinct edges per session.
	DefaultMaxBuckets = 1 << 20

	DefaultSessionPolicy = "reset"

	DefaultMemorySource = "runtime"

	DefaultLogLevel = "info"
)
