package interpolator

// Worker limits
const (
	maxWorkers = 256 // Upper bound on Config.Workers
)
