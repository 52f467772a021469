package testutil

// StubSampler returns whatever counters the test sets.
type StubSampler struct {
	CPU  int64
	Mem  int64
	Peak int64
}

func (s *StubSampler) CPUTime() int64         { return s.CPU }
func (s *StubSampler) MemoryUsage() int64     { return s.Mem }
func (s *StubSampler) PeakMemoryUsage() int64 { return s.Peak }
