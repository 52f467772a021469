// Package callprof is the embedding surface of the call-graph profiler.
//
// A host runtime owns one Profiler per call stack (goroutine, request) and
// reports every instrumented call to it:
//
//	p, err := callprof.New(callprof.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer p.Close()
//
//	if err := p.Enable(callprof.FlagCPU | callprof.FlagMemory); err != nil {
//		return err
//	}
//	p.Enter("handle", "Router")
//	// ... nested Enter/Exit pairs ...
//	p.Exit()
//	report, err := p.Disable()
//
// The report maps edge names such as "main==>Router::handle" or "fib@1==>fib@2"
// to counters: calls and time (milliseconds) always, cpu, memory and
// peakofmemory depending on the flags passed to Enable.
//
// Enable and Disable fail with ErrConfigurationDisabled when profiling is
// switched off in the deployment configuration.
package callprof
