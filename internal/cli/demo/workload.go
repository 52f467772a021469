package demo

import (
	"sort"
	"strings"

	"github.com/coral-mesh/callprof/pkg/callprof"
)

// workload is a small program instrumented by hand the way a language
// runtime hook would drive the profiler: every call is bracketed by an
// enter and an exit.
type workload struct {
	p     *callprof.Profiler
	depth int
	sink  int
}

func (w *workload) run() {
	w.p.Enter("run", "")
	defer w.p.Exit()

	w.sink += w.fib(w.depth)
	w.shapes()
	w.text()
}

// fib recurses so the report shows fib, fib@1, fib@2, ... edges.
func (w *workload) fib(n int) int {
	w.p.Enter("fib", "")
	defer w.p.Exit()

	if n < 2 {
		return n
	}
	return w.fib(n-1) + w.fib(n-2)
}

type shape interface {
	class() string
	area() float64
}

type circle struct{ r float64 }

func (c circle) class() string { return "Circle" }
func (c circle) area() float64 { return 3.14159 * c.r * c.r }

type square struct{ side float64 }

func (s square) class() string { return "Square" }
func (s square) area() float64 { return s.side * s.side }

// shapes exercises class qualified names and allocates so memory metrics
// have something to report.
func (w *workload) shapes() {
	w.p.Enter("shapes", "")
	defer w.p.Exit()

	items := make([]shape, 0, 256)
	for i := 0; i < 128; i++ {
		items = append(items, circle{r: float64(i)}, square{side: float64(i)})
	}

	var total float64
	for _, s := range items {
		w.p.Enter("area", s.class())
		total += s.area()
		w.p.Exit()
	}
	w.sink += int(total) & 1
}

// text calls helpers marked as built-ins; they disappear from the report
// when the no_builtins flag is set.
func (w *workload) text() {
	w.p.Enter("text", "")
	defer w.p.Exit()

	words := strings.Fields("the quick brown fox jumps over the lazy dog")
	for _, word := range words {
		if w.p.Call("strtoupper", "", true) {
			word = strings.ToUpper(word)
			w.p.Exit()
		} else {
			word = strings.ToUpper(word)
		}
		w.sink += len(word)
	}

	if w.p.Call("sort", "", true) {
		sort.Strings(words)
		w.p.Exit()
	} else {
		sort.Strings(words)
	}
}
