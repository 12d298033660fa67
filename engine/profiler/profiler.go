// Package profiler aggregates named scope timings over the life of the
// frame loop. It is single-threaded, like the loop that feeds it.
package profiler

import (
	"runtime"
	"time"
)

// Scope is the aggregate of every Start/end pair recorded under one name.
type Scope struct {
	Name  string
	Count int
	Total time.Duration
	Max   time.Duration
}

// Mean duration per call.
func (s Scope) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

type Profiler struct {
	now    func() time.Time
	scopes map[string]*Scope
	order  []string
}

func New() *Profiler {
	return &Profiler{now: time.Now, scopes: map[string]*Scope{}}
}

// Start begins a scope and returns its end func.
func (p *Profiler) Start(name string) func() {
	begin := p.now()
	return func() {
		d := p.now().Sub(begin)
		if d < 0 {
			d = 0
		}
		s, ok := p.scopes[name]
		if !ok {
			s = &Scope{Name: name}
			p.scopes[name] = s
			p.order = append(p.order, name)
		}
		s.Count++
		s.Total += d
		if d > s.Max {
			s.Max = d
		}
	}
}

// Scopes returns a copy of every scope in first-seen order.
func (p *Profiler) Scopes() []Scope {
	out := make([]Scope, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, *p.scopes[name])
	}
	return out
}

func MemoryUsage() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc
}
