// Package testutil provides chi-routed fake remotes for tests.
package testutil

import "sync"

// Gate holds a matched request until released
type Gate struct {
	arrived chan struct{}
	release chan struct{}
	once    sync.Once
	arrOnce sync.Once
}

func newGate() *Gate {
	return &Gate{arrived: make(chan struct{}), release: make(chan struct{})}
}

// Arrived is closed once the held request reaches the server
func (g *Gate) Arrived() <-chan struct{} { return g.arrived }

// Release lets the held request complete
func (g *Gate) Release() { g.once.Do(func() { close(g.release) }) }

func (g *Gate) wait() {
	g.arrOnce.Do(func() { close(g.arrived) })
	<-g.release
}

// failure is an injected error response
type failure struct {
	status int
	body   string
	times  int // remaining; <0 means forever
}

type faults struct {
	mu       sync.Mutex
	failures map[string]*failure
	gates    map[string]*Gate
}

func newFaults() faults {
	return faults{failures: map[string]*failure{}, gates: map[string]*Gate{}}
}

// Fail makes the next `times` requests matching key fail; times < 0 fails forever
func (f *faults) Fail(key string, status int, body string, times int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[key] = &failure{status: status, body: body, times: times}
}

// Heal removes an injected failure
func (f *faults) Heal(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, key)
}

// Hold blocks the next request matching key until the gate is released
func (f *faults) Hold(key string) *Gate {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := newGate()
	f.gates[key] = g
	return g
}

func (f *faults) take(key string) (*failure, *Gate) {
	f.mu.Lock()
	defer f.mu.Unlock()

	g := f.gates[key]
	delete(f.gates, key)

	fl, ok := f.failures[key]
	if !ok {
		return nil, g
	}
	out := *fl
	if fl.times > 0 {
		fl.times--
		if fl.times == 0 {
			delete(f.failures, key)
		}
	}
	return &out, g
}
