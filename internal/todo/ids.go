package todo

import "time"

// MaxID is the largest id a slot may hold: 2^53-1, the largest integer a
// JSON reader backed by float64 keeps exact.
const MaxID int64 = 1<<53 - 1

// idSource hands out task ids. Ids follow the wall clock in milliseconds,
// like the timestamps older boards used, but never repeat: two calls in the
// same millisecond (or after the clock steps back) get last+1.
type idSource struct {
	last int64
	now  func() time.Time
}

func newIDSource(now func() time.Time) *idSource {
	if now == nil {
		now = time.Now
	}
	return &idSource{now: now}
}

// next returns a fresh id. Once last has reached MaxID it hands out the
// smallest positive id for which taken reports false.
func (g *idSource) next(taken func(int64) bool) int64 {
	if g.last >= MaxID {
		g.last = MaxID
		id := int64(1)
		for taken(id) {
			id++
		}
		return id
	}

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	id = min(id, MaxID)
	g.last = id
	return id
}

// observe records an id that already exists so later ids sort after it.
func (g *idSource) observe(id int64) {
	if id > g.last {
		g.last = id
	}
}
