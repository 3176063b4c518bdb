// Package draw selects lottery winners from a ticket-weighted population.
//
// The first winner is drawn with probability proportional to tickets. Further
// winners are drawn uniformly from the rest unless weighted additional
// winners are requested. A participant never wins twice in one draw.
package draw

import (
	"errors"
	"math"
)

var (
	ErrEmptyPopulation    = errors.New("draw: no participants to draw from")
	ErrInvalidWinnerCount = errors.New("draw: winner count must be at least 1")
	ErrTicketOverflow     = errors.New("draw: total ticket count overflows")
)

// Entry is one participant of the draw population
type Entry struct {
	ID      string
	Name    string
	Phone   string
	Tickets int
}

// Weight is the number of tickets counted for the entry, at least one.
func (e Entry) Weight() int {
	if e.Tickets < 1 {
		return 1
	}
	return e.Tickets
}

// Winner is a selected entry with its 1-based position
type Winner struct {
	Entry
	Position int
	Weighted bool
}

// Pick is one random selection, kept for auditing
type Pick struct {
	Round    int
	PoolSize int
	Drawn    int
	EntryID  string
	Weighted bool
}

// Segment is the contiguous ticket range of one entry on the wheel.
// It covers tickets [Start, Start+Tickets).
type Segment struct {
	EntryID string
	Name    string
	Start   int
	Tickets int
}

// Options tune a single draw
type Options struct {
	WinnerCount               int
	WeightedAdditionalWinners bool
}

// Result of a draw. Segments lay the weighted population out in entry order,
// one per entry; ticket LandingIndex falls in Segments[LandingSegment], the first winner.
type Result struct {
	Winners        []Winner
	Population     int
	TotalTickets   int
	Segments       []Segment
	LandingIndex   int
	LandingSegment int
	Picks          []Pick
}

// Engine runs draws against a pluggable random source
type Engine struct {
	rnd RandomSource
}

// NewEngine creates an Engine. A nil source falls back to crypto/rand.
func NewEngine(rnd RandomSource) *Engine {
	if rnd == nil {
		rnd = NewCryptoSource()
	}
	return &Engine{rnd: rnd}
}

// Draw selects min(opts.WinnerCount, distinct entries) winners.
func (e *Engine) Draw(entries []Entry, opts Options) (*Result, error) {
	if opts.WinnerCount < 1 {
		return nil, ErrInvalidWinnerCount
	}
	pool := distinct(entries)
	if len(pool) == 0 {
		return nil, ErrEmptyPopulation
	}

	count := opts.WinnerCount
	if count > len(pool) {
		count = len(pool)
	}

	res := &Result{
		Population: len(pool),
		Winners:    make([]Winner, 0, count),
		Picks:      make([]Pick, 0, count),
	}
	total, err := totalWeight(pool)
	if err != nil {
		return nil, err
	}
	res.TotalTickets = total
	res.Segments = segments(pool)

	ticket := e.rnd.Intn(total)
	first := entryAtTicket(pool, ticket)
	res.LandingIndex = ticket
	res.LandingSegment = first
	res.record(pool[first], res.TotalTickets, ticket, true)
	remaining := without(pool, first)

	for len(res.Winners) < count {
		var idx, drawn, size int
		if opts.WeightedAdditionalWinners {
			size, _ = totalWeight(remaining)
			drawn = e.rnd.Intn(size)
			idx = entryAtTicket(remaining, drawn)
		} else {
			size = len(remaining)
			drawn = e.rnd.Intn(size)
			idx = drawn
		}
		res.record(remaining[idx], size, drawn, opts.WeightedAdditionalWinners)
		remaining = without(remaining, idx)
	}

	return res, nil
}

func (r *Result) record(entry Entry, poolSize, drawn int, weighted bool) {
	position := len(r.Winners) + 1
	r.Winners = append(r.Winners, Winner{Entry: entry, Position: position, Weighted: weighted})
	r.Picks = append(r.Picks, Pick{
		Round:    position,
		PoolSize: poolSize,
		Drawn:    drawn,
		EntryID:  entry.ID,
		Weighted: weighted,
	})
}

// distinct drops repeated ids, keeping the first occurrence.
func distinct(entries []Entry) []Entry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

func segments(pool []Entry) []Segment {
	out := make([]Segment, 0, len(pool))
	start := 0
	for _, e := range pool {
		out = append(out, Segment{EntryID: e.ID, Name: e.Name, Start: start, Tickets: e.Weight()})
		start += e.Weight()
	}
	return out
}

func totalWeight(pool []Entry) (int, error) {
	total := 0
	for _, e := range pool {
		w := e.Weight()
		if total > math.MaxInt-w {
			return 0, ErrTicketOverflow
		}
		total += w
	}
	return total, nil
}

// entryAtTicket maps a ticket number in [0, totalWeight) to its entry index
// by walking cumulative weights.
func entryAtTicket(pool []Entry, ticket int) int {
	cumulative := 0
	for i, e := range pool {
		cumulative += e.Weight()
		if ticket < cumulative {
			return i
		}
	}
	return len(pool) - 1
}

func without(pool []Entry, idx int) []Entry {
	out := make([]Entry, 0, len(pool)-1)
	out = append(out, pool[:idx]...)
	return append(out, pool[idx+1:]...)
}
