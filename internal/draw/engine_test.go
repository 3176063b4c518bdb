package draw

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/matryer/is"
)

// scriptedSource replays fixed values and remembers the bounds it was asked for.
type scriptedSource struct {
	values []int
	bounds []int
}

func (s *scriptedSource) Intn(n int) int {
	s.bounds = append(s.bounds, n)
	v := s.values[0]
	s.values = s.values[1:]
	return v % n
}

func entries(tickets ...int) []Entry {
	out := make([]Entry, len(tickets))
	for i, t := range tickets {
		id := string(rune('A' + i))
		out[i] = Entry{ID: id, Name: "name " + id, Tickets: t}
	}
	return out
}

func TestDrawValidation(t *testing.T) {
	engine := NewEngine(NewSeededSource(1))

	t.Run("empty population", func(t *testing.T) {
		is := is.New(t)
		_, err := engine.Draw(nil, Options{WinnerCount: 1})
		is.True(errors.Is(err, ErrEmptyPopulation))
	})

	t.Run("winner count below one", func(t *testing.T) {
		is := is.New(t)
		_, err := engine.Draw(entries(1, 1), Options{WinnerCount: 0})
		is.True(errors.Is(err, ErrInvalidWinnerCount))
	})
}

func TestDrawScriptedSelections(t *testing.T) {
	t.Run("first winner follows ticket index, rest uniform", func(t *testing.T) {
		is := is.New(t)
		src := &scriptedSource{values: []int{2, 1}}
		res, err := NewEngine(src).Draw(entries(2, 1, 1), Options{WinnerCount: 2})
		is.NoErr(err)

		is.Equal(len(res.Winners), 2)
		is.Equal(res.Winners[0].ID, "B") // tickets 0-1 are A, ticket 2 is B
		is.True(res.Winners[0].Weighted)
		is.Equal(res.Winners[1].ID, "C") // uniform pick over [A, C]
		is.True(!res.Winners[1].Weighted)
		is.Equal(src.bounds, []int{4, 2})

		is.Equal(res.LandingIndex, 2)
		is.Equal(res.Segments[res.LandingSegment], Segment{EntryID: "B", Name: "name B", Start: 2, Tickets: 1})
		is.Equal(res.Picks[1].PoolSize, 2)
		is.Equal(res.Picks[1].EntryID, "C")
	})

	t.Run("weighted additional winners", func(t *testing.T) {
		is := is.New(t)
		src := &scriptedSource{values: []int{0, 100}}
		res, err := NewEngine(src).Draw(entries(1, 100, 1), Options{WinnerCount: 2, WeightedAdditionalWinners: true})
		is.NoErr(err)

		is.Equal(res.Winners[0].ID, "A")
		is.Equal(res.Winners[1].ID, "C") // ticket 100 of [B x100, C x1]
		is.Equal(src.bounds, []int{102, 101})
		is.True(res.Winners[1].Weighted)
	})
}

func TestDrawZeroTicketsCountAsOne(t *testing.T) {
	is := is.New(t)
	res, err := NewEngine(NewSeededSource(7)).Draw(entries(0, 0, -3), Options{WinnerCount: 1})
	is.NoErr(err)
	is.Equal(res.TotalTickets, 3)
	is.Equal(len(res.Segments), 3)
	for i, seg := range res.Segments {
		is.Equal(seg.Start, i)
		is.Equal(seg.Tickets, 1)
	}
}

func TestDrawNoDuplicateWinners(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			is := is.New(t)
			res, err := NewEngine(NewSeededSource(seed)).Draw(entries(5, 1, 3, 1, 8, 2), Options{WinnerCount: 4})
			is.NoErr(err)
			is.Equal(len(res.Winners), 4)

			seen := map[string]bool{}
			for i, w := range res.Winners {
				is.True(!seen[w.ID])
				seen[w.ID] = true
				is.Equal(w.Position, i+1)
			}
			landing := res.Segments[res.LandingSegment]
			is.Equal(landing.EntryID, res.Winners[0].ID)
			is.True(landing.Start <= res.LandingIndex && res.LandingIndex < landing.Start+landing.Tickets)
		})
	}
}

func TestDrawScalesWithEntriesNotTickets(t *testing.T) {
	is := is.New(t)
	src := &scriptedSource{values: []int{1_500_000_000}}
	res, err := NewEngine(src).Draw(entries(1_000_000_000, 1_000_000_000), Options{WinnerCount: 1})
	is.NoErr(err)
	is.Equal(res.TotalTickets, 2_000_000_000)
	is.Equal(len(res.Segments), 2)
	is.Equal(res.Segments[1].Start, 1_000_000_000)
	is.Equal(res.Winners[0].ID, "B")
	is.Equal(res.LandingSegment, 1)
}

func TestDrawRejectsTicketOverflow(t *testing.T) {
	is := is.New(t)
	_, err := NewEngine(NewSeededSource(1)).Draw(entries(math.MaxInt, 1), Options{WinnerCount: 1})
	is.True(errors.Is(err, ErrTicketOverflow))
}

func TestDrawMoreWinnersThanParticipants(t *testing.T) {
	is := is.New(t)
	res, err := NewEngine(NewSeededSource(3)).Draw(entries(1, 4), Options{WinnerCount: 3})
	is.NoErr(err)
	is.Equal(len(res.Winners), 2)
	is.True(res.Winners[0].ID != res.Winners[1].ID)
	is.Equal(res.Population, 2)
}

func TestDrawRepeatedEntriesCountOnce(t *testing.T) {
	is := is.New(t)
	in := append(entries(1, 1), Entry{ID: "A", Tickets: 1})
	res, err := NewEngine(NewSeededSource(3)).Draw(in, Options{WinnerCount: 5})
	is.NoErr(err)
	is.Equal(res.Population, 2)
	is.Equal(len(res.Winners), 2)
}

func TestFirstWinnerIsProportionalToTickets(t *testing.T) {
	is := is.New(t)
	engine := NewEngine(NewSeededSource(42))
	population := entries(3, 1)

	const runs = 20000
	wins := 0
	for i := 0; i < runs; i++ {
		res, err := engine.Draw(population, Options{WinnerCount: 1})
		is.NoErr(err)
		if res.Winners[0].ID == "A" {
			wins++
		}
	}

	share := float64(wins) / runs
	if share < 0.73 || share > 0.77 {
		t.Fatalf("expected first winner share near 0.75, got %.3f", share)
	}
}

func TestHeavyTicketHolderUsuallyWinsFirst(t *testing.T) {
	is := is.New(t)
	engine := NewEngine(NewSeededSource(7))
	population := entries(1, 99)

	const runs = 10000
	heavy := 0
	for i := 0; i < runs; i++ {
		res, err := engine.Draw(population, Options{WinnerCount: 1})
		is.NoErr(err)
		if res.Winners[0].ID == "B" {
			heavy++
		}
	}

	share := float64(heavy) / runs
	if share < 0.97 || share > 1.0 {
		t.Fatalf("expected 99-ticket holder to win first ~99%% of draws, got %.3f", share)
	}
}

func TestCryptoSourceStaysInRange(t *testing.T) {
	src := NewCryptoSource()
	for i := 0; i < 1000; i++ {
		if v := src.Intn(7); v < 0 || v >= 7 {
			t.Fatalf("value %d out of range", v)
		}
	}
}
