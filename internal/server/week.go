package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/thekevindong/AreWeFree/internal/ics"
	"github.com/thekevindong/AreWeFree/internal/schedule"
)

// WeekModel is the full computed single-week view served to clients.
type WeekModel struct {
	Occurrences []schedule.Occurrence                          `json:"occurrences"`
	Spans       map[schedule.Weekday][]schedule.BusySpan       `json:"spansByDay"`
	Overlaps    map[schedule.Weekday][]schedule.OverlapSegment `json:"overlapsByDay"`
	Summary     schedule.WeekSummary                           `json:"summary"`
	People      []schedule.PersonStats                         `json:"people"`
	ComputedAt  time.Time                                      `json:"computedAt"`
}

// scheduleRecompute arranges a recompute of the week model after the
// debounce interval. A pending recompute is pushed back, so rapid edits
// coalesce into one run.
func (s *Server) scheduleRecompute() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		if _, err := s.recompute(context.Background()); err != nil {
			slog.Warn("recompute failed", "error", err)
		}
	})
}

// recompute extracts every stored document, rebuilds the week model and
// caches it. Documents are extracted concurrently; one undecodable
// document is logged and skipped, the others still contribute.
func (s *Server) recompute(ctx context.Context) (*WeekModel, error) {
	uploads, err := s.uploads.List(ctx)
	if err != nil {
		return nil, err
	}

	type result struct {
		person      string
		occurrences []schedule.Occurrence
		skipped     int
		err         error
	}

	results := make(chan result, len(uploads))
	var wg sync.WaitGroup
	for _, u := range uploads {
		u := u
		wg.Add(1)
		go func() {
			defer wg.Done()
			occs, skipped, err := ics.Extract([]byte(u.Content), u.Person, u.Color, nil)
			results <- result{person: u.Person, occurrences: occs, skipped: skipped, err: err}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var occurrences []schedule.Occurrence
	for r := range results {
		if r.err != nil {
			slog.Warn("failed to extract document", "person", r.person, "error", r.err)
			continue
		}
		slog.Info("extracted document", "person", r.person, "classes", len(r.occurrences), "skipped", r.skipped)
		occurrences = append(occurrences, r.occurrences...)
	}

	spans := schedule.BuildSpans(occurrences)
	overlaps := schedule.ComputeOverlaps(spans)

	week := &WeekModel{
		Occurrences: occurrences,
		Spans:       spans,
		Overlaps:    overlaps,
		Summary:     schedule.BuildSummary(occurrences, spans, overlaps),
		People:      schedule.PeopleStats(occurrences),
		ComputedAt:  time.Now(),
	}

	s.mu.Lock()
	s.week = week
	s.mu.Unlock()

	slog.Debug("week model recomputed",
		"people", week.Summary.People,
		"classes", week.Summary.Classes,
		"overlap_blocks", week.Summary.OverlapBlocks,
	)
	return week, nil
}
