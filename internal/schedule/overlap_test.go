package schedule

import "testing"

func span(person string, day Weekday, start, end float64) BusySpan {
	return BusySpan{Day: day, Person: person, StartHour: start, EndHour: end}
}

func TestComputeOverlaps_TouchingSpansDoNotOverlap(t *testing.T) {
	// A ends exactly when B begins: half-open intervals, no overlap.
	overlaps := ComputeOverlaps(map[Weekday][]BusySpan{
		Monday: {
			span("Alice", Monday, 9.0, 10.0),
			span("Bob", Monday, 10.0, 11.0),
		},
	})

	if len(overlaps[Monday]) != 0 {
		t.Fatalf("expected no overlap segments, got %d", len(overlaps[Monday]))
	}
}

func TestComputeOverlaps_BasicOverlap(t *testing.T) {
	overlaps := ComputeOverlaps(map[Weekday][]BusySpan{
		Monday: {
			span("Alice", Monday, 9.0, 11.0),
			span("Bob", Monday, 10.0, 12.0),
		},
	})

	segs := overlaps[Monday]
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].StartHour != 10.0 || segs[0].EndHour != 11.0 {
		t.Errorf("segment = [%v, %v), want [10, 11)", segs[0].StartHour, segs[0].EndHour)
	}
	if len(segs[0].Participants) != 2 {
		t.Errorf("expected 2 participants, got %d", len(segs[0].Participants))
	}
}

func TestComputeOverlaps_ThreeWay(t *testing.T) {
	overlaps := ComputeOverlaps(map[Weekday][]BusySpan{
		Wednesday: {
			span("Alice", Wednesday, 9.0, 12.0),
			span("Bob", Wednesday, 10.0, 11.0),
			span("Carol", Wednesday, 10.5, 13.0),
		},
	})

	segs := overlaps[Wednesday]
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}

	expected := []struct {
		start, end float64
		people     int
	}{
		{10.0, 10.5, 2}, // Alice, Bob
		{10.5, 11.0, 3}, // Alice, Bob, Carol
		{11.0, 12.0, 2}, // Alice, Carol
	}
	for i, want := range expected {
		got := segs[i]
		if got.StartHour != want.start || got.EndHour != want.end {
			t.Errorf("segment %d = [%v, %v), want [%v, %v)", i, got.StartHour, got.EndHour, want.start, want.end)
		}
		if len(got.Participants) != want.people {
			t.Errorf("segment %d has %d participants, want %d", i, len(got.Participants), want.people)
		}
	}
}

func TestComputeOverlaps_SegmentsDisjointAndSorted(t *testing.T) {
	overlaps := ComputeOverlaps(map[Weekday][]BusySpan{
		Thursday: {
			span("Alice", Thursday, 8.0, 10.0),
			span("Bob", Thursday, 9.0, 12.0),
			span("Carol", Thursday, 11.0, 13.0),
		},
	})

	segs := overlaps[Thursday]
	for i, seg := range segs {
		if len(seg.Participants) < 2 {
			t.Errorf("segment %d has %d participants, want >= 2", i, len(seg.Participants))
		}
		if i > 0 && segs[i-1].EndHour > seg.StartHour {
			t.Errorf("segments %d and %d overlap", i-1, i)
		}
	}
}

func TestMergeTouching_IdenticalParticipants(t *testing.T) {
	participants := []BusySpan{
		span("Alice", Friday, 9.0, 11.0),
		span("Bob", Friday, 9.0, 11.0),
	}
	segs := mergeTouching([]OverlapSegment{
		{Day: Friday, StartHour: 9.0, EndHour: 10.0, Participants: participants},
		{Day: Friday, StartHour: 10.0, EndHour: 11.0, Participants: participants},
	})

	if len(segs) != 1 {
		t.Fatalf("expected segments to merge into 1, got %d", len(segs))
	}
	if segs[0].StartHour != 9.0 || segs[0].EndHour != 11.0 {
		t.Errorf("merged segment = [%v, %v), want [9, 11)", segs[0].StartHour, segs[0].EndHour)
	}
}

func TestMergeTouching_DifferentParticipantsKeptApart(t *testing.T) {
	segs := mergeTouching([]OverlapSegment{
		{
			Day: Friday, StartHour: 9.0, EndHour: 10.0,
			Participants: []BusySpan{
				span("Alice", Friday, 9.0, 10.0),
				span("Bob", Friday, 9.0, 11.0),
			},
		},
		{
			Day: Friday, StartHour: 10.0, EndHour: 11.0,
			Participants: []BusySpan{
				span("Carol", Friday, 10.0, 11.0),
				span("Bob", Friday, 9.0, 11.0),
			},
		},
	})

	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
}
