package segment

import (
	"testing"

	"github.com/capgif/backend/internal/subtitle"
)

func testAligner() Aligner {
	return Aligner{Tolerance: 0.5, MaxSegments: 5}
}

func TestValidateRanges(t *testing.T) {
	a := testAligner()
	duration := 20.0

	cases := []struct {
		name    string
		ranges  []Range
		wantErr bool
	}{
		{"empty", nil, false},
		{"valid single", []Range{{Start: 1, End: 2}}, false},
		{"valid at bounds", []Range{{Start: 0, End: 20}}, false},
		{"five zero-value ranges", make([]Range, 5), true}, // end <= start
		{"negative start", []Range{{Start: -1, End: 2}}, true},
		{"end before start", []Range{{Start: 3, End: 3}}, true},
		{"end past duration", []Range{{Start: 1, End: 21}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := a.ValidateRanges(tc.ranges, duration)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateRanges(%v) error = %v, wantErr %v", tc.ranges, err, tc.wantErr)
			}
		})
	}
}

func TestValidateRangesTooMany(t *testing.T) {
	a := testAligner()
	ranges := make([]Range, 6)
	for i := range ranges {
		ranges[i] = Range{Start: float64(i), End: float64(i) + 1}
	}
	if err := a.ValidateRanges(ranges, 20); err == nil {
		t.Fatal("expected error for 6 ranges")
	}

	// Exactly five valid ranges pass.
	if err := a.ValidateRanges(ranges[:5], 20); err != nil {
		t.Fatalf("5 valid ranges should pass: %v", err)
	}
}

func TestMatchTolerance(t *testing.T) {
	a := testAligner()
	speech := []subtitle.Cue{{Start: 4.6, End: 9.3, Text: "hello"}}

	// Segment [4.6, 9.3] lies within [5.0-0.5, 9.0+0.5].
	if _, ok := a.match(Range{Start: 5.0, End: 9.0}, speech); !ok {
		t.Error("expected match within 0.5s tolerance")
	}

	// Start 4.6 lies outside [6.0-0.5, ...].
	if _, ok := a.match(Range{Start: 6.0, End: 9.0}, speech); ok {
		t.Error("expected no match when segment start is outside the widened window")
	}
}

func TestAlignRequestedRanges(t *testing.T) {
	a := testAligner()
	speech := []subtitle.Cue{
		{Start: 1.0, End: 2.5, Text: "one"},
		{Start: 4.6, End: 9.3, Text: "two"},
	}

	got := a.Align([]Range{
		{Start: 5.0, End: 9.0},   // matches "two"
		{Start: 15.0, End: 16.0}, // no speech here
	}, speech, 20.0)

	if len(got) != 2 {
		t.Fatalf("expected 2 resolved segments, got %d", len(got))
	}

	// The caller controls the cut; the matcher only supplies caption text.
	if got[0].UserStart != 5.0 || got[0].UserEnd != 9.0 {
		t.Errorf("cut window = %g-%g, want caller's 5-9", got[0].UserStart, got[0].UserEnd)
	}
	if got[0].Text != "two" {
		t.Errorf("caption = %q, want %q", got[0].Text, "two")
	}

	// Unmatched ranges are honored with an empty caption, not dropped.
	if got[1].Text != "" {
		t.Errorf("unmatched range caption = %q, want empty", got[1].Text)
	}
}

func TestAlignCustomCaptionBypassesMatching(t *testing.T) {
	a := testAligner()
	speech := []subtitle.Cue{{Start: 4.6, End: 9.3, Text: "detected"}}

	got := a.Align([]Range{{Start: 5.0, End: 9.0, Text: "my caption"}}, speech, 20.0)
	if len(got) != 1 || got[0].Text != "my caption" {
		t.Fatalf("custom caption not used verbatim: %+v", got)
	}
}

func TestAlignDefaultPolicy(t *testing.T) {
	a := testAligner()
	var speech []subtitle.Cue
	for i := 0; i < 7; i++ {
		speech = append(speech, subtitle.Cue{
			Start: float64(i * 2),
			End:   float64(i*2 + 1),
			Text:  "cue",
		})
	}

	got := a.Align(nil, speech, 20.0)
	if len(got) != 5 {
		t.Fatalf("default policy: expected first 5 of 7, got %d", len(got))
	}
	for i, seg := range got {
		if seg.UserStart != speech[i].Start || seg.UserEnd != speech[i].End {
			t.Errorf("segment %d = %g-%g, want %g-%g", i, seg.UserStart, seg.UserEnd, speech[i].Start, speech[i].End)
		}
	}
}

func TestAlignClampAndSkip(t *testing.T) {
	a := testAligner()

	// End clamps to duration; start past duration drops the segment.
	got := a.Align(nil, []subtitle.Cue{
		{Start: 18.0, End: 25.0, Text: "clamped"},
		{Start: 21.0, End: 22.0, Text: "dropped"},
	}, 20.0)

	if len(got) != 1 {
		t.Fatalf("expected 1 segment after clamp+skip, got %d", len(got))
	}
	if got[0].UserEnd != 20.0 {
		t.Errorf("end = %g, want clamped 20", got[0].UserEnd)
	}
}

func TestCaptionWindowFloor(t *testing.T) {
	a := testAligner()

	// Degenerate 0.05s range still gets a visible caption window.
	got := a.Align([]Range{{Start: 10.0, End: 10.05}}, nil, 20.0)
	if len(got) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(got))
	}
	if d := got[0].CaptionEnd - got[0].CaptionStart; d < 0.1 {
		t.Errorf("caption window = %g, want >= 0.1", d)
	}
}

func TestCaptionWindowCoversGif(t *testing.T) {
	a := testAligner()
	got := a.Align([]Range{{Start: 3.0, End: 8.0}}, nil, 20.0)
	if len(got) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(got))
	}
	if got[0].CaptionStart != 0 {
		t.Errorf("caption start = %g, want 0", got[0].CaptionStart)
	}
	if got[0].CaptionEnd != 5.0 {
		t.Errorf("caption end = %g, want 5", got[0].CaptionEnd)
	}
}
