package routine

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/claude/limber/internal/catalog"
)

// testStretch builds a demo-eligible single-area stretch for pipeline
// tests.
func testStretch(id string, area catalog.Area, pos catalog.Position, secs int) catalog.Stretch {
	return catalog.Stretch{
		ID:       id,
		Name:     id,
		Areas:    []catalog.Area{area},
		Position: pos,
		Seconds:  secs,
		HasDemo:  true,
	}
}

// noShuffle keeps candidate order untouched so assembly traces are exact.
type noShuffle struct{}

func (noShuffle) Shuffle(int, func(i, j int)) {}

func seeded(seed int64) Shuffler {
	return rand.New(rand.NewSource(seed))
}

// assertStructure fails the test when a transition opens or closes the
// sequence or is not directly followed by a stretch.
func assertStructure(t *testing.T, seq Sequence) {
	t.Helper()
	for i, it := range seq {
		if _, ok := it.(Transition); !ok {
			continue
		}
		if i == 0 || i == len(seq)-1 {
			t.Errorf("transition at boundary position %d", i)
			continue
		}
		if _, ok := seq[i+1].(StretchItem); !ok {
			t.Errorf("transition at %d followed by %T", i, seq[i+1])
		}
	}
}

func assertNoPremium(t *testing.T, seq Sequence) {
	t.Helper()
	for _, it := range seq {
		if st, ok := it.(StretchItem); ok && st.Stretch.Premium {
			t.Errorf("premium stretch %q in sequence", st.Stretch.ID)
		}
	}
}

// TestGenerateNormal runs the full pipeline over a 20-stretch catalog:
// a five-minute neck request with transitions lands inside the duration
// window, stays premium-free, and carries no orphan transitions.
func TestGenerateNormal(t *testing.T) {
	var cat []catalog.Stretch
	for i := 0; i < 8; i++ {
		cat = append(cat, testStretch(fmt.Sprintf("neck-%d", i), catalog.AreaNeck, catalog.PositionSitting, 30))
	}
	for i := 0; i < 6; i++ {
		s := testStretch(fmt.Sprintf("hips-%d", i), catalog.AreaHips, catalog.PositionLying, 30)
		s.Premium = i < 2
		cat = append(cat, s)
	}
	for i := 0; i < 6; i++ {
		cat = append(cat, testStretch(fmt.Sprintf("hams-%d", i), catalog.AreaHamstrings, catalog.PositionStanding, 30))
	}

	g := NewGenerator(cat, seeded(7), slog.Default())
	r, err := g.Generate(Request{
		Areas:             []catalog.Area{catalog.AreaNeck},
		Bucket:            "5",
		TransitionSeconds: 5,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if r.ID == uuid.Nil {
		t.Error("routine ID is nil")
	}
	total := r.TotalSeconds()
	if total < 180 || total > 305 {
		t.Errorf("TotalSeconds() = %d, want within [180, 305]", total)
	}
	if n := r.Items.StretchCount(); n != 8 {
		t.Errorf("StretchCount() = %d, want all 8 neck stretches", n)
	}
	assertNoPremium(t, r.Items)
	assertStructure(t, r.Items)
}

// TestGenerateSingleMatchAugmentation covers the degenerate-yield repair
// end to end: premium filtering strips the routine down to one stretch,
// the retry re-selects with transitions disabled, and the grafted
// stretches arrive with transitions at the originally requested length.
func TestGenerateSingleMatchAugmentation(t *testing.T) {
	premium := func(id string, area catalog.Area) catalog.Stretch {
		s := testStretch(id, area, catalog.PositionStanding, 90)
		s.Premium = true
		return s
	}
	cat := []catalog.Stretch{
		testStretch("neck-1", catalog.AreaNeck, catalog.PositionStanding, 90),
		premium("hips-1", catalog.AreaHips),
		premium("hips-2", catalog.AreaHips),
		testStretch("hams-1", catalog.AreaHamstrings, catalog.PositionStanding, 90),
		testStretch("hams-2", catalog.AreaHamstrings, catalog.PositionStanding, 90),
	}

	g := NewGenerator(cat, noShuffle{}, slog.Default())
	r, err := g.Generate(Request{
		Areas:             []catalog.Area{catalog.AreaNeck},
		Bucket:            "5",
		TransitionSeconds: 5,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if n := r.Items.StretchCount(); n < 2 {
		t.Fatalf("StretchCount() = %d, want at least 2 after augmentation", n)
	}
	for _, it := range r.Items {
		if tr, ok := it.(Transition); ok && tr.Seconds != 5 {
			t.Errorf("transition %q length = %d, want the requested 5", tr.ID, tr.Seconds)
		}
	}
	assertNoPremium(t, r.Items)
	assertStructure(t, r.Items)

	var ids []string
	for _, it := range r.Items {
		if st, ok := it.(StretchItem); ok {
			ids = append(ids, st.Stretch.ID)
		}
	}
	if len(ids) != 3 || ids[0] != "neck-1" {
		t.Errorf("stretches = %v, want neck-1 plus both hamstring stretches", ids)
	}
}

// TestGenerateNoStretches verifies the one fatal path: an empty or fully
// ineligible catalog surfaces ErrNoStretches.
func TestGenerateNoStretches(t *testing.T) {
	cases := []struct {
		name string
		cat  []catalog.Stretch
	}{
		{name: "empty catalog", cat: nil},
		{
			name: "no demos",
			cat: []catalog.Stretch{
				{ID: "a", Name: "A", Areas: []catalog.Area{catalog.AreaNeck}, Position: catalog.PositionSitting, Seconds: 30},
				{ID: "b", Name: "B", Areas: []catalog.Area{catalog.AreaNeck}, Position: catalog.PositionSitting, Seconds: 30},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGenerator(tc.cat, seeded(1), slog.Default())
			_, err := g.Generate(Request{Areas: []catalog.Area{catalog.AreaNeck}})
			if !errors.Is(err, ErrNoStretches) {
				t.Fatalf("Generate() error = %v, want ErrNoStretches", err)
			}
		})
	}
}

// TestGenerateDurationBound checks the duration property across buckets
// and seeds: the total always reaches the window minimum and never
// exceeds the maximum by more than one appended step.
func TestGenerateDurationBound(t *testing.T) {
	areas := []catalog.Area{catalog.AreaNeck, catalog.AreaHips, catalog.AreaHamstrings, catalog.AreaQuads}
	var cat []catalog.Stretch
	for i := 0; i < 16; i++ {
		s := testStretch(fmt.Sprintf("s-%d", i), areas[i%len(areas)], catalog.PositionStanding, 60)
		s.Bilateral = i%3 == 0
		cat = append(cat, s)
	}

	const maxStep = 120 + 5 // largest effective duration plus its transition

	for _, bucket := range []string{"5", "10", "15"} {
		for seed := int64(1); seed <= 3; seed++ {
			t.Run(fmt.Sprintf("bucket %s seed %d", bucket, seed), func(t *testing.T) {
				g := NewGenerator(cat, seeded(seed), slog.Default())
				r, err := g.Generate(Request{Bucket: bucket, TransitionSeconds: 5})
				if err != nil {
					t.Fatalf("Generate() error = %v", err)
				}

				_, win := windowFor(bucket)
				total := r.TotalSeconds()
				if total < win.Min || total > win.Max+maxStep {
					t.Errorf("TotalSeconds() = %d, want within [%d, %d]", total, win.Min, win.Max+maxStep)
				}
				assertStructure(t, r.Items)
			})
		}
	}
}

// TestGeneratePremiumExclusion verifies the entitlement property: without
// entitlement no premium stretch ever appears, regardless of shuffle.
func TestGeneratePremiumExclusion(t *testing.T) {
	var cat []catalog.Stretch
	for i := 0; i < 10; i++ {
		s := testStretch(fmt.Sprintf("s-%d", i), catalog.AreaFullBody, catalog.PositionStanding, 45)
		s.Premium = i%2 == 0
		cat = append(cat, s)
	}

	for seed := int64(1); seed <= 5; seed++ {
		g := NewGenerator(cat, seeded(seed), slog.Default())
		r, err := g.Generate(Request{Bucket: "5", TransitionSeconds: 5})
		if err != nil {
			t.Fatalf("seed %d: Generate() error = %v", seed, err)
		}
		assertNoPremium(t, r.Items)
		assertStructure(t, r.Items)
	}

	g := NewGenerator(cat, seeded(1), slog.Default())
	r, err := g.Generate(Request{Bucket: "5", TransitionSeconds: 5, Entitled: true})
	if err != nil {
		t.Fatalf("entitled Generate() error = %v", err)
	}
	assertStructure(t, r.Items)
}

// TestGenerateFullBodyWildcard verifies the wildcard in both directions:
// a Full Body request matches every stretch, and a Full Body tagged
// stretch matches any requested area.
func TestGenerateFullBodyWildcard(t *testing.T) {
	cat := []catalog.Stretch{
		testStretch("neck-1", catalog.AreaNeck, catalog.PositionSitting, 60),
		testStretch("hips-1", catalog.AreaHips, catalog.PositionLying, 60),
		testStretch("quads-1", catalog.AreaQuads, catalog.PositionStanding, 60),
	}

	g := NewGenerator(cat, seeded(2), slog.Default())
	r, err := g.Generate(Request{Areas: []catalog.Area{catalog.AreaFullBody}, Bucket: "5"})
	if err != nil {
		t.Fatalf("Generate(Full Body) error = %v", err)
	}
	if r.Items.StretchCount() == 0 {
		t.Error("Full Body request yielded no stretches")
	}

	flows := []catalog.Stretch{
		testStretch("flow-1", catalog.AreaFullBody, catalog.PositionStanding, 60),
		testStretch("flow-2", catalog.AreaFullBody, catalog.PositionStanding, 60),
		testStretch("flow-3", catalog.AreaFullBody, catalog.PositionStanding, 60),
	}
	g = NewGenerator(flows, seeded(2), slog.Default())
	r, err = g.Generate(Request{Areas: []catalog.Area{catalog.AreaWrists}, Bucket: "5"})
	if err != nil {
		t.Fatalf("Generate(Wrists over Full Body catalog) error = %v", err)
	}
	if r.Items.StretchCount() == 0 {
		t.Error("Full Body stretches did not match a narrow area request")
	}
}

// TestGenerateRests verifies the rest cadence survives the whole
// pipeline with valid structure.
func TestGenerateRests(t *testing.T) {
	var cat []catalog.Stretch
	for i := 0; i < 10; i++ {
		cat = append(cat, testStretch(fmt.Sprintf("neck-%d", i), catalog.AreaNeck, catalog.PositionSitting, 60))
	}

	g := NewGenerator(cat, noShuffle{}, slog.Default())
	r, err := g.Generate(Request{
		Areas:       []catalog.Area{catalog.AreaNeck},
		Bucket:      "5",
		RestEvery:   2,
		RestSeconds: 10,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	rests := 0
	for _, it := range r.Items {
		if rest, ok := it.(Rest); ok {
			rests++
			if rest.Seconds != 10 {
				t.Errorf("rest %q length = %d, want 10", rest.ID, rest.Seconds)
			}
		}
	}
	if rests == 0 {
		t.Error("no rests in sequence")
	}
	assertStructure(t, r.Items)
}

// TestGenerateSummary verifies the summary record reflects the resolved
// configuration, not the raw request.
func TestGenerateSummary(t *testing.T) {
	var cat []catalog.Stretch
	for i := 0; i < 5; i++ {
		cat = append(cat, testStretch(fmt.Sprintf("neck-%d", i), catalog.AreaNeck, catalog.PositionSitting, 60))
	}

	g := NewGenerator(cat, seeded(4), slog.Default())
	r, err := g.Generate(Request{
		Issue:             IssueStiffness,
		Areas:             []catalog.Area{catalog.AreaNeck},
		Bucket:            "10",
		TransitionSeconds: 5,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	want := Summary{
		Description:        "10 minute Neck routine for stiffness",
		IssueType:          "stiffness",
		Duration:           "10",
		Area:               "Neck",
		TransitionDuration: 5,
	}
	if r.Summary != want {
		t.Errorf("Summary = %+v, want %+v", r.Summary, want)
	}
}
