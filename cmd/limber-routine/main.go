package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"

	limber "github.com/claude/limber"
	"github.com/claude/limber/internal/catalog"
	"github.com/claude/limber/internal/routine"
	"github.com/claude/limber/internal/settings"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	text := flag.String("text", "", "free-text request (e.g. \"my neck is stiff from desk work\")")
	issueFlag := flag.String("issue", "", "issue type: stiffness, pain, tiredness, or flexibility")
	areaFlag := flag.String("area", "", "target areas, comma separated (e.g. \"Neck,Shoulders\")")
	positionFlag := flag.String("position", "", "position: Standing, Sitting, Lying, or All")
	duration := flag.String("duration", "5", "routine length in minutes: 5, 10, or 15")
	desk := flag.Bool("desk", false, "desk friendly only (sitting or standing, no lying)")
	transition := flag.Int("transition", settings.DefaultTransitionSeconds, "transition gap before each stretch, in seconds")
	restEvery := flag.Int("rest-every", 0, "insert a rest after every N stretches (0 disables)")
	restSeconds := flag.Int("rest-seconds", 0, "rest length in seconds (default 15 when -rest-every is set)")
	premium := flag.Bool("premium", false, "include premium stretches")
	seed := flag.Int64("seed", 0, "random seed for reproducible output (0 uses a random order)")
	jsonOut := flag.Bool("json", false, "print the routine as JSON instead of an itinerary")
	catalogPath := flag.String("catalog", "", "path to a YAML catalog (default: embedded catalog)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("limber-routine", Version)
		return
	}

	// Logs go to stderr so -json output stays pipeable
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	issue, err := parseIssue(*issueFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	areas, err := parseAreas(*areaFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	position, err := parsePosition(*positionFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cat, err := loadCatalog(*catalogPath)
	if err != nil {
		log.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	var shuffler routine.Shuffler = routine.NewShuffler()
	if *seed != 0 {
		shuffler = rand.New(rand.NewSource(*seed))
	}

	gen := routine.NewGenerator(cat, shuffler, log)
	r, err := gen.Generate(routine.Request{
		Text:              *text,
		Issue:             issue,
		Areas:             areas,
		Position:          position,
		Bucket:            *duration,
		DeskFriendly:      *desk,
		RestEvery:         *restEvery,
		RestSeconds:       *restSeconds,
		TransitionSeconds: *transition,
		Entitled:          *premium,
	})
	if err != nil {
		if errors.Is(err, routine.ErrNoStretches) {
			fmt.Fprintln(os.Stderr, "Error: no suitable stretches for this request; try a broader area or position")
			os.Exit(1)
		}
		log.Error("generation failed", "error", err)
		os.Exit(1)
	}

	if *jsonOut {
		out, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			log.Error("failed to encode routine", "error", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	printRoutine(r)
}

func loadCatalog(path string) ([]catalog.Stretch, error) {
	if path != "" {
		return catalog.LoadFile(path)
	}
	return catalog.Load(limber.DefaultCatalog())
}

func parseIssue(s string) (routine.Issue, error) {
	switch issue := routine.Issue(s); issue {
	case "", routine.IssueStiffness, routine.IssuePain, routine.IssueTiredness, routine.IssueFlexibility:
		return issue, nil
	default:
		return "", fmt.Errorf("unknown issue %q (want stiffness, pain, tiredness, or flexibility)", s)
	}
}

func parseAreas(s string) ([]catalog.Area, error) {
	if s == "" {
		return nil, nil
	}
	valid := map[catalog.Area]bool{}
	for _, a := range catalog.Areas() {
		valid[a] = true
	}
	var out []catalog.Area
	for _, part := range strings.Split(s, ",") {
		a := catalog.Area(strings.TrimSpace(part))
		if !valid[a] {
			return nil, fmt.Errorf("unknown area %q", strings.TrimSpace(part))
		}
		out = append(out, a)
	}
	return out, nil
}

func parsePosition(s string) (catalog.Position, error) {
	switch pos := catalog.Position(s); pos {
	case "", catalog.PositionStanding, catalog.PositionSitting, catalog.PositionLying, catalog.PositionAll:
		return pos, nil
	default:
		return "", fmt.Errorf("unknown position %q (want Standing, Sitting, Lying, or All)", s)
	}
}

func printRoutine(r *routine.Routine) {
	fmt.Println()
	fmt.Printf("=== %s ===\n", r.Summary.Description)
	fmt.Println()
	for i, it := range r.Items {
		switch v := it.(type) {
		case routine.StretchItem:
			name := v.Stretch.Name
			if v.Stretch.Bilateral {
				name += " (per side)"
			}
			fmt.Printf("  %2d. %-34s %4ds\n", i+1, name, v.Duration())
		case routine.Transition:
			fmt.Printf("  %2d. %-34s %4ds\n", i+1, "Transition", v.Seconds)
		case routine.Rest:
			fmt.Printf("  %2d. %-34s %4ds\n", i+1, "Rest", v.Seconds)
		}
	}
	fmt.Println()
	fmt.Printf("  Stretches:    %d\n", r.Items.StretchCount())
	fmt.Printf("  Total time:   %s\n", formatSeconds(r.TotalSeconds()))
	fmt.Println()
}

func formatSeconds(s int) string {
	if s < 60 {
		return fmt.Sprintf("%ds", s)
	}
	return fmt.Sprintf("%dm%02ds", s/60, s%60)
}
