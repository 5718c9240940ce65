package routine

import (
	"slices"
	"strconv"

	"github.com/claude/limber/internal/catalog"
)

// DefaultBucket is the nominal duration used when a request names none.
const DefaultBucket = "5"

const defaultRestSeconds = 15

// Window is the target duration range for a routine, in seconds. Assembly
// aims for Min; top-up pushes the total toward Max.
type Window struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

var bucketWindows = map[string]Window{
	"5":  {Min: 180, Max: 300},
	"10": {Min: 360, Max: 600},
	"15": {Min: 660, Max: 900},
}

// windowFor resolves a nominal duration label. Labels outside the fixed
// buckets are read as minutes with a 20% floor below the full length;
// anything unparseable falls back to the default bucket.
func windowFor(bucket string) (string, Window) {
	if w, ok := bucketWindows[bucket]; ok {
		return bucket, w
	}
	if m, err := strconv.Atoi(bucket); err == nil && m > 0 {
		return bucket, Window{Min: m * 60 * 8 / 10, Max: m * 60}
	}
	return DefaultBucket, bucketWindows[DefaultBucket]
}

// Request is everything a caller supplies for one generation: free text,
// explicit selections, and the two values resolved outside the pipeline
// (transition length from the settings store, entitlement from the user
// record). Explicit fields win over anything parsed from Text.
type Request struct {
	Text string

	Issue        Issue
	Areas        []catalog.Area
	Position     catalog.Position
	Bucket       string
	DeskFriendly bool

	// Rest cadence: a Rest of RestSeconds after every RestEvery stretches.
	// Zero RestEvery disables rests.
	RestEvery   int
	RestSeconds int

	TransitionSeconds int
	Entitled          bool
}

// Config is the canonical resolved input to selection. Built once per
// request and never mutated afterward; the low-yield retry works on a
// copy with transitions disabled.
type Config struct {
	Issue             Issue
	Areas             []catalog.Area
	Position          catalog.Position
	Bucket            string
	Window            Window
	DeskFriendly      bool
	TransitionSeconds int
	RestEvery         int
	RestSeconds       int
	Entitled          bool
}

// BuildConfig parses the request text and merges it with the explicit
// selections. Area precedence: explicit areas, then the first parsed
// area, then the Full Body wildcard. Every field has a default, so
// building cannot fail.
func BuildConfig(req Request) Config {
	intent := ParseIntent(req.Text)

	cfg := Config{
		Issue:             req.Issue,
		Position:          req.Position,
		DeskFriendly:      req.DeskFriendly,
		TransitionSeconds: req.TransitionSeconds,
		RestEvery:         req.RestEvery,
		RestSeconds:       req.RestSeconds,
		Entitled:          req.Entitled,
	}

	if cfg.Issue == "" {
		cfg.Issue = intent.Issue
	}

	switch {
	case len(req.Areas) > 0:
		cfg.Areas = slices.Clone(req.Areas)
	case len(intent.Areas) > 0:
		cfg.Areas = []catalog.Area{intent.Areas[0]}
	default:
		cfg.Areas = []catalog.Area{catalog.AreaFullBody}
	}

	if cfg.Position == "" {
		cfg.Position = intent.Position
	}
	if cfg.Position == "" {
		cfg.Position = catalog.PositionAll
	}

	if !cfg.DeskFriendly && intent.Activity == ActivityDeskWork {
		cfg.DeskFriendly = true
	}

	cfg.Bucket, cfg.Window = windowFor(req.Bucket)

	if cfg.TransitionSeconds < 0 {
		cfg.TransitionSeconds = 0
	}
	if cfg.RestEvery < 0 {
		cfg.RestEvery = 0
	}
	if cfg.RestEvery > 0 && cfg.RestSeconds <= 0 {
		cfg.RestSeconds = defaultRestSeconds
	}

	return cfg
}

// withoutTransitions is the one sanctioned config mutation: the clone the
// low-yield retry selects with.
func (c Config) withoutTransitions() Config {
	c.TransitionSeconds = 0
	return c
}
