package routine

import (
	"strings"

	"github.com/claude/limber/internal/catalog"
)

// Issue is the complaint category a routine targets.
type Issue string

const (
	IssueStiffness   Issue = "stiffness"
	IssuePain        Issue = "pain"
	IssueTiredness   Issue = "tiredness"
	IssueFlexibility Issue = "flexibility"
)

// Activity is the inferred context behind a request (what the user was
// doing). It feeds the desk-friendly default and the summary text.
type Activity string

const (
	ActivityDeskWork Activity = "desk work"
	ActivityDriving  Activity = "driving"
	ActivityWorkout  Activity = "workout"
	ActivitySleep    Activity = "sleep"
)

// ParsedIntent is the structured reading of a free-text request. Every
// field is optional; the zero value means the text constrained nothing.
type ParsedIntent struct {
	Issue    Issue            `json:"issue,omitempty"`
	Areas    []catalog.Area   `json:"areas,omitempty"`
	Position catalog.Position `json:"position,omitempty"`
	Activity Activity         `json:"activity,omitempty"`
}

// Vocabularies are ordered: within a field the first matching entry wins,
// and for areas longer phrases come before the words they contain so that
// "upper back" is not also counted as "back".

var issueVocab = []struct {
	phrase string
	issue  Issue
}{
	{"stiff", IssueStiffness},
	{"stiffness", IssueStiffness},
	{"tight", IssueStiffness},
	{"tightness", IssueStiffness},
	{"tense", IssueStiffness},
	{"knotted", IssueStiffness},
	{"pain", IssuePain},
	{"painful", IssuePain},
	{"ache", IssuePain},
	{"aches", IssuePain},
	{"aching", IssuePain},
	{"achy", IssuePain},
	{"sore", IssuePain},
	{"hurts", IssuePain},
	{"hurt", IssuePain},
	{"tired", IssueTiredness},
	{"fatigued", IssueTiredness},
	{"fatigue", IssueTiredness},
	{"exhausted", IssueTiredness},
	{"drained", IssueTiredness},
	{"sluggish", IssueTiredness},
	{"flexible", IssueFlexibility},
	{"flexibility", IssueFlexibility},
	{"mobility", IssueFlexibility},
	{"limber", IssueFlexibility},
	{"range of motion", IssueFlexibility},
	{"loosen up", IssueFlexibility},
}

var areaVocab = []struct {
	phrase string
	area   catalog.Area
}{
	{"shoulder blades", catalog.AreaUpperBack},
	{"shoulder blade", catalog.AreaUpperBack},
	{"upper back", catalog.AreaUpperBack},
	{"lower back", catalog.AreaLowerBack},
	{"low back", catalog.AreaLowerBack},
	{"lumbar", catalog.AreaLowerBack},
	{"whole body", catalog.AreaFullBody},
	{"full body", catalog.AreaFullBody},
	{"all over", catalog.AreaFullBody},
	{"everywhere", catalog.AreaFullBody},
	{"neck", catalog.AreaNeck},
	{"shoulders", catalog.AreaShoulders},
	{"shoulder", catalog.AreaShoulders},
	{"back", catalog.AreaLowerBack},
	{"chest", catalog.AreaChest},
	{"pecs", catalog.AreaChest},
	{"hips", catalog.AreaHips},
	{"hip", catalog.AreaHips},
	{"glutes", catalog.AreaHips},
	{"hamstrings", catalog.AreaHamstrings},
	{"hamstring", catalog.AreaHamstrings},
	{"legs", catalog.AreaHamstrings},
	{"quads", catalog.AreaQuads},
	{"quad", catalog.AreaQuads},
	{"thighs", catalog.AreaQuads},
	{"thigh", catalog.AreaQuads},
	{"calves", catalog.AreaCalves},
	{"calf", catalog.AreaCalves},
	{"wrists", catalog.AreaWrists},
	{"wrist", catalog.AreaWrists},
	{"forearms", catalog.AreaWrists},
	{"hands", catalog.AreaWrists},
}

var positionVocab = []struct {
	phrase string
	pos    catalog.Position
}{
	{"standing", catalog.PositionStanding},
	{"stand up", catalog.PositionStanding},
	{"on my feet", catalog.PositionStanding},
	{"sitting", catalog.PositionSitting},
	{"seated", catalog.PositionSitting},
	{"at my desk", catalog.PositionSitting},
	{"chair", catalog.PositionSitting},
	{"desk", catalog.PositionSitting},
	{"couch", catalog.PositionSitting},
	{"lying", catalog.PositionLying},
	{"lie down", catalog.PositionLying},
	{"in bed", catalog.PositionLying},
	{"on the floor", catalog.PositionLying},
}

var activityVocab = []struct {
	phrase   string
	activity Activity
}{
	{"desk", ActivityDeskWork},
	{"office", ActivityDeskWork},
	{"computer", ActivityDeskWork},
	{"typing", ActivityDeskWork},
	{"screen", ActivityDeskWork},
	{"driving", ActivityDriving},
	{"commute", ActivityDriving},
	{"car", ActivityDriving},
	{"workout", ActivityWorkout},
	{"gym", ActivityWorkout},
	{"running", ActivityWorkout},
	{"run", ActivityWorkout},
	{"training", ActivityWorkout},
	{"lifting", ActivityWorkout},
	{"sleeping", ActivitySleep},
	{"slept", ActivitySleep},
	{"woke up", ActivitySleep},
	{"before bed", ActivitySleep},
	{"bedtime", ActivitySleep},
	{"in bed", ActivitySleep},
}

// ParseIntent reads a free-text description and extracts whatever it can.
// Matching is whole-word phrase lookup against the fixed vocabularies;
// empty or unrecognized input yields the zero intent, which is the normal
// case for explicit (non-text) entry flows.
func ParseIntent(text string) ParsedIntent {
	padded := normalize(text)
	if padded == "" {
		return ParsedIntent{}
	}

	var intent ParsedIntent

	for _, v := range issueVocab {
		if containsPhrase(padded, v.phrase) {
			intent.Issue = v.issue
			break
		}
	}

	// Areas accumulate. Matched phrases are blanked out so that a phrase
	// match does not re-fire on one of its own words ("upper back" vs
	// "back").
	scan := padded
	seen := map[catalog.Area]bool{}
	for _, v := range areaVocab {
		if containsPhrase(scan, v.phrase) {
			scan = strings.ReplaceAll(scan, " "+v.phrase+" ", "  ")
			if !seen[v.area] {
				seen[v.area] = true
				intent.Areas = append(intent.Areas, v.area)
			}
		}
	}

	for _, v := range positionVocab {
		if containsPhrase(padded, v.phrase) {
			intent.Position = v.pos
			break
		}
	}

	for _, v := range activityVocab {
		if containsPhrase(padded, v.phrase) {
			intent.Activity = v.activity
			break
		}
	}

	return intent
}

// normalize lowercases the text, reduces every non-alphanumeric run to a
// single space, and pads with spaces so phrase lookups are whole-word.
func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 2)
	b.WriteByte(' ')
	space := true
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	if !space {
		b.WriteByte(' ')
	}
	s := b.String()
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

func containsPhrase(padded, phrase string) bool {
	return strings.Contains(padded, " "+phrase+" ")
}
