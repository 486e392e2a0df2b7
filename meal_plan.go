package main

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Meal is one meal of a generated plan. Editable marks it as open to
// professional edits after generation.
type Meal struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Time     string   `json:"time"`
	Foods    []string `json:"foods"`
	Editable bool     `json:"editable"`
}

// MealPlan is a draft daily plan built from one variation template.
type MealPlan struct {
	Variation        Variation       `json:"variation"`
	VariationName    string          `json:"variation_name"`
	Reasoning        string          `json:"reasoning"`
	Meals            []Meal          `json:"meals"`
	RecommendedFoods []string        `json:"recommended_foods"`
	FoodsToAvoid     []avoidItem     `json:"foods_to_avoid"`
	Targets          NutrientTargets `json:"targets"`
	Tips             []Tip           `json:"tips"`
}

const maxRecommendedFoods = 8

/* ─── Food filter ────────────────────────────────────────────────────── */

// foodFilter holds every rule derived from the anamnesis that decides which
// foods may appear and how they rank. The same filter drives meal slots,
// recommendedFoods and foodsToAvoid so the three stay consistent.
type foodFilter struct {
	terms       []string // allergy, intolerance and dislike terms, lower-cased
	excludeTags []string
	preferTags  []string
	avoidTags   []string
	goalTags    []string
	preference  string
	conditions  []conditionRule
}

// lower is strings.ToLower(strings.TrimSpace(s)).
func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// deref returns *p, or "" for nil.
func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// words splits s into lower-case words; any rune that is not a letter or
// digit separates words ("Lactose-free" is "lactose", "free").
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// sameWord compares two words, tolerating a simple plural on either side.
func sameWord(a, b string) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	switch b {
	case a, a + "s", a + "es", strings.TrimSuffix(a, "y") + "ies":
		return true
	}
	return false
}

// wordsAt reports whether needle occurs in hay as consecutive words
// starting at index i.
func wordsAt(hay, needle []string, i int) bool {
	if len(needle) == 0 || i+len(needle) > len(hay) {
		return false
	}
	for k, w := range needle {
		if !sameWord(hay[i+k], w) {
			return false
		}
	}
	return true
}

// mentions reports whether name contains term as whole words, ignoring
// "<term>-free" and "<term> free" ("Lactose-free yogurt" does not mention
// lactose, "Roasted eggplant" does not mention egg).
func mentions(name, term string) bool {
	hay, needle := words(name), words(term)
	for i := range hay {
		if !wordsAt(hay, needle, i) {
			continue
		}
		if next := i + len(needle); next < len(hay) && hay[next] == "free" {
			continue
		}
		return true
	}
	return false
}

// matchesTerm reports whether a declared allergy/intolerance/dislike term
// hits the food, by name, by tag, or via termTags expansion. Tags match on
// whole words of the term: "peanuts" hits "peanut", "shellfish" misses "fish".
func matchesTerm(fd food, term string) bool {
	if term == "" {
		return false
	}
	if mentions(fd.Name, term) {
		return true
	}
	if fd.hasTag(termTags[term]...) {
		return true
	}
	tagForm := strings.ReplaceAll(term, " ", "_")
	termWords := words(term)
	for _, t := range fd.Tags {
		if t == tagForm {
			return true
		}
		if isPropertyTag(t) {
			continue
		}
		tagWords := words(t)
		for i := range termWords {
			if wordsAt(termWords, tagWords, i) {
				return true
			}
		}
	}
	return false
}

// propertyTags describe qualities rather than ingredients; they never match
// declared terms by substring.
var propertyTags = map[string]bool{
	"plant": true, "quick": true, "high_protein": true, "low_calorie": true, "high_fiber": true,
	"whole_grain": true, "low_gi": true, "low_carb": true, "high_carb": true, "mediterranean": true,
	"performance": true, "processed": true, "high_sodium": true, "omega3": true, "acidic": true,
	"caffeine": true, "olive_oil": true,
}

func isPropertyTag(t string) bool {
	return propertyTags[t]
}

// allowed applies the hard exclusions: declared terms, diet and medical conditions.
func (ff foodFilter) allowed(fd food) bool {
	for _, term := range ff.terms {
		if matchesTerm(fd, term) {
			return false
		}
	}
	if fd.hasTag(dietExcludedTags[ff.preference]...) {
		return false
	}
	return !fd.hasTag(ff.excludeTags...)
}

// rank scores a food for the current variation and goal; higher is better.
func (ff foodFilter) rank(fd food) int {
	score := 0
	if fd.hasTag(ff.preferTags...) {
		score += 2
	}
	if fd.hasTag(ff.avoidTags...) {
		score -= 3
	}
	if fd.hasTag(ff.goalTags...) {
		score++
	}
	for _, c := range ff.conditions {
		if fd.hasTag(c.PreferTags...) {
			score++
		}
	}
	if ff.preference == "flexitarian" && fd.hasTag("plant") {
		score++
	}
	return score
}

// candidates returns the allowed foods of a group, best first. The sort is
// stable so equal scores keep catalog order.
func (ff foodFilter) candidates(group foodGroup) []food {
	var out []food
	for _, fd := range foodCatalog {
		if fd.Group == group && ff.allowed(fd) {
			out = append(out, fd)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return ff.rank(out[i]) > ff.rank(out[j])
	})
	return out
}

// pick selects the food for one slot component. Foods already used earlier
// in the day are skipped while unused candidates remain; when exclusions
// empty the pool, the group's neutral food is used instead.
func (ff foodFilter) pick(group foodGroup, used map[string]bool) string {
	pool := ff.candidates(group)
	for _, fd := range pool {
		if !used[fd.Name] {
			return fd.Name
		}
	}
	if len(pool) > 0 {
		return pool[0].Name
	}
	for _, fd := range neutralFoods[group] {
		if ff.allowed(fd) {
			return fd.Name
		}
	}
	return undefinedPortion
}

/* ─── Composer ───────────────────────────────────────────────────────── */

// frequencyActivity maps exercise_frequency answers onto activity levels,
// used when the anamnesis has no explicit activity_level.
var frequencyActivity = map[string]string{
	"none":        "sedentary",
	"never":       "sedentary",
	"1_2_week":    "light",
	"1-2x":        "light",
	"3_4_week":    "moderate",
	"3-4x":        "moderate",
	"5_plus_week": "active",
	"5x+":         "active",
	"daily":       "very_active",
}

// activityLevel resolves the anamnesis activity indicator; ok=false when
// neither activity_level nor exercise_frequency was given.
func (a *anamnesis) activityLevel() (string, bool) {
	if level := lower(deref(a.ActivityLevel)); level != "" {
		key, _ := normalizeActivityLevel(level)
		return key, true
	}
	if freq := lower(deref(a.ExerciseFrequency)); freq != "" {
		if level, ok := frequencyActivity[freq]; ok {
			return level, true
		}
		return "light", true
	}
	return "", false
}

// newFoodFilter derives the filter for one anamnesis and variation template.
func newFoodFilter(a *anamnesis, goal Goal, tmpl variationTemplate) foodFilter {
	ff := foodFilter{
		preferTags: tmpl.PreferTags,
		avoidTags:  tmpl.AvoidTags,
		goalTags:   goalPreferTags[goal],
		preference: normalizeFoodPreference(deref(a.FoodPreference)),
		conditions: matchConditions(a.MedicalConditions),
	}
	for _, list := range []StringList{a.Allergies, a.Intolerances, a.DislikedFoods} {
		ff.terms = append(ff.terms, list.Lower()...)
	}
	for _, c := range ff.conditions {
		ff.excludeTags = append(ff.excludeTags, c.ExcludeTags...)
	}
	return ff
}

// matchConditions returns the condition rules triggered by the declared
// medical conditions, in conditionRules order.
func matchConditions(declared StringList) []conditionRule {
	terms := declared.Lower()
	var out []conditionRule
	for _, rule := range conditionRules {
	match:
		for _, term := range terms {
			for _, kw := range rule.Keywords {
				if strings.Contains(term, kw) {
					out = append(out, rule)
					break match
				}
			}
		}
	}
	return out
}

// composeMealPlan builds a draft daily plan for variation v. It fails only
// with ErrMissingPrerequisite (anamnesis, goal or activity indicator
// missing); every other gap degrades gracefully. The result depends only on
// its arguments.
func composeMealPlan(a *anamnesis, p patientProfile, v Variation) (MealPlan, error) {
	if a == nil {
		return MealPlan{}, &missingPrerequisiteError{Field: "anamnesis"}
	}
	rawGoal := deref(a.Goal)
	if lower(rawGoal) == "" {
		return MealPlan{}, &missingPrerequisiteError{Field: "goal"}
	}
	level, ok := a.activityLevel()
	if !ok {
		return MealPlan{}, &missingPrerequisiteError{Field: "activity_level"}
	}
	goal, ok := parseGoal(rawGoal)
	if !ok {
		goal = GoalMaintenance
	}

	v, tmpl := templateFor(v)
	ff := newFoodFilter(a, goal, tmpl)

	used := make(map[string]bool)
	meals := make([]Meal, 0, len(tmpl.Slots))
	for _, slot := range tmpl.Slots {
		meal := Meal{ID: slot.ID, Name: slot.Name, Time: slot.Time, Editable: true}
		for _, group := range slot.Groups {
			name := ff.pick(group, used)
			used[name] = true
			meal.Foods = append(meal.Foods, name)
		}
		meals = append(meals, meal)
	}

	snap := AnthropometricSnapshot{
		WeightKG:      p.WeightKG,
		HeightCM:      p.HeightCM,
		AgeYears:      p.AgeYears,
		ActivityLevel: &level,
	}
	if p.Sex != "" {
		sex := p.Sex
		snap.Sex = &sex
	}
	targets := computeTargets(snap, goal)

	return MealPlan{
		Variation:        v,
		VariationName:    tmpl.Name,
		Reasoning:        buildReasoning(v, tmpl, goal, level, ff, a, targets),
		Meals:            meals,
		RecommendedFoods: recommendedFoods(ff),
		FoodsToAvoid:     foodsToAvoid(a, goal, ff),
		Targets:          targets,
		Tips:             generateAnamnesisTips(*a, nil, p),
	}, nil
}

// recommendedFoods lists the best-ranked allowed foods that serve the goal
// or the variation, alphabetically.
func recommendedFoods(ff foodFilter) []string {
	var pool []food
	for _, fd := range foodCatalog {
		if ff.allowed(fd) && (fd.hasTag(ff.goalTags...) || fd.hasTag(ff.preferTags...)) && !fd.hasTag(ff.avoidTags...) {
			pool = append(pool, fd)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return ff.rank(pool[i]) > ff.rank(pool[j])
	})

	seen := make(map[string]bool)
	out := []string{}
	for _, fd := range pool {
		if len(out) == maxRecommendedFoods {
			break
		}
		if !seen[fd.Name] {
			seen[fd.Name] = true
			out = append(out, fd.Name)
		}
	}
	sort.Strings(out)
	return out
}

// foodsToAvoid lists declared allergies, intolerances and dislikes, then
// condition rules, then goal rules.
func foodsToAvoid(a *anamnesis, goal Goal, ff foodFilter) []avoidItem {
	out := []avoidItem{}
	seen := make(map[string]bool)
	add := func(item avoidItem) {
		key := strings.ToLower(item.Food)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, item)
	}
	for _, s := range a.Allergies {
		add(avoidItem{s, "Declared allergy"})
	}
	for _, s := range a.Intolerances {
		add(avoidItem{s, "Declared intolerance"})
	}
	for _, s := range a.DislikedFoods {
		add(avoidItem{s, "Personal preference"})
	}
	for _, c := range ff.conditions {
		for _, item := range c.Avoid {
			add(item)
		}
	}
	for _, item := range goalAvoid[goal] {
		add(item)
	}
	return out
}

// buildReasoning concatenates the clinical factors behind the plan.
func buildReasoning(v Variation, tmpl variationTemplate, goal Goal, level string, ff foodFilter, a *anamnesis, t NutrientTargets) string {
	parts := []string{
		fmt.Sprintf("Variation %d (%s): %s.", v, tmpl.Name, tmpl.Summary),
		fmt.Sprintf("Goal: %s.", goal.label()),
		fmt.Sprintf("Activity level: %s.", strings.ReplaceAll(level, "_", " ")),
	}
	if ff.preference != "omnivore" {
		parts = append(parts, fmt.Sprintf("Food preference: %s.", ff.preference))
	}
	if len(ff.conditions) > 0 {
		notes := make([]string, len(ff.conditions))
		for i, c := range ff.conditions {
			notes[i] = fmt.Sprintf("%s (%s)", c.Label, c.Note)
		}
		parts = append(parts, "Medical conditions considered: "+strings.Join(notes, "; ")+".")
	}
	var excluded []string
	excluded = append(excluded, a.Allergies...)
	excluded = append(excluded, a.Intolerances...)
	if len(excluded) > 0 {
		parts = append(parts, "Excluded due to allergies/intolerances: "+strings.Join(excluded, ", ")+".")
	}
	if len(a.DislikedFoods) > 0 {
		parts = append(parts, "Disliked foods left out: "+a.DislikedFoods.String()+".")
	}
	if !t.Indeterminate() {
		parts = append(parts, fmt.Sprintf("Daily target: %.0f kcal (protein %.0f g, carbs %.0f g, fat %.0f g).",
			*t.DailyCalories, *t.ProteinG, *t.CarbsG, *t.FatG))
	} else {
		parts = append(parts, "Daily energy target unavailable: weight and height are needed.")
	}
	return strings.Join(parts, " ")
}
