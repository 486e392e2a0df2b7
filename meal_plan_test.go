package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeAnamnesis returns a minimal valid anamnesis: goal and activity only.
func makeAnamnesis(goal, activity string) *anamnesis {
	return &anamnesis{Goal: &goal, ActivityLevel: &activity}
}

func makeProfile() patientProfile {
	return patientProfile{
		Name:     "Maria Souza",
		Sex:      "female",
		AgeYears: ptr(34),
		HeightCM: ptr(165.0),
		WeightKG: ptr(72.0),
	}
}

var allVariations = []Variation{
	VariationClassic, VariationPractical, VariationHighProtein,
	VariationLowCarb, VariationMediterranean, VariationFitness,
}

// planFoods flattens every food of every meal.
func planFoods(p MealPlan) []string {
	var out []string
	for _, m := range p.Meals {
		out = append(out, m.Foods...)
	}
	return out
}

// catalogNamesWithTag lists catalog foods carrying any of the tags.
func catalogNamesWithTag(tags ...string) map[string]bool {
	out := map[string]bool{}
	for _, fd := range foodCatalog {
		if fd.hasTag(tags...) {
			out[fd.Name] = true
		}
	}
	return out
}

/* ─── Prerequisites ──────────────────────────────────────────────────── */

// TestComposeMealPlan_MissingPrerequisite verifies the only rejection path.
func TestComposeMealPlan_MissingPrerequisite(t *testing.T) {
	cases := []struct {
		name      string
		anamnesis *anamnesis
		field     string
	}{
		{"no anamnesis", nil, "anamnesis"},
		{"no goal", &anamnesis{ActivityLevel: ptr("light")}, "goal"},
		{"blank goal", &anamnesis{Goal: ptr("  "), ActivityLevel: ptr("light")}, "goal"},
		{"no activity indicator", &anamnesis{Goal: ptr("weight_loss")}, "activity_level"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := composeMealPlan(tc.anamnesis, makeProfile(), VariationClassic)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingPrerequisite))

			var mp *missingPrerequisiteError
			require.True(t, errors.As(err, &mp))
			assert.Equal(t, tc.field, mp.Field)
		})
	}
}

// TestComposeMealPlan_ExerciseFrequencyIsActivity verifies that exercise
// frequency alone satisfies the activity prerequisite.
func TestComposeMealPlan_ExerciseFrequencyIsActivity(t *testing.T) {
	a := &anamnesis{Goal: ptr("muscle_gain"), ExerciseFrequency: ptr("3_4_week")}
	plan, err := composeMealPlan(a, makeProfile(), VariationFitness)
	require.NoError(t, err)
	assert.Contains(t, plan.Reasoning, "Activity level: moderate.")
}

// TestComposeMealPlan_UnknownGoal verifies that an unrecognised goal is
// treated as maintenance rather than rejected.
func TestComposeMealPlan_UnknownGoal(t *testing.T) {
	plan, err := composeMealPlan(makeAnamnesis("feel lighter", "light"), makeProfile(), VariationClassic)
	require.NoError(t, err)
	assert.Contains(t, plan.Reasoning, "Goal: weight maintenance.")
}

/* ─── Determinism & variations ───────────────────────────────────────── */

// TestComposeMealPlan_Deterministic verifies identical inputs give
// byte-identical JSON.
func TestComposeMealPlan_Deterministic(t *testing.T) {
	a := makeAnamnesis("weight_loss", "moderate")
	a.Allergies = StringList{"shrimp"}
	a.MedicalConditions = StringList{"Hypertension"}

	for _, v := range allVariations {
		first, err := composeMealPlan(a, makeProfile(), v)
		require.NoError(t, err)
		second, err := composeMealPlan(a, makeProfile(), v)
		require.NoError(t, err)

		b1, _ := json.Marshal(first)
		b2, _ := json.Marshal(second)
		assert.Equal(t, string(b1), string(b2), "variation %d", v)
	}
}

// TestComposeMealPlan_Variations verifies each id selects its own template
// and out-of-range ids fall back to Classic.
func TestComposeMealPlan_Variations(t *testing.T) {
	a := makeAnamnesis("health", "light")
	for _, v := range allVariations {
		plan, err := composeMealPlan(a, makeProfile(), v)
		require.NoError(t, err)
		assert.Equal(t, v, plan.Variation)
		assert.Equal(t, variationTemplates[v].Name, plan.VariationName)
		assert.Len(t, plan.Meals, len(variationTemplates[v].Slots))
	}

	for _, v := range []Variation{0, -1, 7, 99} {
		plan, err := composeMealPlan(a, makeProfile(), v)
		require.NoError(t, err)
		assert.Equal(t, VariationClassic, plan.Variation)
		assert.Equal(t, "Classic", plan.VariationName)
	}
}

// TestComposeMealPlan_NoEmptyMeals verifies every meal has at least one food
// and meals are marked editable.
func TestComposeMealPlan_NoEmptyMeals(t *testing.T) {
	a := makeAnamnesis("weight_loss", "sedentary")
	a.FoodPreference = ptr("vegan")
	a.Allergies = StringList{"peanut", "soy", "nuts", "gluten"}
	for _, v := range allVariations {
		plan, err := composeMealPlan(a, makeProfile(), v)
		require.NoError(t, err)
		for _, m := range plan.Meals {
			assert.NotEmpty(t, m.Foods, "variation %d meal %s", v, m.ID)
			assert.True(t, m.Editable)
			for _, f := range m.Foods {
				assert.NotEmpty(t, f)
			}
		}
	}
}

// TestComposeMealPlan_NoRepeatsWhenPoolAllows verifies a food is not served
// twice in one day when there are unused alternatives.
func TestComposeMealPlan_NoRepeatsWhenPoolAllows(t *testing.T) {
	for _, v := range allVariations {
		plan, err := composeMealPlan(makeAnamnesis("maintenance", "moderate"), makeProfile(), v)
		require.NoError(t, err)

		seen := map[string]bool{}
		for _, f := range planFoods(plan) {
			assert.False(t, seen[f], "variation %d repeats %q", v, f)
			seen[f] = true
		}
	}
}

/* ─── Exclusions ─────────────────────────────────────────────────────── */

// TestComposeMealPlan_PeanutAllergy verifies no meal of any variation
// contains peanut, and neither does recommendedFoods.
func TestComposeMealPlan_PeanutAllergy(t *testing.T) {
	for _, form := range []StringList{{"peanut"}, {"Peanut", "shellfish"}, parseStringList(" PEANUT , ")} {
		a := makeAnamnesis("muscle_gain", "active")
		a.Allergies = form
		for _, v := range allVariations {
			plan, err := composeMealPlan(a, makeProfile(), v)
			require.NoError(t, err)
			for _, f := range planFoods(plan) {
				assert.NotContains(t, strings.ToLower(f), "peanut", "variation %d", v)
				assert.NotEqual(t, "Trail mix", f)
			}
			for _, f := range plan.RecommendedFoods {
				assert.NotContains(t, strings.ToLower(f), "peanut")
			}
			require.NotEmpty(t, plan.FoodsToAvoid)
			assert.Equal(t, avoidItem{Food: a.Allergies[0], Reason: "Declared allergy"}, plan.FoodsToAvoid[0])
		}
	}
}

// TestComposeMealPlan_Vegan verifies the diet is a hard filter.
func TestComposeMealPlan_Vegan(t *testing.T) {
	a := makeAnamnesis("health", "light")
	a.FoodPreference = ptr("vegan")
	forbidden := catalogNamesWithTag("meat", "fish", "shellfish", "seafood", "egg", "dairy", "honey")

	for _, v := range allVariations {
		plan, err := composeMealPlan(a, makeProfile(), v)
		require.NoError(t, err)
		for _, f := range append(planFoods(plan), plan.RecommendedFoods...) {
			assert.False(t, forbidden[f], "variation %d serves %q to a vegan", v, f)
		}
		assert.Contains(t, plan.Reasoning, "Food preference: vegan.")
	}
}

// TestComposeMealPlan_Vegetarian keeps eggs and dairy but no meat or fish.
func TestComposeMealPlan_Vegetarian(t *testing.T) {
	a := makeAnamnesis("muscle_gain", "active")
	a.FoodPreference = ptr("vegetarian")
	forbidden := catalogNamesWithTag("meat", "fish", "shellfish", "seafood")

	plan, err := composeMealPlan(a, makeProfile(), VariationHighProtein)
	require.NoError(t, err)
	for _, f := range planFoods(plan) {
		assert.False(t, forbidden[f], f)
	}
}

// TestComposeMealPlan_NeutralFallback empties the beverage pool so the slot
// uses the neutral default, then excludes that too.
func TestComposeMealPlan_NeutralFallback(t *testing.T) {
	a := makeAnamnesis("maintenance", "light")
	a.DislikedFoods = StringList{"tea", "coffee", "lemon"}

	plan, err := composeMealPlan(a, makeProfile(), VariationClassic)
	require.NoError(t, err)
	supper := plan.Meals[len(plan.Meals)-1]
	require.Equal(t, "supper", supper.ID)
	assert.Equal(t, []string{"Water"}, supper.Foods)

	a.DislikedFoods = StringList{"tea", "coffee", "water"}
	plan, err = composeMealPlan(a, makeProfile(), VariationClassic)
	require.NoError(t, err)
	supper = plan.Meals[len(plan.Meals)-1]
	assert.Equal(t, []string{undefinedPortion}, supper.Foods)
}

// TestFoodFilter_Intolerance verifies term expansion and the "-free" exception.
func TestFoodFilter_Intolerance(t *testing.T) {
	a := makeAnamnesis("health", "light")
	a.Intolerances = StringList{"Lactose"}
	ff := newFoodFilter(a, GoalHealth, variationTemplates[VariationClassic])

	byName := map[string]food{}
	for _, fd := range foodCatalog {
		byName[fd.Name] = fd
	}
	assert.False(t, ff.allowed(byName["Natural yogurt"]))
	assert.False(t, ff.allowed(byName["Whey protein shake"]))
	assert.True(t, ff.allowed(byName["Lactose-free yogurt"]))
	assert.True(t, ff.allowed(byName["Fortified soy drink"]))
}

// TestFoodFilter_WholeWordTerms verifies declared terms match tags and names
// on whole words only, with simple plurals.
func TestFoodFilter_WholeWordTerms(t *testing.T) {
	byName := map[string]food{}
	for _, fd := range foodCatalog {
		byName[fd.Name] = fd
	}

	cases := []struct {
		name     string
		set      func(a *anamnesis)
		rejected []string
		kept     []string
	}{
		{
			name:     "shellfish allergy keeps fish",
			set:      func(a *anamnesis) { a.Allergies = StringList{"shellfish"} },
			rejected: []string{"Shrimp sautéed in olive oil"},
			kept:     []string{"Baked salmon", "Grilled tilapia", "Tuna in water", "Sardines"},
		},
		{
			name:     "eggplant dislike keeps eggs",
			set:      func(a *anamnesis) { a.DislikedFoods = StringList{"eggplant"} },
			rejected: []string{"Roasted eggplant with olive oil"},
			kept:     []string{"Boiled eggs", "Scrambled eggs"},
		},
		{
			name:     "egg dislike keeps eggplant",
			set:      func(a *anamnesis) { a.DislikedFoods = StringList{"egg"} },
			rejected: []string{"Boiled eggs", "Scrambled eggs"},
			kept:     []string{"Roasted eggplant with olive oil"},
		},
		{
			name:     "plural term hits singular tag",
			set:      func(a *anamnesis) { a.Allergies = StringList{"peanuts"} },
			rejected: []string{"Peanut butter", "Trail mix", "Whole-grain toast with peanut butter"},
			kept:     []string{"Mixed nuts"},
		},
		{
			name:     "multi-word plural term",
			set:      func(a *anamnesis) { a.Allergies = StringList{"tree nuts"} },
			rejected: []string{"Mixed nuts", "Brazil nuts", "Granola with honey"},
			kept:     []string{"Peanut butter"},
		},
		{
			name:     "singular term hits -ies name",
			set:      func(a *anamnesis) { a.DislikedFoods = StringList{"strawberry"} },
			rejected: []string{"Strawberries"},
			kept:     []string{"Mixed berries"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := makeAnamnesis("health", "light")
			tc.set(a)
			ff := newFoodFilter(a, GoalHealth, variationTemplates[VariationClassic])
			for _, n := range tc.rejected {
				require.Contains(t, byName, n)
				assert.False(t, ff.allowed(byName[n]), n)
			}
			for _, n := range tc.kept {
				require.Contains(t, byName, n)
				assert.True(t, ff.allowed(byName[n]), n)
			}
		})
	}
}

// TestComposeMealPlan_ShellfishAllergyKeepsFish verifies the Mediterranean
// plan still serves fish when only shellfish is declared.
func TestComposeMealPlan_ShellfishAllergyKeepsFish(t *testing.T) {
	a := makeAnamnesis("health", "moderate")
	a.Allergies = StringList{"shellfish"}
	fish := catalogNamesWithTag("fish")

	plan, err := composeMealPlan(a, makeProfile(), VariationMediterranean)
	require.NoError(t, err)

	var served bool
	for _, f := range planFoods(plan) {
		assert.NotEqual(t, "Shrimp sautéed in olive oil", f)
		served = served || fish[f]
	}
	assert.True(t, served, "expected a fish dish, got %v", planFoods(plan))
}

// TestComposeMealPlan_MedicalConditions verifies condition exclusions and
// that the avoid list and reasoning reflect them.
func TestComposeMealPlan_MedicalConditions(t *testing.T) {
	a := makeAnamnesis("weight_loss", "light")
	a.MedicalConditions = StringList{"Type 2 diabetes", "gastritis"}
	forbidden := catalogNamesWithTag("sugar", "acidic", "caffeine")

	for _, v := range allVariations {
		plan, err := composeMealPlan(a, makeProfile(), v)
		require.NoError(t, err)
		for _, f := range planFoods(plan) {
			assert.False(t, forbidden[f], "variation %d serves %q", v, f)
		}
		assert.Contains(t, plan.Reasoning, "diabetes")
		assert.Contains(t, plan.Reasoning, "gastritis/reflux")
		assert.Contains(t, plan.FoodsToAvoid, avoidItem{"Added sugar and sweets", "Blood glucose control"})
		assert.Contains(t, plan.FoodsToAvoid, avoidItem{"Sugary drinks", "Empty calories"})
	}
}

/* ─── Outputs ────────────────────────────────────────────────────────── */

// TestComposeMealPlan_RecommendedFoodsSorted verifies the list is sorted and
// drawn only from allowed foods.
func TestComposeMealPlan_RecommendedFoodsSorted(t *testing.T) {
	a := makeAnamnesis("weight_loss", "light")
	a.Intolerances = StringList{"gluten"}
	plan, err := composeMealPlan(a, makeProfile(), VariationMediterranean)
	require.NoError(t, err)

	require.NotEmpty(t, plan.RecommendedFoods)
	assert.LessOrEqual(t, len(plan.RecommendedFoods), maxRecommendedFoods)
	assert.IsNonDecreasing(t, plan.RecommendedFoods)
	gluten := catalogNamesWithTag("gluten")
	for _, f := range plan.RecommendedFoods {
		assert.False(t, gluten[f], f)
	}
}

// TestComposeMealPlan_Targets verifies targets are attached when the profile
// has weight and height, and reported unavailable otherwise.
func TestComposeMealPlan_Targets(t *testing.T) {
	a := makeAnamnesis("weight_loss", "light")

	plan, err := composeMealPlan(a, makeProfile(), VariationClassic)
	require.NoError(t, err)
	require.False(t, plan.Targets.Indeterminate())
	assert.Contains(t, plan.Reasoning, "Daily target:")

	p := makeProfile()
	p.WeightKG = nil
	plan, err = composeMealPlan(a, p, VariationClassic)
	require.NoError(t, err)
	assert.True(t, plan.Targets.Indeterminate())
	assert.Contains(t, plan.Reasoning, "Daily energy target unavailable")
}

// TestComposeMealPlan_TipsEndWithMotivation verifies the plan carries
// anamnesis tips closed by the motivational tip.
func TestComposeMealPlan_TipsEndWithMotivation(t *testing.T) {
	a := makeAnamnesis("weight_loss", "sedentary")
	a.WaterIntakeL = ptr(1.0)

	plan, err := composeMealPlan(a, makeProfile(), VariationPractical)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(plan.Tips), 3)
	assert.Equal(t, categoryHydration, plan.Tips[0].Category)
	assert.Equal(t, categoryMotivation, plan.Tips[len(plan.Tips)-1].Category)
}
