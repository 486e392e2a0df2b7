package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tipCategories(tips []Tip) []string {
	out := make([]string, len(tips))
	for i, t := range tips {
		out[i] = t.Category
	}
	return out
}

func femaleProfile() patientProfile {
	return patientProfile{Name: "Ana Lima", Sex: "female", AgeYears: ptr(40), HeightCM: ptr(165.0)}
}

/* ─── Assessment tips ────────────────────────────────────────────────── */

// TestAssessmentTips_WeightLoss checks the 70 kg → 68 kg follow-up.
func TestAssessmentTips_WeightLoss(t *testing.T) {
	prev := &physicalAssessment{WeightKG: ptr(70.0)}
	cur := physicalAssessment{WeightKG: ptr(68.0)}

	tips := generateAssessmentTips(cur, prev, femaleProfile())

	var found bool
	for _, tip := range tips {
		if strings.Contains(tip.Content, "lost 2.0 kg") {
			found = true
			assert.Equal(t, categoryProgress, tip.Category)
		}
	}
	assert.True(t, found, "expected a ~2 kg loss tip, got %+v", tips)
}

func TestAssessmentTips_WeightGain(t *testing.T) {
	tips := generateAssessmentTips(
		physicalAssessment{WeightKG: ptr(72.0)},
		&physicalAssessment{WeightKG: ptr(70.0)},
		femaleProfile())

	require.GreaterOrEqual(t, len(tips), 2)
	assert.Contains(t, tips[1].Content, "went up 2.0 kg")
}

// TestAssessmentTips_SmallChangeIsSilent verifies a change within ±1 kg emits
// no weight tip, and the goal-distance tip is not used as a substitute.
func TestAssessmentTips_SmallChangeIsSilent(t *testing.T) {
	p := femaleProfile()
	p.GoalWeightKG = ptr(60.0)
	tips := generateAssessmentTips(
		physicalAssessment{WeightKG: ptr(69.5)},
		&physicalAssessment{WeightKG: ptr(70.0)},
		p)

	assert.NotContains(t, tipCategories(tips), categoryProgress)
}

// TestAssessmentTips_FirstAssessment verifies rule order and that no tip
// talks about a change when there is no previous record.
func TestAssessmentTips_FirstAssessment(t *testing.T) {
	p := femaleProfile()
	p.GoalWeightKG = ptr(65.0)
	p.DaysSincePlanStart = ptr(10)
	cur := physicalAssessment{
		WeightKG:    ptr(80.0),
		WaistCM:     ptr(90.0),
		HipCM:       ptr(100.0),
		BodyFatPct:  ptr(35.0),
		SystolicBP:  ptr(145),
		DiastolicBP: ptr(95),
	}

	tips := generateAssessmentTips(cur, nil, p)

	require.Len(t, tips, 6)
	assert.Equal(t, []string{
		categoryBody,       // BMI 29.4
		categoryProgress,   // 15 kg above goal
		categoryBody,       // body fat band
		categoryRisk,       // waist-hip 0.90 > 0.85
		categoryRisk,       // 145/95
		categoryMotivation, // closing
	}, tipCategories(tips))
	assert.Equal(t, "Your BMI indicates overweight", tips[0].Title)
	assert.Contains(t, tips[1].Content, "15.0 kg above your goal")

	for _, tip := range tips {
		assert.NotContains(t, tip.Content, "since your last")
	}
}

// TestAssessmentTips_NoPreviousNeverMentionsChange runs a spread of first
// assessments through the generator.
func TestAssessmentTips_NoPreviousNeverMentionsChange(t *testing.T) {
	for _, w := range []float64{45, 60, 75, 90, 120} {
		for _, bf := range []float64{10, 25, 40} {
			p := femaleProfile()
			p.GoalWeightKG = ptr(62.0)
			tips := generateAssessmentTips(physicalAssessment{WeightKG: &w, BodyFatPct: &bf}, nil, p)
			for _, tip := range tips {
				for _, word := range []string{"since your last", "lost", "went up", "dropped", "rose"} {
					assert.NotContains(t, tip.Content, word)
				}
			}
		}
	}
}

// TestAssessmentTips_BodyFatOneTip verifies the trend replaces the band tip.
func TestAssessmentTips_BodyFatOneTip(t *testing.T) {
	tips := generateAssessmentTips(
		physicalAssessment{BodyFatPct: ptr(34.0)},
		&physicalAssessment{BodyFatPct: ptr(36.0)},
		femaleProfile())

	require.Len(t, tips, 2)
	assert.Contains(t, tips[0].Content, "dropped 2.0 percentage points")
	assert.Equal(t, categoryMotivation, tips[1].Category)
}

func TestAssessmentTips_EmptyRecord(t *testing.T) {
	tips := generateAssessmentTips(physicalAssessment{}, nil, patientProfile{})
	require.Len(t, tips, 1)
	assert.Equal(t, "Keep going!", tips[0].Title)
}

// TestAssessmentTips_HeightFromProfile verifies BMI uses the profile height
// when the assessment has none.
func TestAssessmentTips_HeightFromProfile(t *testing.T) {
	tips := generateAssessmentTips(physicalAssessment{WeightKG: ptr(60.0)}, nil, femaleProfile())
	require.NotEmpty(t, tips)
	assert.Equal(t, "Your BMI is in the healthy range", tips[0].Title)
}

// TestBloodPressureTip_PartialReading verifies a missing value is left out
// of the reading instead of printed as zero.
func TestBloodPressureTip_PartialReading(t *testing.T) {
	cases := []struct {
		name    string
		cur     physicalAssessment
		title   string
		reading string
	}{
		{"both", physicalAssessment{SystolicBP: ptr(145), DiastolicBP: ptr(95)}, "High blood pressure", "(145/95 mmHg)"},
		{"systolic only", physicalAssessment{SystolicBP: ptr(150)}, "High blood pressure", "(systolic 150 mmHg)"},
		{"diastolic only", physicalAssessment{DiastolicBP: ptr(87)}, "Blood pressure slightly elevated", "(diastolic 87 mmHg)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tip := bloodPressureTip(&tc.cur, nil, patientProfile{})
			require.NotNil(t, tip)
			assert.Equal(t, tc.title, tip.Title)
			assert.Contains(t, tip.Content, tc.reading)
			assert.NotContains(t, tip.Content, "/0 ")
		})
	}

	assert.Nil(t, bloodPressureTip(&physicalAssessment{}, nil, patientProfile{}))
}

/* ─── Motivational tip ───────────────────────────────────────────────── */

func TestMotivationalTip(t *testing.T) {
	cases := []struct {
		days *int
		want string
	}{
		{nil, "Consistency matters"},
		{ptr(0), "0 days into your plan"},
		{ptr(45), "45 days of dedication"},
		{ptr(200), "200 days on your plan"},
	}
	for _, tc := range cases {
		p := patientProfile{Name: "Maria Souza", DaysSincePlanStart: tc.days}
		tip := motivationalTip(p)
		assert.Equal(t, "Keep going, Maria!", tip.Title)
		assert.Contains(t, tip.Content, tc.want)
	}
}

/* ─── Anamnesis tips ─────────────────────────────────────────────────── */

// TestAnamnesisTips_AllRules fires every anamnesis rule once, in order.
func TestAnamnesisTips_AllRules(t *testing.T) {
	a := anamnesis{
		WaterIntakeL:     ptr(1.2),
		SleepHours:       ptr(6.0),
		MealsPerDay:      ptr(2),
		BowelFunction:    ptr("Constipated"),
		ActivityLevel:    ptr("sedentary"),
		AlcoholFrequency: ptr("daily"),
		Smoker:           ptr(true),
		StressLevel:      ptr("high"),
	}
	p := femaleProfile()
	p.WeightKG = ptr(72.0)

	tips := generateAnamnesisTips(a, nil, p)

	assert.Equal(t, []string{
		categoryHydration,
		categorySleep,
		categoryHabits,   // meals
		categoryHabits,   // bowel
		categoryActivity, // sedentary
		categoryHabits,   // alcohol
		categoryRisk,     // smoking
		categoryHabits,   // stress
		categoryMotivation,
	}, tipCategories(tips))
	// 72 kg * 35 ml = 2.52 L
	assert.Contains(t, tips[0].Content, "Aim for 2.5 L")
}

// TestAnamnesisTips_Improvements verifies comparison with the previous version.
func TestAnamnesisTips_Improvements(t *testing.T) {
	prev := &anamnesis{WaterIntakeL: ptr(1.5), SleepHours: ptr(6.5)}
	cur := anamnesis{WaterIntakeL: ptr(2.5), SleepHours: ptr(8.0)}

	tips := generateAnamnesisTips(cur, prev, femaleProfile())

	require.Len(t, tips, 3)
	assert.Contains(t, tips[0].Content, "increased your water intake by 1.0 L")
	assert.Contains(t, tips[1].Content, "1.5 hours more")

	// same record without history: nothing to praise
	tips = generateAnamnesisTips(cur, nil, femaleProfile())
	assert.Len(t, tips, 1)
}

func TestAnamnesisTips_Empty(t *testing.T) {
	tips := generateAnamnesisTips(anamnesis{}, nil, patientProfile{})
	require.Len(t, tips, 1)
	assert.Equal(t, categoryMotivation, tips[0].Category)
}
