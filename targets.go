package main

import (
	"math"
	"strings"
	"time"
)

// activityMultipliers maps activity level strings to their energy multiplier.
// The activity_level binding validator accepts its keys and activityAliases.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// activityAliases maps the quiz/anamnesis vocabulary onto activityMultipliers keys.
var activityAliases = map[string]string{
	"none":         "sedentary",
	"low":          "light",
	"intense":      "active",
	"high":         "active",
	"very_intense": "very_active",
	"athlete":      "very_active",
}

// normalizeActivityLevel returns the canonical activity key and whether the
// input was recognised. Unknown or empty values fall back to "sedentary".
func normalizeActivityLevel(level string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(level))
	if _, ok := activityMultipliers[key]; ok {
		return key, true
	}
	if alias, ok := activityAliases[key]; ok {
		return alias, true
	}
	return "sedentary", false
}

/* ─── Goals ──────────────────────────────────────────────────────────── */

// Goal is the declared nutrition goal that drives energy adjustment and macro split.
type Goal string

const (
	GoalWeightLoss  Goal = "weight_loss"
	GoalMuscleGain  Goal = "muscle_gain"
	GoalMaintenance Goal = "maintenance"
	GoalHealth      Goal = "health"
)

var goalAliases = map[string]Goal{
	"weight_loss":   GoalWeightLoss,
	"lose_weight":   GoalWeightLoss,
	"fat_loss":      GoalWeightLoss,
	"muscle_gain":   GoalMuscleGain,
	"gain_muscle":   GoalMuscleGain,
	"hypertrophy":   GoalMuscleGain,
	"maintenance":   GoalMaintenance,
	"maintain":      GoalMaintenance,
	"health":        GoalHealth,
	"wellness":      GoalHealth,
	"better_habits": GoalHealth,
}

// parseGoal maps free-form goal strings onto a Goal. ok is false for empty or
// unknown input.
func parseGoal(s string) (Goal, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	g, ok := goalAliases[key]
	return g, ok
}

// label returns the human-readable goal name used in reasoning strings.
func (g Goal) label() string {
	switch g {
	case GoalWeightLoss:
		return "weight loss"
	case GoalMuscleGain:
		return "muscle gain"
	case GoalHealth:
		return "health and well-being"
	default:
		return "weight maintenance"
	}
}

// goalEnergyFactor adjusts maintenance energy: deficit for weight loss,
// surplus for muscle gain. Multiplicative so targets stay monotonic in weight.
var goalEnergyFactor = map[Goal]float64{
	GoalWeightLoss:  0.80,
	GoalMuscleGain:  1.15,
	GoalMaintenance: 1.0,
	GoalHealth:      1.0,
}

// macroSplit is the share of daily energy per macronutrient.
type macroSplit struct {
	Protein, Carbs, Fat float64
}

var goalMacroSplit = map[Goal]macroSplit{
	GoalWeightLoss: {Protein: 0.30, Carbs: 0.40, Fat: 0.30},
	GoalMuscleGain: {Protein: 0.35, Carbs: 0.40, Fat: 0.25},
}

var defaultMacroSplit = macroSplit{Protein: 0.20, Carbs: 0.50, Fat: 0.30}

const (
	defaultAgeYears   = 30
	minCaloriesFemale = 1200.0
	minCaloriesMale   = 1500.0
	kcalPerGProtein   = 4.0
	kcalPerGCarbs     = 4.0
	kcalPerGFat       = 9.0
)

/* ─── Snapshot & targets ─────────────────────────────────────────────── */

// AnthropometricSnapshot is one set of body measurements. Optional fields are
// pointers so that "not measured" is distinguishable from zero.
type AnthropometricSnapshot struct {
	WeightKG      *float64 `json:"weight_kg"`
	HeightCM      *float64 `json:"height_cm"`
	WaistCM       *float64 `json:"waist_cm,omitempty"`
	HipCM         *float64 `json:"hip_cm,omitempty"`
	BodyFatPct    *float64 `json:"body_fat_pct,omitempty"`
	Sex           *string  `json:"sex,omitempty"`
	AgeYears      *int     `json:"age_years,omitempty"`
	ActivityLevel *string  `json:"activity_level,omitempty"`
}

// NutrientTargets are daily targets derived from a snapshot. All fields are
// nil when the snapshot lacks weight or height ("insufficient data").
type NutrientTargets struct {
	BMI           *float64 `json:"bmi"`
	BMIClass      *string  `json:"bmi_class"`
	DailyCalories *float64 `json:"daily_calories"`
	ProteinG      *float64 `json:"protein_g"`
	CarbsG        *float64 `json:"carbs_g"`
	FatG          *float64 `json:"fat_g"`
}

// Indeterminate reports whether the targets could not be computed.
func (t NutrientTargets) Indeterminate() bool {
	return t.DailyCalories == nil
}

// computeBMI returns weight / height² at full precision. Callers round with
// round1 for display only; classification uses the unrounded value.
func computeBMI(weightKG, heightCM float64) float64 {
	if weightKG <= 0 || heightCM <= 0 {
		return 0
	}
	m := heightCM / 100
	return weightKG / (m * m)
}

// BMI classification bands.
const (
	BMIUnderweight = "underweight"
	BMINormal      = "normal"
	BMIOverweight  = "overweight"
	BMIObesity     = "obesity"
)

// classifyBMI maps a BMI value onto its band.
func classifyBMI(bmi float64) string {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	default:
		return BMIObesity
	}
}

// computeTargets derives BMI, daily energy (Mifflin-St Jeor × activity × goal
// factor) and a goal-dependent macro split. Returns the all-nil sentinel when
// weight or height is missing or non-positive.
func computeTargets(s AnthropometricSnapshot, goal Goal) NutrientTargets {
	if s.WeightKG == nil || s.HeightCM == nil || *s.WeightKG <= 0 || *s.HeightCM <= 0 {
		return NutrientTargets{}
	}
	weight, height := *s.WeightKG, *s.HeightCM

	bmi := computeBMI(weight, height)
	class := classifyBMI(bmi)

	age := defaultAgeYears
	if s.AgeYears != nil && *s.AgeYears > 0 && *s.AgeYears <= 130 {
		age = *s.AgeYears
	}

	// BMR via Mifflin-St Jeor; unknown sex uses the midpoint of the two constants
	sex := ""
	if s.Sex != nil {
		sex = normalizeSex(*s.Sex)
	}
	bmr := 10*weight + 6.25*height - 5*float64(age)
	minCalories := minCaloriesFemale
	switch sex {
	case "male":
		bmr += 5
		minCalories = minCaloriesMale
	case "female":
		bmr -= 161
	default:
		bmr -= 78
	}

	level := ""
	if s.ActivityLevel != nil {
		level = *s.ActivityLevel
	}
	key, _ := normalizeActivityLevel(level)
	tdee := bmr * activityMultipliers[key]

	factor, ok := goalEnergyFactor[goal]
	if !ok {
		factor = 1.0
	}
	calories := math.Max(tdee*factor, minCalories)

	split, ok := goalMacroSplit[goal]
	if !ok {
		split = defaultMacroSplit
	}

	bmiR := round1(bmi)
	cal := math.Round(calories)
	protein := math.Round(calories * split.Protein / kcalPerGProtein)
	carbs := math.Round(calories * split.Carbs / kcalPerGCarbs)
	fat := math.Round(calories * split.Fat / kcalPerGFat)
	return NutrientTargets{
		BMI:           &bmiR,
		BMIClass:      &class,
		DailyCalories: &cal,
		ProteinG:      &protein,
		CarbsG:        &carbs,
		FatG:          &fat,
	}
}

/* ─── Risk ratios & bands ────────────────────────────────────────────── */

// normalizeSex returns "male", "female" or "" for anything else.
func normalizeSex(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "man":
		return "male"
	case "female", "f", "woman":
		return "female"
	}
	return ""
}

// waistHipRatio returns waist/hip; ok=false when either measure is missing.
func waistHipRatio(waistCM, hipCM *float64) (float64, bool) {
	if waistCM == nil || hipCM == nil || *waistCM <= 0 || *hipCM <= 0 {
		return 0, false
	}
	return *waistCM / *hipCM, true
}

// waistHipRiskThreshold is the ratio above which cardiometabolic risk is elevated.
func waistHipRiskThreshold(sex string) (float64, bool) {
	switch sex {
	case "female":
		return 0.85, true
	case "male":
		return 0.90, true
	}
	return 0, false
}

// Body-fat bands.
const (
	BodyFatLow     = "low"
	BodyFatHealthy = "healthy"
	BodyFatHigh    = "high"
)

// bodyFatBand classifies a body-fat percentage with sex-specific thresholds.
// ok=false when sex is unknown.
func bodyFatBand(pct float64, sex string) (string, bool) {
	var low, high float64
	switch sex {
	case "female":
		low, high = 14, 32
	case "male":
		low, high = 6, 25
	default:
		return "", false
	}
	switch {
	case pct < low:
		return BodyFatLow, true
	case pct > high:
		return BodyFatHigh, true
	default:
		return BodyFatHealthy, true
	}
}

// healthyWeightRange returns the weight interval matching BMI 18.5–24.9.
func healthyWeightRange(heightCM float64) (lo, hi float64) {
	m := heightCM / 100
	return round1(18.5 * m * m), round1(24.9 * m * m)
}

/* ─── Helpers ────────────────────────────────────────────────────────── */

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ageAt returns whole years between dob and the reference date; ok=false when
// the result is implausible (DOB in the future or over 130 years ago).
func ageAt(dob, ref time.Time) (int, bool) {
	age := ref.Year() - dob.Year()
	if ref.Before(dob.AddDate(age, 0, 0)) {
		age--
	}
	if age < 0 || age > 130 {
		return 0, false
	}
	return age, true
}

// daysSince returns whole days from start to ref, or nil if start is after ref.
// ref is passed in so callers control the clock.
func daysSince(start, ref time.Time) *int {
	d := int(ref.Truncate(24*time.Hour).Sub(start.Truncate(24*time.Hour)).Hours() / 24)
	if d < 0 {
		return nil
	}
	return &d
}
