package main

import (
	"fmt"
	"math"
	"strings"
)

// Tip is one short personalized recommendation for the patient feed.
type Tip struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// tipKind names the record a tip batch was generated from.
type tipKind string

const (
	tipKindAssessment tipKind = "assessment"
	tipKindAnamnesis  tipKind = "anamnesis"
)

// Tip categories.
const (
	categoryBody       = "body_composition"
	categoryProgress   = "progress"
	categoryRisk       = "health_risk"
	categoryHydration  = "hydration"
	categorySleep      = "sleep"
	categoryHabits     = "habits"
	categoryActivity   = "physical_activity"
	categoryMotivation = "motivation"
)

// Delta thresholds for trend rules.
const (
	weightDeltaKG     = 1.0
	bodyFatDeltaPts   = 1.0
	waterIncreaseL    = 0.5
	sleepImprovementH = 1.0
	minWaterL         = 2.0
	minSleepHours     = 7.0
	minMealsPerDay    = 3
	waterMLPerKG      = 35.0
)

/* ─── Assessment tips ────────────────────────────────────────────────── */

// assessmentRule emits at most one tip. prev is nil for a first assessment.
type assessmentRule func(cur, prev *physicalAssessment, p patientProfile) *Tip

// assessmentRules run in priority order: primary metric, trends, risk ratios.
var assessmentRules = []assessmentRule{
	bmiTip,
	weightTip,
	bodyFatTip,
	waistHipTip,
	bloodPressureTip,
}

func bmiTip(cur, _ *physicalAssessment, p patientProfile) *Tip {
	s := cur.snapshot(p)
	if s.WeightKG == nil || s.HeightCM == nil {
		return nil
	}
	bmi := computeBMI(*s.WeightKG, *s.HeightCM)
	if bmi == 0 {
		return nil
	}
	lo, hi := healthyWeightRange(*s.HeightCM)
	switch classifyBMI(bmi) {
	case BMIUnderweight:
		return &Tip{"Your BMI is below the healthy range",
			fmt.Sprintf("Your BMI is %.1f. For your height a healthy weight is between %.1f and %.1f kg. Include nutrient-dense snacks between meals.", bmi, lo, hi),
			categoryBody}
	case BMINormal:
		return &Tip{"Your BMI is in the healthy range",
			fmt.Sprintf("Your BMI is %.1f. Keep your current habits to stay between %.1f and %.1f kg.", bmi, lo, hi),
			categoryBody}
	case BMIOverweight:
		return &Tip{"Your BMI indicates overweight",
			fmt.Sprintf("Your BMI is %.1f. Small consistent changes, like swapping refined carbs for whole grains, help you move towards %.1f kg.", bmi, hi),
			categoryBody}
	default:
		return &Tip{"Your BMI indicates obesity",
			fmt.Sprintf("Your BMI is %.1f. Follow your meal plan closely and keep your follow-up appointments; every kilogram counts for your health.", bmi),
			categoryBody}
	}
}

// weightTip compares against the previous assessment when there is one and
// otherwise reports the distance to the goal weight. Never both.
func weightTip(cur, prev *physicalAssessment, p patientProfile) *Tip {
	if cur.WeightKG == nil {
		return nil
	}
	w := *cur.WeightKG
	if prev != nil && prev.WeightKG != nil {
		delta := w - *prev.WeightKG
		switch {
		case delta < -weightDeltaKG:
			return &Tip{"Great progress!",
				fmt.Sprintf("You lost %.1f kg since your last assessment. Keep following your plan.", -delta),
				categoryProgress}
		case delta > weightDeltaKG:
			return &Tip{"Let's get back on track",
				fmt.Sprintf("Your weight went up %.1f kg since your last assessment. Review portion sizes and evening snacks with your nutritionist.", delta),
				categoryProgress}
		}
		return nil
	}
	if p.GoalWeightKG == nil {
		return nil
	}
	gap := w - *p.GoalWeightKG
	switch {
	case math.Abs(gap) < 0.5:
		return &Tip{"You are at your goal weight",
			"Focus now on maintaining your weight with balanced meals and regular activity.",
			categoryProgress}
	case gap > 0:
		return &Tip{"Your goal is within reach",
			fmt.Sprintf("You are %.1f kg above your goal weight of %.1f kg. A steady pace of 0.5 to 1 kg per week is ideal.", gap, *p.GoalWeightKG),
			categoryProgress}
	default:
		return &Tip{"Building towards your goal",
			fmt.Sprintf("You are %.1f kg below your goal weight of %.1f kg. Make sure every meal includes a protein source.", -gap, *p.GoalWeightKG),
			categoryProgress}
	}
}

// bodyFatTip reports the trend when a previous value exists and the change
// is meaningful; otherwise the sex-specific band.
func bodyFatTip(cur, prev *physicalAssessment, p patientProfile) *Tip {
	if cur.BodyFatPct == nil {
		return nil
	}
	pct := *cur.BodyFatPct
	if prev != nil && prev.BodyFatPct != nil {
		delta := pct - *prev.BodyFatPct
		switch {
		case delta <= -bodyFatDeltaPts:
			return &Tip{"Body fat is going down",
				fmt.Sprintf("Your body fat dropped %.1f percentage points since your last assessment.", -delta),
				categoryProgress}
		case delta >= bodyFatDeltaPts:
			return &Tip{"Body fat increased",
				fmt.Sprintf("Your body fat rose %.1f percentage points since your last assessment. Strength training and enough protein help reverse this.", delta),
				categoryProgress}
		}
	}
	band, ok := bodyFatBand(pct, p.Sex)
	if !ok {
		return nil
	}
	switch band {
	case BodyFatHigh:
		return &Tip{"Body fat above the recommended range",
			fmt.Sprintf("Your body fat is %.1f%%. Combining your meal plan with strength training is the most effective way to reduce it.", pct),
			categoryBody}
	case BodyFatLow:
		return &Tip{"Body fat below the recommended range",
			fmt.Sprintf("Your body fat is %.1f%%. Very low levels can affect hormones and energy; make sure you eat enough healthy fats.", pct),
			categoryBody}
	}
	return nil
}

func waistHipTip(cur, _ *physicalAssessment, p patientProfile) *Tip {
	ratio, ok := waistHipRatio(cur.WaistCM, cur.HipCM)
	if !ok {
		return nil
	}
	threshold, ok := waistHipRiskThreshold(p.Sex)
	if !ok || ratio <= threshold {
		return nil
	}
	return &Tip{"Watch your waist measurement",
		fmt.Sprintf("Your waist-to-hip ratio is %.2f, above the %.2f reference. Abdominal fat is linked to cardiovascular risk; prioritize fiber and avoid ultra-processed foods.", ratio, threshold),
		categoryRisk}
}

func bloodPressureTip(cur, _ *physicalAssessment, _ patientProfile) *Tip {
	sys, dia := 0, 0
	if cur.SystolicBP != nil {
		sys = *cur.SystolicBP
	}
	if cur.DiastolicBP != nil {
		dia = *cur.DiastolicBP
	}
	switch {
	case sys >= 140 || dia >= 90:
		return &Tip{"High blood pressure",
			fmt.Sprintf("Your blood pressure reading (%s) is high. Reduce salt and processed foods and talk to your doctor.", bloodPressureReading(cur)),
			categoryRisk}
	case sys >= 130 || dia >= 85:
		return &Tip{"Blood pressure slightly elevated",
			fmt.Sprintf("Your blood pressure reading (%s) is slightly elevated. Season with herbs instead of salt.", bloodPressureReading(cur)),
			categoryRisk}
	}
	return nil
}

// bloodPressureReading formats only the values that were measured.
func bloodPressureReading(a *physicalAssessment) string {
	switch {
	case a.SystolicBP != nil && a.DiastolicBP != nil:
		return fmt.Sprintf("%d/%d mmHg", *a.SystolicBP, *a.DiastolicBP)
	case a.SystolicBP != nil:
		return fmt.Sprintf("systolic %d mmHg", *a.SystolicBP)
	default:
		return fmt.Sprintf("diastolic %d mmHg", *a.DiastolicBP)
	}
}

// motivationalTip is always the last tip of a batch.
func motivationalTip(p patientProfile) Tip {
	name := strings.TrimSpace(p.Name)
	if i := strings.IndexByte(name, ' '); i > 0 {
		name = name[:i]
	}
	greeting := "Keep going"
	if name != "" {
		greeting = "Keep going, " + name
	}
	var content string
	switch d := p.DaysSincePlanStart; {
	case d == nil:
		content = "Consistency matters more than perfection. Every healthy choice counts."
	case *d < 30:
		content = fmt.Sprintf("You are %d days into your plan. The first weeks build the habits that make results last.", *d)
	case *d < 90:
		content = fmt.Sprintf("%d days of dedication! Your body is adapting; stay consistent.", *d)
	default:
		content = fmt.Sprintf("%d days on your plan. You have turned healthy eating into a lifestyle.", *d)
	}
	return Tip{greeting + "!", content, categoryMotivation}
}

// generateAssessmentTips compares a new assessment against the previous one
// (nil for the first) and fixed clinical thresholds.
func generateAssessmentTips(cur physicalAssessment, prev *physicalAssessment, p patientProfile) []Tip {
	tips := []Tip{}
	for _, rule := range assessmentRules {
		if t := rule(&cur, prev, p); t != nil {
			tips = append(tips, *t)
		}
	}
	return append(tips, motivationalTip(p))
}

/* ─── Anamnesis tips ─────────────────────────────────────────────────── */

type anamnesisRule func(cur, prev *anamnesis, p patientProfile) *Tip

var anamnesisRules = []anamnesisRule{
	waterTip,
	sleepTip,
	mealsTip,
	bowelTip,
	activityTip,
	alcoholTip,
	smokingTip,
	stressTip,
}

func waterTip(cur, prev *anamnesis, p patientProfile) *Tip {
	if cur.WaterIntakeL == nil {
		return nil
	}
	water := *cur.WaterIntakeL
	if water < minWaterL {
		target := minWaterL
		if p.WeightKG != nil && *p.WeightKG > 0 {
			target = math.Max(target, round1(*p.WeightKG*waterMLPerKG/1000))
		}
		return &Tip{"Drink more water",
			fmt.Sprintf("You drink about %.1f L a day. Aim for %.1f L; keep a bottle within reach.", water, target),
			categoryHydration}
	}
	if prev != nil && prev.WaterIntakeL != nil && water-*prev.WaterIntakeL >= waterIncreaseL {
		return &Tip{"Better hydration",
			fmt.Sprintf("You increased your water intake by %.1f L a day. Well done!", water-*prev.WaterIntakeL),
			categoryHydration}
	}
	return nil
}

func sleepTip(cur, prev *anamnesis, _ patientProfile) *Tip {
	if cur.SleepHours == nil {
		return nil
	}
	hours := *cur.SleepHours
	if hours < minSleepHours {
		return &Tip{"Prioritize your sleep",
			fmt.Sprintf("You sleep about %.1f hours a night. Less than 7 hours increases hunger and cravings; avoid screens and caffeine in the evening.", hours),
			categorySleep}
	}
	if prev != nil && prev.SleepHours != nil && hours-*prev.SleepHours >= sleepImprovementH {
		return &Tip{"Your sleep improved",
			fmt.Sprintf("You are sleeping %.1f hours more per night. Good sleep supports your results.", hours-*prev.SleepHours),
			categorySleep}
	}
	return nil
}

func mealsTip(cur, _ *anamnesis, _ patientProfile) *Tip {
	if cur.MealsPerDay == nil || *cur.MealsPerDay >= minMealsPerDay {
		return nil
	}
	return &Tip{"Don't skip meals",
		fmt.Sprintf("You eat %d meals a day. Spreading food over at least three meals helps control hunger and energy.", *cur.MealsPerDay),
		categoryHabits}
}

func bowelTip(cur, _ *anamnesis, _ patientProfile) *Tip {
	switch v := lower(deref(cur.BowelFunction)); {
	case strings.Contains(v, "constip"), strings.Contains(v, "irregular"):
		return &Tip{"Help your gut",
			"Increase fiber gradually with fruits, vegetables and whole grains, and drink water throughout the day.",
			categoryHabits}
	case strings.Contains(v, "diarr"), strings.Contains(v, "loose"):
		return &Tip{"Gut comfort",
			"Prefer cooked vegetables and stay hydrated. If it persists, talk to your nutritionist about possible intolerances.",
			categoryHabits}
	}
	return nil
}

func activityTip(cur, _ *anamnesis, _ patientProfile) *Tip {
	level, ok := cur.activityLevel()
	if !ok || level != "sedentary" {
		return nil
	}
	return &Tip{"Move more",
		"Start with 20-minute walks three times a week and increase gradually. Physical activity boosts the effect of your meal plan.",
		categoryActivity}
}

func alcoholTip(cur, _ *anamnesis, _ patientProfile) *Tip {
	switch lower(deref(cur.AlcoholFrequency)) {
	case "daily", "frequent", "frequently", "often":
		return &Tip{"Cut back on alcohol",
			"Frequent alcohol adds empty calories and disrupts sleep. Try alcohol-free days during the week.",
			categoryHabits}
	case "weekly", "weekends":
		return &Tip{"Moderate alcohol",
			"Alternate each drink with a glass of water and avoid fried snacks alongside.",
			categoryHabits}
	}
	return nil
}

func smokingTip(cur, _ *anamnesis, _ patientProfile) *Tip {
	if cur.Smoker == nil || !*cur.Smoker {
		return nil
	}
	return &Tip{"Smoking and nutrition",
		"Smoking depletes vitamin C and antioxidants. Include citrus fruits and colorful vegetables daily, and consider support to quit.",
		categoryRisk}
}

func stressTip(cur, _ *anamnesis, _ patientProfile) *Tip {
	if lower(deref(cur.StressLevel)) != "high" {
		return nil
	}
	return &Tip{"Manage stress",
		"High stress drives cravings. Plan your meals ahead and include magnesium sources like leafy greens and seeds.",
		categoryHabits}
}

// generateAnamnesisTips evaluates a saved anamnesis, comparing with the
// previous version when there is one.
func generateAnamnesisTips(cur anamnesis, prev *anamnesis, p patientProfile) []Tip {
	tips := []Tip{}
	for _, rule := range anamnesisRules {
		if t := rule(&cur, prev, p); t != nil {
			tips = append(tips, *t)
		}
	}
	return append(tips, motivationalTip(p))
}
