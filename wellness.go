package main

import "strings"

/* ─── Quiz questions ─────────────────────────────────────────────────── */

// questionKind distinguishes single- from multi-select quiz questions.
type questionKind string

const (
	singleSelect questionKind = "single"
	multiSelect  questionKind = "multi"
)

// quizOption is one selectable answer.
type quizOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// quizQuestion is one question of the health-check quiz.
type quizQuestion struct {
	ID      string       `json:"id"`
	Kind    questionKind `json:"kind"`
	Text    string       `json:"text"`
	Options []quizOption `json:"options"`
}

// quizQuestions is the fixed health-check questionnaire served to clients.
var quizQuestions = []quizQuestion{
	{
		ID: "symptoms", Kind: multiSelect, Text: "Which of these symptoms do you experience?",
		Options: []quizOption{
			{"fatigue", "Fatigue or low energy"},
			{"bloating", "Bloating"},
			{"constipation", "Constipation"},
			{"heartburn", "Heartburn or reflux"},
			{"headache", "Frequent headaches"},
			{"insomnia", "Difficulty falling asleep"},
			{"anxiety", "Anxiety"},
			{"hair_loss", "Hair loss"},
			{"skin_issues", "Skin issues"},
			{"joint_pain", "Joint pain"},
			{"brain_fog", "Poor concentration"},
			{"sugar_cravings", "Sugar cravings"},
		},
	},
	{
		ID: "duration", Kind: singleSelect, Text: "How long have you had these symptoms?",
		Options: []quizOption{
			{"less_1_month", "Less than 1 month"},
			{"1_3_months", "1 to 3 months"},
			{"more_3_months", "More than 3 months"},
		},
	},
	{
		ID: "routine", Kind: singleSelect, Text: "How would you describe your physical activity?",
		Options: []quizOption{
			{"sedentary", "Sedentary"},
			{"light", "Light (walks, occasional exercise)"},
			{"moderate", "Moderate (3-4 times a week)"},
			{"intense", "Intense (5+ times a week)"},
		},
	},
	{
		ID: "sleep", Kind: singleSelect, Text: "How do you usually wake up?",
		Options: []quizOption{
			{"good", "Rested"},
			{"restless", "I wake up during the night"},
			{"tired", "Tired, even after sleeping"},
		},
	},
	{
		ID: "exams", Kind: singleSelect, Text: "Have you had blood tests recently?",
		Options: []quizOption{
			{"yes_recent", "Yes, in the last 6 months"},
			{"over_1_year", "More than a year ago"},
			{"no", "No"},
		},
	},
	{
		ID: "water", Kind: singleSelect, Text: "How much water do you drink per day?",
		Options: []quizOption{
			{"less_1l", "Less than 1 liter"},
			{"1_2l", "1 to 2 liters"},
			{"more_2l", "More than 2 liters"},
		},
	},
}

/* ─── Answers ────────────────────────────────────────────────────────── */

// AnswerSet maps question id to the submitted answer: a string for
// single-select questions, a list of strings for multi-select ones. It is
// decoded straight from JSON, so values arrive as string or []any.
type AnswerSet map[string]any

// single returns the answer for a single-select question, or "" when the
// question is unanswered or the value has an unexpected shape.
func (a AnswerSet) single(id string) string {
	switch v := a[id].(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case []string:
		if len(v) == 1 {
			return strings.ToLower(strings.TrimSpace(v[0]))
		}
	case []any:
		if len(v) == 1 {
			if s, ok := v[0].(string); ok {
				return strings.ToLower(strings.TrimSpace(s))
			}
		}
	}
	return ""
}

// multi returns the selected values for a multi-select question. Non-string
// entries are ignored; duplicates are collapsed.
func (a AnswerSet) multi(id string) []string {
	var raw []string
	switch v := a[id].(type) {
	case string:
		raw = parseStringList(v)
	case []string:
		raw = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	}
	seen := make(map[string]bool, len(raw))
	var out []string
	for _, s := range raw {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

/* ─── Assessment ─────────────────────────────────────────────────────── */

// AlertKind is the severity of a wellness alert.
type AlertKind string

const (
	AlertWarning AlertKind = "warning"
	AlertInfo    AlertKind = "info"
	AlertSuccess AlertKind = "success"
)

// Alert explains one finding of the wellness analysis.
type Alert struct {
	Kind    AlertKind `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}

// WellnessAssessment is the result of analyzing one AnswerSet.
type WellnessAssessment struct {
	Score  int     `json:"score"`
	Alerts []Alert `json:"alerts"`
}

const (
	wellnessStartScore   = 100
	wellnessSuccessScore = 80
)

// quizFacts is the AnswerSet pre-digested for rule evaluation.
type quizFacts struct {
	symptoms map[string]bool
	count    int
	duration string
	routine  string
	sleep    string
	exams    string
	water    string
}

func (f quizFacts) has(symptoms ...string) bool {
	for _, s := range symptoms {
		if f.symptoms[s] {
			return true
		}
	}
	return false
}

// poorSleep is true only when sleep was answered with something other than "good".
func (f quizFacts) poorSleep() bool {
	return f.sleep != "" && f.sleep != "good"
}

// complaintLoad counts symptoms plus prolonged duration and poor sleep.
func (f quizFacts) complaintLoad() int {
	n := f.count
	if f.duration == "more_3_months" {
		n++
	}
	if f.poorSleep() {
		n++
	}
	return n
}

// wellnessRule inspects the facts and returns a score delta and an optional
// alert. fired=false means the rule did not apply.
type wellnessRule func(f quizFacts) (delta int, alert *Alert, fired bool)

// wellnessRules run in order; every rule is evaluated independently and
// alerts are appended in this order.
var wellnessRules = []wellnessRule{
	func(f quizFacts) (int, *Alert, bool) {
		if !f.has("fatigue") || !f.poorSleep() {
			return 0, nil, false
		}
		return -10, &Alert{AlertWarning, "Fatigue and poor sleep",
			"Tiredness combined with poor sleep may point to nutritional deficiencies such as iron or B12. Talk to your nutritionist."}, true
	},
	func(f quizFacts) (int, *Alert, bool) {
		if !f.has("bloating", "constipation", "heartburn") {
			return 0, nil, false
		}
		return -10, &Alert{AlertWarning, "Digestive discomfort",
			"Digestive symptoms often improve with more fiber, water and attention to food intolerances."}, true
	},
	func(f quizFacts) (int, *Alert, bool) {
		if !f.has("anxiety", "insomnia") {
			return 0, nil, false
		}
		return -5, &Alert{AlertInfo, "Stress and rest",
			"Anxiety and difficulty sleeping are influenced by caffeine, meal timing and magnesium intake."}, true
	},
	func(f quizFacts) (int, *Alert, bool) {
		if f.routine != "sedentary" {
			return 0, nil, false
		}
		return -15, &Alert{AlertWarning, "Sedentary routine",
			"A sedentary routine raises cardiometabolic risk. Start with short daily walks."}, true
	},
	func(f quizFacts) (int, *Alert, bool) {
		if f.routine != "moderate" && f.routine != "intense" {
			return 0, nil, false
		}
		return 5, nil, true
	},
	func(f quizFacts) (int, *Alert, bool) {
		if f.duration != "more_3_months" {
			return 0, nil, false
		}
		return -15, &Alert{AlertWarning, "Prolonged symptoms",
			"Symptoms lasting more than three months deserve a professional evaluation."}, true
	},
	func(f quizFacts) (int, *Alert, bool) {
		if f.duration != "1_3_months" {
			return 0, nil, false
		}
		return -5, &Alert{AlertInfo, "Persistent symptoms",
			"Keep track of your symptoms. If they persist, seek an evaluation."}, true
	},
	func(f quizFacts) (int, *Alert, bool) {
		switch f.sleep {
		case "tired":
			return -10, &Alert{AlertWarning, "Non-restorative sleep",
				"Waking up tired affects appetite regulation and energy throughout the day."}, true
		case "restless":
			return -5, &Alert{AlertInfo, "Interrupted sleep",
				"Light dinners and a regular bedtime help you sleep through the night."}, true
		}
		return 0, nil, false
	},
	func(f quizFacts) (int, *Alert, bool) {
		if f.exams == "no" && f.complaintLoad() >= 3 {
			return -10, &Alert{AlertWarning, "No recent exams",
				"With several complaints and no recent blood tests, we recommend a check-up to rule out deficiencies."}, true
		}
		if f.exams == "no" || f.exams == "over_1_year" {
			return -5, &Alert{AlertInfo, "Update your exams",
				"Routine blood tests help personalize your nutrition plan."}, true
		}
		return 0, nil, false
	},
	func(f quizFacts) (int, *Alert, bool) {
		if f.count < 4 {
			return 0, nil, false
		}
		return -10, &Alert{AlertWarning, "Multiple symptoms",
			"You reported many symptoms at once. A complete nutritional assessment is recommended."}, true
	},
	func(f quizFacts) (int, *Alert, bool) {
		if f.water != "less_1l" {
			return 0, nil, false
		}
		return -10, &Alert{AlertWarning, "Low water intake",
			"Drinking less than a liter of water a day can cause fatigue, headaches and constipation."}, true
	},
}

// analyzeAnswers scores an AnswerSet. The score starts at 100, every rule in
// wellnessRules may adjust it, and the result is clamped to [0, 100] before
// the closing success check. Missing or malformed answers never fail; they
// just leave the dependent rules unfired.
func analyzeAnswers(answers AnswerSet) WellnessAssessment {
	symptoms := answers.multi("symptoms")
	f := quizFacts{
		symptoms: make(map[string]bool, len(symptoms)),
		count:    len(symptoms),
		duration: answers.single("duration"),
		routine:  answers.single("routine"),
		sleep:    answers.single("sleep"),
		exams:    answers.single("exams"),
		water:    answers.single("water"),
	}
	for _, s := range symptoms {
		f.symptoms[s] = true
	}

	score := wellnessStartScore
	alerts := []Alert{}
	for _, rule := range wellnessRules {
		delta, alert, fired := rule(f)
		if !fired {
			continue
		}
		score += delta
		if alert != nil {
			alerts = append(alerts, *alert)
		}
	}

	score = max(0, min(score, wellnessStartScore))

	if score >= wellnessSuccessScore {
		alerts = append(alerts, Alert{AlertSuccess, "You are on the right track",
			"Your answers show good habits. Keep it up and schedule regular follow-ups."})
	}
	return WellnessAssessment{Score: score, Alerts: alerts}
}
