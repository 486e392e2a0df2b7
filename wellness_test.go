package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alertTitles(alerts []Alert) []string {
	titles := make([]string, len(alerts))
	for i, a := range alerts {
		titles[i] = a.Title
	}
	return titles
}

// TestAnalyzeAnswers_Empty verifies that with no answers the score stays at
// 100 and the only alert is the closing success alert.
func TestAnalyzeAnswers_Empty(t *testing.T) {
	for name, answers := range map[string]AnswerSet{
		"nil":            nil,
		"empty":          {},
		"empty symptoms": {"symptoms": []any{}},
	} {
		t.Run(name, func(t *testing.T) {
			got := analyzeAnswers(answers)
			assert.Equal(t, 100, got.Score)
			require.Len(t, got.Alerts, 1)
			assert.Equal(t, AlertSuccess, got.Alerts[0].Kind)
		})
	}
}

// TestAnalyzeAnswers_ProlongedFatigueScenario is the fatigue / prolonged /
// sedentary / tired / no-exams questionnaire: 100 - 10 - 15 - 15 - 10 - 10 = 40.
func TestAnalyzeAnswers_ProlongedFatigueScenario(t *testing.T) {
	got := analyzeAnswers(AnswerSet{
		"symptoms": []any{"fatigue"},
		"duration": "more_3_months",
		"routine":  "sedentary",
		"sleep":    "tired",
		"exams":    "no",
	})

	assert.Less(t, got.Score, 60)
	assert.Equal(t, 40, got.Score)
	assert.Equal(t, []string{
		"Fatigue and poor sleep",
		"Sedentary routine",
		"Prolonged symptoms",
		"Non-restorative sleep",
		"No recent exams",
	}, alertTitles(got.Alerts))
}

// TestAnalyzeAnswers_BonusKeepsSuccess verifies that the activity bonus can
// lift the score back over 80 so success coexists with a warning.
func TestAnalyzeAnswers_BonusKeepsSuccess(t *testing.T) {
	got := analyzeAnswers(AnswerSet{
		"symptoms": []any{"bloating"},
		"routine":  "intense",
		"sleep":    "good",
		"exams":    "yes_recent",
	})

	assert.Equal(t, 95, got.Score)
	assert.Equal(t, []string{"Digestive discomfort", "You are on the right track"}, alertTitles(got.Alerts))
	assert.Equal(t, AlertWarning, got.Alerts[0].Kind)
}

// TestAnalyzeAnswers_WorstCase piles up every deduction: 100 - 95 = 5.
func TestAnalyzeAnswers_WorstCase(t *testing.T) {
	got := analyzeAnswers(AnswerSet{
		"symptoms": []any{"fatigue", "bloating", "constipation", "anxiety", "insomnia", "headache"},
		"duration": "more_3_months",
		"routine":  "sedentary",
		"sleep":    "tired",
		"exams":    "no",
		"water":    "less_1l",
	})

	assert.Equal(t, 5, got.Score)
	assert.Len(t, got.Alerts, 9)
	for _, a := range got.Alerts {
		assert.NotEqual(t, AlertSuccess, a.Kind)
	}
}

// TestAnalyzeAnswers_ClampedAt100 verifies bonuses never push past 100.
func TestAnalyzeAnswers_ClampedAt100(t *testing.T) {
	got := analyzeAnswers(AnswerSet{"routine": "moderate", "sleep": "good", "exams": "yes_recent"})
	assert.Equal(t, 100, got.Score)
}

// TestAnalyzeAnswers_ExamsWithLowLoad verifies the milder exams alert when
// there are few complaints.
func TestAnalyzeAnswers_ExamsWithLowLoad(t *testing.T) {
	got := analyzeAnswers(AnswerSet{"symptoms": []any{"headache"}, "sleep": "good", "exams": "no"})

	assert.Equal(t, 95, got.Score)
	require.NotEmpty(t, got.Alerts)
	assert.Equal(t, "Update your exams", got.Alerts[0].Title)
	assert.Equal(t, AlertInfo, got.Alerts[0].Kind)
}

// TestAnalyzeAnswers_MalformedValues verifies wrong shapes are ignored, not fatal.
func TestAnalyzeAnswers_MalformedValues(t *testing.T) {
	got := analyzeAnswers(AnswerSet{
		"symptoms": 42,
		"duration": []any{"a", "b"},
		"routine":  true,
		"sleep":    map[string]any{"x": 1},
	})
	assert.Equal(t, 100, got.Score)
}

// TestAnalyzeAnswers_FromJSON checks answers decoded from a request body,
// including a comma-delimited symptom string and mixed case.
func TestAnalyzeAnswers_FromJSON(t *testing.T) {
	var answers AnswerSet
	require.NoError(t, json.Unmarshal([]byte(`{
		"symptoms": "Fatigue, bloating, fatigue",
		"routine": ["SEDENTARY"],
		"sleep": "restless"
	}`), &answers))

	got := analyzeAnswers(answers)
	// fatigue+poor sleep -10, digestive -10, sedentary -15, interrupted sleep -5
	assert.Equal(t, 60, got.Score)
	assert.Equal(t, []string{
		"Fatigue and poor sleep",
		"Digestive discomfort",
		"Sedentary routine",
		"Interrupted sleep",
	}, alertTitles(got.Alerts))
}

func TestQuizQuestions_UniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, q := range quizQuestions {
		assert.False(t, seen[q.ID], "duplicate question id %s", q.ID)
		seen[q.ID] = true
		assert.NotEmpty(t, q.Options, q.ID)
	}
	for _, id := range []string{"symptoms", "duration", "routine", "sleep", "exams"} {
		assert.True(t, seen[id], id)
	}
}
