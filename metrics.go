package main

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// engineMetrics counts recommendation-engine activity. Constructed per
// registry so tests can use a private one.
type engineMetrics struct {
	wellnessAssessments prometheus.Counter
	mealPlans           *prometheus.CounterVec
	mealPlanRejections  prometheus.Counter
	tipsGenerated       *prometheus.CounterVec
}

func newEngineMetrics(reg prometheus.Registerer) *engineMetrics {
	f := promauto.With(reg)
	return &engineMetrics{
		wellnessAssessments: f.NewCounter(prometheus.CounterOpts{
			Name: "nutrition_wellness_assessments_total",
			Help: "Health-check quizzes analyzed.",
		}),
		mealPlans: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nutrition_meal_plans_total",
			Help: "Meal plans composed, by variation.",
		}, []string{"variation"}),
		mealPlanRejections: f.NewCounter(prometheus.CounterOpts{
			Name: "nutrition_meal_plan_rejections_total",
			Help: "Meal plan requests rejected for a missing prerequisite.",
		}),
		tipsGenerated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nutrition_tips_generated_total",
			Help: "Tips generated, by kind.",
		}, []string{"kind"}),
	}
}

func (m *engineMetrics) mealPlanComposed(v Variation) {
	m.mealPlans.WithLabelValues(strconv.Itoa(int(v))).Inc()
}

func (m *engineMetrics) tips(kind tipKind, n int) {
	m.tipsGenerated.WithLabelValues(string(kind)).Add(float64(n))
}
