package main

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// missingAnamnesisMessage is shown when a meal plan cannot be composed yet.
const missingAnamnesisMessage = "complete the patient anamnesis (goal and activity level) to generate a meal plan"

/* ─── Health-check quiz (public) ─────────────────────────────────────── */

// getQuizQuestions returns the health-check questionnaire.
// GET /api/health-check/questions.
func (h *Handler) getQuizQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, quizQuestions)
}

// analyzeQuiz scores a submitted questionnaire.
// POST /api/health-check/analyze. Body: { "answers": { "<question id>": "value" | ["values"] } }.
// Unanswered questions are allowed; they just don't trigger their rules.
func (h *Handler) analyzeQuiz(c *gin.Context) {
	var body struct {
		Answers AnswerSet `json:"answers"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result := analyzeAnswers(body.Answers)
	h.metrics.wellnessAssessments.Inc()

	c.JSON(http.StatusOK, result)
}

/* ─── Stateless engine access ────────────────────────────────────────── */

// targetsResponse adds the ratio and band helpers to the computed targets.
type targetsResponse struct {
	Targets            NutrientTargets `json:"targets"`
	InsufficientData   bool            `json:"insufficient_data"`
	WaistHipRatio      *float64        `json:"waist_hip_ratio,omitempty"`
	WaistHipRisk       *bool           `json:"waist_hip_risk,omitempty"`
	BodyFatBand        *string         `json:"body_fat_band,omitempty"`
	HealthyWeightRange []float64       `json:"healthy_weight_range,omitempty"`
}

// describeTargets computes targets for s and the risk helpers that apply.
func describeTargets(s AnthropometricSnapshot, goal Goal) targetsResponse {
	resp := targetsResponse{Targets: computeTargets(s, goal)}
	resp.InsufficientData = resp.Targets.Indeterminate()

	sex := ""
	if s.Sex != nil {
		sex = normalizeSex(*s.Sex)
	}
	if ratio, ok := waistHipRatio(s.WaistCM, s.HipCM); ok {
		r := math.Round(ratio*100) / 100
		resp.WaistHipRatio = &r
		if threshold, ok := waistHipRiskThreshold(sex); ok {
			risk := ratio > threshold
			resp.WaistHipRisk = &risk
		}
	}
	if s.BodyFatPct != nil {
		if band, ok := bodyFatBand(*s.BodyFatPct, sex); ok {
			resp.BodyFatBand = &band
		}
	}
	if s.HeightCM != nil && *s.HeightCM > 0 {
		lo, hi := healthyWeightRange(*s.HeightCM)
		resp.HealthyWeightRange = []float64{lo, hi}
	}
	return resp
}

// computeTargetsStateless computes targets from a snapshot in the body.
// POST /api/engine/targets. Missing weight or height yields insufficient_data, not an error.
func (h *Handler) computeTargetsStateless(c *gin.Context) {
	var body struct {
		AnthropometricSnapshot
		Goal string `json:"goal"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	goal, ok := parseGoal(body.Goal)
	if !ok {
		goal = GoalMaintenance
	}
	c.JSON(http.StatusOK, describeTargets(body.AnthropometricSnapshot, goal))
}

// composeMealPlanStateless composes a plan from an anamnesis and profile in the body.
// POST /api/engine/meal-plan. Body: { "anamnesis": {...}, "profile": {...}, "variation": 1-6 }.
func (h *Handler) composeMealPlanStateless(c *gin.Context) {
	var body struct {
		Anamnesis *anamnesisRequest `json:"anamnesis"`
		Profile   patientProfile    `json:"profile"`
		Variation int               `json:"variation" binding:"omitempty,min=1,max=6"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var a *anamnesis
	if body.Anamnesis != nil {
		rec := body.Anamnesis.toAnamnesis(0)
		a = &rec
	}
	body.Profile.Sex = normalizeSex(body.Profile.Sex)
	h.respondMealPlan(c, a, body.Profile, body.Variation)
}

// generateTipsStateless runs the tip generator on records in the body.
// POST /api/engine/tips. Body: { "kind": "assessment"|"anamnesis", "current": {...}, "previous": {...}?, "profile": {...} }.
func (h *Handler) generateTipsStateless(c *gin.Context) {
	var body struct {
		Kind     tipKind         `json:"kind" binding:"required,oneof=assessment anamnesis"`
		Current  json.RawMessage `json:"current" binding:"required"`
		Previous json.RawMessage `json:"previous"`
		Profile  patientProfile  `json:"profile"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	body.Profile.Sex = normalizeSex(body.Profile.Sex)

	var tips []Tip
	var err error
	switch body.Kind {
	case tipKindAssessment:
		tips, err = tipsFromJSON(body.Current, body.Previous, func(cur physicalAssessment, prev *physicalAssessment) []Tip {
			return generateAssessmentTips(cur, prev, body.Profile)
		})
	default:
		tips, err = tipsFromJSON(body.Current, body.Previous, func(cur anamnesis, prev *anamnesis) []Tip {
			return generateAnamnesisTips(cur, prev, body.Profile)
		})
	}
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid current or previous record")
		return
	}

	h.metrics.tips(body.Kind, len(tips))
	c.JSON(http.StatusOK, tips)
}

// tipsFromJSON decodes the current and optional previous record into T and
// runs gen on them. A JSON null previous counts as absent.
func tipsFromJSON[T any](current, previous json.RawMessage, gen func(cur T, prev *T) []Tip) ([]Tip, error) {
	var cur T
	if err := json.Unmarshal(current, &cur); err != nil {
		return nil, err
	}
	var prev *T
	if len(previous) > 0 && string(previous) != "null" {
		prev = new(T)
		if err := json.Unmarshal(previous, prev); err != nil {
			return nil, err
		}
	}
	return gen(cur, prev), nil
}

/* ─── Patient-backed recommendations ─────────────────────────────────── */

// respondMealPlan composes a plan and writes the response, mapping a
// missing prerequisite to 422.
func (h *Handler) respondMealPlan(c *gin.Context, a *anamnesis, profile patientProfile, variation int) {
	if variation == 0 {
		variation = int(VariationClassic)
	}
	plan, err := composeMealPlan(a, profile, Variation(variation))
	if err != nil {
		if errors.Is(err, ErrMissingPrerequisite) {
			h.metrics.mealPlanRejections.Inc()
			h.logger.Info("meal plan rejected", zap.Error(err))
			apiError(c, http.StatusUnprocessableEntity, missingAnamnesisMessage)
			return
		}
		h.logger.Error("[respondMealPlan] compose failed", zap.Error(err))
		apiError(c, http.StatusInternalServerError, "failed to compose meal plan")
		return
	}

	h.metrics.mealPlanComposed(plan.Variation)
	h.metrics.tips(tipKindAnamnesis, len(plan.Tips))
	c.JSON(http.StatusOK, plan)
}

// latestSnapshot builds the calculator input from the patient's most recent
// assessment, falling back to the profile's stored weight and height.
func (h *Handler) latestSnapshot(c *gin.Context, p patient, profile patientProfile) (AnthropometricSnapshot, error) {
	a, err := queryOne[physicalAssessment](h, c,
		`SELECT * FROM physical_assessments WHERE patient_id = @patientID
		 ORDER BY date DESC, id DESC LIMIT 1`,
		pgx.NamedArgs{"patientID": p.ID})
	if errors.Is(err, pgx.ErrNoRows) {
		a = physicalAssessment{}
	} else if err != nil {
		return AnthropometricSnapshot{}, err
	}
	s := a.snapshot(profile)
	if s.WeightKG == nil {
		s.WeightKG = profile.WeightKG
	}
	return s, nil
}

// getPatientTargets computes the patient's current nutrient targets.
// GET /api/patients/:id/targets. Goal and activity come from the latest
// anamnesis when there is one; targets are never stored.
func (h *Handler) getPatientTargets(c *gin.Context) {
	p, ok := h.loadPatient(c)
	if !ok {
		return
	}
	profile := p.profile(h.now())

	s, err := h.latestSnapshot(c, p, profile)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch assessments")
		return
	}
	a, err := h.latestAnamnesis(c, p.ID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch anamnesis")
		return
	}

	goal := GoalMaintenance
	if a != nil {
		if g, ok := parseGoal(deref(a.Goal)); ok {
			goal = g
		}
		if level, ok := a.activityLevel(); ok {
			s.ActivityLevel = &level
		}
	}

	c.JSON(http.StatusOK, describeTargets(s, goal))
}

// generatePatientMealPlan composes a draft plan from the patient's latest anamnesis.
// POST /api/patients/:id/meal-plan. Body: { "variation": 1-6 } (optional, default 1).
// The plan is returned for the professional to edit; it is not stored.
func (h *Handler) generatePatientMealPlan(c *gin.Context) {
	p, ok := h.loadPatient(c)
	if !ok {
		return
	}

	var body struct {
		Variation int `json:"variation" binding:"omitempty,min=1,max=6"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			apiError(c, http.StatusBadRequest, "variation must be between 1 and 6")
			return
		}
	}

	a, err := h.latestAnamnesis(c, p.ID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch anamnesis")
		return
	}

	h.respondMealPlan(c, a, p.profile(h.now()), body.Variation)
}
