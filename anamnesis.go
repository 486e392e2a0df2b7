package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// latestAnamnesis returns the most recent anamnesis of a patient, or nil
// when none was recorded yet.
func (h *Handler) latestAnamnesis(c *gin.Context, patientID int) (*anamnesis, error) {
	a, err := queryOne[anamnesis](h, c,
		`SELECT * FROM anamneses WHERE patient_id = @patientID
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
		pgx.NamedArgs{"patientID": patientID})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// getAnamnesis returns the patient's latest anamnesis.
// GET /api/patients/:id/anamnesis. 404 when none was recorded.
func (h *Handler) getAnamnesis(c *gin.Context) {
	p, ok := h.loadPatient(c)
	if !ok {
		return
	}

	a, err := h.latestAnamnesis(c, p.ID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch anamnesis")
		return
	}
	if a == nil {
		apiError(c, http.StatusNotFound, "anamnesis not found")
		return
	}

	c.JSON(http.StatusOK, a)
}

// saveAnamnesis appends a new anamnesis version, then generates tips by
// comparing it with the previous version and forwards them to the feed.
// POST /api/patients/:id/anamnesis. Responds with the saved record and the tips.
func (h *Handler) saveAnamnesis(c *gin.Context) {
	p, ok := h.loadPatient(c)
	if !ok {
		return
	}

	var body anamnesisRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	prev, err := h.latestAnamnesis(c, p.ID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch previous anamnesis")
		return
	}

	in := body.toAnamnesis(p.ID)
	saved, err := queryOne[anamnesis](h, c,
		`INSERT INTO anamneses (patient_id, goal, activity_level, exercise_frequency, food_preference,
		                        allergies, intolerances, disliked_foods, medical_conditions, medications,
		                        water_intake_l, sleep_hours, meals_per_day, bowel_function,
		                        alcohol_frequency, smoker, stress_level, notes)
		 VALUES (@patientID, @goal, @activityLevel, @exerciseFrequency, @foodPreference,
		         @allergies, @intolerances, @dislikedFoods, @medicalConditions, @medications,
		         @waterIntakeL, @sleepHours, @mealsPerDay, @bowelFunction,
		         @alcoholFrequency, @smoker, @stressLevel, @notes)
		 RETURNING *`,
		pgx.NamedArgs{
			"patientID":         in.PatientID,
			"goal":              in.Goal,
			"activityLevel":     in.ActivityLevel,
			"exerciseFrequency": in.ExerciseFrequency,
			"foodPreference":    in.FoodPreference,
			"allergies":         in.Allergies,
			"intolerances":      in.Intolerances,
			"dislikedFoods":     in.DislikedFoods,
			"medicalConditions": in.MedicalConditions,
			"medications":       in.Medications,
			"waterIntakeL":      in.WaterIntakeL,
			"sleepHours":        in.SleepHours,
			"mealsPerDay":       in.MealsPerDay,
			"bowelFunction":     in.BowelFunction,
			"alcoholFrequency":  in.AlcoholFrequency,
			"smoker":            in.Smoker,
			"stressLevel":       in.StressLevel,
			"notes":             in.Notes,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save anamnesis")
		return
	}

	tips := generateAnamnesisTips(saved, prev, p.profile(h.now()))
	if err := h.storeTips(c, p.ID, tipKindAnamnesis, tips); err != nil {
		// The anamnesis is saved; a feed failure must not hide that from the caller.
		h.logger.Warn("anamnesis saved without tips", zap.Int("patient_id", p.ID))
	}

	c.JSON(http.StatusCreated, gin.H{"anamnesis": saved, "tips": tips})
}
