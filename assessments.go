package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// listAssessments returns the patient's physical assessments, oldest first.
// GET /api/patients/:id/assessments?start=YYYY-MM-DD&end=YYYY-MM-DD. Both params optional.
// Returns an empty array (not null) if no assessments exist in the range.
func (h *Handler) listAssessments(c *gin.Context) {
	p, ok := h.loadPatient(c)
	if !ok {
		return
	}
	start := c.Query("start")
	end := c.Query("end")

	if start != "" {
		if _, err := time.Parse("2006-01-02", start); err != nil {
			apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
			return
		}
	}
	if end != "" {
		if _, err := time.Parse("2006-01-02", end); err != nil {
			apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
			return
		}
	}
	if start != "" && end != "" && start > end {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return
	}

	entries, err := queryMany[physicalAssessment](h, c,
		`SELECT * FROM physical_assessments
		 WHERE patient_id = @patientID
		   AND (@start = '' OR date >= @start::date)
		   AND (@end = '' OR date <= @end::date)
		 ORDER BY date ASC, id ASC`,
		pgx.NamedArgs{"patientID": p.ID, "start": start, "end": end})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch assessments")
		return
	}
	// Ensure empty array (not null) in JSON
	if entries == nil {
		entries = []physicalAssessment{}
	}

	c.JSON(http.StatusOK, entries)
}

// previousAssessment returns the latest assessment dated on or before date,
// excluding excludeID, or nil when there is none.
func (h *Handler) previousAssessment(c *gin.Context, patientID, excludeID int, date string) (*physicalAssessment, error) {
	a, err := queryOne[physicalAssessment](h, c,
		`SELECT * FROM physical_assessments
		 WHERE patient_id = @patientID AND id <> @excludeID AND date <= @date::date
		 ORDER BY date DESC, id DESC LIMIT 1`,
		pgx.NamedArgs{"patientID": patientID, "excludeID": excludeID, "date": date})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// createAssessment records a physical assessment, compares it with the
// previous one and forwards the generated tips to the patient feed.
// POST /api/patients/:id/assessments. date defaults to today.
// The patient's current weight/height follow the most recent assessment.
func (h *Handler) createAssessment(c *gin.Context) {
	p, ok := h.loadPatient(c)
	if !ok {
		return
	}

	var body createAssessmentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Date == "" {
		body.Date = h.now().Format("2006-01-02")
	}

	saved, err := queryOne[physicalAssessment](h, c,
		`INSERT INTO physical_assessments (patient_id, date, weight_kg, height_cm, waist_cm, hip_cm,
		                                   body_fat_pct, muscle_mass_kg, systolic_bp, diastolic_bp, notes)
		 VALUES (@patientID, @date, @weightKG, @heightCM, @waistCM, @hipCM,
		         @bodyFatPct, @muscleMassKG, @systolicBP, @diastolicBP, @notes)
		 RETURNING *`,
		pgx.NamedArgs{
			"patientID":    p.ID,
			"date":         body.Date,
			"weightKG":     body.WeightKG,
			"heightCM":     body.HeightCM,
			"waistCM":      body.WaistCM,
			"hipCM":        body.HipCM,
			"bodyFatPct":   body.BodyFatPct,
			"muscleMassKG": body.MuscleMassKG,
			"systolicBP":   body.SystolicBP,
			"diastolicBP":  body.DiastolicBP,
			"notes":        body.Notes,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create assessment")
		return
	}

	prev, err := h.previousAssessment(c, p.ID, saved.ID, body.Date)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch previous assessment")
		return
	}

	_, err = h.db.Exec(c,
		`UPDATE patients SET
			weight_kg  = COALESCE(@weightKG, weight_kg),
			height_cm  = COALESCE(@heightCM, height_cm),
			updated_at = NOW()
		 WHERE id = @patientID AND NOT EXISTS (
			SELECT 1 FROM physical_assessments
			WHERE patient_id = @patientID AND date > @date::date)`,
		pgx.NamedArgs{"patientID": p.ID, "weightKG": body.WeightKG, "heightCM": body.HeightCM, "date": body.Date})
	if err != nil {
		h.logger.Error("[createAssessment] failed to sync patient measurements", zap.Int("patient_id", p.ID), zap.Error(err))
	}

	tips := generateAssessmentTips(saved, prev, p.profile(h.now()))
	if err := h.storeTips(c, p.ID, tipKindAssessment, tips); err != nil {
		h.logger.Warn("assessment saved without tips", zap.Int("patient_id", p.ID))
	}

	c.JSON(http.StatusCreated, gin.H{"assessment": saved, "tips": tips})
}

// deleteAssessment removes an assessment by ID.
// DELETE /api/patients/:id/assessments/:assessmentId. Returns 204 on success, 404 if not found.
// Ownership is enforced by loadPatient and by requiring both ids to match.
func (h *Handler) deleteAssessment(c *gin.Context) {
	p, ok := h.loadPatient(c)
	if !ok {
		return
	}

	result, err := h.db.Exec(c,
		"DELETE FROM physical_assessments WHERE id = @id AND patient_id = @patientID",
		pgx.NamedArgs{"id": c.Param("assessmentId"), "patientID": p.ID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete assessment")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "assessment not found")
		return
	}

	c.Status(http.StatusNoContent)
}
