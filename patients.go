package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// loadPatient resolves the :id route param to a patient owned by the
// authenticated professional. On failure it has already written the error
// response and returns ok=false.
func (h *Handler) loadPatient(c *gin.Context) (patient, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		apiError(c, http.StatusBadRequest, "invalid patient id")
		return patient{}, false
	}

	p, err := queryOne[patient](h, c,
		"SELECT * FROM patients WHERE id = @id AND professional_id = @professionalID",
		pgx.NamedArgs{"id": id, "professionalID": c.GetInt("professional_id")})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "patient not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch patient")
		}
		return patient{}, false
	}
	return p, true
}

// listPatients returns the authenticated professional's patients, alphabetically.
// GET /api/patients. Optional ?q= filters by name (case-insensitive).
func (h *Handler) listPatients(c *gin.Context) {
	professionalID := c.GetInt("professional_id")
	q := strings.TrimSpace(c.Query("q"))

	patients, err := queryMany[patient](h, c,
		`SELECT * FROM patients
		 WHERE professional_id = @professionalID
		   AND (@q = '' OR name ILIKE '%' || @q || '%')
		 ORDER BY name ASC`,
		pgx.NamedArgs{"professionalID": professionalID, "q": q})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch patients")
		return
	}
	// Ensure empty array (not null) in JSON
	if patients == nil {
		patients = []patient{}
	}

	c.JSON(http.StatusOK, patients)
}

// createPatient registers a new patient for the authenticated professional.
// POST /api/patients. Only name is required.
func (h *Handler) createPatient(c *gin.Context) {
	professionalID := c.GetInt("professional_id")

	var body createPatientRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var sex *string
	if body.Sex != nil {
		s := normalizeSex(*body.Sex)
		sex = &s
	}

	p, err := queryOne[patient](h, c,
		`INSERT INTO patients (professional_id, name, email, phone, sex, birth_date,
		                       height_cm, weight_kg, goal_weight_kg, plan_start_date)
		 VALUES (@professionalID, @name, @email, @phone, @sex, @birthDate,
		         @heightCM, @weightKG, @goalWeightKG, @planStartDate)
		 RETURNING *`,
		pgx.NamedArgs{
			"professionalID": professionalID,
			"name":           strings.TrimSpace(body.Name),
			"email":          body.Email,
			"phone":          body.Phone,
			"sex":            sex,
			"birthDate":      body.BirthDate,
			"heightCM":       body.HeightCM,
			"weightKG":       body.WeightKG,
			"goalWeightKG":   body.GoalWeightKG,
			"planStartDate":  body.PlanStartDate,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create patient")
		return
	}

	h.logger.Info("patient created", zap.Int("patient_id", p.ID), zap.Int("professional_id", professionalID))
	c.JSON(http.StatusCreated, p)
}

// getPatient returns one patient with its engine profile (age, days on plan).
// GET /api/patients/:id.
func (h *Handler) getPatient(c *gin.Context) {
	p, ok := h.loadPatient(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"patient": p, "profile": p.profile(h.now())})
}

// patchPatient updates only the provided patient fields.
// PATCH /api/patients/:id. Pointer fields distinguish "not provided" from zero.
func (h *Handler) patchPatient(c *gin.Context) {
	existing, ok := h.loadPatient(c)
	if !ok {
		return
	}

	var body patchPatientRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// Build SET clause dynamically; only update fields the client actually sent
	setClauses := []string{}
	args := pgx.NamedArgs{"id": existing.ID}
	set := func(column, arg string, value any) {
		setClauses = append(setClauses, column+" = @"+arg)
		args[arg] = value
	}

	if body.Name != nil {
		set("name", "name", strings.TrimSpace(*body.Name))
	}
	if body.Email != nil {
		set("email", "email", *body.Email)
	}
	if body.Phone != nil {
		set("phone", "phone", *body.Phone)
	}
	if body.Sex != nil {
		set("sex", "sex", normalizeSex(*body.Sex))
	}
	if body.BirthDate != nil {
		set("birth_date", "birthDate", *body.BirthDate)
	}
	if body.HeightCM != nil {
		set("height_cm", "heightCM", *body.HeightCM)
	}
	if body.WeightKG != nil {
		set("weight_kg", "weightKG", *body.WeightKG)
	}
	if body.GoalWeightKG != nil {
		set("goal_weight_kg", "goalWeightKG", *body.GoalWeightKG)
	}
	if body.PlanStartDate != nil {
		set("plan_start_date", "planStartDate", *body.PlanStartDate)
	}

	if len(setClauses) == 0 {
		c.JSON(http.StatusOK, existing)
		return
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	p, err := queryOne[patient](h, c,
		"UPDATE patients SET "+strings.Join(setClauses, ", ")+" WHERE id = @id RETURNING *",
		args)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update patient")
		return
	}

	c.JSON(http.StatusOK, p)
}
