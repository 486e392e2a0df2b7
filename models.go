package main

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly. NULL values zero the time and return nil
// so that *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── StringList ─────────────────────────────────────────────────────── */

// StringList holds free-text list fields (allergies, intolerances, ...).
// It accepts either a JSON array of strings or a single comma-delimited
// string, and normalizes both the same way: entries are trimmed and empty
// entries dropped. Stored in Postgres as a comma-delimited text column.
type StringList []string

// parseStringList splits a comma-delimited string into a normalized list.
func parseStringList(s string) StringList {
	return normalizeStringList(strings.Split(s, ","))
}

// normalizeStringList trims entries and drops empty ones. Returns nil when
// nothing remains.
func normalizeStringList(items []string) StringList {
	var out StringList
	for _, item := range items {
		if t := strings.TrimSpace(item); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Lower returns the entries lower-cased for case-insensitive matching.
func (l StringList) Lower() []string {
	out := make([]string, len(l))
	for i, s := range l {
		out[i] = strings.ToLower(s)
	}
	return out
}

// String joins the list back into its comma-delimited storage form.
func (l StringList) String() string {
	return strings.Join(l, ", ")
}

func (l *StringList) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*l = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		// A single list entry may itself be comma-delimited ("peanut, shrimp").
		*l = parseStringList(strings.Join(list, ","))
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*l = parseStringList(s)
	return nil
}

// Scan implements sql.Scanner so pgx can read text columns into StringList.
func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
	case string:
		*l = parseStringList(v)
	case []byte:
		*l = parseStringList(string(v))
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
	return nil
}

// Value implements driver.Valuer; empty lists are stored as NULL.
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return l.String(), nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// professional maps to the professionals table. AuthToken and Password are hidden from JSON responses.
type professional struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// patient maps to the patients table. Body-profile fields are nullable; a
// freshly registered patient only needs a name.
type patient struct {
	ID             int        `json:"id"               db:"id"`
	ProfessionalID int        `json:"professional_id"  db:"professional_id"`
	Name           string     `json:"name"             db:"name"`
	Email          *string    `json:"email"            db:"email"`
	Phone          *string    `json:"phone"            db:"phone"`
	Sex            *string    `json:"sex"              db:"sex"`
	BirthDate      *DateOnly  `json:"birth_date"       db:"birth_date"`
	HeightCM       *float64   `json:"height_cm"        db:"height_cm"`
	WeightKG       *float64   `json:"weight_kg"        db:"weight_kg"`
	GoalWeightKG   *float64   `json:"goal_weight_kg"   db:"goal_weight_kg"`
	PlanStartDate  *DateOnly  `json:"plan_start_date"  db:"plan_start_date"`
	CreatedAt      *time.Time `json:"created_at"       db:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"       db:"updated_at"`
}

// anamnesis maps to the anamneses table. Each save appends a new row so the
// previous version stays available for comparison.
type anamnesis struct {
	ID                int        `json:"id"                 db:"id"`
	PatientID         int        `json:"patient_id"         db:"patient_id"`
	Goal              *string    `json:"goal"               db:"goal"`
	ActivityLevel     *string    `json:"activity_level"     db:"activity_level"`
	ExerciseFrequency *string    `json:"exercise_frequency" db:"exercise_frequency"`
	FoodPreference    *string    `json:"food_preference"    db:"food_preference"`
	Allergies         StringList `json:"allergies"          db:"allergies"`
	Intolerances      StringList `json:"intolerances"       db:"intolerances"`
	DislikedFoods     StringList `json:"disliked_foods"     db:"disliked_foods"`
	MedicalConditions StringList `json:"medical_conditions" db:"medical_conditions"`
	Medications       *string    `json:"medications"        db:"medications"`
	WaterIntakeL      *float64   `json:"water_intake_l"     db:"water_intake_l"`
	SleepHours        *float64   `json:"sleep_hours"        db:"sleep_hours"`
	MealsPerDay       *int       `json:"meals_per_day"      db:"meals_per_day"`
	BowelFunction     *string    `json:"bowel_function"     db:"bowel_function"`
	AlcoholFrequency  *string    `json:"alcohol_frequency"  db:"alcohol_frequency"`
	Smoker            *bool      `json:"smoker"             db:"smoker"`
	StressLevel       *string    `json:"stress_level"       db:"stress_level"`
	Notes             *string    `json:"notes"              db:"notes"`
	CreatedAt         *time.Time `json:"created_at"         db:"created_at"`
}

// physicalAssessment maps to physical_assessments: one dated set of body
// measurements entered by the professional.
type physicalAssessment struct {
	ID           int        `json:"id"             db:"id"`
	PatientID    int        `json:"patient_id"     db:"patient_id"`
	Date         DateOnly   `json:"date"           db:"date"`
	WeightKG     *float64   `json:"weight_kg"      db:"weight_kg"`
	HeightCM     *float64   `json:"height_cm"      db:"height_cm"`
	WaistCM      *float64   `json:"waist_cm"       db:"waist_cm"`
	HipCM        *float64   `json:"hip_cm"         db:"hip_cm"`
	BodyFatPct   *float64   `json:"body_fat_pct"   db:"body_fat_pct"`
	MuscleMassKG *float64   `json:"muscle_mass_kg" db:"muscle_mass_kg"`
	SystolicBP   *int       `json:"systolic_bp"    db:"systolic_bp"`
	DiastolicBP  *int       `json:"diastolic_bp"   db:"diastolic_bp"`
	Notes        *string    `json:"notes"          db:"notes"`
	CreatedAt    *time.Time `json:"created_at"     db:"created_at"`
}

// snapshot converts the assessment into the calculator's input shape.
// Height falls back to the patient profile when the assessment omits it.
func (a physicalAssessment) snapshot(p patientProfile) AnthropometricSnapshot {
	s := AnthropometricSnapshot{
		WeightKG:   a.WeightKG,
		HeightCM:   a.HeightCM,
		WaistCM:    a.WaistCM,
		HipCM:      a.HipCM,
		BodyFatPct: a.BodyFatPct,
	}
	if s.HeightCM == nil {
		s.HeightCM = p.HeightCM
	}
	if p.Sex != "" {
		sex := p.Sex
		s.Sex = &sex
	}
	s.AgeYears = p.AgeYears
	return s
}

// patientTip maps to patient_tips, the feed of tips shown to the patient.
type patientTip struct {
	ID        int        `json:"id"         db:"id"`
	PatientID int        `json:"patient_id" db:"patient_id"`
	Title     string     `json:"title"      db:"title"`
	Content   string     `json:"content"    db:"content"`
	Category  string     `json:"category"   db:"category"`
	Source    string     `json:"source"     db:"source"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

/* ─── Engine-facing profile ──────────────────────────────────────────── */

// patientProfile is the read-only personalization input shared by the meal
// plan composer and the tip generator.
type patientProfile struct {
	Name               string   `json:"name"`
	Sex                string   `json:"sex"`
	AgeYears           *int     `json:"age_years,omitempty"`
	HeightCM           *float64 `json:"height_cm,omitempty"`
	WeightKG           *float64 `json:"weight_kg,omitempty"`
	GoalWeightKG       *float64 `json:"goal_weight_kg,omitempty"`
	DaysSincePlanStart *int     `json:"days_since_plan_start,omitempty"`
}

// profile builds the engine profile from the stored patient. ref is the
// reference date for age and plan-day computations.
func (p patient) profile(ref time.Time) patientProfile {
	pp := patientProfile{
		Name:         p.Name,
		HeightCM:     p.HeightCM,
		WeightKG:     p.WeightKG,
		GoalWeightKG: p.GoalWeightKG,
	}
	if p.Sex != nil {
		pp.Sex = normalizeSex(*p.Sex)
	}
	if p.BirthDate != nil {
		if age, ok := ageAt(p.BirthDate.Time, ref); ok {
			pp.AgeYears = &age
		}
	}
	if p.PlanStartDate != nil {
		pp.DaysSincePlanStart = daysSince(p.PlanStartDate.Time, ref)
	}
	return pp
}

/* ─── Request bodies ─────────────────────────────────────────────────── */

// createPatientRequest is the request body for POST /api/patients.
type createPatientRequest struct {
	Name          string   `json:"name"           binding:"required"`
	Email         *string  `json:"email"          binding:"omitempty,email"`
	Phone         *string  `json:"phone"`
	Sex           *string  `json:"sex"            binding:"omitempty,sex"`
	BirthDate     *string  `json:"birth_date"     binding:"omitempty,datetime=2006-01-02"`
	HeightCM      *float64 `json:"height_cm"      binding:"omitempty,gt=0,lt=300"`
	WeightKG      *float64 `json:"weight_kg"      binding:"omitempty,gt=0,lt=700"`
	GoalWeightKG  *float64 `json:"goal_weight_kg" binding:"omitempty,gt=0,lt=700"`
	PlanStartDate *string  `json:"plan_start_date" binding:"omitempty,datetime=2006-01-02"`
}

// patchPatientRequest is the request body for PATCH /api/patients/:id.
// Only non-nil fields get written to the database.
type patchPatientRequest struct {
	Name          *string  `json:"name"            binding:"omitempty,min=1"`
	Email         *string  `json:"email"           binding:"omitempty,email"`
	Phone         *string  `json:"phone"`
	Sex           *string  `json:"sex"             binding:"omitempty,sex"`
	BirthDate     *string  `json:"birth_date"      binding:"omitempty,datetime=2006-01-02"`
	HeightCM      *float64 `json:"height_cm"       binding:"omitempty,gt=0,lt=300"`
	WeightKG      *float64 `json:"weight_kg"       binding:"omitempty,gt=0,lt=700"`
	GoalWeightKG  *float64 `json:"goal_weight_kg"  binding:"omitempty,gt=0,lt=700"`
	PlanStartDate *string  `json:"plan_start_date" binding:"omitempty,datetime=2006-01-02"`
}

// anamnesisRequest is the request body for POST /api/patients/:id/anamnesis.
type anamnesisRequest struct {
	Goal              *string    `json:"goal"               binding:"omitempty,goal"`
	ActivityLevel     *string    `json:"activity_level"     binding:"omitempty,activity_level"`
	ExerciseFrequency *string    `json:"exercise_frequency"`
	FoodPreference    *string    `json:"food_preference"    binding:"omitempty,oneof=omnivore vegetarian vegan flexitarian"`
	Allergies         StringList `json:"allergies"`
	Intolerances      StringList `json:"intolerances"`
	DislikedFoods     StringList `json:"disliked_foods"`
	MedicalConditions StringList `json:"medical_conditions"`
	Medications       *string    `json:"medications"`
	WaterIntakeL      *float64   `json:"water_intake_l"     binding:"omitempty,gte=0,lt=20"`
	SleepHours        *float64   `json:"sleep_hours"        binding:"omitempty,gte=0,lte=24"`
	MealsPerDay       *int       `json:"meals_per_day"      binding:"omitempty,gte=1,lte=12"`
	BowelFunction     *string    `json:"bowel_function"`
	AlcoholFrequency  *string    `json:"alcohol_frequency"`
	Smoker            *bool      `json:"smoker"`
	StressLevel       *string    `json:"stress_level"       binding:"omitempty,oneof=low moderate high"`
	Notes             *string    `json:"notes"`
}

// toAnamnesis copies the request into an unsaved anamnesis record.
func (r anamnesisRequest) toAnamnesis(patientID int) anamnesis {
	return anamnesis{
		PatientID:         patientID,
		Goal:              r.Goal,
		ActivityLevel:     r.ActivityLevel,
		ExerciseFrequency: r.ExerciseFrequency,
		FoodPreference:    r.FoodPreference,
		Allergies:         r.Allergies,
		Intolerances:      r.Intolerances,
		DislikedFoods:     r.DislikedFoods,
		MedicalConditions: r.MedicalConditions,
		Medications:       r.Medications,
		WaterIntakeL:      r.WaterIntakeL,
		SleepHours:        r.SleepHours,
		MealsPerDay:       r.MealsPerDay,
		BowelFunction:     r.BowelFunction,
		AlcoholFrequency:  r.AlcoholFrequency,
		Smoker:            r.Smoker,
		StressLevel:       r.StressLevel,
		Notes:             r.Notes,
	}
}

// createAssessmentRequest is the request body for POST /api/patients/:id/assessments.
type createAssessmentRequest struct {
	Date         string   `json:"date"           binding:"omitempty,datetime=2006-01-02"`
	WeightKG     *float64 `json:"weight_kg"      binding:"omitempty,gt=0,lt=700"`
	HeightCM     *float64 `json:"height_cm"      binding:"omitempty,gt=0,lt=300"`
	WaistCM      *float64 `json:"waist_cm"       binding:"omitempty,gt=0,lt=400"`
	HipCM        *float64 `json:"hip_cm"         binding:"omitempty,gt=0,lt=400"`
	BodyFatPct   *float64 `json:"body_fat_pct"   binding:"omitempty,gt=0,lt=80"`
	MuscleMassKG *float64 `json:"muscle_mass_kg" binding:"omitempty,gt=0,lt=300"`
	SystolicBP   *int     `json:"systolic_bp"    binding:"omitempty,gt=0,lt=300"`
	DiastolicBP  *int     `json:"diastolic_bp"   binding:"omitempty,gt=0,lt=200"`
	Notes        *string  `json:"notes"`
}
