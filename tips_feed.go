package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const defaultTipsLimit = 50

// storeTips forwards a generated batch to the patient's tip feed. The feed
// is append-only; repeated tips across calls are kept.
func (h *Handler) storeTips(c *gin.Context, patientID int, kind tipKind, tips []Tip) error {
	batch := &pgx.Batch{}
	for _, t := range tips {
		batch.Queue(
			`INSERT INTO patient_tips (patient_id, title, content, category, source)
			 VALUES (@patientID, @title, @content, @category, @source)`,
			pgx.NamedArgs{
				"patientID": patientID,
				"title":     t.Title,
				"content":   t.Content,
				"category":  t.Category,
				"source":    string(kind),
			})
	}
	if err := h.db.SendBatch(c, batch).Close(); err != nil {
		h.logger.Error("[storeTips] insert failed", zap.Int("patient_id", patientID), zap.Error(err))
		return err
	}
	h.metrics.tips(kind, len(tips))
	return nil
}

// listPatientTips returns the patient's tip feed, newest first.
// GET /api/patients/:id/tips?limit=N (default 50, max 200).
func (h *Handler) listPatientTips(c *gin.Context) {
	p, ok := h.loadPatient(c)
	if !ok {
		return
	}

	limit := defaultTipsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			apiError(c, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	tips, err := queryMany[patientTip](h, c,
		`SELECT * FROM patient_tips
		 WHERE patient_id = @patientID
		 ORDER BY created_at DESC, id DESC
		 LIMIT @limit`,
		pgx.NamedArgs{"patientID": p.ID, "limit": limit})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch tips")
		return
	}
	if tips == nil {
		tips = []patientTip{}
	}

	c.JSON(http.StatusOK, tips)
}
