package rating

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/juspay/genius-dashboard-go/database"
	"github.com/juspay/genius-dashboard-go/utils"
	"gorm.io/gorm/clause"
)

// ManualRating is a reviewer's verdict on a single trace. One rating per
// trace per project; saving again overwrites the previous verdict.
type ManualRating struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	ProjectID string    `json:"projectid" gorm:"column:projectid;uniqueIndex:idx_project_trace"`
	TraceID   string    `json:"traceid" gorm:"column:traceid;uniqueIndex:idx_project_trace"`
	Rating    string    `json:"rating" gorm:"column:rating"`
	Comment   string    `json:"comment" gorm:"column:comment"`
	RatedBy   string    `json:"ratedby" gorm:"column:ratedby"`
	Timestamp time.Time `json:"timestamp" gorm:"column:timestamp"`
}

func (ManualRating) TableName() string {
	return "manual_ratings"
}

type putRatingRequest struct {
	ProjectID string `json:"projectid"`
	TraceID   string `json:"traceid"`
	Rating    string `json:"rating"`
	Comment   string `json:"comment"`
	RatedBy   string `json:"ratedby"`
}

type listRatingsRequest struct {
	ProjectID string   `json:"projectid"`
	TraceIDs  []string `json:"traceids"`
	Rating    string   `json:"rating"`
}

// ForTraces returns the manual ratings for a set of traces, keyed by trace id.
func ForTraces(projectID string, traceIDs []string) map[string]ManualRating {
	ret := map[string]ManualRating{}

	if len(traceIDs) == 0 {
		return ret
	}

	var ratings []ManualRating
	database.DBConn.Where("projectid = ? AND traceid IN ?", projectID, traceIDs).Find(&ratings)

	for _, r := range ratings {
		ret[r.TraceID] = r
	}

	return ret
}

// ForTrace returns the manual rating for a single trace, or nil.
func ForTrace(projectID, traceID string) *ManualRating {
	var ratings []ManualRating
	database.DBConn.Where("projectid = ? AND traceid = ?", projectID, traceID).Limit(1).Find(&ratings)

	if len(ratings) == 0 {
		return nil
	}

	return &ratings[0]
}

// PutRating upserts a manual rating for a trace.
//
// @Summary Save a manual rating
// @Tags rating
// @Accept json
// @Produce json
// @Success 200 {object} fiber.Map
// @Router /api/rating [post]
func PutRating(c *fiber.Ctx) error {
	var req putRatingRequest

	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid rating payload")
	}

	req.ProjectID = strings.TrimSpace(req.ProjectID)
	req.TraceID = strings.TrimSpace(req.TraceID)

	if req.ProjectID == "" || req.TraceID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "projectid and traceid are required")
	}

	if !utils.ValidRating(req.Rating) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid rating value")
	}

	rating := ManualRating{
		ProjectID: req.ProjectID,
		TraceID:   req.TraceID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		RatedBy:   req.RatedBy,
		Timestamp: time.Now(),
	}

	err := database.DBConn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "projectid"}, {Name: "traceid"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "ratedby", "timestamp"}),
	}).Create(&rating).Error

	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to save rating")
	}

	return c.JSON(fiber.Map{
		"ret":    0,
		"status": "Success",
		"rating": rating,
	})
}

// DeleteRating removes a manual rating from a trace.
//
// @Summary Delete a manual rating
// @Tags rating
// @Produce json
// @Param traceid path string true "Trace ID"
// @Success 200 {object} fiber.Map
// @Router /api/rating/{traceid} [delete]
func DeleteRating(c *fiber.Ctx) error {
	traceID := c.Params("traceid")
	projectID := c.Query("projectId")

	if traceID == "" || projectID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "projectId and traceid are required")
	}

	database.DBConn.Where("projectid = ? AND traceid = ?", projectID, traceID).Delete(&ManualRating{})

	return c.JSON(fiber.Map{
		"ret":    0,
		"status": "Success",
	})
}

// ListRatings returns the manual ratings for a set of traces, optionally
// restricted to one rating value.
//
// @Summary List manual ratings for traces
// @Tags rating
// @Accept json
// @Produce json
// @Success 200 {object} fiber.Map
// @Router /api/rating/list [post]
func ListRatings(c *fiber.Ctx) error {
	var req listRatingsRequest

	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid list payload")
	}

	if req.ProjectID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "projectid is required")
	}

	if req.Rating != "" && !utils.ValidRating(req.Rating) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid rating value")
	}

	ratings := []ManualRating{}

	q := database.DBConn.Where("projectid = ?", req.ProjectID)

	if len(req.TraceIDs) > 0 {
		q = q.Where("traceid IN ?", req.TraceIDs)
	}

	if req.Rating != "" {
		q = q.Where("rating = ?", req.Rating)
	}

	q.Order("timestamp DESC").Find(&ratings)

	return c.JSON(fiber.Map{
		"ret":     0,
		"status":  "Success",
		"ratings": ratings,
	})
}
