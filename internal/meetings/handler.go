package meetings

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Gamepig/coach-rocks-ai-sub001/internal/shared/server/middleware"
	"github.com/Gamepig/coach-rocks-ai-sub001/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the meetings service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches meeting routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/meetings/analyze", h.analyzeMeeting)
	rg.GET("/meetings", h.listMeetings)
	rg.GET("/meetings/:id", h.getMeeting)
}

// statusForCode maps intake rejection codes to HTTP statuses. Rate limiting
// additionally sets a Retry-After header in the handler.
func statusForCode(code string) int {
	switch code {
	case ErrorCodeInvalidInput:
		return http.StatusBadRequest
	case ErrorCodeFilteredOut:
		return http.StatusUnprocessableEntity
	case ErrorCodeNoCustomerMatch:
		return http.StatusNotFound
	case ErrorCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) analyzeMeeting(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "user identity is required", nil)
		return
	}

	var req AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeInvalidInput, "request body is not valid JSON", nil)
		return
	}

	result, err := h.Svc.TriggerAnalysis(c.Request.Context(), userID, req)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start analysis", nil)
		return
	}
	if !result.Success {
		if result.ErrorCode == ErrorCodeRateLimited && h.Svc.Limiter != nil {
			if _, wait := h.Svc.Limiter.CheckAllowed(userID); wait > 0 {
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			}
		}
		respond.Error(c, statusForCode(result.ErrorCode), result.ErrorCode, result.Message, nil)
		return
	}

	respond.JSON(c, http.StatusAccepted, gin.H{
		"meetingId":     result.MeetingID,
		"correlationId": result.CorrelationID,
		"status":        StatusProcessing,
		"message":       result.Message,
	})
}

func (h *Handler) getMeeting(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	meetingID := c.Param("id")
	if meetingID == "" {
		respond.Error(c, http.StatusBadRequest, ErrorCodeInvalidInput, "meeting id is required", nil)
		return
	}

	meeting, err := h.Svc.Repo.GetByID(c.Request.Context(), meetingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "meeting not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch meeting", nil)
		}
		return
	}
	if meeting.UserID != userID {
		// Ownership mismatch is indistinguishable from absence on purpose.
		respond.Error(c, http.StatusNotFound, "not_found", "meeting not found", nil)
		return
	}

	resp := gin.H{
		"id":            meeting.ID,
		"clientName":    meeting.ClientName,
		"source":        meeting.Source,
		"title":         meeting.Title,
		"meetingDate":   meeting.MeetingDate,
		"status":        meeting.Status,
		"createdAt":     meeting.CreatedAt,
		"correlationId": meeting.CorrelationID,
	}
	if meeting.CompletedAt != nil {
		resp["completedAt"] = meeting.CompletedAt
	}
	if meeting.Status == StatusCompleted && meeting.Results != nil {
		resp["results"] = meeting.Results
	}
	if meeting.Status == StatusFailed {
		resp["error"] = ClassifyDetail(meeting.ErrorDetail)
	}

	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) listMeetings(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	list, err := h.Svc.Repo.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list meetings", nil)
		return
	}

	resp := make([]gin.H, 0, len(list))
	for _, m := range list {
		item := gin.H{
			"id":          m.ID,
			"clientName":  m.ClientName,
			"source":      m.Source,
			"title":       m.Title,
			"meetingDate": m.MeetingDate,
			"status":      m.Status,
			"createdAt":   m.CreatedAt,
		}
		if m.Status == StatusCompleted && m.Results != nil {
			item["summary"] = m.Results.Summary
			item["isDiscovery"] = m.Results.IsDiscovery
		}
		resp = append(resp, item)
	}

	respond.JSON(c, http.StatusOK, resp)
}
