package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"activity-registration/internal/api/middleware"
	domain "activity-registration/internal/domain/enrollment"
	serviceInterfaces "activity-registration/internal/interfaces/service"
	"activity-registration/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// statusForError maps the enrollment error taxonomy onto HTTP status codes.
// Anything outside the taxonomy is an internal failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyEnrolled), errors.Is(err, domain.ErrScheduleConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrGradeRestriction),
		errors.Is(err, domain.ErrAgeRestriction),
		errors.Is(err, domain.ErrActivityInactive),
		errors.Is(err, domain.ErrStudentInactive):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, message string, err error) {
	c.JSON(statusForError(err), APIResponse{
		Success: false,
		Message: message,
		Errors:  err.Error(),
	})
}

// EnrollmentHandler handles enrollment-related HTTP requests
type EnrollmentHandler struct {
	enrollmentService serviceInterfaces.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService serviceInterfaces.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentService: enrollmentService,
	}
}

// Register handles POST /api/v1/enrollments
func (h *EnrollmentHandler) Register(c *gin.Context) {
	var req serviceInterfaces.RegisterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return
	}

	if err := validator.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  validator.FormatValidationError(err),
		})
		return
	}

	req.IdempotencyKey = middleware.IdempotencyKeyFromContext(c)

	response, err := h.enrollmentService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "Registration failed", err)
		return
	}

	status := http.StatusCreated
	if response.Outcome == serviceInterfaces.OutcomeWaitlisted {
		status = http.StatusAccepted
	}
	c.JSON(status, APIResponse{
		Success: true,
		Message: response.Message,
		Data:    response,
	})
}

// Cancel handles POST /api/v1/enrollments/:id/cancel
func (h *EnrollmentHandler) Cancel(c *gin.Context) {
	enrollmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid enrollment ID",
			Errors:  err.Error(),
		})
		return
	}

	var req serviceInterfaces.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return
	}

	if err := validator.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  validator.FormatValidationError(err),
		})
		return
	}

	response, err := h.enrollmentService.Cancel(c.Request.Context(), enrollmentID, &req)
	if err != nil {
		respondError(c, "Cancellation failed", err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Enrollment cancelled successfully",
		Data:    response,
	})
}

// UpdateStatus handles PATCH /api/v1/enrollments/:id/status
func (h *EnrollmentHandler) UpdateStatus(c *gin.Context) {
	enrollmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid enrollment ID",
			Errors:  err.Error(),
		})
		return
	}

	var req serviceInterfaces.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return
	}

	if err := validator.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  validator.FormatValidationError(err),
		})
		return
	}

	response, err := h.enrollmentService.UpdateStatus(c.Request.Context(), enrollmentID, &req)
	if err != nil {
		respondError(c, "Status update failed", err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Enrollment status updated",
		Data:    response,
	})
}

// GetStudentEnrollments handles GET /api/v1/students/:student_id/enrollments
func (h *EnrollmentHandler) GetStudentEnrollments(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("student_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid student ID",
			Errors:  err.Error(),
		})
		return
	}

	enrollments, err := h.enrollmentService.GetStudentEnrollments(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, "Failed to get enrollments", err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    enrollments,
	})
}

// GetStudentWaitlist handles GET /api/v1/students/:student_id/waitlist
func (h *EnrollmentHandler) GetStudentWaitlist(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("student_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid student ID",
			Errors:  err.Error(),
		})
		return
	}

	entries, err := h.enrollmentService.GetStudentWaitlist(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, "Failed to get waitlist entries", err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    entries,
	})
}

// GetWaitlistStanding handles GET /api/v1/students/:student_id/waitlist/:activity_id
func (h *EnrollmentHandler) GetWaitlistStanding(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("student_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid student ID",
			Errors:  err.Error(),
		})
		return
	}
	activityID, err := uuid.Parse(c.Param("activity_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid activity ID",
			Errors:  err.Error(),
		})
		return
	}

	standing, err := h.enrollmentService.GetWaitlistStanding(c.Request.Context(), studentID, activityID)
	if err != nil {
		respondError(c, "Failed to get waitlist standing", err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    standing,
	})
}

// LeaveWaitlist handles DELETE /api/v1/students/:student_id/waitlist/:activity_id
func (h *EnrollmentHandler) LeaveWaitlist(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("student_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid student ID",
			Errors:  err.Error(),
		})
		return
	}
	activityID, err := uuid.Parse(c.Param("activity_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid activity ID",
			Errors:  err.Error(),
		})
		return
	}

	if err := h.enrollmentService.LeaveWaitlist(c.Request.Context(), studentID, activityID); err != nil {
		respondError(c, "Failed to leave waitlist", err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Removed from waitlist",
	})
}

// GetActivityRoster handles GET /api/v1/activities/:activity_id/enrollments
func (h *EnrollmentHandler) GetActivityRoster(c *gin.Context) {
	activityID, err := uuid.Parse(c.Param("activity_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid activity ID",
			Errors:  err.Error(),
		})
		return
	}

	includeTerminal := c.Query("include_terminal") == "true"

	enrollments, err := h.enrollmentService.GetActivityRoster(c.Request.Context(), activityID, includeTerminal)
	if err != nil {
		respondError(c, "Failed to get activity roster", err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    enrollments,
	})
}

// GetActivityWaitlist handles GET /api/v1/activities/:activity_id/waitlist
func (h *EnrollmentHandler) GetActivityWaitlist(c *gin.Context) {
	activityID, err := uuid.Parse(c.Param("activity_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid activity ID",
			Errors:  err.Error(),
		})
		return
	}

	entries, err := h.enrollmentService.GetActivityWaitlist(c.Request.Context(), activityID)
	if err != nil {
		respondError(c, "Failed to get activity waitlist", err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    entries,
	})
}

// GetActivity handles GET /api/v1/activities/:activity_id
func (h *EnrollmentHandler) GetActivity(c *gin.Context) {
	activityID, err := uuid.Parse(c.Param("activity_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid activity ID",
			Errors:  err.Error(),
		})
		return
	}

	activity, err := h.enrollmentService.GetActivity(c.Request.Context(), activityID)
	if err != nil {
		respondError(c, "Failed to get activity", err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    activity,
	})
}

// GetOpenActivities handles GET /api/v1/activities/open
func (h *EnrollmentHandler) GetOpenActivities(c *gin.Context) {
	activities, err := h.enrollmentService.GetOpenActivities(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to get open activities", err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    activities,
	})
}

// GetRecentConflicts handles GET /api/v1/conflicts
func (h *EnrollmentHandler) GetRecentConflicts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	records, err := h.enrollmentService.GetRecentConflicts(c.Request.Context(), limit)
	if err != nil {
		respondError(c, "Failed to get conflict records", err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    records,
	})
}
