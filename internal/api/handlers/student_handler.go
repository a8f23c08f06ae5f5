package handlers

import (
	"net/http"

	serviceInterfaces "activity-registration/internal/interfaces/service"
	"activity-registration/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StudentHandler handles student-related HTTP requests
type StudentHandler struct {
	studentService serviceInterfaces.StudentService
}

func NewStudentHandler(studentService serviceInterfaces.StudentService) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
	}
}

// CreateStudent handles POST /api/v1/students
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req serviceInterfaces.CreateStudentRequest

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

	student, err := h.studentService.CreateStudent(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "Failed to create student", err)
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "Student created successfully",
		Data:    student,
	})
}

// GetStudent handles GET /api/v1/students/:student_id
func (h *StudentHandler) GetStudent(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("student_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid student ID",
			Errors:  err.Error(),
		})
		return
	}

	student, err := h.studentService.GetStudent(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, "Failed to get student", err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    student,
	})
}
