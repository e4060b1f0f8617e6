package controllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolconnector/internal/app/models/dto"
	"github.com/yigit/schoolconnector/internal/app/services"
	"github.com/yigit/schoolconnector/internal/middleware"
)

// StudentController handles student lifecycle endpoints
type StudentController struct {
	students services.StudentService
	auditLog services.AuditLogService
	batch    services.BatchService
}

// NewStudentController creates a new StudentController
func NewStudentController(students services.StudentService, auditLog services.AuditLogService, batch services.BatchService) *StudentController {
	return &StudentController{
		students: students,
		auditLog: auditLog,
		batch:    batch,
	}
}

// CreateStudent handles student creation
// @Summary Create a student
// @Description Creates a student and the onboarding template the student accepts with the app
// @Tags students
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=dto.StudentResponse} "Student created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid or missing API key"
// @Failure 409 {object} dto.ErrorResponse "Student already exists"
// @Failure 502 {object} dto.ErrorResponse "Connector request failed"
// @Router /students [post]
func (sc *StudentController) CreateStudent(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	input := services.CreateStudentInput{
		ID:        req.ID,
		GivenName: req.GivenName,
		Surname:   req.Surname,
		Pin:       req.Pin,
	}
	for _, consent := range req.AdditionalConsents {
		input.AdditionalConsents = append(input.AdditionalConsents, services.ConsentInput{
			MustBeAccepted:  consent.MustBeAccepted,
			Consent:         consent.Consent,
			Link:            consent.Link,
			LinkDisplayText: consent.LinkDisplayText,
		})
	}

	student, err := sc.students.CreateStudent(c.Request.Context(), input)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	resp, err := sc.students.ToDTO(c.Request.Context(), student)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Student created"))
}

// GetStudents lists all students
// @Summary List students
// @Description Lists all students with their current onboarding status
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse}
// @Failure 401 {object} dto.ErrorResponse "Invalid or missing API key"
// @Failure 502 {object} dto.ErrorResponse "Connector request failed"
// @Router /students [get]
func (sc *StudentController) GetStudents(c *gin.Context) {
	students, err := sc.students.ListStudents(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	resp, err := sc.students.ToDTOs(c.Request.Context(), students)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// GetStudent returns a single student
// @Summary Get a student
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (sc *StudentController) GetStudent(c *gin.Context) {
	student, ok := loadStudent(c, sc.students)
	if !ok {
		return
	}

	resp, err := sc.students.ToDTO(c.Request.Context(), student)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// DeleteStudent deletes a student and tears down the relationship
// @Summary Delete a student
// @Description Terminates and decomposes the relationship, deletes the onboarding template and removes the student
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse "Student deleted"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 502 {object} dto.ErrorResponse "Connector request failed"
// @Router /students/{id} [delete]
func (sc *StudentController) DeleteStudent(c *gin.Context) {
	student, ok := loadStudent(c, sc.students)
	if !ok {
		return
	}

	if err := sc.students.DeleteStudent(c.Request.Context(), student); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Student deleted"))
}

// PseudonymizeStudent removes the personal data of a student
// @Summary Pseudonymize a student
// @Description Ends the relationship and deletes the invitation template on the connector, then clears names and references; only the ID is kept
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 502 {object} dto.ErrorResponse "Connector failure"
// @Router /students/{id}/pseudonymize [post]
func (sc *StudentController) PseudonymizeStudent(c *gin.Context) {
	student, err := sc.students.PseudonymizeStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	resp, err := sc.students.ToDTO(c.Request.Context(), student)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Student pseudonymized"))
}

// GetStudentLog returns the audit log of a student
// @Summary Get the audit log of a student
// @Description Chronological log of template, relationship, mail and file events. Accept text/plain for a plain text log.
// @Tags students
// @Produce json,plain
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Param verbose query bool false "Include the connector objects of each entry"
// @Success 200 {object} dto.APIResponse{data=[]models.AuditLogEntry}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 502 {object} dto.ErrorResponse "Connector request failed"
// @Router /students/{id}/log [get]
func (sc *StudentController) GetStudentLog(c *gin.Context) {
	var query dto.AuditLogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	student, ok := loadStudent(c, sc.students)
	if !ok {
		return
	}

	entries, err := sc.auditLog.BuildAuditLog(c.Request.Context(), student, query.Verbose)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	if c.NegotiateFormat(gin.MIMEJSON, gin.MIMEPlain) == gin.MIMEPlain {
		c.String(http.StatusOK, services.RenderAuditLogText(entries))
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(entries, ""))
}

// CreateStudentsBatch creates students from a CSV upload
// @Summary Create students from CSV
// @Description Body is a CSV with the header id,givenname,surname and an optional pin column. All rows are validated before any student is created.
// @Tags students
// @Accept plain
// @Produce plain
// @Security ApiKeyAuth
// @Success 200 {string} string "CSV with id,givenname,surname,status,link,error"
// @Failure 400 {object} dto.ErrorResponse "Invalid CSV"
// @Router /students/create/batch [post]
func (sc *StudentController) CreateStudentsBatch(c *gin.Context) {
	report, err := sc.batch.Import(c.Request.Context(), c.Request.Body)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := services.WriteBatchCSV(&buf, report); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.Header("X-Batch-ID", report.ID)
	c.Data(http.StatusOK, MIMECSV, buf.Bytes())
}
