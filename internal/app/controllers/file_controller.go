package controllers

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolconnector/internal/app/models"
	"github.com/yigit/schoolconnector/internal/app/models/dto"
	"github.com/yigit/schoolconnector/internal/app/services"
	"github.com/yigit/schoolconnector/internal/middleware"
)

// FileController handles files offered to students
type FileController struct {
	students services.StudentService
	files    services.FileService
}

// NewFileController creates a new FileController
func NewFileController(students services.StudentService, files services.FileService) *FileController {
	return &FileController{
		students: students,
		files:    files,
	}
}

// GetStudentFiles lists the files offered to a student
// @Summary List files of a student
// @Tags files
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.SchoolFile}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 502 {object} dto.ErrorResponse "Connector request failed"
// @Router /students/{id}/files [get]
func (fc *FileController) GetStudentFiles(c *gin.Context) {
	student, ok := loadStudent(c, fc.students)
	if !ok {
		return
	}

	files, err := fc.files.ListStudentFiles(c.Request.Context(), student)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(files, ""))
}

// SendFile offers a file to a student
// @Summary Send a file
// @Description Uploads the file to the connector and asks the student to take ownership of it
// @Tags files
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Param request body dto.SendFileRequest true "File"
// @Success 201 {object} dto.APIResponse{data=models.SchoolFile}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 412 {object} dto.ErrorResponse "Student has no relationship"
// @Router /students/{id}/files [post]
func (fc *FileController) SendFile(c *gin.Context) {
	var req dto.SendFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	fc.send(c, req.File, services.SendFileInput{
		Title:    req.Title,
		Filename: req.Filename,
		Mimetype: req.Mimetype,
		Tags:     req.Tags,
	}, fc.files.SendFile)
}

// SendAbiturzeugnis offers an Abiturzeugnis to a student
// @Summary Send an Abiturzeugnis
// @Description Like sending a file, with default title, filename and mimetype and the schulzeugnis and abiturzeugnis tags
// @Tags files
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Param request body dto.SendAbiturzeugnisRequest true "File"
// @Success 201 {object} dto.APIResponse{data=models.SchoolFile}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 412 {object} dto.ErrorResponse "Student has no relationship"
// @Router /students/{id}/files/abiturzeugnis [post]
func (fc *FileController) SendAbiturzeugnis(c *gin.Context) {
	var req dto.SendAbiturzeugnisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	fc.send(c, req.File, services.SendFileInput{
		Title:    req.Title,
		Filename: req.Filename,
		Mimetype: req.Mimetype,
		Tags:     req.Tags,
	}, fc.files.SendAbiturzeugnis)
}

type sendFunc = func(ctx context.Context, student *models.StudentRecord, input services.SendFileInput) (models.SchoolFile, error)

func (fc *FileController) send(c *gin.Context, encoded string, input services.SendFileInput, send sendFunc) {
	content, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		middleware.HandleBindingError(c, err)
		return
	}
	input.Content = content

	student, ok := loadStudent(c, fc.students)
	if !ok {
		return
	}

	file, err := send(c.Request.Context(), student, input)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(file, "File sent"))
}
