package controllers

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolconnector/internal/app/models"
	"github.com/yigit/schoolconnector/internal/app/models/dto"
	"github.com/yigit/schoolconnector/internal/app/services"
	"github.com/yigit/schoolconnector/internal/middleware"
	"github.com/yigit/schoolconnector/internal/pkg/apperrors"
)

// OnboardingController serves onboarding links, QR codes and letters
type OnboardingController struct {
	students   services.StudentService
	onboarding services.OnboardingService
}

// NewOnboardingController creates a new OnboardingController
func NewOnboardingController(students services.StudentService, onboarding services.OnboardingService) *OnboardingController {
	return &OnboardingController{
		students:   students,
		onboarding: onboarding,
	}
}

// GetStudentOnboarding returns the onboarding material of a student
// @Summary Get onboarding material
// @Description Returns link, PDF letter and QR code. Accept application/pdf or image/png to download the file directly. POST allows a logo and text fields for the letter.
// @Tags onboarding
// @Accept json
// @Produce json,application/pdf,image/png
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Param request body dto.OnboardingPDFRequest false "Letter settings (POST only)"
// @Success 200 {object} dto.APIResponse{data=dto.OnboardingResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid settings or unprintable text"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 412 {object} dto.ErrorResponse "Student already deleted"
// @Router /students/{id}/onboarding [get]
// @Router /students/{id}/onboarding [post]
func (oc *OnboardingController) GetStudentOnboarding(c *gin.Context) {
	var req dto.OnboardingPDFRequest
	if c.Request.Method == http.MethodPost && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleBindingError(c, err)
			return
		}
	}
	settings, ok := pdfSettings(c, &req)
	if !ok {
		return
	}

	student, ok := loadStudent(c, oc.students)
	if !ok {
		return
	}

	material, err := oc.onboarding.GetOnboardingMaterial(c.Request.Context(), student, settings)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	switch c.NegotiateFormat(gin.MIMEJSON, MIMEPDF, MIMEPNG) {
	case MIMEPDF:
		attachment(c, student.ID+"_onboarding.pdf", MIMEPDF, material.PDF)
	case MIMEPNG:
		attachment(c, student.ID+"_onboarding.png", MIMEPNG, material.PNG)
	default:
		c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.OnboardingResponse{
			Link: material.Link,
			PDF:  base64.StdEncoding.EncodeToString(material.PDF),
			PNG:  base64.StdEncoding.EncodeToString(material.PNG),
		}, ""))
	}
}

// GetOnboardingPDFs renders the onboarding letters of many students
// @Summary Get onboarding letters of many students
// @Description Renders one PDF per student. Failing students are reported per item and do not fail the batch. An empty student list selects all students.
// @Tags onboarding
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.BatchOnboardingPDFRequest true "Students and letter settings"
// @Success 200 {object} dto.APIResponse{data=[]dto.BatchOnboardingPDFItem}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /students/onboarding [post]
func (oc *OnboardingController) GetOnboardingPDFs(c *gin.Context) {
	var req dto.BatchOnboardingPDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}
	settings, ok := pdfSettings(c, &req.OnboardingPDFRequest)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var students []*models.StudentRecord
	if len(req.Students) == 0 {
		all, err := oc.students.ListStudents(ctx)
		if err != nil {
			middleware.HandleAPIError(c, err)
			return
		}
		students = all
	} else {
		for _, id := range req.Students {
			student, err := oc.students.GetStudent(ctx, id)
			if err != nil {
				middleware.HandleAPIError(c, err)
				return
			}
			students = append(students, student)
		}
	}

	results := oc.onboarding.GetOnboardingPDFs(ctx, students, settings)
	items := make([]dto.BatchOnboardingPDFItem, len(results))
	for i, res := range results {
		items[i] = dto.BatchOnboardingPDFItem{ID: res.StudentID}
		if res.Err != nil {
			items[i].Error = res.Err.Error()
			continue
		}
		items[i].PDF = base64.StdEncoding.EncodeToString(res.PDF)
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(items, ""))
}

func pdfSettings(c *gin.Context, req *dto.OnboardingPDFRequest) (models.PDFSettings, bool) {
	settings, err := req.ToSettings()
	if err != nil {
		middleware.HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrBadRequest, "The logo is not valid base64.").
			WithCode(apperrors.CodeInvalidLogo))
		return models.PDFSettings{}, false
	}
	return settings, true
}
