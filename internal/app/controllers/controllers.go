package controllers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolconnector/internal/app/models"
	"github.com/yigit/schoolconnector/internal/app/services"
	"github.com/yigit/schoolconnector/internal/middleware"
)

// Response content types besides JSON
const (
	MIMEPDF = "application/pdf"
	MIMEPNG = "image/png"
	MIMECSV = "text/csv"
)

// loadStudent resolves the :id path parameter. On failure the error response
// has been written and false is returned.
func loadStudent(c *gin.Context, students services.StudentService) (*models.StudentRecord, bool) {
	student, err := students.GetStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return nil, false
	}
	return student, true
}

func attachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, contentType, data)
}
