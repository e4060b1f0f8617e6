package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolconnector/internal/app/models/dto"
	"github.com/yigit/schoolconnector/internal/app/services"
	"github.com/yigit/schoolconnector/internal/middleware"
)

// MailController handles mails exchanged with students
type MailController struct {
	students services.StudentService
	mail     services.MailService
}

// NewMailController creates a new MailController
func NewMailController(students services.StudentService, mail services.MailService) *MailController {
	return &MailController{
		students: students,
		mail:     mail,
	}
}

// GetStudentMails lists the mails exchanged with a student
// @Summary List mails of a student
// @Tags mails
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]connector.Message}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 412 {object} dto.ErrorResponse "Student has no relationship"
// @Router /students/{id}/mails [get]
func (mc *MailController) GetStudentMails(c *gin.Context) {
	student, ok := loadStudent(c, mc.students)
	if !ok {
		return
	}

	mails, err := mc.mail.GetMails(c.Request.Context(), student)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(mails, ""))
}

// SendMail sends a mail to a student
// @Summary Send a mail
// @Description Subject and body may use {{student.givenname}}, {{student.surname}} and {{requestBody.*}} placeholders
// @Tags mails
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Param request body dto.SendMailRequest true "Mail"
// @Success 201 {object} dto.APIResponse{data=connector.Message}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 412 {object} dto.ErrorResponse "No active relationship"
// @Router /students/{id}/mails [post]
func (mc *MailController) SendMail(c *gin.Context) {
	var req dto.SendMailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	student, ok := loadStudent(c, mc.students)
	if !ok {
		return
	}

	msg, err := mc.mail.SendMail(c.Request.Context(), student, req.Subject, req.Body, req.Data)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(msg, "Mail sent"))
}

// SendTemplateMail sends a mail template from the assets folder
// @Summary Send a template mail
// @Description Sends mail_<template>.txt; the first line is the subject, the rest the body
// @Tags mails
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Param request body dto.SendTemplateMailRequest true "Template"
// @Success 201 {object} dto.APIResponse{data=connector.Message}
// @Failure 400 {object} dto.ErrorResponse "Template missing or invalid"
// @Failure 412 {object} dto.ErrorResponse "No active relationship"
// @Router /students/{id}/mails/template [post]
func (mc *MailController) SendTemplateMail(c *gin.Context) {
	var req dto.SendTemplateMailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	student, ok := loadStudent(c, mc.students)
	if !ok {
		return
	}

	msg, err := mc.mail.SendMailFromTemplate(c.Request.Context(), student, req.Template, req.Data)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(msg, "Mail sent"))
}
