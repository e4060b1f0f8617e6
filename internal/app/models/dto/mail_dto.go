package dto

// SendMailRequest is the body of POST /students/:id/mails
type SendMailRequest struct {
	Subject string `json:"subject" binding:"required,min=3,max=255" example:"Willkommen, {{student.givenname}}"`
	Body    string `json:"body" binding:"required,min=5,max=4000" example:"Hallo {{student.givenname}} {{student.surname}}"`
	// Exposed to the templates as {{requestBody.*}}
	Data map[string]interface{} `json:"data,omitempty"`
}

// SendTemplateMailRequest sends the on-disk template mail_<template>.txt
type SendTemplateMailRequest struct {
	Template string                 `json:"template" binding:"required,min=1,max=64,alphanum" example:"welcome"`
	Data     map[string]interface{} `json:"data,omitempty"`
}
