package dto

// AuditLogQuery are the query parameters of GET /students/:id/log
type AuditLogQuery struct {
	Verbose bool `form:"verbose"`
}
