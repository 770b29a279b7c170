package main

// Plain-text responses of the HTTP layer. Page copy lives in the content file.
const (
	sectionNotFound = "Section not found."
	projectNotFound = "Project not found."
	renderFailed    = "Sorry, this page could not be rendered. Please try again."
	healthStatus    = "healthy"

	adminUnauthorized = "Unauthorized"
	adminStatsFailed  = "Failed to load statistics"
	adminExportName   = "admin-stats.json"
	adminCleanupDone  = "Privacy cleanup completed"
)
