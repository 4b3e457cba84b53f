package constants

// Admin-panel roles.
const (
	Editor = "editor"
	Admin  = "admin"
)
