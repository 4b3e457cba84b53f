package constants

const (
	ManageListings = "manage_listings"
	FeatureListing = "feature_listing"
	ViewAuditTrail = "view_audit_trail"
	SignUpload     = "sign_upload"
)
