package permission

// Feature keys gated in the dashboard menu.
const (
	FeatureNews           = "news"
	FeatureJobs           = "jobs"
	FeatureEvent          = "event"
	FeaturePark           = "park"
	FeatureRecycling      = "recycling"
	FeaturePages          = "pages"
	FeatureAdministration = "administration"
	FeatureNotification   = "notification"
)

// DefaultFeatures returns the dashboard vocabulary in menu order.
func DefaultFeatures() []string {
	return []string{
		FeatureNews,
		FeatureJobs,
		FeatureEvent,
		FeaturePark,
		FeatureRecycling,
		FeaturePages,
		FeatureAdministration,
		FeatureNotification,
	}
}
