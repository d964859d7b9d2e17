package models

// Badge is the presentational marker shown next to an application in the
// dashboard.
type Badge struct {
	Variant string `json:"variant"`
	Icon    string `json:"icon"`
}

// BadgeFor maps a stored recommendation onto a badge. Any value other than
// the two known labels is shown as pending.
func BadgeFor(recommendation Recommendation) Badge {
	switch recommendation {
	case Recommended:
		return Badge{Variant: "default", Icon: "check-circle"}
	case NotRecommended:
		return Badge{Variant: "destructive", Icon: "x-circle"}
	default:
		return Badge{Variant: "secondary", Icon: "clock"}
	}
}

type ApplicationListItem struct {
	Application
	Badge Badge `json:"badge"`
}

type ApplicationListResponse struct {
	Applications []ApplicationListItem `json:"applications"`
	Total        int                   `json:"total"`
}

type SimilarApplication struct {
	Application
	Score float32 `json:"score"`
}

type SimilarApplicationsResponse struct {
	ID      string               `json:"id"`
	Similar []SimilarApplication `json:"similar"`
}
