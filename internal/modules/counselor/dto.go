package counselor

type CounselorView struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Specialization string  `json:"specialization"`
	HourlyRate     float64 `json:"hourly_rate"`
	AvatarURL      string  `json:"avatar_url,omitempty"`
	Bio            string  `json:"bio,omitempty"`
	AverageRating  float64 `json:"average_rating"`
	RatingCount    int64   `json:"rating_count"`
}
