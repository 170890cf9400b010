package meeting

// Provider identifies which path produced a meeting.
const (
	ProviderMeet     = "meet"     // synthetic Google Meet style link
	ProviderZoom     = "zoom"     // real Zoom meeting
	ProviderFallback = "fallback" // synthetic link after a Zoom failure
)

// Meeting is the outcome of a provisioning call. StartURL is only set for
// real provider meetings and is meant for the host side.
type Meeting struct {
	MeetingID string `json:"meeting_id"`
	JoinURL   string `json:"join_url"`
	StartURL  string `json:"start_url,omitempty"`
	Provider  string `json:"provider"`
}
