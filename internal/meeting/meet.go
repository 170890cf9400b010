package meeting

import (
	"math/rand"
	"strings"
)

const (
	meetLetters = "abcdefghijklmnopqrstuvwxyz"
	meetDigits  = "0123456789"
)

// NewMeetLink synthesizes a Google Meet style link: 3 lowercase letters,
// 4 digits, 3 lowercase letters. It never contacts any network and does not
// guarantee the room exists anywhere; it is a placeholder link generator.
func NewMeetLink() Meeting {
	var b strings.Builder
	b.Grow(10)

	for i := 0; i < 3; i++ {
		b.WriteByte(meetLetters[rand.Intn(len(meetLetters))])
	}
	for i := 0; i < 4; i++ {
		b.WriteByte(meetDigits[rand.Intn(len(meetDigits))])
	}
	for i := 0; i < 3; i++ {
		b.WriteByte(meetLetters[rand.Intn(len(meetLetters))])
	}

	id := b.String()
	return Meeting{
		MeetingID: id,
		JoinURL:   "https://meet.google.com/" + id,
		Provider:  ProviderMeet,
	}
}
