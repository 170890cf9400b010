package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to AppointmentStatus
		want     bool
	}{
		{AppointmentScheduled, AppointmentConfirmed, true},
		{AppointmentScheduled, AppointmentInProgress, true},
		{AppointmentScheduled, AppointmentCancelled, true},
		{AppointmentScheduled, AppointmentCompleted, false},
		{AppointmentConfirmed, AppointmentInProgress, true},
		{AppointmentConfirmed, AppointmentCancelled, true},
		{AppointmentConfirmed, AppointmentScheduled, false},
		{AppointmentInProgress, AppointmentCompleted, true},
		{AppointmentInProgress, AppointmentCancelled, true},
		{AppointmentInProgress, AppointmentConfirmed, false},
		{AppointmentCompleted, AppointmentCancelled, false},
		{AppointmentCompleted, AppointmentInProgress, false},
		{AppointmentCancelled, AppointmentScheduled, false},
		{AppointmentCancelled, AppointmentInProgress, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(AppointmentScheduled))
	assert.True(t, ValidStatus(AppointmentCancelled))
	assert.False(t, ValidStatus("archived"))
	assert.False(t, ValidStatus(""))
}

func TestAppointment_IsParty(t *testing.T) {
	a := &Appointment{ClientID: 3, CounselorID: 7}
	assert.True(t, a.IsParty(3))
	assert.True(t, a.IsParty(7))
	assert.False(t, a.IsParty(42))
}
