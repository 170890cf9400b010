package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"telecounsel/internal/domain"
	"telecounsel/internal/meeting"
	"telecounsel/internal/pkg/lock"
)

type Service struct {
	appointments AppointmentRepository
	users        UserRepository
	zoom         MeetingProvider
	locks        lock.Locker
	logger       *zap.Logger
}

func NewService(
	appointments AppointmentRepository,
	users UserRepository,
	zoom MeetingProvider,
	locks lock.Locker,
	logger *zap.Logger,
) *Service {
	return &Service{
		appointments: appointments,
		users:        users,
		zoom:         zoom,
		locks:        locks,
		logger:       logger,
	}
}

// List returns the caller's appointments newest-first with the counterpart
// party's display fields joined in.
func (s *Service) List(ctx context.Context, userID int64, role string) ([]AppointmentView, error) {
	var (
		rows []domain.Appointment
		err  error
	)
	if role == string(domain.RoleCounselor) {
		rows, err = s.appointments.ListByCounselor(ctx, userID)
	} else {
		rows, err = s.appointments.ListByClient(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	partyIDs := make([]int64, 0, len(rows))
	seen := make(map[int64]bool)
	for _, a := range rows {
		id := a.CounselorID
		if role == string(domain.RoleCounselor) {
			id = a.ClientID
		}
		if !seen[id] {
			seen[id] = true
			partyIDs = append(partyIDs, id)
		}
	}

	parties := map[int64]domain.User{}
	if len(partyIDs) > 0 {
		parties, err = s.users.GetByIDs(ctx, partyIDs)
		if err != nil {
			return nil, err
		}
	}

	out := make([]AppointmentView, 0, len(rows))
	for _, a := range rows {
		view := AppointmentView{Appointment: a}
		if role == string(domain.RoleCounselor) {
			if u, ok := parties[a.ClientID]; ok {
				view.Client = &PartyView{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}
			}
		} else {
			if u, ok := parties[a.CounselorID]; ok {
				view.Counselor = &PartyView{ID: u.ID, Name: u.Name, Specialization: u.Specialization, AvatarURL: u.AvatarURL}
			}
		}
		out = append(out, view)
	}
	return out, nil
}

// Create books an appointment for the calling client. The counselor's current
// hourly rate is copied into Amount and never recalculated afterwards.
func (s *Service) Create(ctx context.Context, clientID int64, req CreateAppointmentRequest) (*AppointmentView, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrValidation
	}

	counselor, err := s.users.GetByID(ctx, req.CounselorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCounselorNotFound
		}
		return nil, err
	}
	if counselor.Role != domain.RoleCounselor {
		return nil, ErrCounselorNotFound
	}

	a := &domain.Appointment{
		ClientID:      clientID,
		CounselorID:   counselor.ID,
		Date:          date,
		Time:          req.Time,
		Duration:      domain.DefaultSessionDuration,
		SessionType:   domain.SessionType(req.SessionType),
		Status:        domain.AppointmentScheduled,
		Amount:        counselor.HourlyRate,
		PaymentStatus: domain.PaymentPending,
		Notes:         req.Notes,
	}

	if err := s.appointments.Create(ctx, a); err != nil {
		return nil, err
	}

	return &AppointmentView{
		Appointment: *a,
		Counselor: &PartyView{
			ID:             counselor.ID,
			Name:           counselor.Name,
			Specialization: counselor.Specialization,
			AvatarURL:      counselor.AvatarURL,
		},
	}, nil
}

// ProvisionMeeting attaches a synthetic join link. Idempotent: an existing
// link is returned unchanged. Runs under the per-appointment lock so two
// concurrent calls cannot both generate a link. Terminal appointments cannot
// be provisioned; provisioning never moves the status backwards.
func (s *Service) ProvisionMeeting(ctx context.Context, id uuid.UUID, userID int64) (*MeetingResult, error) {
	var result *MeetingResult
	err := s.locks.WithAppointmentLock(ctx, id, func(ctx context.Context) error {
		a, err := s.getByID(ctx, id)
		if err != nil {
			return err
		}
		if !a.IsParty(userID) {
			return ErrForbidden
		}

		if a.MeetingLink != "" {
			result = existingMeetingResult(a)
			return nil
		}
		if isTerminal(a.Status) {
			return ErrInvalidTransition
		}

		status := provisionedStatus(a.Status)
		m := meeting.NewMeetLink()
		if err := s.appointments.Update(ctx, a.ID, map[string]any{
			"meeting_link": m.JoinURL,
			"meeting_id":   m.MeetingID,
			"status":       status,
		}); err != nil {
			return err
		}

		result = &MeetingResult{
			MeetingLink: m.JoinURL,
			MeetingID:   m.MeetingID,
			Provider:    m.Provider,
			Status:      status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ProvisionZoomMeeting creates a real Zoom meeting for a video appointment,
// falling back to a synthetic link on any provider failure. Unless the
// appointment is terminal the call always succeeds one way or the other; the
// Provider field reports which path ran.
func (s *Service) ProvisionZoomMeeting(ctx context.Context, id uuid.UUID, userID int64) (*MeetingResult, error) {
	var result *MeetingResult
	err := s.locks.WithAppointmentLock(ctx, id, func(ctx context.Context) error {
		a, err := s.getByID(ctx, id)
		if err != nil {
			return err
		}
		if !a.IsParty(userID) {
			return ErrForbidden
		}
		if a.SessionType != domain.SessionVideo {
			return ErrInvalidSessionType
		}

		// Idempotency is keyed on the provider marker: a synthetic link does
		// not stop a Zoom upgrade, an existing Zoom link does.
		if strings.Contains(a.MeetingLink, "zoom.us") {
			result = existingMeetingResult(a)
			return nil
		}
		if isTerminal(a.Status) {
			return ErrInvalidTransition
		}

		status := provisionedStatus(a.Status)
		m, provider := s.createZoomOrFallback(ctx, a)

		updates := map[string]any{
			"meeting_link": m.JoinURL,
			"meeting_id":   m.MeetingID,
			"status":       status,
		}
		if m.StartURL != "" {
			updates["start_url"] = m.StartURL
		}
		if err := s.appointments.Update(ctx, a.ID, updates); err != nil {
			return err
		}

		result = &MeetingResult{
			MeetingLink: m.JoinURL,
			MeetingID:   m.MeetingID,
			StartURL:    m.StartURL,
			Provider:    provider,
			Status:      status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) createZoomOrFallback(ctx context.Context, a *domain.Appointment) (meeting.Meeting, string) {
	if s.zoom != nil && s.zoom.Enabled() {
		topic := fmt.Sprintf("Counseling session %s %s", a.Date.Format("2006-01-02"), a.Time)
		m, err := s.zoom.CreateMeeting(ctx, topic, a.Duration)
		if err == nil {
			return m, meeting.ProviderZoom
		}
		s.logger.Warn("zoom provisioning failed, using fallback link",
			zap.String("appointment_id", a.ID.String()),
			zap.Error(err),
		)
	}
	return meeting.NewMeetLink(), meeting.ProviderFallback
}

// StartSession moves the appointment to in-progress and stamps the start
// time. Allowed only from scheduled or confirmed.
func (s *Service) StartSession(ctx context.Context, id uuid.UUID, userID int64) (*domain.Appointment, error) {
	a, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.IsParty(userID) {
		return nil, ErrForbidden
	}
	if !domain.CanTransition(a.Status, domain.AppointmentInProgress) {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	if err := s.appointments.Update(ctx, a.ID, map[string]any{
		"status":             domain.AppointmentInProgress,
		"session_start_time": now,
	}); err != nil {
		return nil, err
	}

	a.Status = domain.AppointmentInProgress
	a.SessionStartTime = &now
	return a, nil
}

// EndSession completes an in-progress appointment, stamps the end time and
// records the elapsed session minutes.
func (s *Service) EndSession(ctx context.Context, id uuid.UUID, userID int64) (*domain.Appointment, error) {
	a, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.IsParty(userID) {
		return nil, ErrForbidden
	}
	if !domain.CanTransition(a.Status, domain.AppointmentCompleted) {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	updates := map[string]any{
		"status":           domain.AppointmentCompleted,
		"session_end_time": now,
	}
	if a.SessionStartTime != nil {
		minutes := int(now.Sub(*a.SessionStartTime).Minutes())
		updates["session_duration"] = minutes
		a.SessionDuration = minutes
	}
	if err := s.appointments.Update(ctx, a.ID, updates); err != nil {
		return nil, err
	}

	a.Status = domain.AppointmentCompleted
	a.SessionEndTime = &now
	return a, nil
}

// UpdateStatus applies a caller-requested transition, validated against the
// edge table. Only bound parties may call it.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, userID int64, newStatus string) (*domain.Appointment, error) {
	target := domain.AppointmentStatus(newStatus)
	if !domain.ValidStatus(target) {
		return nil, ErrValidation
	}

	a, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.IsParty(userID) {
		return nil, ErrForbidden
	}
	if !domain.CanTransition(a.Status, target) {
		return nil, ErrInvalidTransition
	}

	if err := s.appointments.Update(ctx, a.ID, map[string]any{"status": target}); err != nil {
		return nil, err
	}

	a.Status = target
	return a, nil
}

// UpdateSessionNotes writes the counselor's clinical notes. Only the bound
// counselor may call it.
func (s *Service) UpdateSessionNotes(ctx context.Context, id uuid.UUID, userID int64, role, notes string) (*domain.Appointment, error) {
	if role != string(domain.RoleCounselor) {
		return nil, ErrForbidden
	}

	a, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.CounselorID != userID {
		return nil, ErrForbidden
	}

	if err := s.appointments.Update(ctx, a.ID, map[string]any{"session_notes": notes}); err != nil {
		return nil, err
	}

	a.SessionNotes = notes
	return a, nil
}

// SubmitFeedback records the client's rating and feedback on a completed
// appointment.
func (s *Service) SubmitFeedback(ctx context.Context, id uuid.UUID, userID int64, req FeedbackRequest) (*domain.Appointment, error) {
	a, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.ClientID != userID {
		return nil, ErrForbidden
	}
	if a.Status != domain.AppointmentCompleted {
		return nil, ErrNotCompleted
	}

	if err := s.appointments.Update(ctx, a.ID, map[string]any{
		"rating":   req.Rating,
		"feedback": req.Feedback,
	}); err != nil {
		return nil, err
	}

	rating := req.Rating
	a.Rating = &rating
	a.Feedback = req.Feedback
	return a, nil
}

func (s *Service) getByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func isTerminal(s domain.AppointmentStatus) bool {
	return s == domain.AppointmentCompleted || s == domain.AppointmentCancelled
}

// provisionedStatus confirms a scheduled appointment; any later non-terminal
// status is kept as is so provisioning never regresses it.
func provisionedStatus(s domain.AppointmentStatus) domain.AppointmentStatus {
	if domain.CanTransition(s, domain.AppointmentConfirmed) {
		return domain.AppointmentConfirmed
	}
	return s
}

func existingMeetingResult(a *domain.Appointment) *MeetingResult {
	provider := meeting.ProviderMeet
	if strings.Contains(a.MeetingLink, "zoom.us") {
		provider = meeting.ProviderZoom
	}
	return &MeetingResult{
		MeetingLink: a.MeetingLink,
		MeetingID:   a.MeetingID,
		StartURL:    a.StartURL,
		Provider:    provider,
		Status:      a.Status,
	}
}
