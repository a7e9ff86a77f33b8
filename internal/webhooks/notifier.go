package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"medical-booking-server/internal/models"
)

// Event types emitted for appointment changes.
const (
	EventAppointmentCreated   = "created"
	EventAppointmentConfirmed = "confirmed"
	EventAppointmentCancelled = "cancelled"
)

// Payload is the wire shape delivered to the webhook sink.
type Payload struct {
	EventType   string             `json:"event_type"`
	Appointment AppointmentPayload `json:"appointment"`
}

// AppointmentPayload describes the appointment an event refers to.
type AppointmentPayload struct {
	ID           string              `json:"id"`
	Date         string              `json:"date"`
	Time         string              `json:"time"`
	Status       string              `json:"status"`
	Patient      PatientPayload      `json:"patient"`
	Professional ProfessionalPayload `json:"professional"`
	Service      ServicePayload      `json:"service"`
}

type PatientPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type ProfessionalPayload struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

type ServicePayload struct {
	Name     string `json:"name"`
	Duration int    `json:"duration"`
}

// Notifier delivers appointment events to an external sink. Delivery is
// best-effort: failures are logged and never surfaced to the API caller;
// retry is the sink's concern.
type Notifier struct {
	URL    string
	Client *http.Client
	Logger zerolog.Logger
}

// NewNotifier creates a notifier posting to url. A notifier with an empty
// url silently drops events, which keeps call sites unconditional.
func NewNotifier(url string, logger zerolog.Logger) *Notifier {
	return &Notifier{
		URL:    url,
		Client: &http.Client{Timeout: 5 * time.Second},
		Logger: logger,
	}
}

// BuildPayload assembles the event payload from a fully loaded appointment
// (patient, professional and service preloaded).
func BuildPayload(eventType string, appointment *models.Appointment) Payload {
	return Payload{
		EventType: eventType,
		Appointment: AppointmentPayload{
			ID:     appointment.ID,
			Date:   appointment.AppointmentDate,
			Time:   appointment.AppointmentTime,
			Status: string(appointment.Status),
			Patient: PatientPayload{
				ID:    appointment.Patient.ID,
				Name:  appointment.Patient.FullName(),
				Phone: appointment.Patient.Phone,
				Email: appointment.Patient.Email,
			},
			Professional: ProfessionalPayload{
				Name:      appointment.Professional.FullName(),
				Specialty: appointment.Professional.Specialty,
			},
			Service: ServicePayload{
				Name:     appointment.Service.Name,
				Duration: appointment.Service.Duration,
			},
		},
	}
}

// NotifyAppointment posts the event for an appointment in the background.
func (n *Notifier) NotifyAppointment(eventType string, appointment *models.Appointment) {
	if n == nil || n.URL == "" {
		return
	}
	payload := BuildPayload(eventType, appointment)
	go func() {
		if err := n.deliver(payload); err != nil {
			n.Logger.Error().
				Err(err).
				Str("event_type", eventType).
				Str("appointment_id", payload.Appointment.ID).
				Msg("webhook delivery failed")
		}
	}()
}

func (n *Notifier) deliver(payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook sink responded with status %d", resp.StatusCode)
	}
	return nil
}
