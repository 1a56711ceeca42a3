package mockapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"clinicbook/internal/domain"
	"clinicbook/internal/logic"
	"clinicbook/internal/terminology"
)

// Server is an in-memory stand-in for the appointment backend
type Server struct {
	echo   *echo.Echo
	store  logic.AppointmentStore
	logger zerolog.Logger
}

// New wires the routes and middleware around store
func New(store logic.AppointmentStore, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, store: store, logger: logger}

	e.Use(Recovery(logger))
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, rid string) {
			c.Set("request_id", rid)
		},
	}))
	e.Use(Logger(logger))

	e.GET("/api/appointments", s.listAppointments)
	e.GET("/appointments/pending", s.listPending)
	e.GET("/api/ichi/search", s.search(domain.SearchProcedure))
	e.GET("/api/icd/search", s.search(domain.SearchDiagnosis))
	e.POST("/api/book-appointment", s.bookAppointment)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return s
}

// Handler exposes the router, e.g. for httptest
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves on addr until Shutdown
func (s *Server) Start(addr string) error {
	s.logger.Info().Str("addr", addr).Int("appointments", s.store.Count()).Msg("mock api listening")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func pageParams(c echo.Context) (int, int) {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}
	return page, min(limit, 100)
}

func (s *Server) listAppointments(c echo.Context) error {
	page, limit := pageParams(c)
	return c.JSON(http.StatusOK, s.store.Page(page, limit, nil))
}

func (s *Server) listPending(c echo.Context) error {
	page, limit := pageParams(c)
	return c.JSON(http.StatusOK, s.store.Page(page, limit, logic.IsPending))
}

func (s *Server) search(t domain.SearchType) echo.HandlerFunc {
	return func(c echo.Context) error {
		q := strings.TrimSpace(c.QueryParam("q"))
		limit, err := strconv.Atoi(c.QueryParam("limit"))
		if err != nil || limit < 1 {
			limit = 100
		}

		results := terminology.SampleMatches(t, q)
		if len(results) > limit {
			results = results[:limit]
		}
		if results == nil {
			results = []domain.SearchResult{}
		}
		return c.JSON(http.StatusOK, map[string]any{"results": results})
	}
}

type storedResource struct {
	ID string `json:"id"`
	*domain.FHIRAppointment
}

func (s *Server) bookAppointment(c echo.Context) error {
	var appt domain.FHIRAppointment
	if err := c.Bind(&appt); err != nil {
		return c.JSON(http.StatusBadRequest, domain.BookingResult{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
	}

	if problems := checkAppointment(&appt); len(problems) > 0 {
		details, _ := jsonRaw(problems)
		return c.JSON(http.StatusBadRequest, domain.BookingResult{
			Error:   "Invalid appointment",
			Details: details,
		})
	}

	id := uuid.NewString()
	s.store.AddAppointment(toAppointment(id, &appt))

	resource, err := jsonRaw(storedResource{ID: id, FHIRAppointment: &appt})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "encode resource")
	}

	s.logger.Info().
		Str("request_id", requestID(c)).
		Str("appointment_id", id).
		Str("status", appt.Status).
		Msg("appointment booked")

	return c.JSON(http.StatusCreated, domain.BookingResult{
		Success:       true,
		AppointmentID: id,
		FHIRResource:  resource,
	})
}

// checkAppointment validates the minimal shape the list endpoints rely on
func checkAppointment(appt *domain.FHIRAppointment) []string {
	var problems []string
	if appt.ResourceType != "Appointment" {
		problems = append(problems, "resourceType must be Appointment")
	}
	if appt.Status == "" {
		problems = append(problems, "status is required")
	}
	if _, ok := (domain.Appointment{Start: appt.Start}).StartTime(); !ok {
		problems = append(problems, "start must be a timestamp")
	}
	if _, ok := (domain.Appointment{End: appt.End}).EndTime(); !ok {
		problems = append(problems, "end must be a timestamp")
	}
	if len(appt.Participant) == 0 {
		problems = append(problems, "at least one participant is required")
	}
	return problems
}

func toAppointment(id string, appt *domain.FHIRAppointment) domain.Appointment {
	a := domain.Appointment{
		ID:          id,
		Status:      appt.Status,
		Priority:    domain.PriorityOf(appt.Priority),
		Start:       appt.Start,
		End:         appt.End,
		Participant: appt.Participant,
	}
	a.PatientName = a.ParticipantName("Patient")
	a.DoctorName = a.ParticipantName("Practitioner")
	if len(appt.ReasonCode) > 0 {
		a.Diagnosis = appt.ReasonCode[0].Text
	}
	return a
}

func requestID(c echo.Context) string {
	rid, _ := c.Get("request_id").(string)
	return rid
}
