package handler

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dinner-invite/internal/database"
	"github.com/iliyamo/dinner-invite/internal/joke"
	"github.com/iliyamo/dinner-invite/internal/middleware"
	"github.com/iliyamo/dinner-invite/internal/model"
	"github.com/iliyamo/dinner-invite/internal/pkg/metrics"
	"github.com/iliyamo/dinner-invite/internal/repository"
	"github.com/iliyamo/dinner-invite/internal/reservation"
	"github.com/iliyamo/dinner-invite/internal/session"
	"github.com/iliyamo/dinner-invite/web"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// flakyStore fails List or Insert on demand.
type flakyStore struct {
	listErr   error
	insertErr error
	rows      []model.Reservation
}

func (f *flakyStore) List(context.Context) ([]model.Reservation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Reservation{}, f.rows...), nil
}

func (f *flakyStore) Insert(_ context.Context, r model.Reservation) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.rows = append(f.rows, r)
	return nil
}

type site struct {
	e       *echo.Echo
	h       *PageHandler
	metrics *metrics.Metrics
}

func newSite(t *testing.T, store reservation.GuestStore, seats int) *site {
	t.Helper()
	tpl, err := NewTemplates(web.FS)
	require.NoError(t, err)

	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	h := &PageHandler{
		Engine:   reservation.NewEngine(store),
		Sessions: session.NewMemoryStore(time.Hour),
		Metrics:  m,
		Seats:    seats,
	}

	e := echo.New()
	e.Renderer = tpl
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler
	e.Use(middleware.SessionCookie(testSecret, time.Hour, false))
	e.GET("/", h.Index)
	e.POST("/seats/:seat/select", h.SelectSeat)
	e.POST("/reservations", h.Submit)
	e.POST("/occupancy/refresh", h.Refresh)
	e.POST("/joke", h.Joke)
	return &site{e: e, h: h, metrics: m}
}

func sqliteStore(t *testing.T) *repository.GuestRepo {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return repository.NewGuestRepo(db)
}

// visitor carries one browser's session cookie across requests.
type visitor struct {
	t      *testing.T
	s      *site
	cookie *http.Cookie
}

func (s *site) visitor(t *testing.T) *visitor { return &visitor{t: t, s: s} }

func (v *visitor) do(req *http.Request) *httptest.ResponseRecorder {
	if v.cookie != nil {
		req.AddCookie(v.cookie)
	}
	rec := httptest.NewRecorder()
	v.s.e.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookieName {
			v.cookie = ck
		}
	}
	return rec
}

func (v *visitor) page() string {
	v.t.Helper()
	rec := v.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(v.t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func (v *visitor) post(path string, form url.Values) *httptest.ResponseRecorder {
	v.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := v.do(req)
	return rec
}

func (v *visitor) postOK(path string, form url.Values) {
	v.t.Helper()
	rec := v.post(path, form)
	require.Equal(v.t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(v.t, "/", rec.Header().Get(echo.HeaderLocation))
}

func TestPage_RendersTable(t *testing.T) {
	s := newSite(t, sqliteStore(t), 6)
	body := s.visitor(t).page()

	assert.Contains(t, body, "You are cordially invited to eat lasagna with me")
	assert.Contains(t, body, "Saturday, May 24th, 2025")
	assert.Contains(t, body, "Select a seat to save your name")
	assert.Contains(t, body, "Tell me a lasagna joke!")
	assert.Equal(t, 6, strings.Count(body, `class="seat-form"`))
	assert.Contains(t, body, `form="invite" formaction="/seats/6/select"`)
	assert.NotContains(t, body, `formaction="/seats/7/select"`)
	assert.Contains(t, body, `formaction="/joke"`)
	assert.Contains(t, body, "(6 free)")
}

func TestPage_EightSeats(t *testing.T) {
	s := newSite(t, sqliteStore(t), 8)
	body := s.visitor(t).page()
	assert.Equal(t, 8, strings.Count(body, `class="seat-form"`))
}

func TestPage_ReserveFlow(t *testing.T) {
	store := sqliteStore(t)
	s := newSite(t, store, 6)
	ann := s.visitor(t)
	ann.page()

	// name given, no seat
	ann.postOK("/reservations", url.Values{"name": {"Ann"}})
	assert.Contains(t, ann.page(), "Please select a seat!")

	ann.postOK("/seats/3/select", nil)
	body := ann.page()
	assert.Contains(t, body, "Seat 3 selected")
	assert.NotContains(t, body, "Please select a seat!", "notice is shown once")

	// seat selected, blank name
	ann.postOK("/reservations", url.Values{"name": {"   "}})
	assert.Contains(t, ann.page(), "Please enter your name first!")

	ann.postOK("/reservations", url.Values{"name": {"  Ann "}})
	body = ann.page()
	assert.Contains(t, body, "✅ Ann saved to seat 3!")
	assert.Contains(t, body, "Chair 3 - Ann")
	assert.Contains(t, body, "(5 free)")

	rows, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Reservation{{Seat: 3, Name: "Ann"}}, rows)

	// a later visitor sees the seat taken and cannot select it
	bob := s.visitor(t)
	assert.Contains(t, bob.page(), "Chair 3 - Ann")
	bob.postOK("/seats/3/select", nil)
	assert.NotContains(t, bob.page(), "Seat 3 selected")

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.ReservationsTotal.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.metrics.ReservationsTotal.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.SeatSelectionsTotal.WithLabelValues("rejected")))
}

func TestPage_ToggleSelection(t *testing.T) {
	s := newSite(t, sqliteStore(t), 6)
	v := s.visitor(t)
	v.page()

	v.postOK("/seats/2/select", nil)
	assert.Contains(t, v.page(), "Seat 2 selected")
	v.postOK("/seats/2/select", nil)
	assert.Contains(t, v.page(), "Click a seat to reserve")
}

func TestPage_DraftKeptOnFailure(t *testing.T) {
	s := newSite(t, sqliteStore(t), 6)
	v := s.visitor(t)
	v.page()

	v.postOK("/reservations", url.Values{"name": {"Cleo"}})
	assert.Contains(t, v.page(), `value="Cleo"`)

	v.postOK("/seats/1/select", nil)
	v.postOK("/reservations", url.Values{"name": {"Cleo"}})
	assert.NotContains(t, v.page(), `value="Cleo"`)
}

func TestPage_NameSurvivesSeatClick(t *testing.T) {
	s := newSite(t, sqliteStore(t), 6)
	v := s.visitor(t)
	body := v.page()
	assert.Contains(t, body, `<form method="post" action="/reservations" id="invite"`)

	v.postOK("/seats/3/select", url.Values{"name": {"Ada"}})
	body = v.page()
	assert.Contains(t, body, "Seat 3 selected")
	assert.Contains(t, body, `value="Ada"`)

	v.postOK("/joke", url.Values{"name": {"Ada L"}})
	assert.Contains(t, v.page(), `value="Ada L"`)

	v.postOK("/reservations", url.Values{"name": {"Ada L"}})
	body = v.page()
	assert.Contains(t, body, "✅ Ada L saved to seat 3!")
	assert.NotContains(t, body, `value="Ada L"`)
}

func TestPage_RateLimitedPostShowsNotice(t *testing.T) {
	s := newSite(t, sqliteStore(t), 6)
	s.e.POST("/limited", func(c echo.Context) error { return s.h.RateLimited(c, 3) })
	v := s.visitor(t)
	v.page()

	v.postOK("/limited", url.Values{"name": {"Eve"}})
	body := v.page()
	assert.Contains(t, body, "Slow down! Try again in 3 seconds.")
	assert.Contains(t, body, `value="Eve"`)
	assert.Contains(t, body, "Click a seat to reserve")
}

func TestPage_LostRace(t *testing.T) {
	store := sqliteStore(t)
	s := newSite(t, store, 6)

	a, b := s.visitor(t), s.visitor(t)
	a.page()
	b.page()

	a.postOK("/seats/4/select", nil)
	b.postOK("/seats/4/select", nil)

	a.postOK("/reservations", url.Values{"name": {"Ann"}})
	b.postOK("/reservations", url.Values{"name": {"Bob"}})

	body := b.page()
	assert.Contains(t, body, "Error: ")
	assert.Contains(t, body, repository.ErrSeatTaken.Error())
	assert.Contains(t, body, "Seat 4 selected", "selection survives a failed insert")

	rows, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Reservation{{Seat: 4, Name: "Ann"}}, rows)
}

func TestPage_StoreErrorShowsRawMessage(t *testing.T) {
	store := &flakyStore{insertErr: errors.New("network down")}
	s := newSite(t, store, 6)
	v := s.visitor(t)
	v.page()

	v.postOK("/seats/1/select", nil)
	v.postOK("/reservations", url.Values{"name": {"Ann"}})
	assert.Contains(t, v.page(), "Error: network down")
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.ReservationsTotal.WithLabelValues("store_error")))
}

func TestPage_LoadFailureOffersRetry(t *testing.T) {
	store := &flakyStore{listErr: errors.New("timeout")}
	s := newSite(t, store, 6)
	v := s.visitor(t)

	body := v.page()
	assert.Contains(t, body, "Load seats again")
	assert.Equal(t, 6, strings.Count(body, "disabled>"))

	v.postOK("/seats/1/select", nil)
	assert.NotContains(t, v.page(), "Seat 1 selected")

	store.listErr = nil
	store.rows = []model.Reservation{{Seat: 2, Name: "Dan"}}
	v.postOK("/occupancy/refresh", nil)

	body = v.page()
	assert.NotContains(t, body, "Load seats again")
	assert.Contains(t, body, "Chair 2 - Dan")
	assert.Contains(t, body, "(5 free)")

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.OccupancyLoadsTotal.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.OccupancyLoadsTotal.WithLabelValues("success")))
}

func TestPage_Joke(t *testing.T) {
	s := newSite(t, sqliteStore(t), 6)
	v := s.visitor(t)
	v.page()

	v.postOK("/joke", nil)
	body := v.page()
	found := false
	for _, j := range joke.All() {
		if strings.Contains(body, template.HTMLEscapeString(j)) {
			found = true
		}
	}
	assert.True(t, found, "page shows one of the jokes")
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.JokesServedTotal))
}

func TestPage_InvalidSeatParam(t *testing.T) {
	s := newSite(t, sqliteStore(t), 6)
	v := s.visitor(t)

	rec := v.post("/seats/abc/select", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid seat"}`, rec.Body.String())

	rec = v.post("/seats/0/select", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPage_OutOfRangeSeatIgnored(t *testing.T) {
	s := newSite(t, sqliteStore(t), 6)
	v := s.visitor(t)
	v.page()

	v.postOK("/seats/7/select", nil)
	assert.Contains(t, v.page(), "Click a seat to reserve")
}

func TestBuildPage_Rows(t *testing.T) {
	st := session.NewState(8)
	st.Booking.Loaded = true
	st.Booking.Occupied = []model.Reservation{{Seat: 6, Name: "Fay"}}
	st.Booking.Selected = 2

	v := buildPage(st, nil)
	require.Len(t, v.Top, 4)
	require.Len(t, v.Bottom, 4)
	assert.Equal(t, 1, v.Top[0].Number)
	assert.True(t, v.Top[1].Selected)
	assert.Equal(t, 5, v.Bottom[0].Number)
	assert.True(t, v.Bottom[1].Occupied)
	assert.True(t, v.Bottom[1].Disabled)
	assert.Equal(t, "Chair 6 - Fay", v.Bottom[1].Title())
	assert.Equal(t, "Chair 1", v.Top[0].Title())
	assert.Equal(t, 7, v.Free)
	assert.False(t, v.LoadFailed)
}
