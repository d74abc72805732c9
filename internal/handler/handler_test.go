package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/schoolgate/visitdesk-backend/internal/config"
	"github.com/schoolgate/visitdesk-backend/internal/handler"
	"github.com/schoolgate/visitdesk-backend/internal/model"
	"github.com/schoolgate/visitdesk-backend/internal/notify"
	"github.com/schoolgate/visitdesk-backend/internal/response"
	"github.com/schoolgate/visitdesk-backend/internal/router"
	"github.com/schoolgate/visitdesk-backend/internal/service"
	"github.com/schoolgate/visitdesk-backend/internal/validator"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validator.Setup()
	os.Exit(m.Run())
}

// ────────────────────────────────────────────────────────────────────────────
// Fakes
// ────────────────────────────────────────────────────────────────────────────

type memStore struct {
	cfg model.KioskConfig
}

func (s *memStore) Get(ctx context.Context) (model.KioskConfig, error) {
	return s.cfg, nil
}

func (s *memStore) Replace(ctx context.Context, cfg model.KioskConfig) error {
	s.cfg = cfg
	return nil
}

type fakeDispatcher struct {
	calls    int
	category model.Category
	msg      notify.Message
	att      *notify.Attachment
	err      error
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, cfg model.KioskConfig, category model.Category, msg notify.Message, att *notify.Attachment) error {
	d.calls++
	d.category = category
	d.msg = msg
	d.att = att
	return d.err
}

// ────────────────────────────────────────────────────────────────────────────
// Test fixture
// ────────────────────────────────────────────────────────────────────────────

type fixture struct {
	engine     *gin.Engine
	store      *memStore
	dispatcher *fakeDispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Config{
		GinMode:       gin.TestMode,
		JWTSecret:     "test-secret",
		JWTExpiry:     time.Hour,
		BcryptCost:    bcrypt.MinCost,
		AdminUsername: "admin",
	}

	log := zerolog.Nop()
	store := &memStore{}
	dispatcher := &fakeDispatcher{}

	authService, err := service.NewAuthService(cfg)
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	configService := service.NewConfigService(store, nil, log)
	submissionService := service.NewSubmissionService(configService, dispatcher, nil, log)

	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Config:     handler.NewConfigHandler(configService),
		Submission: handler.NewSubmissionHandler(submissionService),
		Monitor:    handler.NewMonitorHandler(nil, log, nil),
	}

	return &fixture{
		engine:     router.SetupRouter(authService, handlers, cfg),
		store:      store,
		dispatcher: dispatcher,
	}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    response.ErrCode  `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
	Metadata struct {
		RequestID string `json:"request_id"`
		Timestamp string `json:"timestamp"`
	} `json:"metadata"`
}

func (f *fixture) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	return rec, env
}

func (f *fixture) login(t *testing.T) string {
	t.Helper()
	rec, env := f.do(t, http.MethodPost, "/api/auth/admin/login", "", gin.H{
		"username": "admin",
		"password": config.DefaultAdminPassword,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		t.Fatalf("no token in login response: %s", rec.Body.String())
	}
	return data.Token
}

func completeConfig() model.KioskConfig {
	return model.KioskConfig{
		Emails:           []string{"office@school.example"},
		Gmail:            "sender@school.example",
		GmailAppPassword: "app-password",
		Wifi:             model.WifiConfig{SSID: "guests", Password: "welcome", Encryption: "WPA"},
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Submission
// ────────────────────────────────────────────────────────────────────────────

func TestSubmitMeetingOK(t *testing.T) {
	f := newFixture(t)
	f.store.cfg = completeConfig()

	rec, env := f.do(t, http.MethodPost, "/api/submit", "", gin.H{
		"activeTab":   "meeting",
		"whomToMeet":  "Principal",
		"appointment": "Yes",
		"purpose":     "Admissions enquiry",
		"selfie":      "data:image/png;base64,AAAA",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var data struct {
		OK bool `json:"ok"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || !data.OK {
		t.Errorf("data = %s", env.Data)
	}
	if f.dispatcher.calls != 1 {
		t.Fatalf("dispatch calls = %d", f.dispatcher.calls)
	}
	if f.dispatcher.msg.Subject != "Meeting request" {
		t.Errorf("subject = %q", f.dispatcher.msg.Subject)
	}
	if env.Metadata.RequestID == "" {
		t.Error("request id missing from metadata")
	}
}

func TestSubmitPickupOK(t *testing.T) {
	f := newFixture(t)
	f.store.cfg = completeConfig()
	f.store.cfg.ParentPickupEmails = []string{"gate@school.example"}

	rec, _ := f.do(t, http.MethodPost, "/api/submit", "", gin.H{
		"activeTab":    "pickup",
		"childName":    "Asha",
		"grade":        "4B",
		"parentName":   "Ravi",
		"contact":      "+911234567890",
		"relationship": "Father",
		"selfie":       "data:image/png;base64,AAAA",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	if f.dispatcher.category != model.CategoryPickup {
		t.Errorf("category = %q", f.dispatcher.category)
	}
	if f.dispatcher.msg.Subject != "Parent pickup request" {
		t.Errorf("subject = %q", f.dispatcher.msg.Subject)
	}
}

func TestSubmitMissingCategoryFields(t *testing.T) {
	f := newFixture(t)
	f.store.cfg = completeConfig()

	// Meeting tab without the meeting fields.
	rec, env := f.do(t, http.MethodPost, "/api/submit", "", gin.H{
		"activeTab": "meeting",
		"selfie":    "data:image/png;base64,AAAA",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	if env.Error == nil || env.Error.Code != response.ErrValidation {
		t.Fatalf("error = %+v", env.Error)
	}
	if _, ok := env.Error.Fields["whomToMeet"]; !ok {
		t.Errorf("fields = %v, want whomToMeet entry", env.Error.Fields)
	}
	if f.dispatcher.calls != 0 {
		t.Errorf("dispatcher invoked on invalid payload")
	}
}

func TestSubmitUnknownCategory(t *testing.T) {
	f := newFixture(t)
	f.store.cfg = completeConfig()

	rec, env := f.do(t, http.MethodPost, "/api/submit", "", gin.H{
		"activeTab": "delivery",
		"selfie":    "data:image/png;base64,AAAA",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Error == nil || env.Error.Code != response.ErrValidation {
		t.Fatalf("error = %+v", env.Error)
	}
}

func TestSubmitIncompleteConfig(t *testing.T) {
	f := newFixture(t)
	f.store.cfg = completeConfig()
	f.store.cfg.GmailAppPassword = ""

	rec, env := f.do(t, http.MethodPost, "/api/submit", "", gin.H{
		"activeTab":  "meeting",
		"whomToMeet": "Principal",
		"purpose":    "Admissions enquiry",
		"selfie":     "data:image/png;base64,AAAA",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	if env.Error == nil || env.Error.Code != response.ErrConfigIncomplete {
		t.Fatalf("error = %+v", env.Error)
	}
	if f.dispatcher.calls != 0 {
		t.Errorf("dispatcher invoked despite incomplete config")
	}
}

func TestSubmitMissingSelfie(t *testing.T) {
	f := newFixture(t)
	f.store.cfg = completeConfig()

	rec, env := f.do(t, http.MethodPost, "/api/submit", "", gin.H{
		"activeTab":  "meeting",
		"whomToMeet": "Principal",
		"purpose":    "Admissions enquiry",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	if env.Error == nil || env.Error.Code != response.ErrSelfieRequired {
		t.Fatalf("error = %+v", env.Error)
	}
}

func TestSubmitDeliveryFailure(t *testing.T) {
	f := newFixture(t)
	f.store.cfg = completeConfig()
	f.dispatcher.err = context.DeadlineExceeded

	rec, env := f.do(t, http.MethodPost, "/api/submit", "", gin.H{
		"activeTab":  "meeting",
		"whomToMeet": "Principal",
		"purpose":    "Admissions enquiry",
		"selfie":     "data:image/png;base64,AAAA",
	})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Error == nil || env.Error.Code != response.ErrDeliveryFailed {
		t.Fatalf("error = %+v", env.Error)
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Config
// ────────────────────────────────────────────────────────────────────────────

func TestGetConfigEmptyStore(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodGet, "/api/config", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}

	var doc model.KioskConfig
	if err := json.Unmarshal(env.Data, &doc); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if doc.Gmail != "" || doc.GmailAppPassword != "" {
		t.Errorf("empty store returned %+v", doc)
	}
}

func TestGetConfigRedactsSecret(t *testing.T) {
	f := newFixture(t)
	f.store.cfg = completeConfig()

	_, env := f.do(t, http.MethodGet, "/api/config", "", nil)

	var doc model.KioskConfig
	if err := json.Unmarshal(env.Data, &doc); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if doc.GmailAppPassword != "" {
		t.Error("sender secret exposed on public read")
	}
	if doc.Gmail != "sender@school.example" {
		t.Errorf("gmail = %q", doc.Gmail)
	}
}

func TestReplaceConfigRequiresToken(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodPost, "/api/config", "", completeConfig())
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	if env.Error == nil || env.Error.Code != response.ErrTokenRequired {
		t.Fatalf("error = %+v", env.Error)
	}
	if f.store.cfg.Gmail != "" {
		t.Error("store written without auth")
	}
}

func TestReplaceConfigRejectsBadToken(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodPost, "/api/config", "garbage", completeConfig())
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Error == nil || env.Error.Code != response.ErrTokenInvalid {
		t.Fatalf("error = %+v", env.Error)
	}
}

func TestLoginAndReplaceConfig(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)

	rec, _ := f.do(t, http.MethodPost, "/api/config", token, completeConfig())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	if f.store.cfg.Gmail != "sender@school.example" {
		t.Errorf("store not updated: %+v", f.store.cfg)
	}

	// The write must be visible to the public read, redacted.
	_, env := f.do(t, http.MethodGet, "/api/config", "", nil)
	var doc model.KioskConfig
	if err := json.Unmarshal(env.Data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Wifi.SSID != "guests" {
		t.Errorf("read-after-write config = %+v", doc)
	}
	if doc.GmailAppPassword != "" {
		t.Error("secret leaked on read-after-write")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodPost, "/api/auth/admin/login", "", gin.H{
		"username": "admin",
		"password": "nope",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Error == nil || env.Error.Code != response.ErrInvalidCredentials {
		t.Fatalf("error = %+v", env.Error)
	}
}

func TestGetWifiQR(t *testing.T) {
	f := newFixture(t)
	f.store.cfg = completeConfig()

	rec, env := f.do(t, http.MethodGet, "/api/config/wifi-qr", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var data struct {
		Payload string `json:"payload"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if want := "WIFI:T:WPA;S:guests;P:welcome;;"; data.Payload != want {
		t.Errorf("payload = %q, want %q", data.Payload, want)
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestMonitorRequiresToken(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/ws/admin/checkins", nil)
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}
