package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arunanksharan/rivo/internal/config"
	"github.com/arunanksharan/rivo/internal/dto"
	"github.com/arunanksharan/rivo/internal/handlers"
	"github.com/arunanksharan/rivo/internal/models"
	"github.com/arunanksharan/rivo/internal/routes"
	"github.com/arunanksharan/rivo/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type memStorage struct{}

func (memStorage) Upload(_ context.Context, path, _ string, _ []byte) (string, error) {
	return "https://cdn.test/" + path, nil
}

func (memStorage) Delete(_ context.Context, _ string) bool { return true }

type stubAI struct{}

func (stubAI) DescribeImage(_ context.Context, _ string) services.ImageDescription {
	return services.ImageDescription{Title: "Property Listing", Description: "No description available."}
}

func (stubAI) Transcribe(_ context.Context, _ string, _ []byte) string { return "" }

func (stubAI) ParseCommand(_ context.Context, _ string) dto.CommandReply {
	return dto.CommandReply{
		Intent:     "unknown",
		Parameters: map[string]interface{}{},
		Response:   "I'm sorry, I couldn't process that command.",
	}
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Property{}, &models.PropertyImage{},
		&models.VoiceSetting{}, &models.EmailTemplate{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  30 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
		CORSOrigins:      "*",
	}

	tokens := services.NewTokenManager(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	ai := stubAI{}
	storage := memStorage{}

	app := fiber.New()
	routes.Setup(app, cfg, db,
		handlers.NewAuthHandler(services.NewAuthService(db, tokens, nil)),
		handlers.NewPropertyHandler(services.NewPropertyService(db, storage, ai, ai)),
		handlers.NewUserHandler(services.NewUserService(db)),
		handlers.NewVoiceHandler(services.NewVoiceService(db, storage, ai, ai)),
		handlers.NewTemplateHandler(services.NewTemplateService(db)),
		handlers.NewHealthHandler(db),
	)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	return out
}

func registerUser(t *testing.T, app *fiber.App, email string) dto.AuthResponse {
	t.Helper()
	resp := doJSON(t, app, fiber.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email:    email,
		Password: "supersecret",
		FullName: "Test User",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	return decode[dto.AuthResponse](t, resp)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodGet, "/api/health", "", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	health := decode[dto.HealthResponse](t, resp)
	if health.Status != "ok" {
		t.Errorf("status = %q", health.Status)
	}
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)
	auth := registerUser(t, app, "alice@example.com")

	// /me with the access token.
	resp := doJSON(t, app, fiber.MethodGet, "/api/auth/me", auth.AccessToken, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("me status = %d", resp.StatusCode)
	}
	me := decode[dto.UserResponse](t, resp)
	if me.Email != "alice@example.com" {
		t.Errorf("email = %q", me.Email)
	}

	// /me without a token.
	resp = doJSON(t, app, fiber.MethodGet, "/api/auth/me", "", nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("anonymous me status = %d", resp.StatusCode)
	}

	// Login with wrong password.
	resp = doJSON(t, app, fiber.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Username: "alice@example.com", Password: "wrong",
	})
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("bad login status = %d", resp.StatusCode)
	}

	// Refresh.
	resp = doJSON(t, app, fiber.MethodPost, "/api/auth/refresh-token", "", dto.RefreshRequest{
		RefreshToken: auth.RefreshToken,
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("refresh status = %d", resp.StatusCode)
	}

	// Duplicate registration reads as bad input.
	resp = doJSON(t, app, fiber.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "alice@example.com", Password: "supersecret",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("duplicate register status = %d, want 400", resp.StatusCode)
	}
}

func TestPropertyVisibilityOverHTTP(t *testing.T) {
	app := newTestApp(t)
	owner := registerUser(t, app, "owner@example.com")
	stranger := registerUser(t, app, "stranger@example.com")

	published := false
	resp := doJSON(t, app, fiber.MethodPost, "/api/properties/", owner.AccessToken, dto.PropertyCreateRequest{
		Title:       "Quiet Cottage",
		Category:    "house",
		IsPublished: &published,
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	property := decode[dto.PropertyResponse](t, resp)

	url := fmt.Sprintf("/api/properties/%s", property.ID)

	// Anonymous and non-owner reads are rejected while unpublished.
	if resp := doJSON(t, app, fiber.MethodGet, url, "", nil); resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("anonymous status = %d, want 403", resp.StatusCode)
	}
	if resp := doJSON(t, app, fiber.MethodGet, url, stranger.AccessToken, nil); resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("stranger status = %d, want 403", resp.StatusCode)
	}
	if resp := doJSON(t, app, fiber.MethodGet, url, owner.AccessToken, nil); resp.StatusCode != fiber.StatusOK {
		t.Errorf("owner status = %d, want 200", resp.StatusCode)
	}

	// Publish, then everyone can read.
	nowPublished := true
	resp = doJSON(t, app, fiber.MethodPut, url, owner.AccessToken, dto.PropertyUpdateRequest{IsPublished: &nowPublished})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("publish status = %d", resp.StatusCode)
	}
	if resp := doJSON(t, app, fiber.MethodGet, url, "", nil); resp.StatusCode != fiber.StatusOK {
		t.Errorf("anonymous after publish status = %d, want 200", resp.StatusCode)
	}

	// Creating without a token is rejected.
	if resp := doJSON(t, app, fiber.MethodPost, "/api/properties/", "", dto.PropertyCreateRequest{
		Title: "No Auth", Category: "house",
	}); resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("unauthenticated create status = %d, want 401", resp.StatusCode)
	}
}

func TestImageUploadOverHTTP(t *testing.T) {
	app := newTestApp(t)
	owner := registerUser(t, app, "owner@example.com")

	resp := doJSON(t, app, fiber.MethodPost, "/api/properties/", owner.AccessToken, dto.PropertyCreateRequest{
		Title: "Photogenic Flat", Category: "apartment",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	property := decode[dto.PropertyResponse](t, resp)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "front.jpg")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	part.Write([]byte("jpeg-bytes"))
	writer.WriteField("is_primary", "true")
	writer.WriteField("caption", "Street view")
	writer.Close()

	req := httptest.NewRequest(fiber.MethodPost, fmt.Sprintf("/api/properties/%s/images", property.ID), &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+owner.AccessToken)

	uploadResp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if uploadResp.StatusCode != fiber.StatusCreated {
		t.Fatalf("upload status = %d", uploadResp.StatusCode)
	}
	image := decode[dto.PropertyImageResponse](t, uploadResp)
	if !image.IsPrimary {
		t.Error("is_primary not set")
	}
	if image.Caption == nil || *image.Caption != "Street view" {
		t.Error("caption not persisted")
	}

	// The listing now exposes the primary image URL.
	resp = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/properties/%s", property.ID), "", nil)
	got := decode[dto.PropertyResponse](t, resp)
	if got.PrimaryImageURL == nil || *got.PrimaryImageURL != image.URL {
		t.Error("primary_image_url not derived")
	}
	if got.ImageCount != 1 {
		t.Errorf("image_count = %d", got.ImageCount)
	}
}

func TestVoiceSettingsOverHTTP(t *testing.T) {
	app := newTestApp(t)
	user := registerUser(t, app, "voice@example.com")

	resp := doJSON(t, app, fiber.MethodGet, "/api/voice/settings", user.AccessToken, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	setting := decode[dto.VoiceSettingResponse](t, resp)
	if setting.WakeWord != "Rivo Start" {
		t.Errorf("wake_word = %q", setting.WakeWord)
	}

	badVolume := 2.0
	resp = doJSON(t, app, fiber.MethodPut, "/api/voice/settings", user.AccessToken, dto.VoiceSettingUpdateRequest{
		Volume: &badVolume,
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("bad volume status = %d, want 400", resp.StatusCode)
	}
}

func TestEmailTemplatesOverHTTP(t *testing.T) {
	app := newTestApp(t)
	alice := registerUser(t, app, "alice@example.com")
	bob := registerUser(t, app, "bob@example.com")

	resp := doJSON(t, app, fiber.MethodPost, "/api/email-templates/", alice.AccessToken, dto.EmailTemplateCreateRequest{
		Name: "Follow-up", Subject: "Thanks", Body: "Hi there",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	template := decode[dto.EmailTemplateResponse](t, resp)

	url := fmt.Sprintf("/api/email-templates/%s", template.ID)
	if resp := doJSON(t, app, fiber.MethodGet, url, bob.AccessToken, nil); resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("cross-user get status = %d, want 403", resp.StatusCode)
	}
	if resp := doJSON(t, app, fiber.MethodGet, url, alice.AccessToken, nil); resp.StatusCode != fiber.StatusOK {
		t.Errorf("owner get status = %d, want 200", resp.StatusCode)
	}
}
