package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/apperrors"
	"github.com/finalspaces/finalspaces-engine/pkg/models"
)

func newImageHandler(service *mockImageService) *ImageHandler {
	return NewImageHandler(service, zap.NewNop())
}

func TestImageHandler_Create_Success(t *testing.T) {
	service := &mockImageService{}
	handler := newImageHandler(service)

	id := uuid.New()
	body := `{"epitaph":"Beloved mother","citation":"Her family"}`
	r := authedRequest(httptest.NewRequest(http.MethodPost, "/api/entries/"+id.String()+"/images", strings.NewReader(body)), "user-1")
	r.SetPathValue("id", id.String())
	w := httptest.NewRecorder()
	handler.Create(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if service.createdFor != id {
		t.Errorf("expected creation for %v, got %v", id, service.createdFor)
	}
	if !strings.Contains(w.Body.String(), models.ImageStatusPending) {
		t.Error("expected pending status in payload")
	}
}

func TestImageHandler_Create_Validation(t *testing.T) {
	service := &mockImageService{
		createErr: apperrors.NewValidationError(map[string]string{"epitaph": "Epitaph is required"}),
	}
	handler := newImageHandler(service)

	id := uuid.New()
	r := authedRequest(httptest.NewRequest(http.MethodPost, "/api/entries/"+id.String()+"/images", strings.NewReader(`{}`)), "user-1")
	r.SetPathValue("id", id.String())
	w := httptest.NewRecorder()
	handler.Create(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "epitaph") {
		t.Errorf("expected field error, got %s", w.Body.String())
	}
}

func TestImageHandler_Refresh_ReturnsImage(t *testing.T) {
	img := &models.GeneratedImage{
		ID:       uuid.New(),
		Status:   models.ImageStatusComplete,
		ImageURL: "https://cdn.example/m.png",
	}
	handler := newImageHandler(&mockImageService{image: img})

	r := authedRequest(httptest.NewRequest(http.MethodGet, "/api/images/"+img.ID.String(), nil), "user-1")
	r.SetPathValue("id", img.ID.String())
	w := httptest.NewRecorder()
	handler.Refresh(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "https://cdn.example/m.png") {
		t.Errorf("expected image url in payload, got %s", w.Body.String())
	}
}

func TestImageHandler_Refresh_AnonymousIs404(t *testing.T) {
	handler := newImageHandler(&mockImageService{})

	id := uuid.New()
	r := httptest.NewRequest(http.MethodGet, "/api/images/"+id.String(), nil)
	r.SetPathValue("id", id.String())
	w := httptest.NewRecorder()
	handler.Refresh(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
