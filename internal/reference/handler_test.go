package reference

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestHandlerListClampsNonPositiveLimit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	for _, label := range []string{"Femenino", "Masculino", "Otro"} {
		if _, err := store.Create(ctx, label); err != nil {
			t.Fatalf("seed %s: %v", label, err)
		}
	}

	h := NewHandler(Catalog[0], store)
	app := fiber.New()
	app.Get("/generos", h.List)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/generos?limit=0&page=0", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected %d for limit=0, got %d", fiber.StatusOK, resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()

	var body struct {
		Total int `json:"total"`
		Page  int `json:"page"`
		Pages int `json:"pages"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Total != 3 || body.Page != 1 || body.Pages != 1 {
		t.Fatalf("unexpected paging total=%d page=%d pages=%d", body.Total, body.Page, body.Pages)
	}
}

func TestMunicipalityHandlerListClampsNonPositiveLimit(t *testing.T) {
	store := NewMemoryMunicipalityStore(
		Municipality{StateID: 1, Number: 1, Name: "Aguascalientes"},
		Municipality{StateID: 1, Number: 2, Name: "Asientos"},
	)

	h := NewMunicipalityHandler(store)
	app := fiber.New()
	app.Get("/municipios", h.List)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/municipios?limit=0", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected %d for limit=0, got %d", fiber.StatusOK, resp.StatusCode)
	}
}
