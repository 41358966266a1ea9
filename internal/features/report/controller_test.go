package report

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-salesdash/internal/features/daterange"
	"go-salesdash/internal/features/metrics"
	"go-salesdash/internal/features/user"
	"go-salesdash/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeUserService struct {
	profile *user.Profile
}

func (f *fakeUserService) GetByEmail(ctx context.Context, email string) (*user.Profile, error) {
	if f.profile == nil {
		return nil, user.ErrProfileNotFound
	}
	return f.profile, nil
}

type fakePreferenceService struct{}

func (fakePreferenceService) ActiveBusinessLine(ctx context.Context, userID primitive.ObjectID) (metrics.BusinessLine, error) {
	return metrics.LineSolar, nil
}

func (fakePreferenceService) SetActiveBusinessLine(ctx context.Context, userID primitive.ObjectID, line metrics.BusinessLine) error {
	return nil
}

// deniedProvider refuses the record read the way an adapter does when the
// access policy denies the caller.
type deniedProvider struct {
	stubProvider
}

func (p *deniedProvider) FetchLeads(ctx context.Context, u *user.Profile, rng daterange.Range, nameFilter string) ([]metrics.Lead, error) {
	return nil, metrics.ErrAccessDenied
}

// faultyProvider fails its aggregate reads outright.
type faultyProvider struct {
	stubProvider
}

func (p *faultyProvider) FetchKPIMetrics(ctx context.Context, u *user.Profile, rng daterange.Range, nameFilter string) (metrics.KPIBundle, error) {
	return metrics.KPIBundle{}, errors.New("store down")
}

func newTestController(p metrics.Provider) *ReportController {
	reg := metrics.NewRegistry()
	reg.Register(metrics.LineSolar, p)
	return &ReportController{
		Registry:          reg,
		UserService:       &fakeUserService{profile: adminProfile()},
		PreferenceService: fakePreferenceService{},
		Logger:            zap.NewNop(),
	}
}

func newTestApp(register func(app *fiber.App)) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(utils.UserClaimsKey, &utils.UserClaims{Email: "root@example.com"})
		return c.Next()
	})
	register(app)
	return app
}

// An access denial must answer 403, never a 200 with an empty list that
// reads like an empty store.
func TestGetLeadsDeniedAnswersForbidden(t *testing.T) {
	ctrl := newTestController(&deniedProvider{})
	app := newTestApp(func(app *fiber.App) {
		app.Get("/api/reports/leads", ctrl.GetLeads)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/reports/leads?line=solar", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestGetLeadsEmptyStoreAnswersOK(t *testing.T) {
	ctrl := newTestController(&stubProvider{})
	app := newTestApp(func(app *fiber.App) {
		app.Get("/api/reports/leads", ctrl.GetLeads)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/reports/leads?line=solar", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

// Aggregate tiles degrade to zero values on a provider fault instead of
// failing the request.
func TestGetKPIsRendersZerosOnProviderFault(t *testing.T) {
	ctrl := newTestController(&faultyProvider{})
	app := newTestApp(func(app *fiber.App) {
		app.Get("/api/reports/kpis", ctrl.GetKPIs)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/reports/kpis?line=solar", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	var kpis metrics.KPIBundle
	if err := json.Unmarshal(body, &kpis); err != nil {
		t.Fatal(err)
	}
	if kpis != (metrics.KPIBundle{}) {
		t.Errorf("kpis = %+v, want zero bundle", kpis)
	}
}
