package analytics

import (
	"net/http"
	"time"

	uierrors "github.com/dalemusser/accessdeck/internal/app/features/errors"
	"github.com/dalemusser/accessdeck/internal/app/system/apiclient"
	"github.com/dalemusser/accessdeck/internal/app/system/format"
	"github.com/dalemusser/accessdeck/internal/app/system/timeouts"
	"github.com/dalemusser/accessdeck/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the dashboard.
type Handler struct {
	Source Source
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
	Now    func() time.Time

	Render uierrors.RenderFunc
}

func NewHandler(src Source, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Source: src,
		ErrLog: errLog,
		Log:    logger,
		Now:    time.Now,
		Render: func(w http.ResponseWriter, r *http.Request, name string, data any) {
			templates.Render(w, r, name, data)
		},
	}
}

type chartView struct {
	Name string
	URL  string
}

// DashboardData is the dashboard view model.
type DashboardData struct {
	viewdata.BaseVM
	Stats    []format.Stat
	Charts   []chartView
	Paths    []format.Bucket
	Error    string
	RetryURL string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /analytics – dashboard                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	data := DashboardData{BaseVM: viewdata.NewBaseVM(r, "Dasbor", "/analytics")}

	sum, err := h.summary(r)
	if err != nil {
		h.Log.Warn("dashboard snapshot failed", zap.Error(err))
		data.Error = apiclient.UserMessage(err)
		data.RetryURL = r.URL.RequestURI()
		h.Render(w, r, "analytics_dashboard", data)
		return
	}

	data.Stats = sum.Stats
	data.Paths = sum.Paths
	for _, name := range Charts {
		data.Charts = append(data.Charts, chartView{Name: name, URL: "/analytics/charts/" + name})
	}
	h.Render(w, r, "analytics_dashboard", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /analytics/charts/{name} – one chart as a standalone page               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := BuildChart(name, Summary{}); !ok {
		h.ErrLog.NotFound(w, r, "Grafik tidak ditemukan.", "/analytics")
		return
	}

	sum, err := h.summary(r)
	if err != nil {
		h.Log.Warn("chart snapshot failed", zap.String("chart", name), zap.Error(err))
		http.Error(w, apiclient.UserMessage(err), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := RenderChart(w, name, sum); err != nil {
		h.Log.Error("render chart failed", zap.String("chart", name), zap.Error(err))
	}
}

func (h *Handler) summary(r *http.Request) (Summary, error) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "analytics snapshot")
	defer cancel()

	snap, err := h.Source.Snapshot(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(snap, h.Now()), nil
}
