package server

import (
	"bytes"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/YuminosukeSato/sfhousing/chart"
	"github.com/YuminosukeSato/sfhousing/dashboard"
	"github.com/YuminosukeSato/sfhousing/pkg/errors"
	"github.com/YuminosukeSato/sfhousing/pkg/log"
)

const (
	pageHousing = "housing"
	pageML      = "ml"
	pageChart   = "chart"
)

type errorView struct {
	Status  int
	Message string
}

type panelView struct {
	dashboard.Panel
	Snippet chart.Snippet
}

type pageView struct {
	Title     string
	Intro     []string
	Panels    []panelView
	Error     *errorView
	RenderID  string
	ScriptURL string
	// Query is appended to chart image links so they draw the same selection.
	Query string
}

type statesResponse struct {
	States  []string            `json:"states"`
	Default dashboard.Selection `json:"default"`
}

type countiesResponse struct {
	State    string   `json:"state"`
	Counties []string `json:"counties"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// pass is the per-request state of one render pass.
type pass struct {
	id     string
	page   string
	start  time.Time
	logger log.Logger
}

func (s *Server) newPass(page string) *pass {
	id := uuid.NewString()
	return &pass{
		id:     id,
		page:   page,
		start:  time.Now(),
		logger: s.logger.With(log.RenderIDKey, id, log.PageKey, page),
	}
}

// fail logs err and returns the status it maps to.
func (s *Server) fail(p *pass, err error) int {
	status, code := statusFor(err)
	p.logger.Error("render failed", err, log.ErrorCodeKey, code, log.StatusKey, status)
	return status
}

func (s *Server) done(p *pass, status int) {
	s.metrics.observe(p.page, status, p.start)
	p.logger.Debug("render finished", log.StatusKey, status, log.DurationMsKey, time.Since(p.start).Milliseconds())
}

// selection resolves the query selection, falling back to the configured
// one when the query names none.
func (s *Server) selection(selector *dashboard.Selector, q url.Values) dashboard.Selection {
	state, county := q.Get("state"), q.Get("county")
	if state == "" && county == "" {
		state, county = s.cfg.Selection.State, s.cfg.Selection.County
	}
	return selector.Resolve(state, county)
}

// recompute runs load and compute for the housing page.
func (s *Server) recompute(p *pass, q url.Values) (*dashboard.Page, *dashboard.Selector, error) {
	var (
		page     *dashboard.Page
		selector *dashboard.Selector
	)
	err := errors.SafeExecute("server.recompute", func() error {
		tables, err := s.loader(p.logger).Load()
		if err != nil {
			return err
		}
		selector = dashboard.NewSelector(tables.Populations)
		sel := s.selection(selector, q)
		p.logger = p.logger.With(log.StateKey, sel.State, log.CountyKey, sel.County)

		page, err = dashboard.Recompute(tables, sel)
		return err
	})
	return page, selector, err
}

func (s *Server) handleHousing(w http.ResponseWriter, r *http.Request) {
	p := s.newPass(pageHousing)
	status := http.StatusOK

	page, selector, err := s.recompute(p, r.URL.Query())
	var view *pageView
	if err == nil {
		s.writeArtifact(p, page)
		view, err = s.view(p, page)
	}
	if err != nil {
		status = s.fail(p, err)
		view = s.housingErrorView(p, selector, r.URL.Query(), status, err)
	}
	if r.URL.RawQuery != "" {
		view.Query = "?" + r.URL.RawQuery
	}

	s.done(p, status)
	s.writePage(w, r, status, view)
}

// housingErrorView keeps the selectors usable on a failed pass whenever the
// population table can still be read.
func (s *Server) housingErrorView(p *pass, selector *dashboard.Selector, q url.Values, status int, err error) *pageView {
	view := &pageView{
		Title:     dashboard.HousingTitle,
		Error:     &errorView{Status: status, Message: err.Error()},
		RenderID:  p.id,
		ScriptURL: s.echarts.ScriptURL(),
	}
	if selector == nil {
		pop, perr := s.loader(p.logger).LoadPopulations()
		if perr != nil {
			return view
		}
		selector = dashboard.NewSelector(pop)
	}
	view.Panels = []panelView{{Panel: dashboard.Panel{
		ID:       dashboard.PanelCounties,
		Controls: selector.Controls(s.selection(selector, q)),
	}}}
	return view
}

func (s *Server) handleML(w http.ResponseWriter, r *http.Request) {
	p := s.newPass(pageML)
	status := http.StatusOK
	q := r.URL.Query()

	var view *pageView
	err := errors.SafeExecute("server.ml", func() error {
		h, err := dashboard.ParseHyperparameters(q.Get("max_depth"), q.Get("trees"), q.Get("feature"))
		if err != nil {
			return err
		}
		page, err := dashboard.MLTemplate(h)
		if err != nil {
			return err
		}
		view, err = s.view(p, page)
		return err
	})
	if err != nil {
		status = s.fail(p, err)
		page, derr := dashboard.MLTemplate(dashboard.DefaultHyperparameters())
		if derr == nil {
			view, derr = s.view(p, page)
		}
		if derr != nil {
			view = &pageView{Title: dashboard.MLTitle, RenderID: p.id}
		}
		view.Error = &errorView{Status: status, Message: err.Error()}
	}

	s.done(p, status)
	s.writePage(w, r, status, view)
}

func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	p := s.newPass(pageChart)
	id := chi.URLParam(r, "panel")
	p.logger = p.logger.With(log.PanelKey, id)

	page, _, err := s.recompute(p, r.URL.Query())
	var buf bytes.Buffer
	if err == nil {
		panel, ok := page.Panel(id)
		switch {
		case !ok || panel.Chart == nil:
			err = errors.NewNoValidDataError("server.chart", id)
		default:
			err = s.png.WritePNG(&buf, panel.Chart)
		}
	}
	if err != nil {
		status := s.fail(p, err)
		s.done(p, status)
		s.writeJSONError(w, r, status, err)
		return
	}

	s.done(p, http.StatusOK)
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleStates(w http.ResponseWriter, r *http.Request) {
	selector, err := s.selector()
	if err != nil {
		s.writeJSONError(w, r, s.fail(s.newPass("states"), err), err)
		return
	}
	render.JSON(w, r, statesResponse{
		States:  selector.States(),
		Default: s.selection(selector, r.URL.Query()),
	})
}

func (s *Server) handleCounties(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	selector, err := s.selector()
	if err == nil && selector.Counties(state) == nil {
		err = errors.NewNoValidDataError("server.counties", state)
	}
	if err != nil {
		s.writeJSONError(w, r, s.fail(s.newPass("counties"), err), err)
		return
	}
	render.JSON(w, r, countiesResponse{State: state, Counties: selector.Counties(state)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) selector() (*dashboard.Selector, error) {
	pop, err := s.loader(s.logger).LoadPopulations()
	if err != nil {
		return nil, err
	}
	return dashboard.NewSelector(pop), nil
}

// view draws every chart of page as an ECharts snippet.
func (s *Server) view(p *pass, page *dashboard.Page) (*pageView, error) {
	v := &pageView{
		Title:     page.Title,
		Intro:     page.Intro,
		RenderID:  p.id,
		ScriptURL: s.echarts.ScriptURL(),
	}
	for _, panel := range page.Panels {
		pv := panelView{Panel: panel}
		if panel.Chart != nil {
			snippet, err := s.echarts.Snippet(panel.Chart)
			if err != nil {
				return nil, errors.Wrapf(err, "draw panel %s", panel.ID)
			}
			pv.Snippet = snippet
		}
		v.Panels = append(v.Panels, pv)
	}
	return v, nil
}

// writeArtifact saves the construction chart as a PNG. A failure is logged
// and does not fail the pass.
func (s *Server) writeArtifact(p *pass, page *dashboard.Page) {
	if !s.cfg.Output.WriteArtifact {
		return
	}
	panel, ok := page.Panel(dashboard.PanelConstruction)
	if !ok || panel.Chart == nil {
		return
	}
	path := filepath.Join(s.cfg.Output.Dir, dashboard.ArtifactName)
	if err := s.png.SavePNG(path, panel.Chart); err != nil {
		p.logger.Error("artifact not written", err, log.ArtifactKey, path)
		return
	}
	s.metrics.artifactWritten()
	p.logger.Debug("artifact written", log.OperationKey, log.OperationDraw, log.ArtifactKey, path)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, view *pageView) {
	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "page", view); err != nil {
		s.logger.Error("template failed", errors.Wrap(err, "execute page template"), log.RenderIDKey, view.RenderID)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	render.Status(r, status)
	render.HTML(w, r, buf.String())
}

func (s *Server) writeJSONError(w http.ResponseWriter, r *http.Request, status int, err error) {
	_, code := statusFor(err)
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: err.Error(), Code: code})
}
