// Package api serves the calculator over HTTP as JSON.
//
//	GET /api/v1/plants
//	GET /api/v1/plants/{plant}/variants
//	GET /api/v1/mutations
//	GET /api/v1/damage?plant=&variant=&kg=&level=
//	GET /api/v1/fuse?plant=&a=&b=&kg_a=&kg_b=&level=
//	GET /healthz, /readyz
//
// An unknown plant is reported before any malformed number. Fused variant
// keys such as "Gold+Wrapped" must encode the plus as %2B in a query
// string, otherwise it decodes to a space.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/udisondev/plantcalc/internal/data"
	"github.com/udisondev/plantcalc/internal/engine"
	"github.com/udisondev/plantcalc/internal/observe"
)

// checkTimeout bounds a single readiness check.
const checkTimeout = 5 * time.Second

// Checker is a named readiness check.
type Checker struct {
	Name  string
	Check func(ctx context.Context) error
}

// Server holds the HTTP handlers.
type Server struct {
	engine   *engine.Engine
	checkers []Checker
	mux      *http.ServeMux
}

// New builds the API handler. metrics may be nil.
func New(e *engine.Engine, metrics *observe.Metrics, checkers ...Checker) http.Handler {
	s := &Server{
		engine:   e,
		checkers: checkers,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /api/v1/plants", s.handlePlants)
	s.mux.HandleFunc("GET /api/v1/plants/{plant}/variants", s.handleVariants)
	s.mux.HandleFunc("GET /api/v1/mutations", s.handleMutations)
	s.mux.HandleFunc("GET /api/v1/damage", s.handleDamage)
	s.mux.HandleFunc("GET /api/v1/fuse", s.handleFuse)
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.HandleFunc("GET /readyz", s.handleReadyz)

	if metrics == nil {
		return s.mux
	}
	return observe.Middleware(metrics, s.mux)
}

type plantJSON struct {
	Name string   `json:"name"`
	Base float64  `json:"base,omitempty"`
	CD   *float64 `json:"cd,omitempty"`
}

func toPlantJSON(p data.Plant) plantJSON {
	out := plantJSON{Name: p.Name, Base: p.Base}
	if p.HasCD() {
		cd := p.CD
		out.CD = &cd
	}
	return out
}

func (s *Server) handlePlants(w http.ResponseWriter, _ *http.Request) {
	plants := s.engine.Plants()
	out := make([]plantJSON, len(plants))
	for i, p := range plants {
		out[i] = toPlantJSON(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleVariants(w http.ResponseWriter, r *http.Request) {
	vs, err := s.engine.Variants(r.PathValue("plant"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vs)
}

type mutationJSON struct {
	Name  string  `json:"name"`
	Label string  `json:"label"`
	Mult  float64 `json:"mult"`
	Group string  `json:"group"`
}

func (s *Server) handleMutations(w http.ResponseWriter, _ *http.Request) {
	muts := s.engine.FuseInputs()
	out := make([]mutationJSON, len(muts))
	for i, m := range muts {
		out[i] = mutationJSON{Name: m.Name, Label: m.Label(), Mult: m.Mult, Group: string(m.Group)}
	}
	writeJSON(w, http.StatusOK, out)
}

type damageResponse struct {
	Plant   string               `json:"plant"`
	Variant engine.VariantOption `json:"variant"`
	Kg      float64              `json:"kg"`
	KgUsed  float64              `json:"kg_used"`
	Capped  bool                 `json:"capped"`
	Level   int                  `json:"level"`
	Damage  float64              `json:"damage"`
	DPS     *float64             `json:"dps,omitempty"`
	Row     string               `json:"row,omitempty"`
	Report  string               `json:"report"`
}

func (s *Server) handleDamage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if _, err := s.engine.Plant(q.Get("plant")); err != nil {
		writeError(w, err)
		return
	}
	kg, err := engine.ParseNumber(engine.FieldKg, q.Get("kg"))
	if err != nil {
		writeError(w, err)
		return
	}
	lvl, err := engine.ParseNumber(engine.FieldLevel, q.Get("level"))
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.engine.Damage(r.Context(), engine.DamageRequest{
		Plant:   q.Get("plant"),
		Variant: q.Get("variant"),
		Kg:      kg,
		Level:   lvl,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	out := damageResponse{
		Plant:   res.Plant.Name,
		Variant: res.Variant,
		Kg:      res.Kg,
		KgUsed:  res.KgUsed,
		Capped:  res.Capped,
		Level:   res.Level,
		Damage:  res.Damage,
		Row:     res.Row,
		Report:  engine.DamageReport(res),
	}
	if res.HasDPS {
		out.DPS = &res.DPS
	}
	writeJSON(w, http.StatusOK, out)
}

type fuseResponse struct {
	Plant   string   `json:"plant"`
	Result  string   `json:"result"`
	Mult    float64  `json:"mult"`
	Rule    string   `json:"rule"`
	Kg      float64  `json:"kg"`
	KgUsed  float64  `json:"kg_used"`
	Capped  bool     `json:"capped"`
	Level   int      `json:"level"`
	Damage  float64  `json:"damage"`
	DPS     *float64 `json:"dps,omitempty"`
	Variant string   `json:"variant,omitempty"`
	Row     string   `json:"row,omitempty"`
	Report  string   `json:"report"`
}

func (s *Server) handleFuse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if _, err := s.engine.Plant(q.Get("plant")); err != nil {
		writeError(w, err)
		return
	}
	kgA, errA := engine.ParseNumber(engine.FieldKgA, q.Get("kg_a"))
	kgB, errB := engine.ParseNumber(engine.FieldKgB, q.Get("kg_b"))
	if errA != nil {
		writeError(w, errA)
		return
	}
	if errB != nil {
		writeError(w, errB)
		return
	}

	res, err := s.engine.Fuse(r.Context(), engine.FuseRequest{
		Plant:     q.Get("plant"),
		MutationA: q.Get("a"),
		MutationB: q.Get("b"),
		KgA:       kgA,
		KgB:       kgB,
		Level:     engine.ParseFuseLevel(q.Get("level")),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	out := fuseResponse{
		Plant:  res.Plant.Name,
		Result: res.Fusion.Label,
		Mult:   res.Fusion.Mult,
		Rule:   res.Fusion.Note,
		Kg:     res.Kg,
		KgUsed: res.KgUsed,
		Capped: res.Capped,
		Level:  res.Level,
		Damage: res.Damage,
		Row:    res.Row,
		Report: engine.FuseReport(res),
	}
	if res.HasDPS {
		out.DPS = &res.DPS
	}
	if res.Variant != nil {
		out.Variant = res.Variant.Label
	}
	writeJSON(w, http.StatusOK, out)
}

type healthResult struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResult{Status: "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	res := healthResult{Status: "ok", Checks: make(map[string]string, len(s.checkers))}
	status := http.StatusOK
	for _, c := range s.checkers {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		err := c.Check(ctx)
		cancel()
		if err != nil {
			res.Status = "fail"
			res.Checks[c.Name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		res.Checks[c.Name] = "ok"
	}
	writeJSON(w, status, res)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusFor maps an engine error kind to an HTTP status.
func statusFor(kind string) int {
	switch kind {
	case "invalid_input", "unknown_mutation", "not_fusable", "self_fusion":
		return http.StatusBadRequest
	case "unknown_plant", "unknown_variant":
		return http.StatusNotFound
	case "unsupported_combo", "not_found", "no_data", "no_matching_variant":
		return http.StatusUnprocessableEntity
	case "resource_load":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	kind := engine.Kind(err)
	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "kind", kind, "err", err)
	} else {
		slog.Debug("request rejected", "kind", kind, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: kind, Message: engine.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("writing response", "err", err)
	}
}
