package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"
	"github.com/oapi-codegen/runtime"

	"premolt/internal/domain"
	"premolt/internal/ports"
)

const maxBodyBytes = 1 << 20

type Server struct {
	verifier ports.Verifier
	agents   ports.Agents
	catalog  ports.Catalog
	log      hclog.Logger
}

func New(verifier ports.Verifier, agents ports.Agents, catalog ports.Catalog, log hclog.Logger) *Server {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Server{verifier: verifier, agents: agents, catalog: catalog, log: log}
}

// Routes returns a chi.Router with every endpoint mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/healthz", s.getHealthz)
	r.Route("/agents", func(r chi.Router) {
		r.Post("/verify", s.postVerify)
		r.Get("/{agentId}", s.getAgent)
		r.Get("/{agentId}/verifications", s.getVerifications)
	})
	r.Get("/skills", s.getSkills)
	r.Get("/skills/{skillName}", s.getSkill)
	r.Get("/malware/{hash}", s.getMalware)
	return r
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) getHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) postVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := s.verifier.Evaluate(r.Context(), req.submission())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newVerdictResponse(res))
}

func (s *Server) getAgent(w http.ResponseWriter, r *http.Request) {
	var agentID string
	if !bindPath(w, r, "agentId", &agentID) {
		return
	}
	agent, err := s.agents.GetByAgentID(r.Context(), agentID)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAgentResponse(agent))
}

func (s *Server) getVerifications(w http.ResponseWriter, r *http.Request) {
	var agentID string
	if !bindPath(w, r, "agentId", &agentID) {
		return
	}
	records, err := s.agents.History(r.Context(), agentID)
	if err != nil {
		s.fail(w, err)
		return
	}
	out := make([]verificationResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, newVerificationResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := s.catalog.ListSkills(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	out := make([]skillResponse, 0, len(skills))
	for _, sk := range skills {
		out = append(out, newSkillResponse(sk))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getSkill(w http.ResponseWriter, r *http.Request) {
	var name string
	if !bindPath(w, r, "skillName", &name) {
		return
	}
	skill, err := s.catalog.GetSkill(r.Context(), name)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSkillResponse(skill))
}

func (s *Server) getMalware(w http.ResponseWriter, r *http.Request) {
	var hash string
	if !bindPath(w, r, "hash", &hash) {
		return
	}
	entry, err := s.catalog.CheckHash(r.Context(), hash)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, malwareResponse{
		Hash:        entry.Hash,
		Name:        entry.Name,
		Description: entry.Description,
		Severity:    string(entry.Severity),
		Source:      entry.Source,
	})
}

func bindPath(w http.ResponseWriter, r *http.Request, name string, dest *string) bool {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name+": "+err.Error())
		return false
	}
	return true
}

// fail maps service errors onto HTTP statuses.
func (s *Server) fail(w http.ResponseWriter, err error) {
	var inErr *domain.InputError
	var collab *domain.CollaboratorError
	switch {
	case errors.As(err, &inErr):
		writeError(w, http.StatusBadRequest, inErr.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.As(err, &collab):
		s.log.Error("collaborator failure", "op", collab.Op, "error", collab.Err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "verification failed: " + collab.Op, ScanLogs: collab.Findings})
	default:
		s.log.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
