package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/maskfab/maskfab/pkg/buildinfo"
	"github.com/maskfab/maskfab/pkg/cells"
	apperrors "github.com/maskfab/maskfab/pkg/errors"
	"github.com/maskfab/maskfab/pkg/layer"
	"github.com/maskfab/maskfab/pkg/layout"
	"github.com/maskfab/maskfab/pkg/observability"
	"github.com/maskfab/maskfab/pkg/pipeline"
)

// shutdownTimeout bounds graceful shutdown once the serve context is cancelled.
const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		backend string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the maskfab HTTP API",
		Long: `Run the maskfab HTTP API.

Endpoints:
  GET  /healthz    liveness probe
  GET  /v1/cells   registered cells with port summaries
  GET  /v1/layers  the active layer stack (?tech= for a tech file)
  POST /v1/pads    terminate a cell with pads, responds with the artifact

POST /v1/pads takes a JSON body with the same options as the pads command
and a single "format" field; the response body is the raw artifact bytes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache, backend)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&backend, "cache-backend", "file", "cache backend: file (default), redis")

	return cmd
}

// runServe starts the API server and blocks until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, addr string, noCache bool, backend string) error {
	runner, err := c.newRunner(ctx, noCache, backend)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newAPIHandler(runner, c.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("serving API", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// =============================================================================
// Handler
// =============================================================================

// apiHandler serves the v1 API on top of a pipeline runner.
type apiHandler struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// newAPIHandler builds the chi router for the API.
func newAPIHandler(runner *pipeline.Runner, logger *log.Logger) http.Handler {
	h := &apiHandler{runner: runner, logger: logger}

	r := chi.NewRouter()
	r.Use(hooksMiddleware)
	r.Use(h.recoverMiddleware)

	r.Get("/healthz", h.handleHealthz)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/cells", h.handleCells)
		r.Get("/layers", h.handleLayers)
		r.Post("/pads", h.handlePads)
	})

	return r
}

// hooksMiddleware reports every request and response to the HTTP hooks.
func hooksMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

// recoverMiddleware turns handler panics into 500 responses.
func (h *apiHandler) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				err := fmt.Errorf("panic: %v", rec)
				observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
				h.logger.Error("handler panicked", "method", r.Method, "path", r.URL.Path, "err", err)
				h.writeError(w, r, apperrors.New(apperrors.ErrCodeInternal, "internal error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Endpoints
// =============================================================================

func (h *apiHandler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// cellSummary is one registered cell in the /v1/cells response.
type cellSummary struct {
	Name     string   `json:"name"`
	Ports    []string `json:"ports"`
	Polygons int      `json:"polygons"`
}

func (h *apiHandler) handleCells(w http.ResponseWriter, r *http.Request) {
	names := cells.Names()
	out := make([]cellSummary, 0, len(names))
	for _, name := range names {
		comp, err := cells.Build(name)
		if err != nil {
			h.logger.Warn("skipping unbuildable cell", "cell", name, "err", err)
			continue
		}
		out = append(out, cellSummary{
			Name:     name,
			Ports:    comp.PortNames(),
			Polygons: len(comp.Flatten()),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"cells": out})
}

func (h *apiHandler) handleLayers(w http.ResponseWriter, r *http.Request) {
	stack := layer.DefaultStack()
	if tech := r.URL.Query().Get("tech"); tech != "" {
		if err := apperrors.ValidatePath(tech); err != nil {
			h.writeError(w, r, err)
			return
		}
		loaded, err := layer.LoadStack(tech)
		if err != nil {
			h.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidTechFile, err, "load tech file %s", tech))
			return
		}
		stack = loaded
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":   stack.Name,
		"layers": stack.Layers,
	})
}

// padsRequest is the JSON body of POST /v1/pads. Zero values fall back to
// the pipeline defaults, like omitting the flag does on the CLI.
type padsRequest struct {
	Cell        string   `json:"cell"`
	Pad         string   `json:"pad,omitempty"`
	Spacing     float64  `json:"spacing,omitempty"`
	Ports       []string `json:"ports,omitempty"`
	Orientation string   `json:"orientation,omitempty"`
	Layer       string   `json:"layer,omitempty"`
	Name        string   `json:"name,omitempty"`
	Format      string   `json:"format,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	Labels      bool     `json:"labels,omitempty"`
	Refresh     bool     `json:"refresh,omitempty"`
}

func (h *apiHandler) handlePads(w http.ResponseWriter, r *http.Request) {
	var req padsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	if req.Cell == "" {
		req.Cell = defaultCell
	}
	if err := apperrors.ValidateCellName(req.Cell); err != nil {
		h.writeError(w, r, err)
		return
	}
	for _, port := range req.Ports {
		if err := apperrors.ValidatePortName(port); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	if req.Layer != "" {
		if err := apperrors.ValidateLayerSpec(req.Layer); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	format := req.Format
	if format == "" {
		format = pipeline.FormatGDS
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		h.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidFormat, "%v", err))
		return
	}

	opts := pipeline.Options{
		Cell:        req.Cell,
		Pad:         req.Pad,
		Spacing:     req.Spacing,
		PortNames:   req.Ports,
		Orientation: req.Orientation,
		Layer:       req.Layer,
		Name:        req.Name,
		Refresh:     req.Refresh,
		Formats:     []string{format},
		Scale:       req.Scale,
		Labels:      req.Labels,
		Logger:      h.logger,
	}

	result, err := h.runner.Execute(r.Context(), opts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	data, ok := result.Artifacts[format]
	if !ok {
		h.writeError(w, r, apperrors.New(apperrors.ErrCodeExportFailed, "no %s artifact produced", format))
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Component.Name()+"."+format))
	w.Header().Set("X-Build-Hash", result.BuildHash)
	if result.CacheInfo.BuildHit && result.CacheInfo.ExportHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// =============================================================================
// Error Mapping
// =============================================================================

// errorBody is the JSON error envelope.
type errorBody struct {
	Error errorInfo `json:"error"`
}

type errorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps err to an HTTP status and writes the JSON error envelope.
func (h *apiHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorBody{Error: errorInfo{
		Code:    string(codeFor(err)),
		Message: apperrors.UserMessage(err),
	}})
}

// codeFor resolves the error code for err, classifying bare sentinel
// errors from the model packages when no coded error is in the chain.
func codeFor(err error) apperrors.Code {
	if code := apperrors.GetCode(err); code != "" {
		return code
	}
	switch {
	case errors.Is(err, cells.ErrUnknownCell):
		return apperrors.ErrCodeCellNotFound
	case errors.Is(err, layout.ErrPortNotFound):
		return apperrors.ErrCodePortNotFound
	case errors.Is(err, layout.ErrUnsupportedOrientation):
		return apperrors.ErrCodeUnsupportedOrientation
	case errors.Is(err, layer.ErrUnknownLayer), errors.Is(err, layer.ErrBadSpec):
		return apperrors.ErrCodeInvalidLayer
	default:
		return apperrors.ErrCodeInternal
	}
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	switch codeFor(err) {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidCell, apperrors.ErrCodeInvalidFormat,
		apperrors.ErrCodeInvalidOrientation, apperrors.ErrCodeInvalidLayer, apperrors.ErrCodeInvalidTechFile,
		apperrors.ErrCodeInvalidPath, apperrors.ErrCodeUnsupportedOrientation:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeCellNotFound, apperrors.ErrCodePortNotFound,
		apperrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeBuildFailed, apperrors.ErrCodeExportFailed:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeCache:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// contentTypeFor returns the MIME type for an artifact format.
func contentTypeFor(format string) string {
	switch format {
	case pipeline.FormatGDS:
		return "application/octet-stream"
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatJSON:
		return "application/json"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
