package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sizereport/pkg/buildinfo"
	"github.com/matzehuels/sizereport/pkg/config"
	"github.com/matzehuels/sizereport/pkg/errors"
	"github.com/matzehuels/sizereport/pkg/pipeline"
	"github.com/matzehuels/sizereport/pkg/table"
	"github.com/matzehuels/sizereport/pkg/transform"
)

const (
	// maxRequestBody bounds the size of a report request.
	maxRequestBody = 1 << 20

	shutdownTimeout = 10 * time.Second
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		root    string
		tempDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve size reports over HTTP",
		Long: `Serve size reports over HTTP.

Endpoints:
  GET  /healthz     liveness and version
  GET  /transforms  available columns
  POST /report      {"cwd": "src/", "src": ["app.js"], "cols": ["filepath", "gzip"]}

Request paths are relative to --root and may not leave it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig("")
			if err != nil {
				return err
			}
			regOpts := cfg.RegistryOptions()
			if tempDir != "" {
				regOpts = append(regOpts, transform.WithTempDir(tempDir))
			}

			srv := &server{
				root:   baseDir(root),
				runner: c.newRunner(nil, regOpts...),
				logger: c.Logger,
			}
			return srv.listen(cmd.Context(), addr, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&root, "root", "", "directory requests are resolved against (default: working directory)")
	cmd.Flags().StringVar(&tempDir, "temp-dir", "", "directory for temporary files (default: system temp dir)")

	return cmd
}

// =============================================================================
// Server
// =============================================================================

// server answers report requests with a shared runner.
type server struct {
	root   string
	runner *pipeline.Runner
	logger *log.Logger
}

// reportRequest is the body of POST /report.
type reportRequest struct {
	Cwd    string   `json:"cwd"`
	Src    []string `json:"src"`
	Cols   []string `json:"cols,omitempty"`
	Strict bool     `json:"strict,omitempty"`
}

// reportResponse is the body of a successful POST /report.
type reportResponse struct {
	Header  table.Row   `json:"header"`
	Rows    []table.Row `json:"rows"`
	Missing []string    `json:"missing"`
	Skipped bool        `json:"skipped"`
	Table   string      `json:"table"`
}

// errorResponse is the body of a failed request.
type errorResponse struct {
	Error  string      `json:"error"`
	Code   errors.Code `json:"code"`
	Detail string      `json:"detail,omitempty"`
}

// routes builds the chi router.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/transforms", s.handleTransforms)
	r.Post("/report", s.handleReport)
	return r
}

// listen serves until ctx is cancelled, then shuts down gracefully.
func (s *server) listen(ctx context.Context, addr string, errOut io.Writer) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()
	printInfo(errOut, "Listening on http://%s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	printSuccess(errOut, "Server stopped")
	return ctx.Err()
}

// requestID tags each request with an X-Request-Id, generating one if the
// client did not send it, and attaches a request-scoped logger.
func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(middleware.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(middleware.RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		ctx = withLogger(ctx, s.logger.With("request_id", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// logRequests logs method, path, status and duration at debug level.
func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		loggerFromContext(r.Context()).Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

func (s *server) handleTransforms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listTransforms())
}

func (s *server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid json body"))
		return
	}

	g, err := s.group(req)
	if err != nil {
		writeError(w, err)
		return
	}

	opts := pipeline.Options{Cols: req.Cols, Strict: req.Strict}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.runner.RunGroup(r.Context(), g, opts)
	if err != nil {
		loggerFromContext(r.Context()).Debug("report failed", "err", err)
		writeError(w, err)
		return
	}

	resp := reportResponse{
		Header:  opts.Header(),
		Rows:    res.DataRows(),
		Missing: res.Missing,
		Skipped: res.Skipped,
		Table:   res.Table,
	}
	if resp.Rows == nil {
		resp.Rows = []table.Row{}
	}
	if resp.Missing == nil {
		resp.Missing = []string{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// group validates a request and turns it into a file group under s.root.
func (s *server) group(req reportRequest) (pipeline.Group, error) {
	if len(req.Src) == 0 {
		return pipeline.Group{}, errors.New(errors.ErrCodeInvalidInput, "src is required")
	}
	cwd := baseDir(req.Cwd)
	if err := errors.ValidateBaseDir(cwd); err != nil {
		return pipeline.Group{}, err
	}
	for _, src := range req.Src {
		if err := errors.ValidatePath(src); err != nil {
			return pipeline.Group{}, err
		}
	}

	g, err := config.ExpandGroup(pipeline.Group{Cwd: s.root + cwd, Src: req.Src})
	if err != nil {
		return pipeline.Group{}, err
	}
	return g, nil
}

// =============================================================================
// JSON helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := http.StatusInternalServerError
	if strings.HasPrefix(string(code), "INVALID_") {
		status = http.StatusBadRequest
	}

	resp := errorResponse{Error: errors.UserMessage(err), Code: code}
	if detail := err.Error(); detail != resp.Error {
		resp.Detail = detail
	}
	writeJSON(w, status, resp)
}
