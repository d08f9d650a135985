package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/Nir-David-Duani/pp-linear/pkg/buildinfo"
	"github.com/Nir-David-Duani/pp-linear/pkg/cache"
	pperrors "github.com/Nir-David-Duani/pp-linear/pkg/errors"
	"github.com/Nir-David-Duani/pp-linear/pkg/matrix"
	"github.com/Nir-David-Duani/pp-linear/pkg/observability"
	"github.com/Nir-David-Duani/pp-linear/pkg/pipeline"
)

// apiKeyPrefix keeps results computed for HTTP clients apart from CLI runs
// sharing the same cache backend.
const apiKeyPrefix = "api:"

// apiDefaultFormats are rendered when a request names none. SVG is opt-in.
var apiDefaultFormats = []string{pipeline.FormatNewick, pipeline.FormatSplits, pipeline.FormatWitness}

// serveCommand creates the serve command that runs the HTTP analysis server.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis server",
		Long: `Serve exposes the analysis over HTTP:

  POST /v1/analyze   body: CSV (text/csv) or JSON {"csv": "...", "matrix": {...}, ...}
  GET  /healthz      liveness and build information

Query parameters for CSV bodies: delimiter, normalize, keep_zero_columns,
formats (comma-separated) and strict (answer 422 when there is no perfect
phylogeny).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()
			runner.Keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), apiKeyPrefix)

			s := newServer(runner, c.Config.Server, c.Logger)
			srv := &http.Server{
				Addr:              addr,
				Handler:           s.routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			printSuccess("Listening on %s", StyleLink.Render("http://"+displayAddr(addr)))
			backend := c.Config.Cache.Backend
			if noCache {
				backend = backendNone
			}
			printKeyValue("cache", backend)
			printKeyValue("timeout", c.Config.Server.Timeout.String())

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			c.Logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", `listen address (default from config, ":8080")`)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

// =============================================================================
// Server
// =============================================================================

type server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	timeout time.Duration
	maxBody int64
}

func newServer(r *pipeline.Runner, cfg ServerConfig, logger *log.Logger) *server {
	return &server{
		runner:  r,
		logger:  logger,
		timeout: cfg.Timeout,
		maxBody: cfg.MaxBodyBytes,
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/analyze", s.handleAnalyze)
	return r
}

// observe reports every request to the registered server hooks.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

// analyzeRequest is the JSON request body. Exactly one of CSV and Matrix
// must be set.
type analyzeRequest struct {
	CSV             string         `json:"csv,omitempty"`
	Matrix          *matrix.Matrix `json:"matrix,omitempty"`
	Delimiter       string         `json:"delimiter,omitempty"`
	Normalize       bool           `json:"normalize"`
	KeepZeroColumns bool           `json:"keep_zero_columns"`
	Formats         []string       `json:"formats,omitempty"`
	Strict          bool           `json:"strict"`
}

type analyzeResponse struct {
	RunID      string `json:"run_id"`
	MatrixHash string `json:"matrix_hash"`
	pipeline.Summary
	Skipped   []string          `json:"skipped,omitempty"`
	Cached    bool              `json:"cached"`
	Artifacts map[string]string `json:"artifacts"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    pperrors.Code `json:"code"`
	Message string        `json:"message"`
}

func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	}
	req, err := decodeAnalyzeRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	delim, err := parseDelimiter(req.Delimiter)
	if err != nil {
		s.writeError(w, err)
		return
	}
	formats := req.Formats
	if len(formats) == 0 {
		formats = apiDefaultFormats
	}
	opts := pipeline.Options{
		Source:          "api",
		Input:           []byte(req.CSV),
		Matrix:          req.Matrix,
		Delimiter:       delim,
		Normalize:       req.Normalize,
		KeepZeroColumns: req.KeepZeroColumns,
		Formats:         formats,
	}

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res, err := s.runner.Execute(ctx, opts)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = pperrors.Wrap(pperrors.ErrCodeTimeout, err, "analysis timed out")
		}
		s.writeError(w, err)
		return
	}

	resp := analyzeResponse{
		RunID:      res.RunID,
		MatrixHash: res.MatrixHash,
		Summary:    res.Summary,
		Skipped:    res.Skipped,
		Cached:     res.CacheInfo.ResultHit,
		Artifacts:  make(map[string]string, len(res.Artifacts)),
	}
	for f, data := range res.Artifacts {
		resp.Artifacts[f] = string(data)
	}

	status := http.StatusOK
	if req.Strict && !res.Summary.Perfect {
		status = pperrors.HTTPStatus(pperrors.New(pperrors.ErrCodeNotPerfect, "%s", res.Summary.Witness))
	}
	writeJSON(w, status, resp)
}

// decodeAnalyzeRequest reads a JSON body, or a CSV body configured through
// query parameters.
func decodeAnalyzeRequest(r *http.Request) (analyzeRequest, error) {
	var req analyzeRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, bodyError(err, "decode JSON body")
		}
		switch {
		case req.CSV == "" && req.Matrix == nil:
			return req, pperrors.New(pperrors.ErrCodeInvalidInput, `request needs "csv" or "matrix"`)
		case req.CSV != "" && req.Matrix != nil:
			return req, pperrors.New(pperrors.ErrCodeInvalidInput, `request must not set both "csv" and "matrix"`)
		}
		return req, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return req, bodyError(err, "read body")
	}
	if len(data) == 0 {
		return req, pperrors.New(pperrors.ErrCodeInvalidInput, "empty request body")
	}
	req.CSV = string(data)

	q := r.URL.Query()
	req.Delimiter = q.Get("delimiter")
	if v := q.Get("formats"); v != "" {
		req.Formats = parseFormats(v)
	}
	for name, dst := range map[string]*bool{
		"normalize":         &req.Normalize,
		"keep_zero_columns": &req.KeepZeroColumns,
		"strict":            &req.Strict,
	} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, pperrors.New(pperrors.ErrCodeInvalidInput, "query parameter %s: %q is not a boolean", name, v)
		}
		*dst = b
	}
	return req, nil
}

func bodyError(err error, msg string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return pperrors.Wrap(pperrors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", tooLarge.Limit)
	}
	return pperrors.Wrap(pperrors.ErrCodeInvalidInput, err, "%s", msg)
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	status := pperrors.HTTPStatus(err)
	code := pperrors.GetCode(err)
	if code == "" {
		code = pperrors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("analyze failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: pperrors.UserMessage(err)}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
