package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dwestra/quill/pkg/archive"
	"github.com/dwestra/quill/pkg/buildinfo"
	"github.com/dwestra/quill/pkg/cache"
	qerrors "github.com/dwestra/quill/pkg/errors"
	"github.com/dwestra/quill/pkg/jsontext"
	"github.com/dwestra/quill/pkg/pipeline"
	"github.com/dwestra/quill/pkg/value"
)

const (
	// defaultServeAddr is the default listen address.
	defaultServeAddr = ":8787"

	// maxRequestBody caps the document size accepted by /v1/convert.
	maxRequestBody = 4 << 20

	// shutdownTimeout bounds graceful shutdown after ctx cancellation.
	shutdownTimeout = 10 * time.Second

	// archiveTimeout bounds archive writes so a slow backend cannot
	// stall responses.
	archiveTimeout = 5 * time.Second
)

// serveConfig holds the resolved serve command configuration.
type serveConfig struct {
	addr       string
	redisURL   string
	archiveURI string
	noCache    bool
}

// serveCommand creates the serve command running the HTTP conversion service.
func (c *CLI) serveCommand() *cobra.Command {
	cfg := serveConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion service",
		Long: `Run an HTTP service that converts documents to JSON.

Endpoints:
  POST /v1/convert   Convert the request body; query parameters select the
                     input format (from), the artifact (emit: json, dot,
                     svg), and cache behavior (refresh)
  GET  /v1/history   List recent conversions from the archive
  GET  /healthz      Liveness probe

With --redis, results are cached in Redis instead of on disk so multiple
instances share one cache. With --archive-uri (or QUILL_MONGO_URI), each
conversion is recorded in MongoDB and served by /v1/history.`,
		Example: `  quill serve
  quill serve --addr :9000 --redis redis://localhost:6379/0
  quill serve --archive-uri mongodb://localhost:27017`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.archiveURI == "" {
				cfg.archiveURI = os.Getenv("QUILL_MONGO_URI")
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.addr, "addr", defaultServeAddr, "listen address")
	cmd.Flags().StringVar(&cfg.redisURL, "redis", "", "redis URL for a shared cache (default: file cache)")
	cmd.Flags().StringVar(&cfg.archiveURI, "archive-uri", "", "MongoDB URI for conversion history (default: $QUILL_MONGO_URI)")
	cmd.Flags().BoolVar(&cfg.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe builds the runner and serves HTTP until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, cfg serveConfig) error {
	if err := qerrors.ValidateListenAddr(cfg.addr); err != nil {
		return err
	}

	store, keyer, err := c.serveCache(ctx, cfg)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	defer runner.Close()

	var history archive.Store
	if cfg.archiveURI != "" {
		history, err = archive.NewMongoStore(ctx, cfg.archiveURI)
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
			defer cancel()
			if err := history.Close(closeCtx); err != nil {
				c.Logger.Warn("archive close failed", "err", err)
			}
		}()
	}

	srv := newServer(c.Logger, runner, history)
	httpSrv := &http.Server{
		Addr:              cfg.addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	c.Logger.Info("listening", "addr", cfg.addr, "version", buildinfo.Version)
	printInfo("Serving on %s (ctrl-c to stop)", cfg.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	}
}

// serveCache selects the cache backend for the server.
// Redis gets a scoped keyer so a shared instance cannot collide with
// other tenants of the same database.
func (c *CLI) serveCache(ctx context.Context, cfg serveConfig) (cache.Cache, cache.Keyer, error) {
	if cfg.redisURL != "" {
		store, err := cache.NewRedisCache(ctx, cfg.redisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return store, cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName), nil
	}
	store, err := newCache(cfg.noCache)
	return store, nil, err
}

// =============================================================================
// HTTP Server
// =============================================================================

// contentTypes maps artifact formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json; charset=utf-8",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
}

// server handles HTTP conversion requests.
type server struct {
	logger  *log.Logger
	runner  *pipeline.Runner
	history archive.Store
	started time.Time
}

// newServer creates a server around a runner. history may be nil.
func newServer(logger *log.Logger, runner *pipeline.Runner, history archive.Store) *server {
	return &server{
		logger:  logger,
		runner:  runner,
		history: history,
		started: time.Now(),
	}
}

// routes builds the chi router with all endpoints registered.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/convert", s.handleConvert)
		r.Get("/history", s.handleHistory)
	})

	return r
}

// requestLogger attaches a request-scoped logger carrying a request ID and
// logs each request with its status and duration.
func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		logger := s.logger.With("request_id", id)
		w.Header().Set("X-Request-ID", id)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(withLogger(r.Context(), logger)))

		logger.Info("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

// handleHealth reports liveness and build information.
func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, value.OfObject(map[string]value.Value{
		"status":  value.OfString("ok"),
		"version": value.OfString(buildinfo.Version),
		"uptime":  value.OfString(time.Since(s.started).Round(time.Second).String()),
	}))
}

// handleConvert converts the request body and responds with one artifact.
func (s *server) handleConvert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody+1))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("read body: %w", err))
		return
	}
	if len(data) > maxRequestBody {
		s.writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", maxRequestBody))
		return
	}
	if len(data) == 0 {
		s.writeError(w, http.StatusBadRequest, errors.New("request body is empty"))
		return
	}

	q := r.URL.Query()
	emit := q.Get("emit")
	if emit == "" {
		emit = pipeline.FormatJSON
	}
	if err := pipeline.ValidateFormat(emit); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	opts := pipeline.Options{
		Source:   q.Get("source"),
		From:     q.Get("from"),
		Refresh:  boolParam(q, "refresh"),
		Emit:     []string{emit},
		Detailed: boolParam(q, "detailed"),
		Logger:   loggerFromContext(ctx),
	}
	if opts.Source == "" {
		opts.Source = "request"
	}

	start := time.Now()
	res, err := s.runner.Execute(ctx, data, opts)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	s.record(ctx, opts.Source, res, time.Since(start))

	w.Header().Set("Content-Type", contentTypes[emit])
	w.Header().Set("X-Quill-Hash", res.DocumentHash)
	w.Header().Set("X-Quill-Cache", cacheStatus(res.CacheInfo, emit))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Artifacts[emit]); err != nil {
		loggerFromContext(ctx).Warn("write response failed", "err", err)
	}
}

// handleHistory lists recent conversions from the archive.
func (s *server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusServiceUnavailable, errors.New("no archive configured"))
		return
	}

	limit := archive.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	records, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err)
		return
	}
	s.writeJSON(w, http.StatusOK, historyDocument(records))
}

// record saves a conversion to the archive when one is configured.
// Archive failures are logged, never surfaced to the client.
func (s *server) record(ctx context.Context, source string, res *pipeline.Result, took time.Duration) {
	if s.history == nil {
		return
	}
	rec := archive.New(source, res.Format, res.DocumentHash, res.Stats.OutputBytes, took)

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()
	if err := s.history.Save(saveCtx, rec); err != nil {
		loggerFromContext(ctx).Warn("archive save failed", "err", err)
	}
}

// historyDocument builds the response document for a history listing.
func historyDocument(records []archive.Record) value.Value {
	elems := make([]value.Value, 0, len(records))
	for _, rec := range records {
		elems = append(elems, value.OfObject(map[string]value.Value{
			"id":           value.OfString(rec.ID),
			"source":       value.OfString(rec.Source),
			"format":       value.OfString(rec.Format),
			"content_hash": value.OfString(rec.ContentHash),
			"size":         value.OfNumber(float64(rec.Size)),
			"duration_ms":  value.OfNumber(float64(rec.Duration.Milliseconds())),
			"created_at":   value.OfString(rec.CreatedAt.Format(time.RFC3339)),
		}))
	}
	return value.OfObject(map[string]value.Value{
		"count":   value.OfNumber(float64(len(elems))),
		"records": value.OfArray(elems...),
	})
}

// writeJSON serializes doc with the quill serializer and writes it.
func (s *server) writeJSON(w http.ResponseWriter, status int, doc value.Value) {
	text := jsontext.Serialize(doc)
	w.Header().Set("Content-Type", contentTypes[pipeline.FormatJSON])
	w.WriteHeader(status)
	if _, err := io.WriteString(w, text); err != nil {
		s.logger.Warn("write response failed", "err", err)
	}
}

// writeError writes a JSON error body carrying the request ID.
func (s *server) writeError(w http.ResponseWriter, status int, err error) {
	fields := map[string]value.Value{
		"error":  value.OfString(err.Error()),
		"status": value.OfNumber(float64(status)),
	}
	if id := w.Header().Get("X-Request-ID"); id != "" {
		fields["request_id"] = value.OfString(id)
	}
	s.writeJSON(w, status, value.OfObject(fields))
}

// cacheStatus names the cache outcome for the served artifact.
func cacheStatus(info pipeline.CacheInfo, emit string) string {
	hit := info.EncodeHit
	if emit != pipeline.FormatJSON {
		hit = info.RenderHit
	}
	if hit {
		return "hit"
	}
	return "miss"
}

// boolParam reads a boolean query parameter, treating bad values as false.
func boolParam(q url.Values, name string) bool {
	b, err := strconv.ParseBool(q.Get(name))
	return err == nil && b
}
