package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/cache"
	cerrors "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/geom"
)

const (
	defaultServeAddr = "127.0.0.1:8040"
	shutdownTimeout  = 5 * time.Second
)

// serveCommand creates the serve command, a preview server that reloads the
// scene whenever its file changes.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr  string
		frame frameOpts
		store cacheOpts
	)

	cmd := sceneCommand(&cobra.Command{
		Use:   "serve [scene]",
		Short: "Serve live renders of a scene over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			artifacts, err := c.newCache(ctx, store)
			if err != nil {
				return err
			}
			defer artifacts.Close()

			srv := newPreviewServer(ctx, args[0], frame, artifacts)
			defer srv.close()
			if _, err := srv.current(ctx); err != nil {
				return err
			}
			return c.listen(ctx, addr, srv.routes())
		},
	})

	cmd.Flags().StringVar(&addr, "addr", defaultServeAddr, "listen address")
	frame.register(cmd)
	store.register(cmd)

	return cmd
}

// listen serves h on addr until ctx is cancelled.
func (c *CLI) listen(ctx context.Context, addr string, h http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "listen on %s", addr)
	}
	httpSrv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	printSuccess("Serving on %s", StyleLink.Render("http://"+ln.Addr().String()))
	printDetail("Endpoints: /svg /png /json /order /pick?x=&y=")

	errc := make(chan error, 1)
	go func() { errc <- httpSrv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		c.Logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}

// previewServer renders the scene at path on request. A toolkit instance
// and its font faces are not safe for concurrent use, so requests are
// serialized.
type previewServer struct {
	path     string
	opts     frameOpts
	renderer *renderer
	logger   *log.Logger

	mu      sync.Mutex
	frame   *frame
	modTime time.Time
}

func newPreviewServer(ctx context.Context, path string, opts frameOpts, artifacts cache.Cache) *previewServer {
	return &previewServer{
		path: path,
		opts: opts,
		renderer: &renderer{
			cache: artifacts,
			keyer: cache.NewScopedKeyer(cache.NewDefaultKeyer(), "serve:"),
		},
		logger: loggerFromContext(ctx),
	}
}

// current returns the loaded frame, reloading it when the scene file has
// been modified since. The caller must hold mu, or be the only user.
func (s *previewServer) current(ctx context.Context) (*frame, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeFileNotFound, err, "scene %s", s.path)
	}
	if s.frame != nil && info.ModTime().Equal(s.modTime) {
		return s.frame, nil
	}

	f, err := loadFrame(ctx, s.path, s.opts)
	if err != nil {
		return nil, err
	}
	if s.frame != nil {
		s.frame.close()
		s.logger.Info("Reloaded scene", "path", s.path)
	}
	s.frame, s.modTime = f, info.ModTime()
	return f, nil
}

func (s *previewServer) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frame != nil {
		s.frame.close()
		s.frame = nil
	}
}

func (s *previewServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/svg", http.StatusFound)
	})
	r.Get("/svg", s.artifactHandler(formatSVG, "image/svg+xml"))
	r.Get("/png", s.artifactHandler(formatPNG, "image/png"))
	r.Get("/json", s.artifactHandler(formatJSON, "application/json"))
	r.Get("/order", s.handleOrder)
	r.Get("/pick", s.handlePick)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func (s *previewServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start).Round(time.Microsecond),
			"id", middleware.GetReqID(r.Context()))
	})
}

func (s *previewServer) artifactHandler(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scale := 1.0
		if v := r.URL.Query().Get("scale"); v != "" && format == formatPNG {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f <= 0 {
				writeError(w, cerrors.New(cerrors.ErrCodeInvalidInput, "scale must be a positive number, got %q", v))
				return
			}
			scale = f
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		f, err := s.current(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		data, cached, err := s.renderer.artifact(r.Context(), f, format, scale)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("X-Canopy-Cache", cacheStatus(cached))
		_, _ = w.Write(data)
	}
}

func (s *previewServer) handleOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = writeOrderJSON(w, orderEntries(f))
}

// pickResult is the response of /pick.
type pickResult struct {
	Hit        bool   `json:"hit"`
	Widget     string `json:"widget,omitempty"`
	ID         uint32 `json:"id,omitempty"`
	Scrollable string `json:"scrollable,omitempty"`
}

// handlePick reports the frontmost widget and the frontmost scrollable
// widget under the window point x, y.
func (s *previewServer) handlePick(w http.ResponseWriter, r *http.Request) {
	var p geom.Point
	for i, key := range []string{"x", "y"} {
		v, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
		if err != nil {
			writeError(w, cerrors.New(cerrors.ErrCodeInvalidInput, "query parameter %s must be a number", key))
			return
		}
		p[i] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var res pickResult
	g := f.ui.Graph()
	if id, ok := g.PickWidget(p); ok {
		res.Hit, res.Widget, res.ID = true, f.scene.Name(id), uint32(id)
	}
	if id, ok := g.PickTopScrollable(p); ok {
		res.Scrollable = f.scene.Name(id)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}

func cacheStatus(cached bool) string {
	if cached {
		return "hit"
	}
	return "miss"
}

// writeError writes err as a JSON body with a status derived from its code.
func writeError(w http.ResponseWriter, err error) {
	code := cerrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case cerrors.ErrCodeInvalidInput, cerrors.ErrCodeInvalidScene, cerrors.ErrCodeInvalidTheme, cerrors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case cerrors.ErrCodeNotFound, cerrors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case cerrors.ErrCodeUnsupported:
		status = http.StatusNotImplemented
	}
	if code == "" {
		code = cerrors.ErrCodeInternal
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    string(code),
		"message": cerrors.UserMessage(err),
		"error":   fmt.Sprint(err),
	})
}
