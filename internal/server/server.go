// Package server implements the HTTP preview API. It wraps the same
// pipeline Runner the CLI uses, so a poster rendered through the API is
// byte-identical to one rendered locally with the same settings.
package server

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"strconv"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Bh3ky/themambacode/pkg/errors"
	"github.com/Bh3ky/themambacode/pkg/halftone"
	"github.com/Bh3ky/themambacode/pkg/observability"
	"github.com/Bh3ky/themambacode/pkg/pipeline"
	"github.com/Bh3ky/themambacode/pkg/preset"
	"github.com/Bh3ky/themambacode/pkg/theme"
)

// maxUploadBytes caps portrait uploads at 32 MiB.
const maxUploadBytes = 32 << 20

// Server serves preview renders over HTTP.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server around an existing runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/styles", s.handleStyles)
	r.Post("/render", s.handleRender)

	return r
}

// Serve runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("preview server listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// observe reports request timing to the registered server hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		observability.Server().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// stylesResponse lists everything selectable through the API.
type stylesResponse struct {
	Styles  []string `json:"styles"`
	Presets []string `json:"presets"`
	Themes  []string `json:"themes"`
}

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stylesResponse{
		Styles:  []string{halftone.StyleClassic, halftone.StyleRadial, halftone.StyleFlowField},
		Presets: preset.Names(),
		Themes:  theme.Names(),
	})
}

// handleRender accepts a multipart upload (field "image") plus form fields
// mirroring the CLI flags, and responds with the rendered PNG or, with
// format=json, the mark dump.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image upload")
		return
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "undecodable image: "+err.Error())
		return
	}

	opts, err := optionsFromForm(r, img)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	opts.Logger = s.logger

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		status := http.StatusInternalServerError
		switch errors.GetCode(err) {
		case errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidStyle,
			errors.ErrCodeInvalidTheme, errors.ErrCodeInvalidPreset,
			errors.ErrCodeInvalidImage:
			status = http.StatusBadRequest
		}
		writeError(w, status, errors.UserMessage(err))
		return
	}

	format := opts.Formats[0]
	if format == pipeline.FormatJSON {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "image/png")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// optionsFromForm maps form fields to pipeline options. Unknown numeric
// values fail fast instead of silently rendering defaults.
func optionsFromForm(r *http.Request, img image.Image) (pipeline.Options, error) {
	opts := pipeline.Options{
		Image:         img,
		Preset:        r.FormValue("preset"),
		Theme:         r.FormValue("theme"),
		Style:         r.FormValue("style"),
		Quote:         r.FormValue("quote"),
		NoQuote:       r.FormValue("no_quote") == "true",
		QuotePosition: r.FormValue("quote_position"),
	}

	var err error
	if opts.Width, err = formInt(r, "width"); err != nil {
		return opts, err
	}
	if opts.Height, err = formInt(r, "height"); err != nil {
		return opts, err
	}
	if opts.CellSize, err = formInt(r, "cell_size"); err != nil {
		return opts, err
	}
	if opts.MaxRadius, err = formFloat(r, "max_radius"); err != nil {
		return opts, err
	}
	if opts.Gamma, err = formFloat(r, "gamma"); err != nil {
		return opts, err
	}
	if opts.Threshold, err = formFloat(r, "threshold"); err != nil {
		return opts, err
	}
	if opts.Jitter, err = formFloat(r, "jitter"); err != nil {
		return opts, err
	}
	if opts.EdgeBoost, err = formFloat(r, "edge_boost"); err != nil {
		return opts, err
	}
	if opts.FeatherPx, err = formFloat(r, "feather_px"); err != nil {
		return opts, err
	}
	if opts.SuppressBackground, err = formFloat(r, "suppress_background"); err != nil {
		return opts, err
	}
	if opts.PreGamma, err = formFloat(r, "pre_gamma"); err != nil {
		return opts, err
	}
	if seed, err := formInt(r, "seed"); err != nil {
		return opts, err
	} else {
		opts.Seed = int64(seed)
	}

	if f := r.FormValue("format"); f != "" {
		opts.Formats = []string{f}
	}
	return opts, nil
}

func formInt(r *http.Request, key string) (int, error) {
	v := r.FormValue(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func formFloat(r *http.Request, key string) (float64, error) {
	v := r.FormValue(key)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "%s must be a number, got %q", key, v)
	}
	return f, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
