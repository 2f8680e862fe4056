package server

import (
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hugojosefson/scatter-svg/pkg/buildinfo"
	"github.com/hugojosefson/scatter-svg/pkg/errors"
	"github.com/hugojosefson/scatter-svg/pkg/layout"
	"github.com/hugojosefson/scatter-svg/pkg/pipeline"
	"github.com/hugojosefson/scatter-svg/pkg/render"
)

// Response headers describing the label layout of a plot.
const (
	HeaderSettled    = "X-Labels-Settled"
	HeaderIterations = "X-Layout-Iterations"
	HeaderCache      = "X-Cache"
)

type healthResponse struct {
	Status  string         `json:"status"`
	Version string         `json:"version"`
	Build   buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	info := buildinfo.Get()
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: info.Version, Build: info})
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	s.servePipeline(w, r, "")
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.servePipeline(w, r, render.FormatJSON)
}

// servePipeline runs the request body through the pipeline. A non-empty
// format overrides the query.
func (s *Server) servePipeline(w http.ResponseWriter, r *http.Request, format string) {
	q := r.URL.Query()
	opts, err := s.options(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if format == "" {
		format = q.Get("format")
	}
	if format == "" && len(opts.Formats) > 0 {
		format = opts.Formats[0]
	}
	if format == "" {
		format = render.DefaultFormat
	}
	opts.Formats = []string{format}

	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), pipeline.BytesInput(q.Get("filename"), body), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set(HeaderSettled, strconv.FormatBool(res.Stats.Settled))
	w.Header().Set(HeaderIterations, strconv.Itoa(res.Stats.Iterations))
	if res.CacheHit.Artifact {
		w.Header().Set(HeaderCache, "hit")
	} else {
		w.Header().Set(HeaderCache, "miss")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(res.Artifacts[format])
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read request body")
	}
	if len(body) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty request body")
	}
	return body, nil
}

// options overlays query parameters on the server's base options.
func (s *Server) options(q url.Values) (pipeline.Options, error) {
	opts := s.base.Clone()

	if v := q.Get("style"); v != "" {
		opts.Style = v
	}
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"font_size", &opts.FontSize},
	} {
		if v := q.Get(f.name); v != "" {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil || !(n > 0) {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be a positive number, got %q", f.name, v)
			}
			*f.dst = n
		}
	}
	if v := q.Get("dpi"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "dpi must be a positive integer, got %q", v)
		}
		opts.DPI = n
	}
	if v := q.Get("max_iterations"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "max_iterations must be a non-negative integer, got %q", v)
		}
		if opts.Layout == (layout.Params{}) {
			opts.Layout = layout.DefaultParams()
		}
		opts.Layout.MaxIterations = n
	}
	if v := q.Get("refresh"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "refresh must be a boolean, got %q", v)
		}
		opts.Refresh = b
	}
	return opts, nil
}
