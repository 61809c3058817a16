// Package web serves the interactive altitude-comparison viewer: track
// upload, calibration over HTTP, and live result push over a websocket.
package web

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"barocal/calib"
	"barocal/track"
	"barocal/tracklog"
)

// Server keeps the last uploaded track pair so method or option changes
// recompute without a re-upload. The engine itself stays pure; only this
// cache is guarded.
type Server struct {
	Hub *Hub

	mu     sync.Mutex
	track1 *track.Track
	track2 *track.Track
}

func NewServer() *Server {
	return &Server{Hub: NewHub()}
}

// SeriesPoint is one charted shared second.
type SeriesPoint struct {
	Sec      int64   `json:"sec"`
	Ref      float64 `json:"ref"`
	GPS1     float64 `json:"gps1"`
	GPS2     float64 `json:"gps2"`
	Baro1Raw float64 `json:"baro1Raw"`
	Baro1Cal float64 `json:"baro1Cal"`
	Baro2Raw float64 `json:"baro2Raw"`
	Baro2Cal float64 `json:"baro2Cal"`
}

// Response is the calibrate payload sent to HTTP callers and broadcast to
// websocket subscribers.
type Response struct {
	Track1       string        `json:"track1"`
	Track2       string        `json:"track2"`
	Result       calib.Result  `json:"result"`
	RangeStartMs int64         `json:"rangeStartMs"`
	RangeEndMs   int64         `json:"rangeEndMs"`
	Series       []SeriesPoint `json:"series"`
}

// Router wires the HTTP surface. distDir, when set, is served as the static
// frontend.
func (s *Server) Router(distDir string) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		serveWs(s.Hub, w, req)
	})
	r.HandleFunc("/api/calibrate", s.handleCalibrate).Methods(http.MethodPost)
	r.HandleFunc("/api/range", s.handleRange).Methods(http.MethodGet)
	if distDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(distDir)))
	}
	return r
}

// Start runs the hub and blocks serving HTTP.
func (s *Server) Start(port int, distDir string) {
	go s.Hub.Run()
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	addr := fmt.Sprintf(":%d", port)
	log.Printf("HTTP server listening on %s", addr)
	if err := http.ListenAndServe(addr, handlers.LoggingHandler(os.Stdout, cors(s.Router(distDir)))); err != nil {
		log.Fatalf("HTTP server error: %v", err)
	}
}

func (s *Server) handleCalibrate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("bad upload: %v", err), http.StatusBadRequest)
		return
	}
	for _, field := range []string{"track1", "track2"} {
		file, hdr, err := r.FormFile(field)
		if err != nil {
			continue // keep the previously uploaded track
		}
		t, perr := tracklog.Parse(file, hdr.Filename)
		file.Close()
		if perr != nil {
			http.Error(w, perr.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		if field == "track1" {
			s.track1 = t
		} else {
			s.track2 = t
		}
		s.mu.Unlock()
	}

	s.mu.Lock()
	t1, t2 := s.track1, s.track2
	s.mu.Unlock()
	if t1 == nil || t2 == nil {
		http.Error(w, "two tracks required", http.StatusBadRequest)
		return
	}

	opts, err := optionsFromForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	payload, err := json.Marshal(buildResponse(t1, t2, opts))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
	s.Hub.Broadcast(payload)
}

func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	t1, t2 := s.track1, s.track2
	s.mu.Unlock()
	if t1 == nil || t2 == nil {
		http.Error(w, "two tracks required", http.StatusBadRequest)
		return
	}
	start, end, ok := track.SharedTimeRange(t1, t2)
	w.Header().Set("Content-Type", "application/json")
	out, _ := json.Marshal(map[string]any{"startMs": start, "endMs": end, "ok": ok})
	w.Write(out)
}

func buildResponse(t1, t2 *track.Track, opts calib.Options) Response {
	res := calib.Compute(t1, t2, opts)
	start, end, _ := track.SharedTimeRange(t1, t2)

	maps := track.BuildSecondMaps(t1, t2)
	shared := maps.SharedSeconds()
	series := make([]SeriesPoint, len(shared))
	for i, sec := range shared {
		g1, g2 := maps.GPS1[sec], maps.GPS2[sec]
		b1, b2 := maps.Baro1[sec], maps.Baro2[sec]
		series[i] = SeriesPoint{
			Sec:      sec,
			Ref:      referenceAt(g1, g2, opts.Reference),
			GPS1:     g1,
			GPS2:     g2,
			Baro1Raw: b1,
			Baro1Cal: res.Baro1.Eval(b1),
			Baro2Raw: b2,
			Baro2Cal: res.Baro2.Eval(b2),
		}
	}
	return Response{
		Track1:       t1.Name,
		Track2:       t2.Name,
		Result:       res,
		RangeStartMs: start,
		RangeEndMs:   end,
		Series:       series,
	}
}

func referenceAt(g1, g2 float64, mode calib.ReferenceMode) float64 {
	switch mode {
	case calib.RefGPS1:
		return g1
	case calib.RefGPS2:
		return g2
	default:
		return 0.5 * (g1 + g2)
	}
}

func optionsFromForm(r *http.Request) (calib.Options, error) {
	opts := calib.DefaultOptions()
	if v := r.FormValue("method"); v != "" {
		m, err := calib.ParseMethod(v)
		if err != nil {
			return opts, err
		}
		opts.Method = m
	}
	if v := r.FormValue("reference"); v != "" {
		mode, err := calib.ParseReferenceMode(v)
		if err != nil {
			return opts, err
		}
		opts.Reference = mode
	}
	if v := r.FormValue("useAllShared"); v != "" {
		opts.UseAllShared = v == "true" || v == "1"
	}
	if v := r.FormValue("calibrationSeconds"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("calibrationSeconds: %w", err)
		}
		opts.CalibrationSeconds = n
	}
	if v := r.FormValue("robust"); v != "" {
		opts.Robust = v == "true" || v == "1"
	}
	if v := r.FormValue("outlierSigma"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, fmt.Errorf("outlierSigma: %w", err)
		}
		opts.OutlierSigma = f
	}
	if v := r.FormValue("verticalSpeedLimit"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, fmt.Errorf("verticalSpeedLimit: %w", err)
		}
		opts.VerticalSpeedLimit = f
	}
	return opts, nil
}
