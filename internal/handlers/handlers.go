package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/Brownie44l1/agro-api/internal/metrics"
	"github.com/Brownie44l1/agro-api/internal/model"
	"github.com/Brownie44l1/agro-api/internal/weather"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mitchellh/mapstructure"
)

type ImageClassifier interface {
	Classify(ctx context.Context, r io.Reader) (*model.Prediction, error)
	ClassifyTensor(ctx context.Context, input []float32) (*model.Prediction, error)
}

type YieldEstimator interface {
	Predict(ctx context.Context, in model.YieldInput) (*model.YieldPrediction, error)
}

type Forecaster interface {
	Forecast(ctx context.Context, city string) ([]weather.Entry, error)
}

// Deps wires the handler to its backends. A nil backend makes the matching
// page report the model as unavailable.
type Deps struct {
	Disease        ImageClassifier
	Species        ImageClassifier
	Yield          YieldEstimator
	Weather        Forecaster
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
	MaxUploadBytes int64
}

type Handler struct {
	disease   ImageClassifier
	species   ImageClassifier
	yield     YieldEstimator
	weather   Forecaster
	metrics   *metrics.Metrics
	logger    *slog.Logger
	maxUpload int64
}

var errBadInput = errors.New("invalid input")

func NewHandler(deps Deps) *Handler {
	h := &Handler{
		disease:   deps.Disease,
		species:   deps.Species,
		yield:     deps.Yield,
		weather:   deps.Weather,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		maxUpload: deps.MaxUploadBytes,
	}
	if h.metrics == nil {
		h.metrics = metrics.New()
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.maxUpload <= 0 {
		h.maxUpload = 10 << 20
	}
	return h
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer, h.observe, enableCORS)

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/disease", h.PredictDisease)
		r.Post("/species", h.PredictSpecies)
		r.Post("/{model}/tensor", h.PredictTensor)
		r.Get("/weather", h.Forecast)
		r.Post("/yield", h.PredictYield)
	})

	r.Get("/", h.HomePage)
	r.Get("/about", h.AboutPage)
	r.Get("/diseases", h.DiseasePage)
	r.Post("/diseases", h.DiseasePage)
	r.Get("/identify", h.IdentifyPage)
	r.Post("/identify", h.IdentifyPage)
	r.Get("/weather", h.WeatherPage)
	r.Get("/yield", h.YieldPage)
	r.Post("/yield", h.YieldPage)

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"models": map[string]bool{
			model.DiseaseModelName: h.disease != nil,
			model.SpeciesModelName: h.species != nil,
			model.YieldModelName:   h.yield != nil,
		},
		"weather": h.weather != nil,
	})
}

func (h *Handler) PredictDisease(w http.ResponseWriter, r *http.Request) {
	h.predictImage(w, r, model.DiseaseModelName, h.disease)
}

func (h *Handler) PredictSpecies(w http.ResponseWriter, r *http.Request) {
	h.predictImage(w, r, model.SpeciesModelName, h.species)
}

func (h *Handler) predictImage(w http.ResponseWriter, r *http.Request, name string, c ImageClassifier) {
	up, err := h.readUpload(w, r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.Info("Received file", "model", name, "file", up.filename, "size", len(up.data), "content_type", up.contentType)

	result, err := h.classify(r.Context(), name, c, up)
	if err != nil {
		h.logger.Error("Prediction failed", "model", name, "error", err)
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// PredictTensor accepts an already preprocessed input vector.
func (h *Handler) PredictTensor(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "model")

	var c ImageClassifier
	switch name {
	case model.DiseaseModelName:
		c = h.disease
	case model.SpeciesModelName:
		c = h.species
	default:
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("unknown model %q", name)})
		return
	}
	if c == nil {
		h.writeError(w, fmt.Errorf("%s: %w", name, model.ErrModelUnavailable))
		return
	}

	var req model.TensorRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUpload)).Decode(&req); err != nil {
		h.writeError(w, fmt.Errorf("%w: invalid JSON", errBadInput))
		return
	}

	result, err := c.ClassifyTensor(r.Context(), req.Image)
	if err != nil {
		h.logger.Error("Prediction failed", "model", name, "error", err)
		h.writeError(w, err)
		return
	}
	h.metrics.ObservePrediction(name, result.Class)

	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	entries, err := h.forecast(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		h.writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"city":    strings.TrimSpace(r.URL.Query().Get("city")),
		"entries": entries,
	})
}

func (h *Handler) PredictYield(w http.ResponseWriter, r *http.Request) {
	in, err := h.decodeYieldInput(w, r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.predictYield(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) classify(ctx context.Context, name string, c ImageClassifier, up *upload) (*model.Prediction, error) {
	if c == nil {
		return nil, fmt.Errorf("%s: %w", name, model.ErrModelUnavailable)
	}
	result, err := c.Classify(ctx, up.reader())
	if err != nil {
		return nil, err
	}
	h.metrics.ObservePrediction(name, result.Class)
	return result, nil
}

func (h *Handler) forecast(ctx context.Context, city string) ([]weather.Entry, error) {
	if h.weather == nil {
		return nil, fmt.Errorf("weather: %w", model.ErrModelUnavailable)
	}
	entries, err := h.weather.Forecast(ctx, city)
	if err != nil {
		if !errors.Is(err, weather.ErrEmptyCity) {
			h.metrics.ObserveWeatherError()
			h.logger.Error("Forecast failed", "city", city, "error", err)
		}
		return nil, err
	}
	return entries, nil
}

func (h *Handler) predictYield(ctx context.Context, in model.YieldInput) (*model.YieldPrediction, error) {
	if h.yield == nil {
		return nil, fmt.Errorf("%s: %w", model.YieldModelName, model.ErrModelUnavailable)
	}
	result, err := h.yield.Predict(ctx, in)
	if err != nil {
		h.logger.Error("Yield prediction failed", "crop", in.Crop, "season", in.Season, "state", in.State, "error", err)
		return nil, err
	}
	h.metrics.ObservePrediction(model.YieldModelName, in.Crop)
	return result, nil
}

// decodeYieldInput accepts a JSON body or form fields. Numbers may arrive
// as strings; empty fields keep their zero value.
func (h *Handler) decodeYieldInput(w http.ResponseWriter, r *http.Request) (model.YieldInput, error) {
	var in model.YieldInput
	raw := map[string]any{}

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUpload)).Decode(&raw); err != nil {
			return in, fmt.Errorf("%w: invalid JSON", errBadInput)
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return in, fmt.Errorf("%w: %v", errBadInput, err)
		}
		for key, values := range r.PostForm {
			if len(values) > 0 && strings.TrimSpace(values[0]) != "" {
				raw[key] = strings.TrimSpace(values[0])
			}
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &in,
	})
	if err != nil {
		return in, err
	}
	if err := dec.Decode(raw); err != nil {
		return in, fmt.Errorf("%w: %v", errBadInput, err)
	}
	return in, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadInput),
		errors.Is(err, model.ErrInvalidImage),
		errors.Is(err, model.ErrInputSize),
		errors.Is(err, model.ErrUnknownLabel),
		errors.Is(err, weather.ErrEmptyCity):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, weather.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	h.writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Response encode failed", "error", err)
	}
}
