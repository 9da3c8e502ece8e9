package handlers

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"time"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Brownie44l1/plant-api/internal/apperror"
	"github.com/Brownie44l1/plant-api/internal/imaging"
	"github.com/Brownie44l1/plant-api/internal/metrics"
	"github.com/Brownie44l1/plant-api/internal/model"
)

type Option func(h *Handler)

func WithDecoder(d *imaging.Decoder) Option {
	return func(h *Handler) {
		h.decoder = d
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

type Handler struct {
	predictor model.Predictor
	decoder   *imaging.Decoder
	logger    *zap.SugaredLogger
	metrics   *metrics.Metrics
}

func NewHandler(predictor model.Predictor, logger *zap.SugaredLogger, options ...Option) *Handler {
	h := &Handler{
		predictor: predictor,
		logger:    logger,
	}

	for _, fn := range options {
		fn(h)
	}

	if h.decoder == nil {
		h.decoder = imaging.NewDecoder(imaging.Options{})
	}
	if h.metrics == nil {
		h.metrics = metrics.New()
	}

	return h
}

func (h *Handler) Hello(c echo.Context) error {
	return c.JSON(http.StatusOK, Greeting)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "healthy"})
}

func (h *Handler) Predict(c echo.Context) error {
	upload, err := bindUpload(c, "file")
	if err != nil {
		if errors.Is(err, errEmptyFilename) {
			return h.reject(c, OutcomeEmptyFilename, apperror.ErrNoSelectedFile(err))
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}

		return h.reject(c, OutcomeMissingFile, apperror.ErrNoFile(err))
	}

	img, err := h.decoder.Decode(upload.Data)
	if err != nil {
		return h.reject(c, OutcomeInvalidImage, apperror.ErrInvalidImage(err))
	}

	h.logger.Debugw("decoded upload",
		"request_id", requestID(c),
		"filename", upload.Filename,
		"format", img.Format,
		"mime", img.MIME,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy(),
	)

	result, err := h.runPredictor(c.Request().Context(), img)
	if err != nil {
		return h.reject(c, OutcomeInferenceError, apperror.ErrPrediction(err))
	}

	top, ok := result.Top()
	if !ok {
		return h.reject(c, OutcomeNoPrediction,
			apperror.ErrNoPrediction(errors.New("model returned no usable prediction")))
	}

	h.metrics.ObserveOutcome(OutcomeSucceeded)
	h.metrics.ObserveLabel(top.Label)

	return c.JSON(http.StatusOK, PredictionResponse{
		Prediction: TopPrediction{
			Label:      top.Label,
			Confidence: float64(top.Confidence),
		},
	})
}

// runPredictor converts predictor errors and panics into errors carrying a
// stack trace.
func (h *Handler) runPredictor(ctx context.Context, img image.Image) (result *model.Result, err error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result, err = nil, errors.Errorf("panic during prediction: %v", r)
		}
		h.metrics.ObserveInference(time.Since(start))
	}()

	result, err = h.predictor.Predict(ctx, img)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return result, nil
}

func (h *Handler) reject(c echo.Context, outcome string, err error) error {
	h.metrics.ObserveOutcome(outcome)

	return h.error(c, err)
}

// error writes the client-safe message for err. Server-side failures are
// logged once with their stack trace and reported to Sentry.
func (h *Handler) error(c echo.Context, err error) error {
	var appErr apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.ErrPrediction(err)
	}

	if appErr.HTTPCode >= http.StatusInternalServerError {
		h.logger.Errorw(
			fmt.Sprintf("Error during prediction: %v", appErr.Raw),
			"request_id", requestID(c),
			"stacktrace", fmt.Sprintf("%+v", appErr.Raw),
		)

		if hub := sentryecho.GetHubFromContext(c); hub != nil && appErr.Raw != nil {
			hub.CaptureException(appErr.Raw)
		}
	} else {
		h.logger.Debugw(appErr.Message,
			"request_id", requestID(c),
			"error", appErr.Raw,
		)
	}

	return c.JSON(appErr.HTTPCode, ErrorResponse{Error: appErr.Message})
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Hello)
	e.GET("/health", h.Health)
	e.POST("/predict", h.Predict)
	e.GET("/metrics", echo.WrapHandler(h.metrics.Handler()))
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
