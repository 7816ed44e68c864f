package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sentiserve/ml-api/internal/core/ports"
)

// PredictHandler fronts the inference collaborator. The predictor is only
// reached after the RBAC middleware has admitted the request.
type PredictHandler struct {
	predictions ports.PredictionService
}

func NewPredictHandler(predictions ports.PredictionService) *PredictHandler {
	return &PredictHandler{predictions: predictions}
}

// Predict runs sentiment inference on the submitted text.
func (h *PredictHandler) Predict(c echo.Context) error {
	var req predictRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	prediction, err := h.predictions.Predict(c.Request().Context(), req.Text)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, predictionResponse{
		Label: prediction.Label,
		Score: prediction.Score,
		Text:  prediction.Text,
	})
}

// ModelInfo describes the model behind the prediction endpoint.
func (h *PredictHandler) ModelInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, h.predictions.ModelInfo())
}
