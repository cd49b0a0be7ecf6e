package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/realtyflow/crm-system/internal/core/domain"
	"github.com/realtyflow/crm-system/internal/core/ports"
)

// ScoreSyncHandler exposes the batch score synchronizer over HTTP. The route
// itself carries no authorization logic; the guard in front of it does.
type ScoreSyncHandler struct {
	sync ports.ScoreSyncService
}

func NewScoreSyncHandler(sync ports.ScoreSyncService) *ScoreSyncHandler {
	return &ScoreSyncHandler{sync: sync}
}

// Run handles POST /v1/admin/score-sync.
//
// @Summary      Recompute and reconcile all prospect scores
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.SyncReport
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /v1/admin/score-sync [post]
func (h *ScoreSyncHandler) Run(c echo.Context) error {
	report, err := h.sync.Run(c.Request().Context())
	if err != nil {
		if errors.Is(err, domain.ErrSyncRunning) {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return err
	}

	return c.JSON(http.StatusOK, report)
}
