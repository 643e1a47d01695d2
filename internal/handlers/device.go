package handlers

import (
	"net/http"
	"time"

	"pacemaker_dcm/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errGetDevice    = "failed to load device status"
	errUpdateDevice = "failed to update device status"
)

type commsRequest struct {
	Connected *bool `json:"connected" binding:"required"`
}

type deviceIDRequest struct {
	DeviceID string `json:"device_id" binding:"required"`
}

type changedRequest struct {
	Changed *bool `json:"changed" binding:"required"`
}

type telemetryRequest struct {
	State string `json:"state" binding:"required"` // ok | out_of_range | noise
}

type clockRequest struct {
	Clock time.Time `json:"clock" binding:"required"` // RFC3339
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Device status
// @Tags         device
// @Produce      json
// @Success      200  {object}  models.DeviceStatus
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/device [get]
// @Security     BearerAuth
func (h *Handler) getDevice(c *gin.Context) {
	st, err := h.services.Get(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetDevice, "device_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Set comms link
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        body  body   commsRequest  true  "Comms payload"
// @Success      200   {object}  models.DeviceStatus
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/device/comms [post]
// @Security     BearerAuth
func (h *Handler) setComms(c *gin.Context) {
	var req commsRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	st, err := h.services.SetComms(c.Request.Context(), *req.Connected)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errUpdateDevice, "device_set_comms_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Set device identity
// @Description  A serial different from the last one seen flips the device-changed flag
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        body  body   deviceIDRequest  true  "Device identity payload"
// @Success      200   {object}  models.DeviceStatus
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/device/id [post]
// @Security     BearerAuth
func (h *Handler) setDeviceID(c *gin.Context) {
	var req deviceIDRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	st, err := h.services.SetDeviceID(c.Request.Context(), req.DeviceID)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errUpdateDevice, "device_set_id_failed", err, "device_id", req.DeviceID)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Acknowledge device change
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        body  body   changedRequest  true  "Changed flag payload"
// @Success      200   {object}  models.DeviceStatus
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/device/changed [post]
// @Security     BearerAuth
func (h *Handler) setDeviceChanged(c *gin.Context) {
	var req changedRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	st, err := h.services.SetChanged(c.Request.Context(), *req.Changed)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errUpdateDevice, "device_set_changed_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Set telemetry state
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        body  body   telemetryRequest  true  "Telemetry payload"
// @Success      200   {object}  models.DeviceStatus
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/device/telemetry [post]
// @Security     BearerAuth
func (h *Handler) setTelemetry(c *gin.Context) {
	var req telemetryRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	st, err := h.services.SetTelemetry(c.Request.Context(), models.TelemetryState(req.State))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Set device clock
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        body  body   clockRequest  true  "Clock payload"
// @Success      200   {object}  models.DeviceStatus
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/device/clock [post]
// @Security     BearerAuth
func (h *Handler) setClock(c *gin.Context) {
	var req clockRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	st, err := h.services.SetClock(c.Request.Context(), req.Clock)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errUpdateDevice, "device_set_clock_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}
