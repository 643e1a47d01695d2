package handlers

import (
	"errors"
	"net/http"

	"pacemaker_dcm/internal/editor"
	"pacemaker_dcm/internal/models"
	"pacemaker_dcm/internal/param"
	"pacemaker_dcm/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errNotAuthenticated = "operator not resolved from token"
	errSaveFailed       = "failed to save parameters"
)

// Request DTO for entering a pacing mode.
type modeRequest struct {
	Mode string `json:"mode" binding:"required"` // AOO | VOO | AAI | VVI
}

// Request DTO for stepping a grid field.
type stepRequest struct {
	Key string `json:"key" binding:"required"` // flat-map key, e.g. LRL_ppm
	By  int    `json:"by"`                     // grid positions, negative steps down
}

// editorErrStatus maps editor flow errors onto HTTP codes. Operating on a
// session that was never opened is a conflict; everything else surfacing here
// is a validation failure in the caller's input.
func editorErrStatus(err error) int {
	if errors.Is(err, service.ErrNoSession) {
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

// @Summary      Enter pacing mode
// @Description  Switches the operator's editor session to the mode and loads saved-or-default values
// @Tags         editor
// @Accept       json
// @Produce      json
// @Param        body  body   modeRequest  true  "Mode payload"
// @Success      200   {object}  service.EditorView
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/editor/mode [post]
// @Security     BearerAuth
func (h *Handler) enterMode(c *gin.Context) {
	operator, ok := operatorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errNotAuthenticated})
		return
	}
	var req modeRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	mode, err := models.ParseMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := h.services.EnterMode(c.Request.Context(), operator, mode)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("editor_enter_mode_failed", "err", err, "operator", operator, "mode", req.Mode)
		}
		c.JSON(editorErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Current editor state
// @Tags         editor
// @Produce      json
// @Success      200  {object}  service.EditorView
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/editor/params [get]
// @Security     BearerAuth
func (h *Handler) getParams(c *gin.Context) {
	operator, ok := operatorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errNotAuthenticated})
		return
	}
	view, err := h.services.View(operator)
	if err != nil {
		c.JSON(editorErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Update parameters
// @Description  Applies a partial flat map; off-grid numbers snap to the nearest permitted value on read
// @Tags         editor
// @Accept       json
// @Produce      json
// @Param        body  body   map[string]interface{}  true  "Flat-map fragment"
// @Success      200   {object}  service.EditorView
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/editor/params [patch]
// @Security     BearerAuth
func (h *Handler) patchParams(c *gin.Context) {
	operator, ok := operatorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errNotAuthenticated})
		return
	}
	var patch param.FlatMap
	if ok := h.bindJSONOrBadRequest(c, &patch); !ok {
		return
	}
	view, err := h.services.UpdateParams(c.Request.Context(), operator, patch)
	if err != nil {
		c.JSON(editorErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Step a parameter
// @Description  Moves a grid-backed field by whole grid positions, clamped at the ends
// @Tags         editor
// @Accept       json
// @Produce      json
// @Param        body  body   stepRequest  true  "Step payload"
// @Success      200   {object}  service.EditorView
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/editor/params/step [post]
// @Security     BearerAuth
func (h *Handler) stepField(c *gin.Context) {
	operator, ok := operatorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errNotAuthenticated})
		return
	}
	var req stepRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	view, err := h.services.StepField(c.Request.Context(), operator, req.Key, req.By)
	if err != nil {
		c.JSON(editorErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Classify raw input
// @Description  Classifies free text for a grid field as Intermediate, Invalid, or Acceptable
// @Tags         editor
// @Produce      json
// @Param        key   query   string  true   "Flat-map key"  example(LRL_ppm)
// @Param        text  query   string  false  "Raw input text"
// @Success      200   {object}  map[string]string  "verdict"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/editor/params/classify [get]
// @Security     BearerAuth
func (h *Handler) classifyField(c *gin.Context) {
	operator, ok := operatorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errNotAuthenticated})
		return
	}
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'key' query parameter"})
		return
	}
	verdict, err := h.services.ClassifyField(operator, key, c.Query("text"))
	if err != nil {
		c.JSON(editorErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verdict": verdict})
}

// @Summary      Save parameters
// @Description  Validates and persists the current set under (operator, mode)
// @Tags         editor
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, params"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/editor/save [post]
// @Security     BearerAuth
func (h *Handler) saveParams(c *gin.Context) {
	operator, ok := operatorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errNotAuthenticated})
		return
	}
	saved, err := h.services.Save(c.Request.Context(), operator)
	if err != nil {
		if errors.Is(err, editor.ErrRateLimitsInverted) || errors.Is(err, editor.ErrNoOperator) || errors.Is(err, service.ErrNoSession) {
			c.JSON(editorErrStatus(err), gin.H{"error": err.Error()})
			return
		}
		if h.log != nil {
			h.log.Errorw("editor_save_failed", "err", err, "operator", operator)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSaveFailed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved", "params": saved})
}

// @Summary      Revert parameters
// @Description  Discards unsaved edits and reloads saved-or-default values
// @Tags         editor
// @Produce      json
// @Success      200  {object}  service.EditorView
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/editor/revert [post]
// @Security     BearerAuth
func (h *Handler) revertParams(c *gin.Context) {
	operator, ok := operatorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errNotAuthenticated})
		return
	}
	view, err := h.services.Revert(c.Request.Context(), operator)
	if err != nil {
		c.JSON(editorErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Parameter report
// @Tags         editor
// @Produce      json
// @Param        kind  query   string  false  "Report kind"  Enums(bradycardia,temporary)  default(bradycardia)
// @Success      200   {object}  service.Report
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/editor/report [get]
// @Security     BearerAuth
func (h *Handler) getReport(c *gin.Context) {
	operator, ok := operatorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errNotAuthenticated})
		return
	}
	kind := c.DefaultQuery("kind", service.ReportBradycardia)
	report, err := h.services.Parameters(c.Request.Context(), operator, kind)
	if err != nil {
		c.JSON(editorErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
