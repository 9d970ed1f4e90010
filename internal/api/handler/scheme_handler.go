package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gitedu/docuvault/internal/core/domain"
	"github.com/gitedu/docuvault/internal/core/ports"
)

// SchemeHandler handles HTTP requests for the scheme/subject taxonomy.
type SchemeHandler struct {
	schemes ports.SchemeService
}

func NewSchemeHandler(schemes ports.SchemeService) *SchemeHandler {
	return &SchemeHandler{schemes: schemes}
}

type createSchemeRequest struct {
	Scheme   string   `json:"scheme"   validate:"required"`
	Subjects []string `json:"subjects" validate:"required,min=1"`
}

type schemeListResponse struct {
	Success bool             `json:"success"`
	Schemes []*domain.Scheme `json:"schemes"`
}

// Create registers a new scheme with its subjects.
//
// @Summary      Create a scheme
// @Tags         schemes
// @Accept       json
// @Produce      json
// @Param        body  body      createSchemeRequest  true  "Scheme and subjects"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /schemes [post]
func (h *SchemeHandler) Create(c echo.Context) error {
	var req createSchemeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.schemes.Create(c.Request().Context(), req.Scheme, req.Subjects); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Successfully created Scheme"})
}

// List returns every registered scheme.
//
// @Summary      List schemes
// @Tags         schemes
// @Produce      json
// @Success      200  {object}  schemeListResponse
// @Router       /schemes [get]
func (h *SchemeHandler) List(c echo.Context) error {
	schemes, err := h.schemes.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, schemeListResponse{Success: true, Schemes: schemes})
}

// Delete removes a scheme by name.
//
// @Summary      Delete a scheme
// @Tags         schemes
// @Produce      json
// @Param        scheme  path      string  true  "Scheme name"
// @Success      200     {object}  messageResponse
// @Failure      404     {object}  map[string]string
// @Router       /schemes/{scheme} [delete]
func (h *SchemeHandler) Delete(c echo.Context) error {
	scheme := c.Param("scheme")
	if scheme == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing scheme")
	}

	if err := h.schemes.Delete(c.Request().Context(), scheme); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Scheme Deleted Successfully"})
}
