package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/charactercatalog/catalog-api/internal/api/metrics"
	"github.com/charactercatalog/catalog-api/internal/core/domain"
	"github.com/charactercatalog/catalog-api/internal/core/ports"
)

// Not-found messages differ in case between reads and writes; clients of the
// existing UI match on them verbatim.
const (
	msgNotFoundRead  = "character not found"
	msgNotFoundWrite = "Character not found"
	msgDeleted       = "Character deleted"
	msgInvalidBody   = "invalid payload"
)

// CharacterHandler handles HTTP requests for catalog operations.
type CharacterHandler struct {
	service ports.CharacterService
}

func NewCharacterHandler(service ports.CharacterService) *CharacterHandler {
	return &CharacterHandler{service: service}
}

// List handles GET /characters.
//
// @Summary      List characters
// @Tags         characters
// @Produce      json
// @Param        q    query     string  false  "Case-insensitive search on name, realName and universe"
// @Success      200  {array}   characterResponse
// @Failure      500  {object}  messageResponse
// @Router       /characters [get]
func (h *CharacterHandler) List(c echo.Context) error {
	chars, err := h.service.ListCharacters(c.Request().Context(), ports.ListCharactersInput{
		Query: c.QueryParam("q"),
	})
	if err != nil {
		return err
	}

	out := make([]characterResponse, len(chars))
	for i, ch := range chars {
		out[i] = toCharacterResponse(ch)
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /characters/:id.
//
// @Summary      Get a character by id
// @Tags         characters
// @Produce      json
// @Param        id   path      int  true  "Character id"
// @Success      200  {object}  characterResponse
// @Failure      404  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /characters/{id} [get]
func (h *CharacterHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, messageResponse{Message: msgNotFoundRead})
	}

	ch, err := h.service.GetCharacter(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrCharacterNotFound) {
			return c.JSON(http.StatusNotFound, messageResponse{Message: msgNotFoundRead})
		}
		return err
	}
	return c.JSON(http.StatusOK, toCharacterResponse(*ch))
}

// Create handles POST /characters.
//
// @Summary      Create a character
// @Tags         characters
// @Accept       json
// @Produce      json
// @Param        body  body      createCharacterRequest  true  "Character fields, all required"
// @Success      201   {object}  characterResponse
// @Failure      400   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /characters [post]
func (h *CharacterHandler) Create(c echo.Context) error {
	var req createCharacterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: msgInvalidBody})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: domain.ErrMissingFields.Error()})
	}

	ch, err := h.service.CreateCharacter(c.Request().Context(), ports.CreateCharacterInput{
		Name:     req.Name,
		RealName: req.RealName,
		Universe: req.Universe,
	})
	if err != nil {
		if errors.Is(err, domain.ErrMissingFields) {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
		}
		return err
	}

	metrics.CharacterMutationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, toCharacterResponse(*ch))
}

// Update handles PUT /characters/:id. Only non-empty fields are applied.
//
// @Summary      Update a character
// @Tags         characters
// @Accept       json
// @Produce      json
// @Param        id    path      int                     true  "Character id"
// @Param        body  body      updateCharacterRequest  true  "Fields to change; empty values are ignored"
// @Success      200   {object}  characterResponse
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /characters/{id} [put]
func (h *CharacterHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, messageResponse{Message: msgNotFoundWrite})
	}

	var req updateCharacterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: msgInvalidBody})
	}

	ch, err := h.service.UpdateCharacter(c.Request().Context(), id, ports.UpdateCharacterInput{
		Name:     req.Name,
		RealName: req.RealName,
		Universe: req.Universe,
	})
	if err != nil {
		if errors.Is(err, domain.ErrCharacterNotFound) {
			return c.JSON(http.StatusNotFound, messageResponse{Message: msgNotFoundWrite})
		}
		return err
	}

	metrics.CharacterMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toCharacterResponse(*ch))
}

// Delete handles DELETE /characters/:id.
//
// @Summary      Delete a character
// @Tags         characters
// @Produce      json
// @Param        id   path      int  true  "Character id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /characters/{id} [delete]
func (h *CharacterHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, messageResponse{Message: msgNotFoundWrite})
	}

	if err := h.service.DeleteCharacter(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrCharacterNotFound) {
			return c.JSON(http.StatusNotFound, messageResponse{Message: msgNotFoundWrite})
		}
		return err
	}

	metrics.CharacterMutationsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: msgDeleted})
}

// pathID parses the :id parameter. A value that is not a base-10 integer can
// never match a stored id, so callers answer 404 rather than 400.
func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func toCharacterResponse(ch domain.Character) characterResponse {
	return characterResponse{
		ID:       ch.ID,
		Name:     ch.Name,
		RealName: ch.RealName,
		Universe: ch.Universe,
	}
}
