package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/qrave1/MemStudy/internal/application/constant"
	"github.com/qrave1/MemStudy/internal/domain/input"
	"github.com/qrave1/MemStudy/internal/infra/appctx"
	"github.com/qrave1/MemStudy/internal/infra/ports/http/dto"
	"github.com/qrave1/MemStudy/internal/usecase"
)

type FlashcardHandler struct {
	folderUsecase usecase.FolderUsecase
}

func NewFlashcardHandler(folderUsecase usecase.FolderUsecase) *FlashcardHandler {
	return &FlashcardHandler{folderUsecase: folderUsecase}
}

func (h *FlashcardHandler) ListFlashcards(c echo.Context) error {
	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	var folderID *uuid.UUID

	if raw := c.QueryParam("folderId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid folder id"})
		}

		folderID = &id
	}

	cards, err := h.folderUsecase.ListFlashcards(c.Request().Context(), userID, folderID)
	if err != nil {
		slog.Error("list flashcards", slog.Any(constant.UserID, userID), slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get flashcards"})
	}

	return c.JSON(http.StatusOK, dto.NewFlashcardListResponse(cards))
}

func (h *FlashcardHandler) CreateFlashcard(c echo.Context) error {
	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	var req dto.CreateFlashcardRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	card, err := h.folderUsecase.CreateFlashcard(c.Request().Context(), &input.CreateFlashcardInput{
		UserID:   userID,
		FolderID: req.FolderID,
		Question: req.Question,
		Answer:   req.Answer,
	})
	if err != nil {
		return folderErrorResponse(c, "create flashcard", err)
	}

	return c.JSON(http.StatusCreated, dto.NewFlashcardResponse(card))
}

func (h *FlashcardHandler) UpdateFlashcard(c echo.Context) error {
	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid flashcard id"})
	}

	var req dto.UpdateFlashcardRequest
	if err = c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	card, err := h.folderUsecase.UpdateFlashcard(c.Request().Context(), &input.UpdateFlashcardInput{
		ID:       cardID,
		UserID:   userID,
		FolderID: req.FolderID,
		Question: req.Question,
		Answer:   req.Answer,
	})
	if err != nil {
		return folderErrorResponse(c, "update flashcard", err)
	}

	return c.JSON(http.StatusOK, dto.NewFlashcardResponse(card))
}

func (h *FlashcardHandler) DeleteFlashcard(c echo.Context) error {
	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid flashcard id"})
	}

	if err = h.folderUsecase.DeleteFlashcard(c.Request().Context(), cardID, userID); err != nil {
		return folderErrorResponse(c, "delete flashcard", err)
	}

	return c.NoContent(http.StatusNoContent)
}
