package handlers

import (
	"errors"
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

type FolderHandler struct {
	folderUsecase usecase.FolderUsecase
}

func NewFolderHandler(folderUsecase usecase.FolderUsecase) *FolderHandler {
	return &FolderHandler{folderUsecase: folderUsecase}
}

func (h *FolderHandler) ListFolders(c echo.Context) error {
	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	folders, err := h.folderUsecase.ListFolders(c.Request().Context(), userID)
	if err != nil {
		slog.Error("list folders", slog.Any(constant.UserID, userID), slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get folders"})
	}

	return c.JSON(http.StatusOK, dto.NewFolderListResponse(folders))
}

func (h *FolderHandler) CreateFolder(c echo.Context) error {
	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	var req dto.FolderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	folder, err := h.folderUsecase.CreateFolder(
		c.Request().Context(),
		&input.CreateFolderInput{UserID: userID, Name: req.Name},
	)
	if err != nil {
		return folderErrorResponse(c, "create folder", err)
	}

	return c.JSON(http.StatusCreated, dto.NewFolderResponse(folder))
}

func (h *FolderHandler) RenameFolder(c echo.Context) error {
	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	folderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid folder id"})
	}

	var req dto.FolderRequest
	if err = c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	folder, err := h.folderUsecase.RenameFolder(
		c.Request().Context(),
		&input.RenameFolderInput{ID: folderID, UserID: userID, Name: req.Name},
	)
	if err != nil {
		return folderErrorResponse(c, "rename folder", err)
	}

	return c.JSON(http.StatusOK, dto.NewFolderResponse(folder))
}

func (h *FolderHandler) DeleteFolder(c echo.Context) error {
	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	folderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid folder id"})
	}

	if err = h.folderUsecase.DeleteFolder(c.Request().Context(), folderID, userID); err != nil {
		return folderErrorResponse(c, "delete folder", err)
	}

	return c.NoContent(http.StatusNoContent)
}

// folderErrorResponse переводит ошибки usecase в HTTP ответы, общий для папок и карточек
func folderErrorResponse(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, usecase.ErrFolderNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "folder not found"})
	case errors.Is(err, usecase.ErrFlashcardNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "flashcard not found"})
	case errors.Is(err, usecase.ErrFolderExists):
		return c.JSON(http.StatusConflict, map[string]string{"error": "folder with this name already exists"})
	}

	slog.Error(op, slog.Any(constant.Error, err))
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to " + op})
}
