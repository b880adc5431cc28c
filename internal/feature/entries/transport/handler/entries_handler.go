// Package handler はentriesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"declutter_backend/internal/feature/entries/domain/entity"
	"declutter_backend/internal/feature/entries/transport/http/dto"
	"declutter_backend/internal/feature/entries/usecase"
	jwtmw "declutter_backend/internal/platform/jwt"
)

// EntryUsecase はエントリー操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはコンシューマー（handler）が定義します。
type EntryUsecase interface {
	ListEntries(ctx context.Context, userID string) (*usecase.Result, error)
	ViewEntry(ctx context.Context, userID string, id uint) (*usecase.Result, error)
	NewEntryForm(ctx context.Context, userID string) (*usecase.Result, error)
	CreateEntry(ctx context.Context, userID string, form usecase.EntryForm) (*usecase.Result, error)
	EditForm(ctx context.Context, userID string, id uint) (*usecase.Result, error)
	EditEntry(ctx context.Context, userID string, id uint, form usecase.EntryForm) (*usecase.Result, error)
	ConfirmDelete(ctx context.Context, userID string, id uint) (*usecase.Result, error)
	DeleteEntry(ctx context.Context, userID string, id uint) (*usecase.Result, error)
}

// EntriesHandler はエントリー操作のHTTPリクエストを処理します。
type EntriesHandler struct {
	entries EntryUsecase
}

// NewEntriesHandler はEntriesHandlerの新しいインスタンスを生成します。
func NewEntriesHandler(entries EntryUsecase) *EntriesHandler {
	return &EntriesHandler{entries: entries}
}

// pathID binds the :id segment. Missing or malformed ids are treated as absent (0).
func pathID(c *gin.Context) uint {
	var id uint
	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		slog.Debug("invalid entry id", "id", c.Param("id"), "error", err)
		return 0
	}
	return id
}

// currentUser returns the authenticated user ID, or "" for anonymous callers.
func currentUser(c *gin.Context) string {
	id, _ := jwtmw.UserID(c)
	return id
}

// List は GET /entries を処理します。
func (h *EntriesHandler) List(c *gin.Context) {
	res, err := h.entries.ListEntries(c.Request.Context(), currentUser(c))
	h.render(c, http.StatusOK, res, err)
}

// View は GET /entries/:id を処理します。
func (h *EntriesHandler) View(c *gin.Context) {
	res, err := h.entries.ViewEntry(c.Request.Context(), currentUser(c), pathID(c))
	h.render(c, http.StatusOK, res, err)
}

// NewForm は GET /entries/new を処理します。
func (h *EntriesHandler) NewForm(c *gin.Context) {
	res, err := h.entries.NewEntryForm(c.Request.Context(), currentUser(c))
	h.render(c, http.StatusOK, res, err)
}

// bindForm はリクエストボディをフォームに変換します。
// JSONが不正な場合は空のフォームとして扱い、認証チェックと入力エラーの再表示はユースケースに任せます。
func bindForm(c *gin.Context, op string) (usecase.EntryForm, bool) {
	var req dto.EntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn(op+": bad request body", "error", err, "remote_addr", c.ClientIP())
		return usecase.EntryForm{}, false
	}
	return toForm(req), true
}

// Create は POST /entries を処理します。
// - 入力エラー（不正なJSONを含む）は422
// - 成功時は201
func (h *EntriesHandler) Create(c *gin.Context) {
	form, _ := bindForm(c, "create entry")
	res, err := h.entries.CreateEntry(c.Request.Context(), currentUser(c), form)
	h.render(c, http.StatusCreated, res, err)
}

// EditForm は GET /entries/:id/edit を処理します。
func (h *EntriesHandler) EditForm(c *gin.Context) {
	res, err := h.entries.EditForm(c.Request.Context(), currentUser(c), pathID(c))
	h.render(c, http.StatusOK, res, err)
}

// Edit は PUT /entries/:id を処理します。ボディのidはパスのidと一致する必要があります。
// ボディが読めない場合はパスのidを持つ空フォームとして検証に回します。
func (h *EntriesHandler) Edit(c *gin.Context) {
	id := pathID(c)
	form, ok := bindForm(c, "edit entry")
	if !ok {
		form.ID = id
	}
	res, err := h.entries.EditEntry(c.Request.Context(), currentUser(c), id, form)
	h.render(c, http.StatusOK, res, err)
}

// ConfirmDelete は GET /entries/:id/delete を処理します。
func (h *EntriesHandler) ConfirmDelete(c *gin.Context) {
	res, err := h.entries.ConfirmDelete(c.Request.Context(), currentUser(c), pathID(c))
	h.render(c, http.StatusOK, res, err)
}

// Delete は DELETE /entries/:id を処理します。
func (h *EntriesHandler) Delete(c *gin.Context) {
	res, err := h.entries.DeleteEntry(c.Request.Context(), currentUser(c), pathID(c))
	h.render(c, http.StatusOK, res, err)
}

// render maps the outcome to a status code and writes the envelope.
func (h *EntriesHandler) render(c *gin.Context, okStatus int, res *usecase.Result, err error) {
	if err != nil {
		slog.Error("entries operation failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"user_id", currentUser(c),
			"error", err,
		)
	}
	if res == nil {
		c.JSON(http.StatusInternalServerError, toResultRes(usecase.UnexpectedFailure()))
		return
	}

	status := okStatus
	switch res.Outcome {
	case usecase.OutcomeValidationError:
		status = http.StatusUnprocessableEntity
	case usecase.OutcomeNotFound:
		status = http.StatusNotFound
	case usecase.OutcomeUnauthorized:
		status = http.StatusUnauthorized
	case usecase.OutcomeFailure:
		status = http.StatusInternalServerError
	}
	if err != nil {
		status = http.StatusInternalServerError
	}
	c.JSON(status, toResultRes(res))
}

func toForm(req dto.EntryReq) usecase.EntryForm {
	return usecase.EntryForm{
		ID:             req.ID,
		Title:          req.Title,
		Content:        req.Content,
		Tags:           req.Tags,
		SelectedTagIDs: req.SelectedTagIDs,
	}
}

func toTagRes(tags []entity.Tag) []dto.TagRes {
	if len(tags) == 0 {
		return nil
	}
	out := make([]dto.TagRes, 0, len(tags))
	for _, t := range tags {
		out = append(out, dto.TagRes{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}
	return out
}

func toEntryRes(e *entity.Entry) dto.EntryRes {
	tags := toTagRes(e.Tags)
	if tags == nil {
		tags = []dto.TagRes{}
	}
	return dto.EntryRes{
		ID:        e.ID,
		Title:     e.Title,
		Slug:      e.Slug(),
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
		AuthorID:  e.AuthorID,
		Tags:      tags,
	}
}

func toResultRes(res *usecase.Result) dto.ResultRes {
	out := dto.ResultRes{
		Outcome: res.Outcome.String(),
		Notification: dto.NotificationRes{
			Message: res.Notification.Message,
			Title:   res.Notification.Title,
			Type:    string(res.Notification.Type),
		},
		FieldErrors:    res.FieldErrors,
		AvailableTags:  toTagRes(res.AvailableTags),
		TagCatalog:     toTagRes(res.TagCatalog),
		SelectedTagIDs: res.SelectedTagIDs,
		RedirectTo:     res.RedirectTo,
	}
	if len(res.Entries) > 0 {
		out.Entries = make([]dto.EntryRes, 0, len(res.Entries))
		for i := range res.Entries {
			out.Entries = append(out.Entries, toEntryRes(&res.Entries[i]))
		}
	}
	if res.Entry != nil {
		er := toEntryRes(res.Entry)
		out.Entry = &er
	}
	if res.Form != nil {
		out.Form = &dto.FormRes{
			ID:             res.Form.ID,
			Title:          res.Form.Title,
			Content:        res.Form.Content,
			Tags:           res.Form.Tags,
			SelectedTagIDs: res.Form.SelectedTagIDs,
		}
	}
	return out
}
