package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"declutter_backend/internal/feature/entries/domain/entity"
)

// IndexPath is where successful mutations redirect to.
const IndexPath = "/entries"

const (
	msgLoginToView   = "You must be logged in to view entries"
	msgLoginToCreate = "You must be logged in to create an entry"
	msgLoginToEdit   = "You must be logged in to edit an entry"
	msgLoginToDelete = "You must be logged in to delete an entry"

	msgNotFound         = "Entry not found"
	msgNotFoundOrView   = "Entry not found or you don't have permission to view it"
	msgNotFoundOrEdit   = "Entry not found or you don't have permission to edit it"
	msgNotFoundOrDelete = "Entry not found or you don't have permission to delete it"

	msgCreated = "Entry created successfully"
	msgUpdated = "Entry updated successfully"
	msgDeleted = "Entry deleted successfully"

	msgLoadFailed   = "An error occurred while loading entries"
	msgCreateFailed = "An error occurred while creating the entry"
	msgUpdateFailed = "An error occurred while updating the entry"
	msgDeleteFailed = "An error occurred while deleting the entry"
)

var validationNote = Notification{
	Message: "Please fix the validation errors",
	Title:   "Validation Error",
	Type:    NotificationWarning,
}

type entryUsecase struct {
	entries  EntryRepository
	tags     TagRepository
	sync     *TagSynchronizer
	validate *EntryValidator
	now      func() time.Time
}

// NewEntryUsecase creates the entry service.
func NewEntryUsecase(entries EntryRepository, tags TagRepository) *entryUsecase {
	return &entryUsecase{
		entries:  entries,
		tags:     tags,
		sync:     NewTagSynchronizer(tags),
		validate: defaultValidator,
		now:      time.Now,
	}
}

// ListEntries returns the user's entries, newest first, and the tags they use.
func (u *entryUsecase) ListEntries(ctx context.Context, userID string) (*Result, error) {
	if userID == "" {
		return unauthorized(msgLoginToView), nil
	}

	entries, err := u.entries.ListByOwner(ctx, userID)
	if err != nil {
		return failure(msgLoadFailed, fmt.Errorf("list entries: %w", err))
	}
	used, err := u.entries.TagsUsedBy(ctx, userID)
	if err != nil {
		return failure(msgLoadFailed, fmt.Errorf("tags used by: %w", err))
	}

	return &Result{
		Outcome:       OutcomeSuccess,
		Notification:  infoNote(fmt.Sprintf("%d entries", len(entries))),
		Entries:       entries,
		AvailableTags: used,
	}, nil
}

// ViewEntry returns one owned entry with its tags.
func (u *entryUsecase) ViewEntry(ctx context.Context, userID string, id uint) (*Result, error) {
	if id == 0 {
		return notFound(msgNotFound), nil
	}
	if userID == "" {
		return unauthorized(msgLoginToView), nil
	}

	e, res, err := u.loadOwned(ctx, userID, id, msgNotFoundOrView)
	if res != nil || err != nil {
		return res, err
	}

	return &Result{
		Outcome:      OutcomeSuccess,
		Notification: infoNote(e.Title),
		Entry:        e,
	}, nil
}

// NewEntryForm prepares an empty create form.
func (u *entryUsecase) NewEntryForm(ctx context.Context, userID string) (*Result, error) {
	if userID == "" {
		return unauthorized(msgLoginToCreate), nil
	}

	res := &Result{
		Outcome:      OutcomeSuccess,
		Notification: infoNote("Create a new entry"),
		Form:         &EntryForm{},
	}
	if err := u.fillTagChoices(ctx, userID, res); err != nil {
		return failure(msgLoadFailed, err)
	}
	return res, nil
}

// CreateEntry validates the form and stores a new entry owned by userID.
func (u *entryUsecase) CreateEntry(ctx context.Context, userID string, form EntryForm) (*Result, error) {
	if userID == "" {
		return unauthorized(msgLoginToCreate), nil
	}

	if vr := u.validate.Validate(form.Title, form.Content); !vr.Valid() {
		res := &Result{
			Outcome:        OutcomeValidationError,
			Notification:   validationNote,
			Form:           &form,
			FieldErrors:    vr.FieldErrors,
			SelectedTagIDs: form.SelectedTagIDs,
		}
		if err := u.fillTagChoices(ctx, userID, res); err != nil {
			return failure(msgCreateFailed, err)
		}
		return res, nil
	}

	e := &entity.Entry{
		Title:     form.Title,
		Content:   form.Content,
		CreatedAt: u.now().UTC(),
		AuthorID:  userID,
	}
	if err := u.sync.Sync(ctx, e, form.SelectedTagIDs); err != nil {
		return failure(msgCreateFailed, err)
	}
	if err := u.entries.Create(ctx, e); err != nil {
		return failure(msgCreateFailed, fmt.Errorf("create entry: %w", err))
	}

	return &Result{
		Outcome:      OutcomeSuccess,
		Notification: successNote(msgCreated),
		Entry:        e,
		RedirectTo:   IndexPath,
	}, nil
}

// EditForm loads an owned entry into an edit form.
func (u *entryUsecase) EditForm(ctx context.Context, userID string, id uint) (*Result, error) {
	if id == 0 {
		return notFound(msgNotFound), nil
	}
	if userID == "" {
		return unauthorized(msgLoginToEdit), nil
	}

	e, res, err := u.loadOwned(ctx, userID, id, msgNotFoundOrEdit)
	if res != nil || err != nil {
		return res, err
	}

	selected := e.TagIDs()
	res = &Result{
		Outcome:      OutcomeSuccess,
		Notification: infoNote("Edit " + e.Title),
		Entry:        e,
		Form: &EntryForm{
			ID:             e.ID,
			Title:          e.Title,
			Content:        e.Content,
			SelectedTagIDs: selected,
		},
		SelectedTagIDs: selected,
	}
	if err := u.fillTagChoices(ctx, userID, res); err != nil {
		return failure(msgLoadFailed, err)
	}
	return res, nil
}

// EditEntry applies the form to an owned entry.
// id is the route id. It must equal form.ID.
func (u *entryUsecase) EditEntry(ctx context.Context, userID string, id uint, form EntryForm) (*Result, error) {
	if id == 0 || id != form.ID {
		return notFound(msgNotFound), nil
	}
	if userID == "" {
		return unauthorized(msgLoginToEdit), nil
	}

	e, res, err := u.loadOwned(ctx, userID, id, msgNotFoundOrEdit)
	if res != nil || err != nil {
		return res, err
	}
	e.Title = form.Title
	e.Content = form.Content

	if vr := u.validate.Validate(form.Title, form.Content); !vr.Valid() {
		// 選択状態は保存済みのタグから復元する
		res := &Result{
			Outcome:        OutcomeValidationError,
			Notification:   validationNote,
			Entry:          e,
			Form:           &form,
			FieldErrors:    vr.FieldErrors,
			SelectedTagIDs: e.TagIDs(),
		}
		if err := u.fillTagChoices(ctx, userID, res); err != nil {
			return failure(msgUpdateFailed, err)
		}
		return res, nil
	}

	if err := u.sync.Sync(ctx, e, form.SelectedTagIDs); err != nil {
		return failure(msgUpdateFailed, err)
	}

	if err := u.entries.Update(ctx, e); err != nil {
		if !errors.Is(err, ErrConcurrencyConflict) {
			return failure(msgUpdateFailed, fmt.Errorf("update entry: %w", err))
		}
		exists, exErr := u.entries.Exists(ctx, id)
		if exErr != nil {
			return failure(msgUpdateFailed, fmt.Errorf("check entry exists: %w", exErr))
		}
		if !exists {
			return notFound(msgNotFound), nil
		}
		return failure(msgUpdateFailed, err)
	}

	return &Result{
		Outcome:      OutcomeSuccess,
		Notification: successNote(msgUpdated),
		Entry:        e,
		RedirectTo:   IndexPath,
	}, nil
}

// ConfirmDelete loads an owned entry for the delete confirmation page.
func (u *entryUsecase) ConfirmDelete(ctx context.Context, userID string, id uint) (*Result, error) {
	if id == 0 {
		return notFound(msgNotFound), nil
	}
	if userID == "" {
		return unauthorized(msgLoginToDelete), nil
	}

	e, res, err := u.loadOwned(ctx, userID, id, msgNotFoundOrDelete)
	if res != nil || err != nil {
		return res, err
	}

	return &Result{
		Outcome: OutcomeSuccess,
		Notification: Notification{
			Message: "Are you sure you want to delete this entry?",
			Title:   "Confirm Delete",
			Type:    NotificationWarning,
		},
		Entry: e,
	}, nil
}

// DeleteEntry removes an owned entry and its tag links. Tags themselves are kept.
// A miss is reported as NotFound with a redirect, not as an error.
func (u *entryUsecase) DeleteEntry(ctx context.Context, userID string, id uint) (*Result, error) {
	if userID == "" {
		return unauthorized(msgLoginToDelete), nil
	}

	e, res, err := u.loadOwned(ctx, userID, id, msgNotFoundOrDelete)
	if err != nil {
		return res, err
	}
	if res != nil {
		res.RedirectTo = IndexPath
		return res, nil
	}

	if err := u.entries.Delete(ctx, e.ID, userID); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			res := notFound(msgNotFoundOrDelete)
			res.RedirectTo = IndexPath
			return res, nil
		}
		return failure(msgDeleteFailed, fmt.Errorf("delete entry: %w", err))
	}

	return &Result{
		Outcome:      OutcomeSuccess,
		Notification: successNote(msgDeleted),
		RedirectTo:   IndexPath,
	}, nil
}

// loadOwned returns the entry, or a NotFound result with missMsg, or a failure.
func (u *entryUsecase) loadOwned(ctx context.Context, userID string, id uint, missMsg string) (*entity.Entry, *Result, error) {
	e, err := u.entries.FindByOwner(ctx, id, userID)
	if errors.Is(err, ErrEntryNotFound) {
		return nil, notFound(missMsg), nil
	}
	if err != nil {
		res, err := failure(msgLoadFailed, fmt.Errorf("find entry: %w", err))
		return nil, res, err
	}
	return e, nil, nil
}

// fillTagChoices sets the tags offered on a form.
func (u *entryUsecase) fillTagChoices(ctx context.Context, userID string, res *Result) error {
	used, err := u.entries.TagsUsedBy(ctx, userID)
	if err != nil {
		return fmt.Errorf("tags used by: %w", err)
	}
	catalog, err := u.tags.All(ctx)
	if err != nil {
		return fmt.Errorf("tag catalog: %w", err)
	}
	res.AvailableTags = used
	res.TagCatalog = catalog
	return nil
}
