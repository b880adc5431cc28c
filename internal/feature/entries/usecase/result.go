package usecase

import "declutter_backend/internal/feature/entries/domain/entity"

// Outcome is the terminal state of an entry operation.
type Outcome int

const (
	OutcomeSuccess Outcome = iota + 1
	OutcomeValidationError
	OutcomeNotFound
	OutcomeUnauthorized
	// OutcomeFailure accompanies a non-nil error.
	OutcomeFailure
)

var outcomeNames = map[Outcome]string{
	OutcomeSuccess:         "success",
	OutcomeValidationError: "validation_error",
	OutcomeNotFound:        "not_found",
	OutcomeUnauthorized:    "unauthorized",
	OutcomeFailure:         "failure",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// NotificationType は通知の重要度です。
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

// Notification is the one-shot message attached to every result.
type Notification struct {
	Message string
	Title   string
	Type    NotificationType
}

func successNote(msg string) Notification {
	return Notification{Message: msg, Title: "Success", Type: NotificationSuccess}
}

func errorNote(msg string) Notification {
	return Notification{Message: msg, Title: "Error", Type: NotificationError}
}

func infoNote(msg string) Notification {
	return Notification{Message: msg, Title: "Info", Type: NotificationInfo}
}

// EntryForm is the user-submitted form for create and edit.
// Tags is free text that is echoed back but never creates tags.
type EntryForm struct {
	ID             uint
	Title          string
	Content        string
	Tags           string
	SelectedTagIDs []uint
}

// Result carries everything a transport needs to render an operation.
// Only the fields relevant to the operation and outcome are set.
type Result struct {
	Outcome      Outcome
	Notification Notification

	Entries []entity.Entry
	Entry   *entity.Entry

	// フォーム再表示用
	Form           *EntryForm
	FieldErrors    map[string]string
	AvailableTags  []entity.Tag
	TagCatalog     []entity.Tag
	SelectedTagIDs []uint

	RedirectTo string
}

func unauthorized(msg string) *Result {
	return &Result{Outcome: OutcomeUnauthorized, Notification: errorNote(msg)}
}

func notFound(msg string) *Result {
	return &Result{Outcome: OutcomeNotFound, Notification: errorNote(msg)}
}

// msgUnexpected is shown when a transport has no result to render.
const msgUnexpected = "An unexpected error occurred"

// UnexpectedFailure returns a Failure result with the generic error notification.
func UnexpectedFailure() *Result {
	return &Result{Outcome: OutcomeFailure, Notification: errorNote(msgUnexpected)}
}

func failure(msg string, err error) (*Result, error) {
	return &Result{Outcome: OutcomeFailure, Notification: errorNote(msg)}, err
}
