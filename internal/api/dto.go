package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/braindump/internal/index"
	"github.com/starford/braindump/internal/meta"
)

const maxTextLen = 10000

// StyleRequest is the request body for setting the feedback style.
type StyleRequest struct {
	Style string `json:"style" example:"warm" validate:"required"`
}

// Validate implements validation.Validatable.
func (r *StyleRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Style, validation.Required),
	)
}

// StyleResponse returns the stored style after coercion.
type StyleResponse struct {
	PraiseStyle meta.Style `json:"praise_style" example:"neutral" validate:"required"`
}

// CaptureRequest is the request body for capturing a note.
type CaptureRequest struct {
	Text string `json:"text" example:"finished the slides" validate:"required"`
}

// Validate implements validation.Validatable.
func (r *CaptureRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Text, validation.Required, validation.Length(1, maxTextLen)),
	)
}

// CompleteRequest is the request body for completing a Today or parking task.
type CompleteRequest struct {
	Task string `json:"task" example:"a1b2c3d4" validate:"required"`
	Note string `json:"note,omitempty" example:"took longer than expected"`
}

// Validate implements validation.Validatable.
func (r *CompleteRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Task, validation.Required),
		validation.Field(&r.Note, validation.Length(0, maxTextLen)),
	)
}

// CompleteAllRequest is the request body for archiving tasks in bulk.
// Both lists may be empty, meaning every Today task.
type CompleteAllRequest struct {
	Tasks        []string `json:"tasks"`
	ParkingTasks []string `json:"parking_tasks"`
}

// Validate implements validation.Validatable.
func (r *CompleteAllRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Tasks, validation.Each(validation.Length(0, maxTextLen))),
		validation.Field(&r.ParkingTasks, validation.Each(validation.Length(0, maxTextLen))),
	)
}

// ConfirmDoneRequest is the request body for confirming a detected completion.
type ConfirmDoneRequest struct {
	Item string `json:"item" example:"the slides" validate:"required"`
}

// Validate implements validation.Validatable.
func (r *ConfirmDoneRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Item, validation.Required, validation.Length(1, maxTextLen)),
	)
}

// AcceptMicroRequest is the request body for accepting a micro action.
type AcceptMicroRequest struct {
	Title string `json:"title" example:"Drink a glass of water" validate:"required"`
}

// Validate implements validation.Validatable.
func (r *AcceptMicroRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required),
	)
}

// SummaryResponse carries a weekly summary document.
type SummaryResponse struct {
	Week     string `json:"week" example:"2026-W42" validate:"required"`
	Markdown string `json:"markdown" validate:"required"`
}

// SearchResponse wraps archive search hits.
type SearchResponse struct {
	Results []index.CompletionRow `json:"results" validate:"required"`
}

// SnapshotListResponse lists stored snapshots, newest first.
type SnapshotListResponse struct {
	Snapshots []index.FileRow `json:"snapshots" validate:"required"`
}
