package domain

import "errors"

// EditState is the state of the directory edit workflow
type EditState string

const (
	EditIdle       EditState = "IDLE"
	EditEditing    EditState = "EDITING"
	EditSubmitting EditState = "SUBMITTING"
)

// Edit workflow errors
var (
	ErrEditNotEditing    = errors.New("edit workflow is not in editing state")
	ErrEditNotSubmitting = errors.New("edit workflow is not in submitting state")
)

// EditWorkflow models the create/edit form lifecycle:
//
//	Idle -> Editing (cleared fields for create, prefilled for edit)
//	Editing -> Submitting
//	Submitting -> Idle on success
//	Submitting -> Editing on conflict, keeping the entered fields
type EditWorkflow struct {
	state    EditState
	targetID string // empty for create
	fields   EmployeeFields
}

// NewEditWorkflow returns a workflow in the Idle state
func NewEditWorkflow() *EditWorkflow {
	return &EditWorkflow{state: EditIdle}
}

// State returns the current workflow state
func (w *EditWorkflow) State() EditState { return w.state }

// TargetID returns the id of the employee being edited, empty for create
func (w *EditWorkflow) TargetID() string { return w.targetID }

// Fields returns the fields currently held by the form
func (w *EditWorkflow) Fields() EmployeeFields { return w.fields }

// IsCreate reports whether the workflow targets a new employee
func (w *EditWorkflow) IsCreate() bool { return w.targetID == "" }

// BeginCreate opens the form with cleared fields
func (w *EditWorkflow) BeginCreate() {
	w.state = EditEditing
	w.targetID = ""
	w.fields = EmployeeFields{Role: RoleEmployee}
}

// BeginEdit opens the form prefilled from the target employee
func (w *EditWorkflow) BeginEdit(e Employee) {
	w.state = EditEditing
	w.targetID = e.ID
	w.fields = EmployeeFields{
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		MobileNumber: e.MobileNumber,
		Username:     e.Username,
		Role:         e.Role,
	}
}

// Submit moves Editing -> Submitting with the entered fields
func (w *EditWorkflow) Submit(fields EmployeeFields) error {
	if w.state != EditEditing {
		return ErrEditNotEditing
	}
	w.fields = fields
	w.state = EditSubmitting
	return nil
}

// Complete moves Submitting -> Idle after a successful mutation
func (w *EditWorkflow) Complete() error {
	if w.state != EditSubmitting {
		return ErrEditNotSubmitting
	}
	w.state = EditIdle
	w.targetID = ""
	w.fields = EmployeeFields{}
	return nil
}

// Reject moves Submitting -> Editing after a conflict so the entered
// fields stay on the form for correction
func (w *EditWorkflow) Reject() error {
	if w.state != EditSubmitting {
		return ErrEditNotSubmitting
	}
	w.state = EditEditing
	return nil
}

// Cancel abandons the form from any state
func (w *EditWorkflow) Cancel() {
	w.state = EditIdle
	w.targetID = ""
	w.fields = EmployeeFields{}
}
