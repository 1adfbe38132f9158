package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrPickTaskIsNotConstructed is returned when a PickTask instance was not
// created through NewPickTask or RestorePickTask.
var ErrPickTaskIsNotConstructed = errors.New("PickTask must be created via NewPickTask or RestorePickTask")

// TaskStatus is the independent lifecycle of a pick task. It is real
// state, not derived from the item: a skipped task stays skipped even if
// the item's picked quantity later changes, until revert-skip explicitly
// overwrites it.
type TaskStatus int

const (
	// TaskStatusUnknown catches uninitialized values.
	TaskStatusUnknown TaskStatus = iota

	// TaskPending means picking has not started.
	TaskPending

	// TaskInProgress means some quantity was picked but not all.
	TaskInProgress

	// TaskCompleted means the full quantity was picked; CompletedAt is set.
	TaskCompleted

	// TaskSkipped means a picker skipped the task with a reason; skipped
	// tasks are excluded from the picking completion guard.
	TaskSkipped
)

func getTaskStatusStrings() map[TaskStatus]string {
	return map[TaskStatus]string{
		TaskStatusUnknown: "Unknown",
		TaskPending:       "Pending",
		TaskInProgress:    "InProgress",
		TaskCompleted:     "Completed",
		TaskSkipped:       "Skipped",
	}
}

// String returns the human-readable name of the task status.
func (s TaskStatus) String() string {
	if str, ok := getTaskStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Validate checks that the TaskStatus is one of the defined states.
func (s TaskStatus) Validate() error {
	if s < TaskPending || s > TaskSkipped {
		return errs.NewValueIsInvalidErrorWithCause("task status is invalid",
			fmt.Errorf("%d is not a valid task status", s))
	}
	return nil
}

// PickTask is the unit of picking work for one order item (1:1). It
// carries its own status so that skip and undo operations never
// resurrect a lifecycle the caller did not ask for.
type PickTask struct {
	id            kernel.UUID
	itemID        kernel.UUID
	status        TaskStatus
	skipReason    string
	completedAt   *time.Time
	isConstructed bool
}

// NewPickTask creates a pending pick task for the given order item.
func NewPickTask(id, itemID kernel.UUID) (*PickTask, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := itemID.Validate(); err != nil {
		return nil, err
	}

	return &PickTask{
		id:            id,
		itemID:        itemID,
		status:        TaskPending,
		isConstructed: true,
	}, nil
}

// RestorePickTask reconstructs a pick task from persistence.
func RestorePickTask(
	id, itemID kernel.UUID,
	status TaskStatus,
	skipReason string,
	completedAt *time.Time,
) (*PickTask, error) {
	task, err := NewPickTask(id, itemID)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}

	task.status = status
	task.skipReason = skipReason
	task.completedAt = completedAt
	return task, nil
}

// Validate ensures the PickTask was constructed through a constructor.
func (t *PickTask) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrPickTaskIsNotConstructed
	}
	return nil
}

// ID returns the task's unique identifier.
func (t *PickTask) ID() kernel.UUID {
	return t.id
}

// ItemID returns the identifier of the order item this task picks.
func (t *PickTask) ItemID() kernel.UUID {
	return t.itemID
}

// Status returns the task's current status.
func (t *PickTask) Status() TaskStatus {
	return t.status
}

// SkipReason returns the reason recorded when the task was skipped.
func (t *PickTask) SkipReason() string {
	return t.skipReason
}

// CompletedAt returns the completion timestamp, or nil if not completed.
func (t *PickTask) CompletedAt() *time.Time {
	return t.completedAt
}

// RecordProgress moves the task to InProgress, or to Completed with a
// timestamp when itemFullyPicked is true. Only Pending and InProgress
// tasks accept picks.
func (t *PickTask) RecordProgress(itemFullyPicked bool, now time.Time) error {
	if t.status != TaskPending && t.status != TaskInProgress {
		return errs.NewConflictError(CodeTaskNotPickable,
			fmt.Sprintf("task in status %s cannot be picked", t.status))
	}

	if itemFullyPicked {
		t.status = TaskCompleted
		t.completedAt = &now
		return nil
	}
	t.status = TaskInProgress
	return nil
}

// RevertProgress is called after an undo-pick. A Completed task whose
// item is no longer fully picked drops back to InProgress and loses its
// completion timestamp; otherwise the status is left untouched.
func (t *PickTask) RevertProgress(itemFullyPicked bool) {
	if t.status == TaskCompleted && !itemFullyPicked {
		t.status = TaskInProgress
		t.completedAt = nil
	}
}

// Skip marks the task skipped with a mandatory reason. Completed tasks
// cannot be skipped.
func (t *PickTask) Skip(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	if t.status == TaskCompleted {
		return errs.NewConflictError(CodeTaskNotSkippable, "completed task cannot be skipped")
	}

	t.status = TaskSkipped
	t.skipReason = reason
	return nil
}

// RevertSkip overwrites the task status back to the explicit target the
// caller requests (Pending, InProgress, or Completed). The overwrite is
// idempotent and has no side effects beyond the status itself; the skip
// reason stays on the task as the audit trail of the earlier skip.
func (t *PickTask) RevertSkip(target TaskStatus) error {
	if target != TaskPending && target != TaskInProgress && target != TaskCompleted {
		return errs.NewValueIsInvalidErrorWithCause("target status is invalid",
			fmt.Errorf("%s is not a valid revert target", target))
	}

	t.status = target
	return nil
}
