package order

import (
	"errors"
	"fmt"
	"math"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not
// created through NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Order is the aggregate root of the fulfillment lifecycle. It owns the
// status state machine, the exclusive picker/packer assignment, the order
// items, and their 1:1 pick tasks.
//
// Invariants maintained by the aggregate:
//   - pickerID is set if and only if status == Picking
//   - packerID is set if and only if status == Packing
//   - every item satisfies 0 <= pickedQuantity <= quantity
//   - progress is derived from item picked quantities, never stored truth
type Order struct {
	id            kernel.UUID
	status        Status
	priority      int
	pickerID      *kernel.UUID
	packerID      *kernel.UUID
	unclaimReason string
	cancelReason  string
	items         []*Item
	tasks         []*PickTask
	isConstructed bool
}

// NewOrder creates a Pending order with the given items and emits one
// pick task per item. At least one item is required.
func NewOrder(id kernel.UUID, priority int, items []*Item) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}
	if priority < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("priority",
			fmt.Errorf("%d is negative", priority))
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}

	o := &Order{
		id:            id,
		status:        Pending,
		priority:      priority,
		items:         items,
		isConstructed: true,
	}
	if err := o.EnsurePickTasks(); err != nil {
		return nil, err
	}
	return o, nil
}

// RestoreOrder reconstructs an order from persistence and re-checks the
// status/assignment invariant.
func RestoreOrder(
	id kernel.UUID,
	status Status,
	priority int,
	pickerID *kernel.UUID,
	packerID *kernel.UUID,
	unclaimReason string,
	cancelReason string,
	items []*Item,
	tasks []*PickTask,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if err := status.ValidateAssignment(pickerID != nil, packerID != nil); err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}
	for _, task := range tasks {
		if err := task.Validate(); err != nil {
			return nil, err
		}
	}

	return &Order{
		id:            id,
		status:        status,
		priority:      priority,
		pickerID:      pickerID,
		packerID:      packerID,
		unclaimReason: unclaimReason,
		cancelReason:  cancelReason,
		items:         items,
		tasks:         tasks,
		isConstructed: true,
	}, nil
}

// Validate ensures the Order was constructed through a constructor and
// that its status/assignment invariant holds.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return o.status.ValidateAssignment(o.pickerID != nil, o.packerID != nil)
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Priority returns the fulfillment priority (higher picks first).
func (o *Order) Priority() int {
	return o.priority
}

// Picker returns the assigned picker's ID, or nil outside Picking.
func (o *Order) Picker() *kernel.UUID {
	return o.pickerID
}

// Packer returns the assigned packer's ID, or nil outside Packing.
func (o *Order) Packer() *kernel.UUID {
	return o.packerID
}

// UnclaimReason returns the audit reason of the most recent unclaim.
func (o *Order) UnclaimReason() string {
	return o.unclaimReason
}

// CancelReason returns the reason the order was cancelled, if any.
func (o *Order) CancelReason() string {
	return o.cancelReason
}

// Items returns the order's items.
func (o *Order) Items() []*Item {
	return o.items
}

// Tasks returns the order's pick tasks.
func (o *Order) Tasks() []*PickTask {
	return o.tasks
}

// ItemByID finds an item by its identifier.
func (o *Order) ItemByID(itemID kernel.UUID) (*Item, error) {
	for _, item := range o.items {
		if item.ID().IsEqual(itemID) {
			return item, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("orderItem", itemID.String())
}

// TaskByID finds a pick task by its identifier.
func (o *Order) TaskByID(taskID kernel.UUID) (*PickTask, error) {
	for _, task := range o.tasks {
		if task.ID().IsEqual(taskID) {
			return task, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("pickTask", taskID.String())
}

// EnsurePickTasks emits a pick task for every item that does not have one
// yet. Claiming calls this so orders created before task emission existed
// still become pickable.
func (o *Order) EnsurePickTasks() error {
	for _, item := range o.items {
		if o.taskForItem(item.ID()) != nil {
			continue
		}
		task, err := NewPickTask(kernel.NewUUID(), item.ID())
		if err != nil {
			return err
		}
		o.tasks = append(o.tasks, task)
	}
	return nil
}

func (o *Order) taskForItem(itemID kernel.UUID) *PickTask {
	for _, task := range o.tasks {
		if task.ItemID().IsEqual(itemID) {
			return task
		}
	}
	return nil
}

// ClaimForPicking assigns the order exclusively to a picker and moves it
// to Picking. The persistence layer performs the same transition as a
// conditional write; this method applies it to the in-memory aggregate
// and emits missing pick tasks.
func (o *Order) ClaimForPicking(pickerID kernel.UUID) error {
	if err := pickerID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.ClaimForPicking()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.pickerID = &pickerID
	return o.EnsurePickTasks()
}

// Unclaim releases a picker's claim back to Pending. The requesting
// picker must hold the claim and a non-empty reason is required for audit.
func (o *Order) Unclaim(pickerID kernel.UUID, reason string) error {
	if err := pickerID.Validate(); err != nil {
		return err
	}
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	if o.status != Picking {
		return errs.NewConflictError(CodeNotPicking,
			fmt.Sprintf("order in status %s is not being picked", o.status))
	}
	if o.pickerID == nil || !o.pickerID.IsEqual(pickerID) {
		return errs.NewConflictError(CodeNotAssignedToPicker, "order is not assigned to this picker")
	}

	newStatus, err := o.status.ReleaseToPending()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.pickerID = nil
	o.unclaimReason = reason
	return nil
}

// Pick applies a pick of quantity units against the given task, clamped
// to the item's ordered quantity. Returns the item and the quantity
// actually applied so the caller can mirror the decrement into the
// inventory ledger within the same transaction.
func (o *Order) Pick(taskID kernel.UUID, quantity int, now time.Time) (*Item, int, error) {
	if o.status != Picking {
		return nil, 0, errs.NewConflictError(CodeNotPicking,
			fmt.Sprintf("order in status %s is not being picked", o.status))
	}

	task, err := o.TaskByID(taskID)
	if err != nil {
		return nil, 0, err
	}
	item, err := o.ItemByID(task.ItemID())
	if err != nil {
		return nil, 0, err
	}

	// Guard the task first: a skipped or completed task must reject the
	// pick before any item state changes.
	if task.Status() != TaskPending && task.Status() != TaskInProgress {
		return nil, 0, errs.NewConflictError(CodeTaskNotPickable,
			fmt.Sprintf("task in status %s cannot be picked", task.Status()))
	}

	applied, err := item.RecordPick(quantity)
	if err != nil {
		return nil, 0, err
	}
	if err = task.RecordProgress(item.IsFullyPicked(), now); err != nil {
		return nil, 0, err
	}
	return item, applied, nil
}

// UndoPick reverses quantity units of a previous pick on the given task.
// A non-empty reason is required; the decrement fails with a
// CANNOT_DECREMENT conflict rather than flooring silently.
func (o *Order) UndoPick(taskID kernel.UUID, quantity int, reason string) (*Item, error) {
	if reason == "" {
		return nil, errs.NewValueIsRequiredError("reason")
	}
	if o.status != Picking {
		return nil, errs.NewConflictError(CodeNotPicking,
			fmt.Sprintf("order in status %s is not being picked", o.status))
	}

	task, err := o.TaskByID(taskID)
	if err != nil {
		return nil, err
	}
	item, err := o.ItemByID(task.ItemID())
	if err != nil {
		return nil, err
	}

	if err = item.UndoPick(quantity); err != nil {
		return nil, err
	}
	task.RevertProgress(item.IsFullyPicked())
	return item, nil
}

// SkipTask marks a pick task skipped with a mandatory reason. Skipped
// tasks are excluded from the picking completion guard.
func (o *Order) SkipTask(taskID kernel.UUID, reason string) error {
	if o.status != Picking {
		return errs.NewConflictError(CodeNotPicking,
			fmt.Sprintf("order in status %s is not being picked", o.status))
	}

	task, err := o.TaskByID(taskID)
	if err != nil {
		return err
	}
	return task.Skip(reason)
}

// RevertSkip overwrites a task's status back to the explicit target the
// caller requests.
func (o *Order) RevertSkip(taskID kernel.UUID, target TaskStatus) error {
	task, err := o.TaskByID(taskID)
	if err != nil {
		return err
	}
	return task.RevertSkip(target)
}

// CompletePicking finishes the picking phase: Picking -> Picked, clearing
// the picker. Unless override is set, every item that is neither skipped
// nor cancelled must be fully picked.
func (o *Order) CompletePicking(pickerID kernel.UUID, override bool) error {
	if err := pickerID.Validate(); err != nil {
		return err
	}
	if o.status != Picking {
		return errs.NewConflictError(CodeNotPicking,
			fmt.Sprintf("order in status %s is not being picked", o.status))
	}
	if o.pickerID == nil || !o.pickerID.IsEqual(pickerID) {
		return errs.NewConflictError(CodeNotAssignedToPicker, "order is not assigned to this picker")
	}
	if !override {
		if incomplete := o.incompleteItems(); incomplete > 0 {
			return errs.NewConflictError(CodePickingIncomplete,
				fmt.Sprintf("%d items are not fully picked", incomplete))
		}
	}

	newStatus, err := o.status.CompletePicking()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.pickerID = nil
	return nil
}

// ClaimForPacking assigns the order exclusively to a packer: Picked -> Packing.
func (o *Order) ClaimForPacking(packerID kernel.UUID) error {
	if err := packerID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.ClaimForPacking()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.packerID = &packerID
	return nil
}

// UnclaimPacking releases a packer's claim back to Picked, symmetric to Unclaim.
func (o *Order) UnclaimPacking(packerID kernel.UUID, reason string) error {
	if err := packerID.Validate(); err != nil {
		return err
	}
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	if o.status != Packing {
		return errs.NewConflictError(CodeNotPacking,
			fmt.Sprintf("order in status %s is not being packed", o.status))
	}
	if o.packerID == nil || !o.packerID.IsEqual(packerID) {
		return errs.NewConflictError(CodeNotAssignedToPacker, "order is not assigned to this packer")
	}

	newStatus, err := o.status.ReleaseToPicked()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.packerID = nil
	o.unclaimReason = reason
	return nil
}

// CompletePacking finishes the packing phase: Packing -> Packed, clearing
// the packer. The requesting packer must hold the claim and every item
// must be fully picked, skipped, or cancelled.
func (o *Order) CompletePacking(packerID kernel.UUID) error {
	if err := packerID.Validate(); err != nil {
		return err
	}
	if o.status != Packing {
		return errs.NewConflictError(CodeNotPacking,
			fmt.Sprintf("order in status %s is not being packed", o.status))
	}
	if o.packerID == nil || !o.packerID.IsEqual(packerID) {
		return errs.NewConflictError(CodeNotAssignedToPacker, "order is not assigned to this packer")
	}
	if incomplete := o.incompleteItems(); incomplete > 0 {
		return errs.NewConflictError(CodePickingIncomplete,
			fmt.Sprintf("%d items are not verified or skipped", incomplete))
	}

	newStatus, err := o.status.CompletePacking()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.packerID = nil
	return nil
}

// Ship marks the packed order shipped (terminal).
func (o *Order) Ship() error {
	newStatus, err := o.status.Ship()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// Cancel moves any non-terminal order to Cancelled with a mandatory
// reason, dropping any active claim.
func (o *Order) Cancel(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}

	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.pickerID = nil
	o.packerID = nil
	o.cancelReason = reason
	return nil
}

// MarkBackorder defers the order for insufficient stock, dropping any
// active picker claim. Reached from Pending at creation or from Picking
// through exception resolution.
func (o *Order) MarkBackorder() error {
	newStatus, err := o.status.MarkBackorder()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.pickerID = nil
	return nil
}

// ReleaseBackorder returns a backorder to Pending once stock allows.
func (o *Order) ReleaseBackorder() error {
	newStatus, err := o.status.ReleaseBackorder()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// Progress derives the picking progress as round(100 * completed / total)
// where completed counts items with pickedQuantity >= quantity. It is
// recomputed after every pick, undo, and skip mutation; the repository
// persists it in the same transaction.
func (o *Order) Progress() int {
	total := len(o.items)
	if total == 0 {
		return 0
	}

	completed := 0
	for _, item := range o.items {
		if item.IsFullyPicked() {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// incompleteItems counts items that are neither fully picked, nor
// cancelled, nor covered by a skipped task.
func (o *Order) incompleteItems() int {
	count := 0
	for _, item := range o.items {
		if item.IsFullyPicked() || item.Status() == ItemCancelled {
			continue
		}
		if task := o.taskForItem(item.ID()); task != nil && task.Status() == TaskSkipped {
			continue
		}
		count++
	}
	return count
}
