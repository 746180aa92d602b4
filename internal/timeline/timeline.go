package timeline

import (
	"time"

	"github.com/ecom-labs/storefront/internal/model"
)

// statusOrder is the canonical fulfillment progression shown to the
// customer. CANCELLED is deliberately absent: a cancelled order renders
// as a terminal marker instead of a progress bar.
var statusOrder = [4]model.Status{
	model.StatusPending,
	model.StatusProcessing,
	model.StatusShipped,
	model.StatusDelivered,
}

type StepState string

const (
	StepCompleted StepState = "completed"
	StepCurrent   StepState = "current"
	StepUpcoming  StepState = "upcoming"
)

type Step struct {
	Status    model.Status
	State     StepState
	Timestamp *time.Time
}

// Cancelled marks a terminated order; At is the order's last update time.
type Cancelled struct {
	At time.Time
}

type Timeline struct {
	Steps             []Step
	Cancelled         *Cancelled
	EstimatedDelivery *time.Time
}

// Current returns the step currently in progress, or nil when the order
// is absent, cancelled, or in an unknown state.
func (t *Timeline) Current() *Step {
	for i := range t.Steps {
		if t.Steps[i].State == StepCurrent {
			return &t.Steps[i]
		}
	}
	return nil
}

// Build derives the progress timeline for an order. A nil order yields
// four upcoming steps with no current step and no delivery estimate, so
// the caller can render a placeholder without special-casing.
func Build(order *model.Order) *Timeline {
	if order != nil && order.Status == model.StatusCancelled {
		return &Timeline{Cancelled: &Cancelled{At: order.UpdatedAt}}
	}

	current := -1
	if order != nil {
		for i, s := range statusOrder {
			if s == order.Status {
				current = i
				break
			}
		}
	}

	steps := make([]Step, 0, len(statusOrder))
	for i, status := range statusOrder {
		state := StepUpcoming
		switch {
		case i < current:
			state = StepCompleted
		case i == current:
			state = StepCurrent
		}
		steps = append(steps, Step{
			Status:    status,
			State:     state,
			Timestamp: stepTimestamp(order, status),
		})
	}

	return &Timeline{
		Steps:             steps,
		EstimatedDelivery: estimateDelivery(order),
	}
}

// stepTimestamp picks the moment a step was reached: order creation for
// PENDING, otherwise the first matching status-history entry. Nil while
// the step has not happened yet.
func stepTimestamp(order *model.Order, status model.Status) *time.Time {
	if order == nil {
		return nil
	}
	if status == model.StatusPending {
		if order.CreatedAt.IsZero() {
			return nil
		}
		ts := order.CreatedAt
		return &ts
	}
	for _, rec := range order.StatusHistory {
		if rec.Status == status {
			ts := rec.CreatedAt
			return &ts
		}
	}
	return nil
}

// estimateDelivery is a coarse heuristic, not a logistics calculation:
// creation time plus 2 days once shipped, plus 5 days before that.
// Weekends and holidays are ignored. Delivered orders get no estimate.
func estimateDelivery(order *model.Order) *time.Time {
	if order == nil || order.CreatedAt.IsZero() {
		return nil
	}
	days := 0
	switch order.Status {
	case model.StatusDelivered:
		return nil
	case model.StatusShipped:
		days = 2
	case model.StatusPending, model.StatusProcessing:
		days = 5
	default:
		return nil
	}
	est := order.CreatedAt.AddDate(0, 0, days)
	return &est
}
