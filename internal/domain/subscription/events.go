package subscription

import (
	"github.com/comanda/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeTenantPlan = "TenantPlan"

// Event type constants
const (
	EventTypePlanAssigned    = "PlanAssigned"
	EventTypePlanTierChanged = "PlanTierChanged"
)

// PlanAssignedEvent is raised when a tenant gets its initial plan
type PlanAssignedEvent struct {
	shared.BaseDomainEvent
	Tier PlanTier `json:"tier"`
}

// NewPlanAssignedEvent creates a new PlanAssignedEvent
func NewPlanAssignedEvent(plan *TenantPlan) *PlanAssignedEvent {
	return &PlanAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlanAssigned, AggregateTypeTenantPlan, plan.ID, plan.TenantID),
		Tier:            plan.Tier,
	}
}

// EventType returns the event type name
func (e *PlanAssignedEvent) EventType() string {
	return EventTypePlanAssigned
}

// PlanTierChangedEvent is raised when a tenant moves to another tier
type PlanTierChangedEvent struct {
	shared.BaseDomainEvent
	PreviousTier PlanTier `json:"previous_tier"`
	NewTier      PlanTier `json:"new_tier"`
}

// NewPlanTierChangedEvent creates a new PlanTierChangedEvent
func NewPlanTierChangedEvent(plan *TenantPlan, previous PlanTier) *PlanTierChangedEvent {
	return &PlanTierChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlanTierChanged, AggregateTypeTenantPlan, plan.ID, plan.TenantID),
		PreviousTier:    previous,
		NewTier:         plan.Tier,
	}
}

// EventType returns the event type name
func (e *PlanTierChangedEvent) EventType() string {
	return EventTypePlanTierChanged
}
