package subscription

// Entitlements is the resolved view of what a tenant can see and
// whether the free-tier delivery quota applies to it.
type Entitlements struct {
	Tier            PlanTier `json:"tier"`
	SalonVisible    bool     `json:"salonVisible"`
	DeliveryVisible bool     `json:"deliveryVisible"`
	QuotaApplies    bool     `json:"quotaApplies"`
}

// ResolveEntitlements derives the effective entitlements from a plan.
//
// Visibility is a union: a module is visible when the plan grants it or
// when the tenant is on the free tier, where both modules stay visible
// in trial mode. The delivery quota only binds free tenants that are
// neither grandfathered nor beta testers and that hold no paid delivery
// grant.
func ResolveEntitlements(plan *TenantPlan) Entitlements {
	free := plan.Tier == PlanTierFree

	return Entitlements{
		Tier:            plan.Tier,
		SalonVisible:    plan.HasSalonModule || free,
		DeliveryVisible: plan.HasDeliveryModule || free,
		QuotaApplies:    free && !plan.IsLegacyFree && !plan.IsBetaTester && !plan.HasDeliveryModule,
	}
}
