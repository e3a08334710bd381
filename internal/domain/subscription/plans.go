package subscription

// DefaultFreeOrderLimit is the monthly delivery order allowance on the free tier
const DefaultFreeOrderLimit = 5

// Unlimited marks a limit as not enforced
const Unlimited = -1

// PlanDefinition describes the catalogue values for a tier
type PlanDefinition struct {
	Tier              PlanTier
	Name              string
	HasSalonModule    bool
	HasDeliveryModule bool
	TableLimit        int
	UserLimit         int
	MonthlyOrderLimit int
}

// PlanCatalogue maps each tier to its catalogue definition.
// A limit of Unlimited (-1) means the limit is not enforced.
var PlanCatalogue = map[PlanTier]PlanDefinition{
	PlanTierFree: {
		Tier:              PlanTierFree,
		Name:              "Gratuito",
		HasSalonModule:    false,
		HasDeliveryModule: false,
		TableLimit:        5,
		UserLimit:         1,
		MonthlyOrderLimit: DefaultFreeOrderLimit,
	},
	PlanTierDeliveryPro: {
		Tier:              PlanTierDeliveryPro,
		Name:              "Delivery Pro",
		HasSalonModule:    false,
		HasDeliveryModule: true,
		TableLimit:        5,
		UserLimit:         3,
		MonthlyOrderLimit: Unlimited,
	},
	PlanTierSalonPDV: {
		Tier:              PlanTierSalonPDV,
		Name:              "Salão + PDV",
		HasSalonModule:    true,
		HasDeliveryModule: false,
		TableLimit:        Unlimited,
		UserLimit:         5,
		MonthlyOrderLimit: DefaultFreeOrderLimit,
	},
	PlanTierPremium: {
		Tier:              PlanTierPremium,
		Name:              "Premium",
		HasSalonModule:    true,
		HasDeliveryModule: true,
		TableLimit:        Unlimited,
		UserLimit:         Unlimited,
		MonthlyOrderLimit: Unlimited,
	},
}
