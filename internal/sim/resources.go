package sim

import "fmt"

// ResourceState is the shared stockpile. Income accrues fractionally at the
// end of every tick; costs are debited in full at dispatch.
type ResourceState struct {
	Minerals float64
	Gas      float64
}

// CanAfford reports whether the stockpile covers the given cost.
func (r ResourceState) CanAfford(minerals, gas float64) bool {
	return r.Minerals >= minerals && r.Gas >= gas
}

// Spend debits the cost. Callers must check CanAfford first; an overdraft is
// a programming error.
func (r *ResourceState) Spend(minerals, gas float64) {
	if !r.CanAfford(minerals, gas) {
		panic(fmt.Sprintf("BUG: overdraft spending %.2f/%.2f from %.2f/%.2f",
			minerals, gas, r.Minerals, r.Gas))
	}
	r.Minerals -= minerals
	r.Gas -= gas
}

// Accrue adds one tick of income.
func (r *ResourceState) Accrue(rate IncomeRate) {
	r.Minerals += rate.Minerals
	r.Gas += rate.Gas
}
