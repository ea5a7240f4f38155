package domain

type TeamInfo struct {
	ID   int
	Name string
}

type UserInfo struct {
	Email  string
	TeamID *int
}

type InvoiceItem struct {
	Cents       int64
	Description string
}

type PricingDescription struct {
	ID          string
	Description string
}

type Invoice struct {
	Items              []InvoiceItem
	PricingDescription *PricingDescription
}

// TotalCents sums every item. An invoice without items totals zero.
func (i Invoice) TotalCents() int64 {
	var total int64
	for _, item := range i.Items {
		total += item.Cents
	}
	return total
}

func (i Invoice) SpendingUSD() float64 {
	return float64(i.TotalCents()) / 100
}

// ResolveTeam picks the team id reported by the user endpoint when present and
// falls back to the team endpoint. The name always comes from the team endpoint.
func ResolveTeam(user UserInfo, team TeamInfo) TeamInfo {
	resolved := team
	if user.TeamID != nil && *user.TeamID > 0 {
		resolved.ID = *user.TeamID
	}
	return resolved
}
