package billing

type teamsResponse struct {
	Teams []teamPayload `json:"teams"`
}

type teamPayload struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type meResponse struct {
	Email  string `json:"email"`
	TeamID *int   `json:"teamId,omitempty"`
}

type invoiceRequest struct {
	TeamID             int  `json:"teamId"`
	Month              int  `json:"month"`
	Year               int  `json:"year"`
	IncludeUsageEvents bool `json:"includeUsageEvents"`
}

type invoiceResponse struct {
	Items              []invoiceItemPayload       `json:"items,omitempty"`
	PricingDescription *pricingDescriptionPayload `json:"pricingDescription,omitempty"`
}

// Cents arrives as a JSON number that is not always integral.
type invoiceItemPayload struct {
	Cents       float64 `json:"cents"`
	Description string  `json:"description"`
}

type pricingDescriptionPayload struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}
