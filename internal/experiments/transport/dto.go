// Package transport defines request/response DTOs for the experiments module.
package transport

// VariantResponse is the assignment returned for a visitor.
type VariantResponse struct {
	ExperimentID string `json:"experimentId"`
	VisitorID    string `json:"visitorId"`
	VariantID    string `json:"variantId"`
}

// ConsentRequest records a visitor's analytics consent choice.
type ConsentRequest struct {
	VisitorID        string `json:"visitorId" binding:"required" validate:"required,min=1,max=128"`
	AnalyticsConsent bool   `json:"analyticsConsent"`
}

// ConsentResponse echoes the stored preference.
type ConsentResponse struct {
	VisitorID        string `json:"visitorId"`
	AnalyticsConsent bool   `json:"analyticsConsent"`
}
