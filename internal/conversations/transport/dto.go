// Package transport defines response DTOs for conversation analytics.
package transport

import "growthcore_backend/internal/conversations/analytics"

// AnalyticsResponse is the derived analytics view of one conversation.
type AnalyticsResponse struct {
	ConversationID        string   `json:"conversationId"`
	VisitorID             string   `json:"visitorId"`
	MessageCount          int      `json:"messageCount"`
	UserMessageCount      int      `json:"userMessageCount"`
	AssistantMessageCount int      `json:"assistantMessageCount"`
	DurationSeconds       int      `json:"durationSeconds"`
	ServiceIdentified     *string  `json:"serviceIdentified"`
	Outcome               string   `json:"outcome"`
	Objections            []string `json:"objections"`
	ReachedPricing        bool     `json:"reachedPricing"`
	ReachedVelvetRope     bool     `json:"reachedVelvetRope"`
	DropoffAfterMessage   *int     `json:"dropoffAfterMessage"`
	QualificationScore    int      `json:"qualificationScore"`
}

// FromResult maps a classification result to its response shape.
func FromResult(r analytics.Result) AnalyticsResponse {
	objections := make([]string, 0, len(r.Objections))
	for _, o := range r.Objections {
		objections = append(objections, string(o))
	}
	return AnalyticsResponse{
		ConversationID:        r.ConversationID,
		VisitorID:             r.VisitorID,
		MessageCount:          r.MessageCount,
		UserMessageCount:      r.UserMessageCount,
		AssistantMessageCount: r.AssistantMessageCount,
		DurationSeconds:       r.DurationSeconds,
		ServiceIdentified:     r.ServiceIdentified,
		Outcome:               string(r.Outcome),
		Objections:            objections,
		ReachedPricing:        r.ReachedPricing,
		ReachedVelvetRope:     r.ReachedVelvetRope,
		DropoffAfterMessage:   r.DropoffAfterMessage,
		QualificationScore:    r.QualificationScore,
	}
}
