// Package transport defines response DTOs for revenue summaries.
package transport

import (
	"time"

	"growthcore_backend/internal/revenue/attribution"
)

// LineItem is one revenue bucket in a breakdown.
type LineItem struct {
	Key         string `json:"key"`
	AmountCents int64  `json:"amountCents"`
}

// ChannelItem is a per-channel bucket with its share of the total.
type ChannelItem struct {
	Channel     string  `json:"channel"`
	AmountCents int64   `json:"amountCents"`
	Percent     float64 `json:"percent"`
}

// SummaryResponse is the aggregated revenue view for a date range.
type SummaryResponse struct {
	From             time.Time     `json:"from"`
	To               time.Time     `json:"to"`
	Currency         string        `json:"currency"`
	TotalCents       int64         `json:"totalCents"`
	TransactionCount int           `json:"transactionCount"`
	ByService        []LineItem    `json:"byService"`
	ByChannel        []ChannelItem `json:"byChannel"`
	ByTier           []LineItem    `json:"byTier"`
}

// FromSummary maps an aggregation result to its response shape.
func FromSummary(s attribution.Summary) SummaryResponse {
	resp := SummaryResponse{
		From:             s.From,
		To:               s.To,
		Currency:         s.Currency,
		TotalCents:       s.TotalCents,
		TransactionCount: s.TransactionCount,
		ByService:        lineItems(s.ByService),
		ByChannel:        make([]ChannelItem, 0, len(s.ByChannel)),
		ByTier:           lineItems(s.ByTier),
	}
	for _, line := range s.ByChannel {
		resp.ByChannel = append(resp.ByChannel, ChannelItem{
			Channel:     string(line.Channel),
			AmountCents: line.AmountCents,
			Percent:     line.Percent,
		})
	}
	return resp
}

func lineItems(lines []attribution.Line) []LineItem {
	items := make([]LineItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, LineItem{Key: line.Key, AmountCents: line.AmountCents})
	}
	return items
}
