package attribution

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"growthcore_backend/internal/revenue/repository"
	"growthcore_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

// Line is one per-dimension revenue bucket.
type Line struct {
	Key         string
	AmountCents int64
}

// ChannelLine is a per-channel bucket with its share of the total,
// rounded to two decimal places after summation.
type ChannelLine struct {
	Channel     Channel
	AmountCents int64
	Percent     float64
}

// Summary is the aggregated revenue view for a date range. Breakdowns
// are sorted descending by revenue and are empty slices, never nil,
// when no transactions matched.
type Summary struct {
	From             time.Time
	To               time.Time
	Currency         string
	TotalCents       int64
	TransactionCount int
	ByService        []Line
	ByChannel        []ChannelLine
	ByTier           []Line
}

// Aggregator computes revenue summaries from the payment ledger.
type Aggregator struct {
	repo repository.Store
	log  *logger.Logger
}

// NewAggregator creates a revenue aggregator.
func NewAggregator(repo repository.Store, log *logger.Logger) *Aggregator {
	return &Aggregator{repo: repo, log: log}
}

// Summarize aggregates completed payments in [from, to) for the given
// currency. Correlation tables are fetched in bulk, concurrently, then
// joined in memory.
func (a *Aggregator) Summarize(ctx context.Context, from, to time.Time, currency string) (Summary, error) {
	payments, err := a.repo.ListCompletedPayments(ctx, from, to, currency)
	if err != nil {
		return Summary{}, fmt.Errorf("list payments: %w", err)
	}

	corr, err := a.fetchCorrelations(ctx, payments)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		From:             from,
		To:               to,
		Currency:         currency,
		TransactionCount: len(payments),
		ByService:        []Line{},
		ByChannel:        []ChannelLine{},
		ByTier:           []Line{},
	}

	byService := map[string]int64{}
	byChannel := map[Channel]int64{}
	byTier := map[string]int64{}
	for _, p := range payments {
		summary.TotalCents += p.AmountCents
		byService[p.Service] += p.AmountCents
		byTier[p.Tier] += p.AmountCents
		byChannel[resolveChannel(p.ConversationID, p.PayerEmail, corr)] += p.AmountCents
	}

	summary.ByService = sortedLines(byService)
	summary.ByTier = sortedLines(byTier)
	summary.ByChannel = channelLines(byChannel, summary.TotalCents)
	return summary, nil
}

// fetchCorrelations pulls the flow-type and booking lookup tables for
// the payment set, one bulk query each, in parallel.
func (a *Aggregator) fetchCorrelations(ctx context.Context, payments []repository.Payment) (correlations, error) {
	conversationIDs := make([]string, 0, len(payments))
	emails := make([]string, 0, len(payments))
	seenConv := map[string]bool{}
	seenEmail := map[string]bool{}
	for _, p := range payments {
		if p.ConversationID != nil && !seenConv[*p.ConversationID] {
			seenConv[*p.ConversationID] = true
			conversationIDs = append(conversationIDs, *p.ConversationID)
		}
		if p.ConversationID == nil && p.PayerEmail != "" && !seenEmail[p.PayerEmail] {
			seenEmail[p.PayerEmail] = true
			emails = append(emails, p.PayerEmail)
		}
	}

	var corr correlations
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		flows, err := a.repo.GetFlowTypes(gctx, conversationIDs)
		if err != nil {
			return fmt.Errorf("flow lookup: %w", err)
		}
		corr.flows = flows
		return nil
	})
	g.Go(func() error {
		booked, err := a.repo.FindBookedEmails(gctx, emails)
		if err != nil {
			return fmt.Errorf("booking lookup: %w", err)
		}
		corr.booked = booked
		return nil
	})
	if err := g.Wait(); err != nil {
		return correlations{}, err
	}
	return corr, nil
}

func sortedLines(buckets map[string]int64) []Line {
	lines := make([]Line, 0, len(buckets))
	for key, amount := range buckets {
		lines = append(lines, Line{Key: key, AmountCents: amount})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].AmountCents != lines[j].AmountCents {
			return lines[i].AmountCents > lines[j].AmountCents
		}
		return lines[i].Key < lines[j].Key
	})
	return lines
}

func channelLines(buckets map[Channel]int64, total int64) []ChannelLine {
	lines := make([]ChannelLine, 0, len(buckets))
	for channel, amount := range buckets {
		line := ChannelLine{Channel: channel, AmountCents: amount}
		if total > 0 {
			line.Percent = math.Round(float64(amount)/float64(total)*10000) / 100
		}
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].AmountCents != lines[j].AmountCents {
			return lines[i].AmountCents > lines[j].AmountCents
		}
		return lines[i].Channel < lines[j].Channel
	})
	return lines
}
