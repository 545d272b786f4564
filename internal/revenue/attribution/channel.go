// Package attribution resolves acquisition channels for payments and
// aggregates revenue over a date range.
package attribution

// Channel is the acquisition channel a payment is attributed to.
type Channel string

const (
	ChannelChatExpress    Channel = "q_chat_express"
	ChannelChatExecutive  Channel = "q_chat_executive"
	ChannelBookingOnly    Channel = "booking_only"
	ChannelDirectCheckout Channel = "direct_checkout"
	ChannelUnknown        Channel = "unknown"
)

// correlations holds the bulk-fetched lookup tables channel resolution
// runs against. A conversation ID absent from flows means the lookup
// could not be resolved.
type correlations struct {
	flows  map[string]string
	booked map[string]bool
}

// resolveChannel attributes one payment. Evaluation order: conversation
// flow type first, then a booking for the payer's email, then direct
// checkout. A dangling conversation reference is unknown rather than
// guessed.
func resolveChannel(conversationID *string, payerEmail string, c correlations) Channel {
	if conversationID != nil {
		flow, ok := c.flows[*conversationID]
		if !ok {
			return ChannelUnknown
		}
		switch flow {
		case "executive":
			return ChannelChatExecutive
		default:
			return ChannelChatExpress
		}
	}
	if c.booked[payerEmail] {
		return ChannelBookingOnly
	}
	return ChannelDirectCheckout
}
