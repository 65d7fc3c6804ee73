package model

// SignalKind indicates which threshold a price crossed.
type SignalKind string

const (
	SellSignal SignalKind = "SELL" // price at or above the upper limit
	BuySignal  SignalKind = "BUY"  // price at or below the lower limit
)

// AlertEvent records that a tracked price crossed a threshold. Events are
// consumed by the notification sink within the tick that produced them.
type AlertEvent struct {
	Subscriber SubscriberID
	Ticker     string
	Price      float64
	Kind       SignalKind
	Reference  string // URL with more detail, included in the notification
}
