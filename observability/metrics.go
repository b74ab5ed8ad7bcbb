// Package observability aggregates delivery telemetry for the messaging
// core. Counters are atomic so every connection handler can report without
// coordination.
package observability

import "sync/atomic"

// DeliverySnapshot is one consistent-enough view of the counters, built for
// the reporter and for debug endpoints.
type DeliverySnapshot struct {
	MessagesPersisted uint64 `json:"messages_persisted"`
	DeliveredLive     uint64 `json:"delivered_live"`
	ReceiverOffline   uint64 `json:"receiver_offline"`
	DeliveryFailures  uint64 `json:"delivery_failures"`
	ReadReceipts      uint64 `json:"read_receipts"`
	FramesRejected    uint64 `json:"frames_rejected"`
}

type DeliveryStats struct {
	messagesPersisted uint64
	deliveredLive     uint64
	receiverOffline   uint64
	deliveryFailures  uint64
	readReceipts      uint64
	framesRejected    uint64
}

func NewDeliveryStats() *DeliveryStats {
	return &DeliveryStats{}
}

func (s *DeliveryStats) IncrMessagesPersisted() {
	atomic.AddUint64(&s.messagesPersisted, 1)
}

func (s *DeliveryStats) IncrDeliveredLive() {
	atomic.AddUint64(&s.deliveredLive, 1)
}

func (s *DeliveryStats) IncrReceiverOffline() {
	atomic.AddUint64(&s.receiverOffline, 1)
}

func (s *DeliveryStats) IncrDeliveryFailure() {
	atomic.AddUint64(&s.deliveryFailures, 1)
}

func (s *DeliveryStats) IncrReadReceipts() {
	atomic.AddUint64(&s.readReceipts, 1)
}

func (s *DeliveryStats) IncrFramesRejected() {
	atomic.AddUint64(&s.framesRejected, 1)
}

func (s *DeliveryStats) Snapshot() DeliverySnapshot {
	return DeliverySnapshot{
		MessagesPersisted: atomic.LoadUint64(&s.messagesPersisted),
		DeliveredLive:     atomic.LoadUint64(&s.deliveredLive),
		ReceiverOffline:   atomic.LoadUint64(&s.receiverOffline),
		DeliveryFailures:  atomic.LoadUint64(&s.deliveryFailures),
		ReadReceipts:      atomic.LoadUint64(&s.readReceipts),
		FramesRejected:    atomic.LoadUint64(&s.framesRejected),
	}
}
