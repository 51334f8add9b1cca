package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// PushTelemetryRequest is api key 72, version 0 (KIP-714 client metrics).
type PushTelemetryRequest struct {
	Version int16

	ClientInstanceID string // canonical UUID string
	SubscriptionID   int32
	Terminating      bool
	CompressionType  int8
	Metrics          []byte
}

func (*PushTelemetryRequest) Key() int16        { return 72 }
func (*PushTelemetryRequest) MaxVersion() int16 { return 0 }
func (r *PushTelemetryRequest) SetVersion(v int16) {
	if v != 0 {
		panic("kmsg: PushTelemetryRequest only supports version 0")
	}
	r.Version = v
}
func (r *PushTelemetryRequest) GetVersion() int16 { return r.Version }
func (*PushTelemetryRequest) IsFlexible() bool    { return true }

func (r *PushTelemetryRequest) AppendTo(dst []byte, w *kbin.Writer) []byte {
	w.AppendUUID(r.ClientInstanceID)
	w.AppendInt32(r.SubscriptionID)
	w.AppendBool(r.Terminating)
	w.AppendInt8(r.CompressionType)
	w.AppendCompactBytes(r.Metrics)
	w.AppendTaggedFieldsEmpty()
	return append(dst, w.Bytes()...)
}

func (*PushTelemetryRequest) ResponseKind() Response { return &PushTelemetryResponse{} }

// PushTelemetryResponse is the reply to PushTelemetryRequest.
type PushTelemetryResponse struct {
	Version int16

	ThrottleTimeMs int32
	ErrorCode      int16
}

func (*PushTelemetryResponse) Key() int16           { return 72 }
func (r *PushTelemetryResponse) SetVersion(v int16) { r.Version = v }
func (r *PushTelemetryResponse) GetVersion() int16  { return r.Version }
func (*PushTelemetryResponse) IsFlexible() bool     { return true }

func (r *PushTelemetryResponse) ReadFrom(reader *kbin.Reader) error {
	r.ThrottleTimeMs = reader.Int32()
	r.ErrorCode = reader.Int16()
	reader.ReadTaggedFields()
	return reader.Complete()
}
