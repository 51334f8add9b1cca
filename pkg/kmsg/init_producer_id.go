package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// InitProducerIDRequest is api key 22, version 5: allocates (or fences) a
// producer id/epoch pair, the seed of the transactional/idempotent
// producer primitives.
type InitProducerIDRequest struct {
	Version int16

	TransactionalID      *string
	TransactionTimeoutMs int32
	ProducerID           int64
	ProducerEpoch        int16
}

func (*InitProducerIDRequest) Key() int16        { return 22 }
func (*InitProducerIDRequest) MaxVersion() int16 { return 5 }
func (r *InitProducerIDRequest) SetVersion(v int16) {
	if v != 5 {
		panic("kmsg: InitProducerIDRequest only supports version 5")
	}
	r.Version = v
}
func (r *InitProducerIDRequest) GetVersion() int16 { return r.Version }
func (*InitProducerIDRequest) IsFlexible() bool    { return true }

func (r *InitProducerIDRequest) AppendTo(dst []byte, w *kbin.Writer) []byte {
	w.AppendNullableString(r.TransactionalID, true)
	w.AppendInt32(r.TransactionTimeoutMs)
	w.AppendInt64(r.ProducerID)
	w.AppendInt16(r.ProducerEpoch)
	w.AppendTaggedFieldsEmpty()
	return append(dst, w.Bytes()...)
}

func (*InitProducerIDRequest) ResponseKind() Response { return &InitProducerIDResponse{} }

// InitProducerIDResponse is the reply to InitProducerIDRequest.
type InitProducerIDResponse struct {
	Version int16

	ThrottleTimeMs int32
	ErrorCode      int16
	ProducerID     int64
	ProducerEpoch  int16
}

func (*InitProducerIDResponse) Key() int16           { return 22 }
func (r *InitProducerIDResponse) SetVersion(v int16) { r.Version = v }
func (r *InitProducerIDResponse) GetVersion() int16  { return r.Version }
func (*InitProducerIDResponse) IsFlexible() bool     { return true }

func (r *InitProducerIDResponse) ReadFrom(reader *kbin.Reader) error {
	r.ThrottleTimeMs = reader.Int32()
	r.ErrorCode = reader.Int16()
	r.ProducerID = reader.Int64()
	r.ProducerEpoch = reader.Int16()
	reader.ReadTaggedFields()
	return reader.Complete()
}
