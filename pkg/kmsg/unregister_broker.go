package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// UnregisterBrokerRequest is api key 64, version 0.
type UnregisterBrokerRequest struct {
	Version int16

	BrokerID int32
}

func (*UnregisterBrokerRequest) Key() int16        { return 64 }
func (*UnregisterBrokerRequest) MaxVersion() int16 { return 0 }
func (r *UnregisterBrokerRequest) SetVersion(v int16) {
	if v != 0 {
		panic("kmsg: UnregisterBrokerRequest only supports version 0")
	}
	r.Version = v
}
func (r *UnregisterBrokerRequest) GetVersion() int16 { return r.Version }
func (*UnregisterBrokerRequest) IsFlexible() bool    { return true }

func (r *UnregisterBrokerRequest) AppendTo(dst []byte, w *kbin.Writer) []byte {
	w.AppendInt32(r.BrokerID)
	w.AppendTaggedFieldsEmpty()
	return append(dst, w.Bytes()...)
}

func (*UnregisterBrokerRequest) ResponseKind() Response { return &UnregisterBrokerResponse{} }

// UnregisterBrokerResponse is the reply to UnregisterBrokerRequest.
type UnregisterBrokerResponse struct {
	Version int16

	ThrottleTimeMs int32
	ErrorCode      int16
	ErrorMessage   *string
}

func (*UnregisterBrokerResponse) Key() int16           { return 64 }
func (r *UnregisterBrokerResponse) SetVersion(v int16) { r.Version = v }
func (r *UnregisterBrokerResponse) GetVersion() int16  { return r.Version }
func (*UnregisterBrokerResponse) IsFlexible() bool     { return true }

func (r *UnregisterBrokerResponse) ReadFrom(reader *kbin.Reader) error {
	r.ThrottleTimeMs = reader.Int32()
	r.ErrorCode = reader.Int16()
	r.ErrorMessage = reader.NullableString(true)
	reader.ReadTaggedFields()
	return reader.Complete()
}
