package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// SaslAuthenticateRequest is api key 36: the opaque-bytes carrier for every
// mechanism's handshake/challenge/response steps after SaslHandshake has
// selected a mechanism.
type SaslAuthenticateRequest struct {
	Version int16

	AuthBytes []byte
}

func (*SaslAuthenticateRequest) Key() int16        { return 36 }
func (*SaslAuthenticateRequest) MaxVersion() int16 { return 2 }
func (r *SaslAuthenticateRequest) SetVersion(v int16) {
	if v != 2 {
		panic("kmsg: SaslAuthenticateRequest only supports version 2")
	}
	r.Version = v
}
func (r *SaslAuthenticateRequest) GetVersion() int16 { return r.Version }
func (*SaslAuthenticateRequest) IsFlexible() bool    { return true }

func (r *SaslAuthenticateRequest) AppendTo(dst []byte, w *kbin.Writer) []byte {
	w.AppendCompactBytes(r.AuthBytes)
	w.AppendTaggedFieldsEmpty()
	return append(dst, w.Bytes()...)
}

func (*SaslAuthenticateRequest) ResponseKind() Response { return &SaslAuthenticateResponse{} }

// SaslAuthenticateResponse is the reply to SaslAuthenticateRequest. The
// final round trip of a mechanism's exchange carries a positive
// SessionLifetimeMs, which the connection engine uses to arm its re-auth
// timer.
type SaslAuthenticateResponse struct {
	Version int16

	ErrorCode         int16
	ErrorMessage      *string
	AuthBytes         []byte
	SessionLifetimeMs int64
}

func (*SaslAuthenticateResponse) Key() int16           { return 36 }
func (r *SaslAuthenticateResponse) SetVersion(v int16) { r.Version = v }
func (r *SaslAuthenticateResponse) GetVersion() int16  { return r.Version }
func (*SaslAuthenticateResponse) IsFlexible() bool     { return true }

func (r *SaslAuthenticateResponse) ReadFrom(reader *kbin.Reader) error {
	r.ErrorCode = reader.Int16()
	r.ErrorMessage = reader.NullableString(true)
	r.AuthBytes = reader.CompactBytes()
	r.SessionLifetimeMs = reader.Int64()
	reader.ReadTaggedFields()
	return reader.Complete()
}
