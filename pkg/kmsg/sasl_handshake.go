package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// SaslHandshakeRequest is api key 17. Unlike the rest of the catalog, this
// API never grew a flexible version — its header and body both keep the
// legacy int16/int32 length conventions at every version Kafka ever
// shipped, which is why IsFlexible is unconditionally false here.
type SaslHandshakeRequest struct {
	Version int16

	// Mechanism is the SASL mechanism name, e.g. "PLAIN", "SCRAM-SHA-256",
	// "OAUTHBEARER".
	Mechanism string
}

func (*SaslHandshakeRequest) Key() int16        { return 17 }
func (*SaslHandshakeRequest) MaxVersion() int16 { return 1 }
func (r *SaslHandshakeRequest) SetVersion(v int16) {
	if v != 1 {
		panic("kmsg: SaslHandshakeRequest only supports version 1")
	}
	r.Version = v
}
func (r *SaslHandshakeRequest) GetVersion() int16 { return r.Version }
func (*SaslHandshakeRequest) IsFlexible() bool    { return false }

func (r *SaslHandshakeRequest) AppendTo(dst []byte, w *kbin.Writer) []byte {
	w.AppendString(r.Mechanism)
	return append(dst, w.Bytes()...)
}

func (*SaslHandshakeRequest) ResponseKind() Response { return &SaslHandshakeResponse{} }

// SaslHandshakeResponse is the reply to SaslHandshakeRequest: the broker's
// error code plus, regardless of success, the full list of mechanisms it
// supports (useful for diagnostics when the requested one is rejected).
type SaslHandshakeResponse struct {
	Version int16

	ErrorCode  int16
	Mechanisms []string
}

func (*SaslHandshakeResponse) Key() int16           { return 17 }
func (r *SaslHandshakeResponse) SetVersion(v int16) { r.Version = v }
func (r *SaslHandshakeResponse) GetVersion() int16  { return r.Version }
func (*SaslHandshakeResponse) IsFlexible() bool     { return false }

func (r *SaslHandshakeResponse) ReadFrom(reader *kbin.Reader) error {
	r.ErrorCode = reader.Int16()
	n := reader.ArrayLen(false, false)
	r.Mechanisms = make([]string, n)
	for i := range r.Mechanisms {
		r.Mechanisms[i] = reader.String()
	}
	return reader.Complete()
}
