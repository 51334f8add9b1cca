package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// ApiVersionsRequest is api key 18. The engine issues it as an ordinary
// descriptor and performs no version negotiation with the result itself;
// what to do with the broker's advertised ranges is the caller's business.
type ApiVersionsRequest struct {
	Version int16

	// ClientSoftwareName and ClientSoftwareVersion are sent to the broker
	// for diagnostics (KIP-511); both are optional.
	ClientSoftwareName    string
	ClientSoftwareVersion string
}

func (*ApiVersionsRequest) Key() int16        { return 18 }
func (*ApiVersionsRequest) MaxVersion() int16 { return 3 }
func (r *ApiVersionsRequest) SetVersion(v int16) {
	if v != 3 {
		panic("kmsg: ApiVersionsRequest only supports version 3")
	}
	r.Version = v
}
func (r *ApiVersionsRequest) GetVersion() int16 { return r.Version }
func (*ApiVersionsRequest) IsFlexible() bool    { return true }

func (r *ApiVersionsRequest) AppendTo(dst []byte, w *kbin.Writer) []byte {
	w.AppendCompactString(r.ClientSoftwareName)
	w.AppendCompactString(r.ClientSoftwareVersion)
	w.AppendTaggedFieldsEmpty()
	return append(dst, w.Bytes()...)
}

func (*ApiVersionsRequest) ResponseKind() Response { return &ApiVersionsResponse{} }

// ApiVersionsResponseKey describes one api_key the broker supports and its
// usable version range.
type ApiVersionsResponseKey struct {
	APIKey     int16
	MinVersion int16
	MaxVersion int16
}

// ApiVersionsResponse is the reply to ApiVersionsRequest.
type ApiVersionsResponse struct {
	Version int16

	ErrorCode      int16
	APIKeys        []ApiVersionsResponseKey
	ThrottleTimeMs int32
}

func (*ApiVersionsResponse) Key() int16 { return 18 }
func (r *ApiVersionsResponse) SetVersion(v int16) {
	r.Version = v
}
func (r *ApiVersionsResponse) GetVersion() int16 { return r.Version }
func (*ApiVersionsResponse) IsFlexible() bool     { return true }

func (r *ApiVersionsResponse) ReadFrom(reader *kbin.Reader) error {
	r.ErrorCode = reader.Int16()
	n := reader.ArrayLen(true, false)
	r.APIKeys = make([]ApiVersionsResponseKey, n)
	for i := range r.APIKeys {
		r.APIKeys[i].APIKey = reader.Int16()
		r.APIKeys[i].MinVersion = reader.Int16()
		r.APIKeys[i].MaxVersion = reader.Int16()
		reader.ReadTaggedFields()
	}
	r.ThrottleTimeMs = reader.Int32()
	reader.ReadTaggedFields()
	return reader.Complete()
}
