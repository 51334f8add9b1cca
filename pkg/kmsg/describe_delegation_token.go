package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// DescribeDelegationTokenRequestOwner filters the returned tokens to those
// owned by this principal; a nil Owners slice on the request means "all
// tokens the caller is authorized to see".
type DescribeDelegationTokenRequestOwner struct {
	PrincipalType string
	PrincipalName string
}

// DescribeDelegationTokenRequest is api key 41, version 3.
type DescribeDelegationTokenRequest struct {
	Version int16

	Owners []DescribeDelegationTokenRequestOwner
}

func (*DescribeDelegationTokenRequest) Key() int16        { return 41 }
func (*DescribeDelegationTokenRequest) MaxVersion() int16 { return 3 }
func (r *DescribeDelegationTokenRequest) SetVersion(v int16) {
	if v != 3 {
		panic("kmsg: DescribeDelegationTokenRequest only supports version 3")
	}
	r.Version = v
}
func (r *DescribeDelegationTokenRequest) GetVersion() int16 { return r.Version }
func (*DescribeDelegationTokenRequest) IsFlexible() bool    { return true }

func (r *DescribeDelegationTokenRequest) AppendTo(dst []byte, w *kbin.Writer) []byte {
	w.AppendNullableArrayLen(len(r.Owners), r.Owners == nil, true)
	for _, o := range r.Owners {
		w.AppendCompactString(o.PrincipalType)
		w.AppendCompactString(o.PrincipalName)
		w.AppendTaggedFieldsEmpty()
	}
	w.AppendTaggedFieldsEmpty()
	return append(dst, w.Bytes()...)
}

func (*DescribeDelegationTokenRequest) ResponseKind() Response {
	return &DescribeDelegationTokenResponse{}
}

// DescribeDelegationTokenResponseRenewer is one principal authorized to
// renew a token.
type DescribeDelegationTokenResponseRenewer struct {
	PrincipalType string
	PrincipalName string
}

// DescribeDelegationTokenResponseToken is one delegation token's full
// detail.
type DescribeDelegationTokenResponseToken struct {
	PrincipalType               string
	PrincipalName               string
	TokenRequesterPrincipalType string
	TokenRequesterPrincipalName string
	IssueTimestamp              int64
	ExpiryTimestamp             int64
	MaxTimestamp                int64
	TokenID                     string
	HMAC                        []byte
	Renewers                    []DescribeDelegationTokenResponseRenewer
}

// DescribeDelegationTokenResponse is the reply to
// DescribeDelegationTokenRequest.
type DescribeDelegationTokenResponse struct {
	Version int16

	ThrottleTimeMs int32
	ErrorCode      int16
	TokenDetails   []DescribeDelegationTokenResponseToken
}

func (*DescribeDelegationTokenResponse) Key() int16           { return 41 }
func (r *DescribeDelegationTokenResponse) SetVersion(v int16) { r.Version = v }
func (r *DescribeDelegationTokenResponse) GetVersion() int16  { return r.Version }
func (*DescribeDelegationTokenResponse) IsFlexible() bool     { return true }

func (r *DescribeDelegationTokenResponse) ReadFrom(reader *kbin.Reader) error {
	r.ErrorCode = reader.Int16()
	n := reader.ArrayLen(true, false)
	r.TokenDetails = make([]DescribeDelegationTokenResponseToken, n)
	for i := range r.TokenDetails {
		t := &r.TokenDetails[i]
		t.PrincipalType = reader.CompactString()
		t.PrincipalName = reader.CompactString()
		t.TokenRequesterPrincipalType = reader.CompactString()
		t.TokenRequesterPrincipalName = reader.CompactString()
		t.IssueTimestamp = reader.Int64()
		t.ExpiryTimestamp = reader.Int64()
		t.MaxTimestamp = reader.Int64()
		t.TokenID = reader.CompactString()
		t.HMAC = reader.CompactBytes()
		rn := reader.ArrayLen(true, false)
		t.Renewers = make([]DescribeDelegationTokenResponseRenewer, rn)
		for j := range t.Renewers {
			t.Renewers[j].PrincipalType = reader.CompactString()
			t.Renewers[j].PrincipalName = reader.CompactString()
			reader.ReadTaggedFields()
		}
		reader.ReadTaggedFields()
	}
	r.ThrottleTimeMs = reader.Int32()
	reader.ReadTaggedFields()
	return reader.Complete()
}
