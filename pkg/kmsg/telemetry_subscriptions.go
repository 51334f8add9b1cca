package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// GetTelemetrySubscriptionsRequest is api key 71, version 0: a client asks
// the broker which metrics it wants reported and at what cadence.
type GetTelemetrySubscriptionsRequest struct {
	Version int16

	// ClientInstanceID is the canonical UUID string identifying this
	// client instance, or the all-zero UUID on the first call before the
	// broker has assigned one.
	ClientInstanceID string
}

func (*GetTelemetrySubscriptionsRequest) Key() int16        { return 71 }
func (*GetTelemetrySubscriptionsRequest) MaxVersion() int16 { return 0 }
func (r *GetTelemetrySubscriptionsRequest) SetVersion(v int16) {
	if v != 0 {
		panic("kmsg: GetTelemetrySubscriptionsRequest only supports version 0")
	}
	r.Version = v
}
func (r *GetTelemetrySubscriptionsRequest) GetVersion() int16 { return r.Version }
func (*GetTelemetrySubscriptionsRequest) IsFlexible() bool    { return true }

func (r *GetTelemetrySubscriptionsRequest) AppendTo(dst []byte, w *kbin.Writer) []byte {
	w.AppendUUID(r.ClientInstanceID)
	w.AppendTaggedFieldsEmpty()
	return append(dst, w.Bytes()...)
}

func (*GetTelemetrySubscriptionsRequest) ResponseKind() Response {
	return &GetTelemetrySubscriptionsResponse{}
}

// GetTelemetrySubscriptionsResponse is the reply to
// GetTelemetrySubscriptionsRequest.
type GetTelemetrySubscriptionsResponse struct {
	Version int16

	ThrottleTimeMs           int32
	ErrorCode                int16
	ClientInstanceID         string
	SubscriptionID           int32
	AcceptedCompressionTypes []int8
	PushIntervalMs           int32
	TelemetryMaxBytes        int32
	DeltaTemporality         bool
	RequestedMetrics         []string
}

func (*GetTelemetrySubscriptionsResponse) Key() int16           { return 71 }
func (r *GetTelemetrySubscriptionsResponse) SetVersion(v int16) { r.Version = v }
func (r *GetTelemetrySubscriptionsResponse) GetVersion() int16  { return r.Version }
func (*GetTelemetrySubscriptionsResponse) IsFlexible() bool     { return true }

func (r *GetTelemetrySubscriptionsResponse) ReadFrom(reader *kbin.Reader) error {
	r.ThrottleTimeMs = reader.Int32()
	r.ErrorCode = reader.Int16()
	r.ClientInstanceID = reader.UUID()
	r.SubscriptionID = reader.Int32()
	n := reader.ArrayLen(true, false)
	r.AcceptedCompressionTypes = make([]int8, n)
	for i := range r.AcceptedCompressionTypes {
		r.AcceptedCompressionTypes[i] = reader.Int8()
	}
	r.PushIntervalMs = reader.Int32()
	r.TelemetryMaxBytes = reader.Int32()
	r.DeltaTemporality = reader.Bool()
	mn := reader.ArrayLen(true, false)
	r.RequestedMetrics = make([]string, mn)
	for i := range r.RequestedMetrics {
		r.RequestedMetrics[i] = reader.CompactString()
	}
	reader.ReadTaggedFields()
	return reader.Complete()
}

// ListClientMetricsResourcesRequest is api key 74, version 0: an empty-body
// request enumerating the client metrics resource names the broker knows
// about.
type ListClientMetricsResourcesRequest struct {
	Version int16
}

func (*ListClientMetricsResourcesRequest) Key() int16        { return 74 }
func (*ListClientMetricsResourcesRequest) MaxVersion() int16 { return 0 }
func (r *ListClientMetricsResourcesRequest) SetVersion(v int16) {
	if v != 0 {
		panic("kmsg: ListClientMetricsResourcesRequest only supports version 0")
	}
	r.Version = v
}
func (r *ListClientMetricsResourcesRequest) GetVersion() int16 { return r.Version }
func (*ListClientMetricsResourcesRequest) IsFlexible() bool    { return true }

func (r *ListClientMetricsResourcesRequest) AppendTo(dst []byte, w *kbin.Writer) []byte {
	w.AppendTaggedFieldsEmpty()
	return append(dst, w.Bytes()...)
}

func (*ListClientMetricsResourcesRequest) ResponseKind() Response {
	return &ListClientMetricsResourcesResponse{}
}

// ListClientMetricsResourcesResponseResource is one named client metrics
// subscription resource.
type ListClientMetricsResourcesResponseResource struct {
	Name string
}

// ListClientMetricsResourcesResponse is the reply to
// ListClientMetricsResourcesRequest.
type ListClientMetricsResourcesResponse struct {
	Version int16

	ThrottleTimeMs         int32
	ErrorCode              int16
	ClientMetricsResources []ListClientMetricsResourcesResponseResource
}

func (*ListClientMetricsResourcesResponse) Key() int16           { return 74 }
func (r *ListClientMetricsResourcesResponse) SetVersion(v int16) { r.Version = v }
func (r *ListClientMetricsResourcesResponse) GetVersion() int16  { return r.Version }
func (*ListClientMetricsResourcesResponse) IsFlexible() bool     { return true }

func (r *ListClientMetricsResourcesResponse) ReadFrom(reader *kbin.Reader) error {
	r.ThrottleTimeMs = reader.Int32()
	r.ErrorCode = reader.Int16()
	n := reader.ArrayLen(true, false)
	r.ClientMetricsResources = make([]ListClientMetricsResourcesResponseResource, n)
	for i := range r.ClientMetricsResources {
		r.ClientMetricsResources[i].Name = reader.CompactString()
		reader.ReadTaggedFields()
	}
	reader.ReadTaggedFields()
	return reader.Complete()
}
