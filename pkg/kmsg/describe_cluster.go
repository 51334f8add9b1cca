package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// DescribeClusterRequest is api key 60, version 1.
type DescribeClusterRequest struct {
	Version int16

	IncludeClusterAuthorizedOperations bool
	EndpointType                       int8
}

func (*DescribeClusterRequest) Key() int16        { return 60 }
func (*DescribeClusterRequest) MaxVersion() int16 { return 1 }
func (r *DescribeClusterRequest) SetVersion(v int16) {
	if v != 1 {
		panic("kmsg: DescribeClusterRequest only supports version 1")
	}
	r.Version = v
}
func (r *DescribeClusterRequest) GetVersion() int16 { return r.Version }
func (*DescribeClusterRequest) IsFlexible() bool    { return true }

func (r *DescribeClusterRequest) AppendTo(dst []byte, w *kbin.Writer) []byte {
	w.AppendBool(r.IncludeClusterAuthorizedOperations)
	w.AppendInt8(r.EndpointType)
	w.AppendTaggedFieldsEmpty()
	return append(dst, w.Bytes()...)
}

func (*DescribeClusterRequest) ResponseKind() Response { return &DescribeClusterResponse{} }

// DescribeClusterResponseBroker describes one broker in the cluster.
type DescribeClusterResponseBroker struct {
	BrokerID int32
	Host     string
	Port     int32
	Rack     *string
}

// DescribeClusterResponse is the reply to DescribeClusterRequest.
type DescribeClusterResponse struct {
	Version int16

	ThrottleTimeMs              int32
	ErrorCode                   int16
	ErrorMessage                *string
	EndpointType                int8
	ClusterID                   string
	ControllerID                int32
	Brokers                     []DescribeClusterResponseBroker
	ClusterAuthorizedOperations int32
}

func (*DescribeClusterResponse) Key() int16           { return 60 }
func (r *DescribeClusterResponse) SetVersion(v int16) { r.Version = v }
func (r *DescribeClusterResponse) GetVersion() int16  { return r.Version }
func (*DescribeClusterResponse) IsFlexible() bool     { return true }

func (r *DescribeClusterResponse) ReadFrom(reader *kbin.Reader) error {
	r.ThrottleTimeMs = reader.Int32()
	r.ErrorCode = reader.Int16()
	r.ErrorMessage = reader.NullableString(true)
	r.EndpointType = reader.Int8()
	r.ClusterID = reader.CompactString()
	r.ControllerID = reader.Int32()
	n := reader.ArrayLen(true, false)
	r.Brokers = make([]DescribeClusterResponseBroker, n)
	for i := range r.Brokers {
		b := &r.Brokers[i]
		b.BrokerID = reader.Int32()
		b.Host = reader.CompactString()
		b.Port = reader.Int32()
		b.Rack = reader.NullableString(true)
		reader.ReadTaggedFields()
	}
	r.ClusterAuthorizedOperations = reader.Int32()
	reader.ReadTaggedFields()
	return reader.Complete()
}
