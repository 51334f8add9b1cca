package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// CreateTopicsRequestTopicAssignment pins a partition's replica set
// explicitly, bypassing the broker's own assignment.
type CreateTopicsRequestTopicAssignment struct {
	PartitionIndex int32
	BrokerIDs      []int32
}

// CreateTopicsRequestTopicConfig is one key=value topic-level config
// override.
type CreateTopicsRequestTopicConfig struct {
	Name  string
	Value *string
}

// CreateTopicsRequestTopic describes one topic to create.
type CreateTopicsRequestTopic struct {
	Name              string
	NumPartitions     int32
	ReplicationFactor int16
	Assignments       []CreateTopicsRequestTopicAssignment
	Configs           []CreateTopicsRequestTopicConfig
}

// CreateTopicsRequest is api key 19, version 7.
type CreateTopicsRequest struct {
	Version int16

	Topics       []CreateTopicsRequestTopic
	TimeoutMs    int32
	ValidateOnly bool
}

func (*CreateTopicsRequest) Key() int16        { return 19 }
func (*CreateTopicsRequest) MaxVersion() int16 { return 7 }
func (r *CreateTopicsRequest) SetVersion(v int16) {
	if v != 7 {
		panic("kmsg: CreateTopicsRequest only supports version 7")
	}
	r.Version = v
}
func (r *CreateTopicsRequest) GetVersion() int16 { return r.Version }
func (*CreateTopicsRequest) IsFlexible() bool    { return true }

func (r *CreateTopicsRequest) AppendTo(dst []byte, w *kbin.Writer) []byte {
	w.AppendArrayLen(len(r.Topics), true)
	for _, t := range r.Topics {
		w.AppendCompactString(t.Name)
		w.AppendInt32(t.NumPartitions)
		w.AppendInt16(t.ReplicationFactor)
		w.AppendArrayLen(len(t.Assignments), true)
		for _, a := range t.Assignments {
			w.AppendInt32(a.PartitionIndex)
			w.AppendArrayLen(len(a.BrokerIDs), true)
			for _, id := range a.BrokerIDs {
				w.AppendInt32(id)
			}
			w.AppendTaggedFieldsEmpty()
		}
		w.AppendArrayLen(len(t.Configs), true)
		for _, c := range t.Configs {
			w.AppendCompactString(c.Name)
			w.AppendNullableString(c.Value, true)
			w.AppendTaggedFieldsEmpty()
		}
		w.AppendTaggedFieldsEmpty()
	}
	w.AppendInt32(r.TimeoutMs)
	w.AppendBool(r.ValidateOnly)
	w.AppendTaggedFieldsEmpty()
	return append(dst, w.Bytes()...)
}

func (*CreateTopicsRequest) ResponseKind() Response { return &CreateTopicsResponse{} }

// CreateTopicsResponseTopicConfig is one effective topic-level config as
// reported back by the broker.
type CreateTopicsResponseTopicConfig struct {
	Name         string
	Value        *string
	ReadOnly     bool
	ConfigSource int8
	IsSensitive  bool
}

// CreateTopicsResponseTopic is the per-topic result of a CreateTopics call.
type CreateTopicsResponseTopic struct {
	Name              string
	TopicID           [16]byte
	ErrorCode         int16
	ErrorMessage      *string
	NumPartitions     int32
	ReplicationFactor int16
	Configs           []CreateTopicsResponseTopicConfig
}

// CreateTopicsResponse is the reply to CreateTopicsRequest.
type CreateTopicsResponse struct {
	Version int16

	ThrottleTimeMs int32
	Topics         []CreateTopicsResponseTopic
}

func (*CreateTopicsResponse) Key() int16           { return 19 }
func (r *CreateTopicsResponse) SetVersion(v int16) { r.Version = v }
func (r *CreateTopicsResponse) GetVersion() int16  { return r.Version }
func (*CreateTopicsResponse) IsFlexible() bool     { return true }

func (r *CreateTopicsResponse) ReadFrom(reader *kbin.Reader) error {
	r.ThrottleTimeMs = reader.Int32()
	n := reader.ArrayLen(true, false)
	r.Topics = make([]CreateTopicsResponseTopic, n)
	for i := range r.Topics {
		t := &r.Topics[i]
		t.Name = reader.CompactString()
		var raw [16]byte
		copy(raw[:], reader.Span(16))
		t.TopicID = raw
		t.ErrorCode = reader.Int16()
		t.ErrorMessage = reader.NullableString(true)
		t.NumPartitions = reader.Int32()
		t.ReplicationFactor = reader.Int16()
		cn := reader.ArrayLen(true, false)
		t.Configs = make([]CreateTopicsResponseTopicConfig, cn)
		for j := range t.Configs {
			c := &t.Configs[j]
			c.Name = reader.CompactString()
			c.Value = reader.NullableString(true)
			c.ReadOnly = reader.Bool()
			c.ConfigSource = reader.Int8()
			c.IsSensitive = reader.Bool()
			reader.ReadTaggedFields()
		}
		reader.ReadTaggedFields()
	}
	reader.ReadTaggedFields()
	return reader.Complete()
}

// Shard implements ShardedResponse: every topic with a non-zero error code
// is reported at "/topics/<index>", indexed in request order.
func (r *CreateTopicsResponse) Shard() map[string]int16 {
	errs := map[string]int16{}
	for i, t := range r.Topics {
		if t.ErrorCode != 0 {
			errs[pathIndex("topics", i)] = t.ErrorCode
		}
	}
	return errs
}
