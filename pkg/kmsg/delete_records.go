package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// DeleteRecordsRequestTopicPartition names a single partition and the
// offset before which all records should be deleted.
type DeleteRecordsRequestTopicPartition struct {
	PartitionIndex int32
	Offset         int64
}

// DeleteRecordsRequestTopic groups partitions under their topic.
type DeleteRecordsRequestTopic struct {
	Name       string
	Partitions []DeleteRecordsRequestTopicPartition
}

// DeleteRecordsRequest is api key 21, version 2.
type DeleteRecordsRequest struct {
	Version int16

	Topics    []DeleteRecordsRequestTopic
	TimeoutMs int32
}

func (*DeleteRecordsRequest) Key() int16        { return 21 }
func (*DeleteRecordsRequest) MaxVersion() int16 { return 2 }
func (r *DeleteRecordsRequest) SetVersion(v int16) {
	if v != 2 {
		panic("kmsg: DeleteRecordsRequest only supports version 2")
	}
	r.Version = v
}
func (r *DeleteRecordsRequest) GetVersion() int16 { return r.Version }
func (*DeleteRecordsRequest) IsFlexible() bool    { return true }

func (r *DeleteRecordsRequest) AppendTo(dst []byte, w *kbin.Writer) []byte {
	w.AppendArrayLen(len(r.Topics), true)
	for _, t := range r.Topics {
		w.AppendCompactString(t.Name)
		w.AppendArrayLen(len(t.Partitions), true)
		for _, p := range t.Partitions {
			w.AppendInt32(p.PartitionIndex)
			w.AppendInt64(p.Offset)
			w.AppendTaggedFieldsEmpty()
		}
		w.AppendTaggedFieldsEmpty()
	}
	w.AppendInt32(r.TimeoutMs)
	w.AppendTaggedFieldsEmpty()
	return append(dst, w.Bytes()...)
}

func (*DeleteRecordsRequest) ResponseKind() Response { return &DeleteRecordsResponse{} }

// DeleteRecordsResponsePartition is the per-partition result of a
// DeleteRecords call.
type DeleteRecordsResponsePartition struct {
	PartitionIndex int32
	LowWatermark   int64
	ErrorCode      int16
}

// DeleteRecordsResponseTopic groups partition results under their topic.
type DeleteRecordsResponseTopic struct {
	Name       string
	Partitions []DeleteRecordsResponsePartition
}

// DeleteRecordsResponse is the reply to DeleteRecordsRequest.
type DeleteRecordsResponse struct {
	Version int16

	ThrottleTimeMs int32
	Topics         []DeleteRecordsResponseTopic
}

func (*DeleteRecordsResponse) Key() int16           { return 21 }
func (r *DeleteRecordsResponse) SetVersion(v int16) { r.Version = v }
func (r *DeleteRecordsResponse) GetVersion() int16  { return r.Version }
func (*DeleteRecordsResponse) IsFlexible() bool     { return true }

func (r *DeleteRecordsResponse) ReadFrom(reader *kbin.Reader) error {
	r.ThrottleTimeMs = reader.Int32()
	n := reader.ArrayLen(true, false)
	r.Topics = make([]DeleteRecordsResponseTopic, n)
	for i := range r.Topics {
		t := &r.Topics[i]
		t.Name = reader.CompactString()
		pn := reader.ArrayLen(true, false)
		t.Partitions = make([]DeleteRecordsResponsePartition, pn)
		for j := range t.Partitions {
			p := &t.Partitions[j]
			p.PartitionIndex = reader.Int32()
			p.LowWatermark = reader.Int64()
			p.ErrorCode = reader.Int16()
			reader.ReadTaggedFields()
		}
		reader.ReadTaggedFields()
	}
	reader.ReadTaggedFields()
	return reader.Complete()
}

// Shard implements ShardedResponse: each partition with a non-zero error
// code is reported at "/topics/<i>/partitions/<j>".
func (r *DeleteRecordsResponse) Shard() map[string]int16 {
	errs := map[string]int16{}
	for i, t := range r.Topics {
		for j, p := range t.Partitions {
			if p.ErrorCode != 0 {
				errs[pathIndex2("topics", i, "partitions", j)] = p.ErrorCode
			}
		}
	}
	return errs
}
