package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// DescribeLogDirsRequestTopic names the partitions of one topic to report
// on; a nil Topics slice on the request means "all topics".
type DescribeLogDirsRequestTopic struct {
	Topic      string
	Partitions []int32
}

// DescribeLogDirsRequest is api key 35, version 4.
type DescribeLogDirsRequest struct {
	Version int16

	Topics []DescribeLogDirsRequestTopic
}

func (*DescribeLogDirsRequest) Key() int16        { return 35 }
func (*DescribeLogDirsRequest) MaxVersion() int16 { return 4 }
func (r *DescribeLogDirsRequest) SetVersion(v int16) {
	if v != 4 {
		panic("kmsg: DescribeLogDirsRequest only supports version 4")
	}
	r.Version = v
}
func (r *DescribeLogDirsRequest) GetVersion() int16 { return r.Version }
func (*DescribeLogDirsRequest) IsFlexible() bool    { return true }

func (r *DescribeLogDirsRequest) AppendTo(dst []byte, w *kbin.Writer) []byte {
	w.AppendNullableArrayLen(len(r.Topics), r.Topics == nil, true)
	for _, t := range r.Topics {
		w.AppendCompactString(t.Topic)
		w.AppendArrayLen(len(t.Partitions), true)
		for _, p := range t.Partitions {
			w.AppendInt32(p)
		}
		w.AppendTaggedFieldsEmpty()
	}
	w.AppendTaggedFieldsEmpty()
	return append(dst, w.Bytes()...)
}

func (*DescribeLogDirsRequest) ResponseKind() Response { return &DescribeLogDirsResponse{} }

// DescribeLogDirsResponsePartition is one partition's footprint within a
// log directory.
type DescribeLogDirsResponsePartition struct {
	PartitionIndex int32
	PartitionSize  int64
	OffsetLag      int64
	IsFutureKey    bool
}

// DescribeLogDirsResponseTopic groups partition results under their topic.
type DescribeLogDirsResponseTopic struct {
	Topic      string
	Partitions []DescribeLogDirsResponsePartition
}

// DescribeLogDirsResponseResult is one log directory's report.
type DescribeLogDirsResponseResult struct {
	ErrorCode   int16
	LogDir      string
	Topics      []DescribeLogDirsResponseTopic
	TotalBytes  int64
	UsableBytes int64
}

// DescribeLogDirsResponse is the reply to DescribeLogDirsRequest.
type DescribeLogDirsResponse struct {
	Version int16

	ThrottleTimeMs int32
	ErrorCode      int16
	Results        []DescribeLogDirsResponseResult
}

func (*DescribeLogDirsResponse) Key() int16           { return 35 }
func (r *DescribeLogDirsResponse) SetVersion(v int16) { r.Version = v }
func (r *DescribeLogDirsResponse) GetVersion() int16  { return r.Version }
func (*DescribeLogDirsResponse) IsFlexible() bool     { return true }

func (r *DescribeLogDirsResponse) ReadFrom(reader *kbin.Reader) error {
	r.ThrottleTimeMs = reader.Int32()
	r.ErrorCode = reader.Int16()
	n := reader.ArrayLen(true, false)
	r.Results = make([]DescribeLogDirsResponseResult, n)
	for i := range r.Results {
		res := &r.Results[i]
		res.ErrorCode = reader.Int16()
		res.LogDir = reader.CompactString()
		tn := reader.ArrayLen(true, false)
		res.Topics = make([]DescribeLogDirsResponseTopic, tn)
		for j := range res.Topics {
			t := &res.Topics[j]
			t.Topic = reader.CompactString()
			pn := reader.ArrayLen(true, false)
			t.Partitions = make([]DescribeLogDirsResponsePartition, pn)
			for k := range t.Partitions {
				p := &t.Partitions[k]
				p.PartitionIndex = reader.Int32()
				p.PartitionSize = reader.Int64()
				p.OffsetLag = reader.Int64()
				p.IsFutureKey = reader.Bool()
				reader.ReadTaggedFields()
			}
			reader.ReadTaggedFields()
		}
		res.TotalBytes = reader.Int64()
		res.UsableBytes = reader.Int64()
		reader.ReadTaggedFields()
	}
	reader.ReadTaggedFields()
	return reader.Complete()
}

// Shard implements ShardedResponse: each log directory result with a
// non-zero error code is reported at "/results/<index>".
func (r *DescribeLogDirsResponse) Shard() map[string]int16 {
	errs := map[string]int16{}
	for i, res := range r.Results {
		if res.ErrorCode != 0 {
			errs[pathIndex("results", i)] = res.ErrorCode
		}
	}
	return errs
}
