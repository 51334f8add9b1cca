package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// ConsumerGroupDescribeRequest is api key 69, version 0 (KIP-848 next-gen
// consumer group protocol).
type ConsumerGroupDescribeRequest struct {
	Version int16

	GroupIDs                    []string
	IncludeAuthorizedOperations bool
}

func (*ConsumerGroupDescribeRequest) Key() int16        { return 69 }
func (*ConsumerGroupDescribeRequest) MaxVersion() int16 { return 0 }
func (r *ConsumerGroupDescribeRequest) SetVersion(v int16) {
	if v != 0 {
		panic("kmsg: ConsumerGroupDescribeRequest only supports version 0")
	}
	r.Version = v
}
func (r *ConsumerGroupDescribeRequest) GetVersion() int16 { return r.Version }
func (*ConsumerGroupDescribeRequest) IsFlexible() bool    { return true }

func (r *ConsumerGroupDescribeRequest) AppendTo(dst []byte, w *kbin.Writer) []byte {
	w.AppendArrayLen(len(r.GroupIDs), true)
	for _, g := range r.GroupIDs {
		w.AppendCompactString(g)
	}
	w.AppendBool(r.IncludeAuthorizedOperations)
	w.AppendTaggedFieldsEmpty()
	return append(dst, w.Bytes()...)
}

func (*ConsumerGroupDescribeRequest) ResponseKind() Response {
	return &ConsumerGroupDescribeResponse{}
}

// ConsumerGroupDescribeResponseTopicPartitions names one topic's assigned
// partitions within a member assignment.
type ConsumerGroupDescribeResponseTopicPartitions struct {
	TopicID    [16]byte
	TopicName  string
	Partitions []int32
}

// ConsumerGroupDescribeResponseAssignment is a member's current or target
// partition assignment.
type ConsumerGroupDescribeResponseAssignment struct {
	TopicPartitions []ConsumerGroupDescribeResponseTopicPartitions
}

// ConsumerGroupDescribeResponseMember is one member of a described group.
type ConsumerGroupDescribeResponseMember struct {
	MemberID             string
	InstanceID           *string
	RackID               *string
	MemberEpoch          int32
	ClientID             string
	ClientHost           string
	SubscribedTopicNames []string
	SubscribedTopicRegex *string
	Assignment           ConsumerGroupDescribeResponseAssignment
	TargetAssignment     ConsumerGroupDescribeResponseAssignment
}

// ConsumerGroupDescribeResponseGroup is one described group's full state.
type ConsumerGroupDescribeResponseGroup struct {
	ErrorCode            int16
	ErrorMessage         *string
	GroupID              string
	GroupState           string
	GroupEpoch           int32
	AssignmentEpoch      int32
	AssignorName         string
	Members              []ConsumerGroupDescribeResponseMember
	AuthorizedOperations int32
}

// ConsumerGroupDescribeResponse is the reply to ConsumerGroupDescribeRequest.
type ConsumerGroupDescribeResponse struct {
	Version int16

	ThrottleTimeMs int32
	Groups         []ConsumerGroupDescribeResponseGroup
}

func (*ConsumerGroupDescribeResponse) Key() int16           { return 69 }
func (r *ConsumerGroupDescribeResponse) SetVersion(v int16) { r.Version = v }
func (r *ConsumerGroupDescribeResponse) GetVersion() int16  { return r.Version }
func (*ConsumerGroupDescribeResponse) IsFlexible() bool     { return true }

func (r *ConsumerGroupDescribeResponse) ReadFrom(reader *kbin.Reader) error {
	r.ThrottleTimeMs = reader.Int32()
	n := reader.ArrayLen(true, false)
	r.Groups = make([]ConsumerGroupDescribeResponseGroup, n)
	for i := range r.Groups {
		g := &r.Groups[i]
		g.ErrorCode = reader.Int16()
		g.ErrorMessage = reader.NullableString(true)
		g.GroupID = reader.CompactString()
		g.GroupState = reader.CompactString()
		g.GroupEpoch = reader.Int32()
		g.AssignmentEpoch = reader.Int32()
		g.AssignorName = reader.CompactString()
		mn := reader.ArrayLen(true, false)
		g.Members = make([]ConsumerGroupDescribeResponseMember, mn)
		for j := range g.Members {
			m := &g.Members[j]
			m.MemberID = reader.CompactString()
			m.InstanceID = reader.NullableString(true)
			m.RackID = reader.NullableString(true)
			m.MemberEpoch = reader.Int32()
			m.ClientID = reader.CompactString()
			m.ClientHost = reader.CompactString()
			tn := reader.ArrayLen(true, false)
			m.SubscribedTopicNames = make([]string, tn)
			for k := range m.SubscribedTopicNames {
				m.SubscribedTopicNames[k] = reader.CompactString()
			}
			m.SubscribedTopicRegex = reader.NullableString(true)
			m.Assignment = readAssignment(reader)
			m.TargetAssignment = readAssignment(reader)
			reader.ReadTaggedFields()
		}
		g.AuthorizedOperations = reader.Int32()
		reader.ReadTaggedFields()
	}
	reader.ReadTaggedFields()
	return reader.Complete()
}

func readAssignment(reader *kbin.Reader) ConsumerGroupDescribeResponseAssignment {
	var a ConsumerGroupDescribeResponseAssignment
	n := reader.ArrayLen(true, false)
	a.TopicPartitions = make([]ConsumerGroupDescribeResponseTopicPartitions, n)
	for i := range a.TopicPartitions {
		tp := &a.TopicPartitions[i]
		copy(tp.TopicID[:], reader.Span(16))
		tp.TopicName = reader.CompactString()
		pn := reader.ArrayLen(true, false)
		tp.Partitions = make([]int32, pn)
		for j := range tp.Partitions {
			tp.Partitions[j] = reader.Int32()
		}
		reader.ReadTaggedFields()
	}
	reader.ReadTaggedFields()
	return a
}

// Shard implements ShardedResponse: each group with a non-zero error code
// is reported at "/groups/<index>".
func (r *ConsumerGroupDescribeResponse) Shard() map[string]int16 {
	errs := map[string]int16{}
	for i, g := range r.Groups {
		if g.ErrorCode != 0 {
			errs[pathIndex("groups", i)] = g.ErrorCode
		}
	}
	return errs
}
