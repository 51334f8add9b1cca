// Package kmsg is the API descriptor catalog: a small, data-driven set of
// request/response struct pairs, one per (api_key, api_version) the
// connection engine supports, each knowing how to write and read its own
// wire body via pkg/kbin. Struct field order always matches Apache Kafka's
// public protocol schema for that (key, version) bit-exactly.
package kmsg

import (
	"strconv"

	"github.com/platformatic/kgo/pkg/kbin"
)

// pathIndex formats a JSON-pointer-style path segment for a per-element
// error at position i under field, e.g. pathIndex("topics", 1) ==
// "/topics/1".
func pathIndex(field string, i int) string {
	return "/" + field + "/" + strconv.Itoa(i)
}

// pathIndex2 formats a two-level JSON-pointer-style path, e.g.
// pathIndex2("topics", 0, "partitions", 2) == "/topics/0/partitions/2".
func pathIndex2(field string, i int, field2 string, j int) string {
	return pathIndex(field, i) + "/" + field2 + "/" + strconv.Itoa(j)
}

// Request is implemented by every request body this catalog defines.
type Request interface {
	// Key returns the request's api_key.
	Key() int16
	// MaxVersion returns the highest api_version this struct encodes.
	MaxVersion() int16
	// SetVersion pins the api_version to encode/decode as. Descriptors
	// in this catalog each support exactly one version, so SetVersion is
	// mostly a no-op guard that panics on mismatch; it exists so callers
	// and the connection engine can treat every request uniformly.
	SetVersion(v int16)
	// GetVersion returns the currently pinned api_version.
	GetVersion() int16
	// IsFlexible reports whether this (key, version) carries a trailing
	// tag buffer on its request header.
	IsFlexible() bool
	// AppendTo serializes the request body (not the request header) to
	// dst using w, returning the extended slice.
	AppendTo(dst []byte, w *kbin.Writer) []byte
	// ResponseKind returns a zero-valued Response of the matching type,
	// for the connection engine to decode into.
	ResponseKind() Response
}

// Response is implemented by every response body this catalog defines.
type Response interface {
	// Key returns the response's api_key (always equal to the
	// corresponding Request's Key()).
	Key() int16
	// SetVersion pins the api_version this struct was decoded from.
	SetVersion(v int16)
	// GetVersion returns the currently pinned api_version.
	GetVersion() int16
	// IsFlexible reports whether this (key, version) carries a trailing
	// tag buffer on its response header.
	IsFlexible() bool
	// ReadFrom decodes the response body (not the response header) from
	// r into the receiver.
	ReadFrom(r *kbin.Reader) error
}

// ShardedResponse is implemented by responses that carry per-element
// error_code fields the connection engine must aggregate into a
// ResponseError location map. Shard returns a map of
// JSON-pointer-style path to non-zero Kafka error code; a response with no
// non-zero error codes returns an empty map.
type ShardedResponse interface {
	Response
	Shard() map[string]int16
}

// RequestHeader is the fixed prefix every request frame carries ahead of
// its api-specific body: int16 api_key, int16 api_version, int32
// correlation_id, nullable_string client_id, and, for flexible versions, an
// empty tag buffer.
type RequestHeader struct {
	APIKey        int16
	APIVersion    int16
	CorrelationID int32
	ClientID      *string
}

// AppendTo writes the header fields, in order, to w. flexible selects
// whether a trailing empty tag buffer is appended.
func (h RequestHeader) AppendTo(w *kbin.Writer, flexible bool) {
	w.AppendInt16(h.APIKey)
	w.AppendInt16(h.APIVersion)
	w.AppendInt32(h.CorrelationID)
	w.AppendNullableString(h.ClientID, false)
	if flexible {
		w.AppendTaggedFieldsEmpty()
	}
}

// ResponseHeader is the fixed prefix every response frame carries ahead of
// its api-specific body: int32 correlation_id and, for flexible versions, a
// tag buffer.
type ResponseHeader struct {
	CorrelationID int32
}

// ReadFrom decodes the header's correlation_id from r, then, if flexible,
// skips the trailing tag buffer.
func (h *ResponseHeader) ReadFrom(r *kbin.Reader, flexible bool) {
	h.CorrelationID = r.Int32()
	if flexible {
		r.ReadTaggedFields()
	}
}

// SkipTags reads and discards a tag buffer that this package has no
// registered handler for — every flexible-version struct's tagged-fields
// block in this catalog, since no caller here registers a tag handler.
func SkipTags(r *kbin.Reader) {
	r.ReadTaggedFields()
}
