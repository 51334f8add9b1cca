package kgo

import (
	"net"
	"time"
)

// Hook is a marker interface for connection lifecycle observers. A concrete
// hook implements one or more of the BrokerXHook interfaces below; hooks
// that implement none of them are accepted but never invoked.
type Hook interface{}

// BrokerConnectHook is called once after a dial attempt, success or not.
type BrokerConnectHook interface {
	OnConnect(host string, port int, dialDur time.Duration, err error)
}

// BrokerWriteHook is called after each frame the run loop writes directly.
// With backpressure handling enabled, frames the sink turns away and
// deferred frames later flushed on drain do not trigger it.
type BrokerWriteHook interface {
	OnWrite(host string, port int, apiKey int16, bytesWritten int, writeWait, timeToWrite time.Duration, err error)
}

// BrokerReadHook is called for each response frame that matches an
// in-flight request, with a nil err and a zero timeToRead.
type BrokerReadHook interface {
	OnRead(host string, port int, apiKey int16, bytesRead int, readWait, timeToRead time.Duration, err error)
}

// BrokerDisconnectHook is called once when the underlying socket is closed.
type BrokerDisconnectHook interface {
	OnDisconnect(host string, port int, conn net.Conn)
}

// BrokerThrottleHook is called when the connection is briefly held up; the
// engine's one such event is proactive SASL re-authentication starting.
type BrokerThrottleHook interface {
	OnThrottle(host string, port int, dur time.Duration, afterResponse bool)
}

// hooks is an ordered list of Hook invoked from the connection's
// connect/write/read/close paths. A hook that implements none of the
// sub-interfaces for a given event is simply skipped for that event.
type hooks []Hook

func (hs hooks) each(fn func(Hook)) {
	for _, h := range hs {
		fn(h)
	}
}
