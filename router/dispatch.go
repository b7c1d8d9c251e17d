package router

import (
	"errors"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/QuantumCc/router/neighbor"
	"github.com/QuantumCc/router/wire"
)

// pollInterval bounds how long the dispatcher waits on one neighbor's
// channel before moving on to poll the next (spec.md §5, "~100ms").
const pollInterval = 100 * time.Millisecond

// heartbeatInterval paces a periodic debug log of router state; it
// has no effect on message processing.
const heartbeatInterval = 30 * time.Second

// Dispatch implements spec.md §4.6: parses the frame's type field and
// invokes the matching processor. Unknown types are silently dropped.
func (r *Router) Dispatch(from *neighbor.Neighbor, raw []byte) error {
	env, err := wire.ParseEnvelope(raw)
	if err != nil {
		r.log.WithError(err).WithField("from", from.Name).Warn("dropping malformed frame")
		return nil
	}

	r.counters[env.Type]++

	switch env.Type {
	case wire.TypeUpdate:
		return r.HandleUpdate(from, env)
	case wire.TypeRevoke:
		return r.HandleRevoke(from, env)
	case wire.TypeData:
		return r.HandleData(from, env)
	case wire.TypeDump:
		return r.HandleDump(from, env)
	default:
		r.log.WithField("type", env.Type).Debug("dropping frame of unknown type")
		return nil
	}
}

// Run drives the single-threaded event loop: it round-robins the
// configured neighbor channels with a short read deadline on each,
// processing exactly one frame to completion before polling again.
// It returns when a channel signals shutdown (read error other than a
// deadline timeout), which is fatal per spec.md §7 ErrChannelClosed.
//
// The heartbeat log is emitted from this same loop, between polls,
// rather than from a separate timer goroutine: r.Table and r.counters
// are the dispatcher's exclusive, lock-free state (spec.md §7), so
// nothing but this goroutine may read them.
func (r *Router) Run() error {
	lastBeat := time.Now()

	buf := make([]byte, 65535)
	for {
		for i := range r.neighbors {
			n := &r.neighbors[i]
			if n.Channel == nil {
				continue
			}
			if err := n.Channel.SetReadDeadline(time.Now().Add(pollInterval)); err != nil {
				return errors.Join(ErrChannelClosed, err)
			}

			nr, err := n.Channel.Read(buf)
			if err != nil {
				if isTimeout(err) {
					continue // not ready this round; poll the next neighbor
				}
				r.log.WithField("neighbor", n.Name).WithError(err).Error("channel closed")
				return errors.Join(ErrChannelClosed, err)
			}

			frame := make([]byte, nr)
			copy(frame, buf[:nr])
			if err := r.Dispatch(n, frame); err != nil {
				return err
			}

			if time.Since(lastBeat) >= heartbeatInterval {
				r.logHeartbeat()
				lastBeat = time.Now()
			}
		}
	}
}

func (r *Router) logHeartbeat() {
	fields := logrus.Fields{"routes": len(r.Table.Entries())}
	for frameType, n := range r.counters {
		fields[frameType] = n
	}
	r.log.WithFields(fields).Debug("heartbeat")
}

func isTimeout(err error) bool {
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return errors.Is(err, os.ErrDeadlineExceeded)
}
