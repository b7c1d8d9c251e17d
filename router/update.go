package router

import (
	"encoding/json"

	"github.com/QuantumCc/router/history"
	"github.com/QuantumCc/router/ipaddr"
	"github.com/QuantumCc/router/neighbor"
	"github.com/QuantumCc/router/policy"
	"github.com/QuantumCc/router/rib"
	"github.com/QuantumCc/router/wire"
)

// HandleUpdate implements spec.md §4.4 "On update": record history,
// insert the learned route (local ASN appended once), coalesce, and
// re-advertise to the neighbors policy permits, ASPath prepended with
// the local ASN exactly once.
func (r *Router) HandleUpdate(from *neighbor.Neighbor, env wire.Envelope) error {
	body, err := wire.ParseUpdateBody(env.Msg)
	if err != nil {
		r.log.WithError(err).Warn("dropping malformed update")
		return nil
	}

	netmask, err := ipaddr.ToUint32(body.Netmask)
	if err != nil {
		r.log.WithError(err).Warn("dropping update with unparseable netmask")
		return nil
	}
	if err := ipaddr.Validate(netmask); err != nil {
		r.log.WithError(err).Warn("dropping update with invalid mask")
		return nil
	}
	network, err := ipaddr.ToUint32(body.Network)
	if err != nil {
		r.log.WithError(err).Warn("dropping update with unparseable network")
		return nil
	}

	r.History.Append(history.Record{Type: wire.TypeUpdate, From: from.Addr, Msg: env.Msg})

	asPath := make([]uint32, len(body.ASPath)+1)
	copy(asPath, body.ASPath)
	asPath[len(body.ASPath)] = r.ASN

	r.Table.Insert(rib.Entry{
		Network:    network,
		Netmask:    netmask,
		Peer:       from.Addr,
		LocalPref:  body.LocalPref,
		SelfOrigin: body.SelfOrigin,
		ASPath:     asPath,
		Origin:     rib.Origin(body.Origin),
	})
	r.Table.Coalesce()

	forwardPath := make([]uint32, 1+len(body.ASPath))
	forwardPath[0] = r.ASN
	copy(forwardPath[1:], body.ASPath)
	forwardBody := body
	forwardBody.ASPath = forwardPath

	for _, egress := range r.egressSet(from, policy.CanPropagateAnnouncement) {
		if err := r.sendUpdate(egress, forwardBody); err != nil {
			r.log.WithError(err).WithField("to", egress.Name).Warn("failed to advertise update")
		}
	}
	return nil
}

// HandleRevoke implements spec.md §4.4 "On revoke": record history,
// rebuild the table from scratch by replaying it (the only way to
// correctly disaggregate a coalesced prefix), coalesce, and propagate
// the original withdrawal list to the same egress set.
func (r *Router) HandleRevoke(from *neighbor.Neighbor, env wire.Envelope) error {
	withdrawals, err := wire.ParseRevokeBody(env.Msg)
	if err != nil {
		r.log.WithError(err).Warn("dropping malformed revoke")
		return nil
	}

	r.History.Append(history.Record{Type: wire.TypeRevoke, From: from.Addr, Msg: env.Msg})

	rebuilt, err := history.Replay(r.History.Records(), r.ASN)
	if err != nil {
		return err
	}
	rebuilt.Coalesce()
	r.Table = rebuilt

	for _, egress := range r.egressSet(from, policy.CanPropagateAnnouncement) {
		if err := r.sendRevoke(egress, withdrawals); err != nil {
			r.log.WithError(err).WithField("to", egress.Name).Warn("failed to advertise revoke")
		}
	}
	return nil
}

func (r *Router) sendUpdate(to *neighbor.Neighbor, body wire.UpdateBody) error {
	msg, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return r.send(to, wire.Envelope{
		Src:  ipaddr.String(to.RouterAddr),
		Dst:  to.Name,
		Type: wire.TypeUpdate,
		Msg:  msg,
	})
}

func (r *Router) sendRevoke(to *neighbor.Neighbor, withdrawals []wire.RevokeWithdrawal) error {
	msg, err := json.Marshal(withdrawals)
	if err != nil {
		return err
	}
	return r.send(to, wire.Envelope{
		Src:  ipaddr.String(to.RouterAddr),
		Dst:  to.Name,
		Type: wire.TypeRevoke,
		Msg:  msg,
	})
}

func (r *Router) send(to *neighbor.Neighbor, env wire.Envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	_, err = to.Channel.Write(raw)
	return err
}
