// Package wire defines the JSON envelope and message bodies exchanged
// with neighbors, and validates inbound bodies before they reach the
// route table.
package wire

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// ErrMalformed is returned for a frame that fails to parse or fails
// struct validation.
var ErrMalformed = errors.New("malformed message")

var validate = validator.New()

// Type values for Envelope.Type.
const (
	TypeUpdate  = "update"
	TypeRevoke  = "revoke"
	TypeData    = "data"
	TypeDump    = "dump"
	TypeTable   = "table"
	TypeNoRoute = "no route"
)

// Envelope is the outer frame every message arrives and is sent in.
type Envelope struct {
	Src  string          `json:"src" validate:"required"`
	Dst  string          `json:"dst" validate:"required"`
	Type string          `json:"type" validate:"required"`
	Msg  json.RawMessage `json:"msg"`
}

// ParseEnvelope unmarshals and validates a raw frame.
func ParseEnvelope(raw []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return Envelope{}, errors.Wrap(ErrMalformed, err.Error())
	}
	if err := validate.Struct(e); err != nil {
		return Envelope{}, errors.Wrap(ErrMalformed, err.Error())
	}
	return e, nil
}

// UpdateBody is the body of an "update" message.
type UpdateBody struct {
	Network    string   `json:"network" validate:"required"`
	Netmask    string   `json:"netmask" validate:"required"`
	LocalPref  uint32   `json:"localpref"`
	SelfOrigin bool     `json:"selfOrigin"`
	ASPath     []uint32 `json:"ASPath"`
	Origin     string   `json:"origin" validate:"required,oneof=IGP EGP UNK"`
}

// ParseUpdateBody unmarshals and validates an update body.
func ParseUpdateBody(raw json.RawMessage) (UpdateBody, error) {
	var b UpdateBody
	if err := json.Unmarshal(raw, &b); err != nil {
		return UpdateBody{}, errors.Wrap(ErrMalformed, err.Error())
	}
	if err := validate.Struct(b); err != nil {
		return UpdateBody{}, errors.Wrap(ErrMalformed, err.Error())
	}
	return b, nil
}

// RevokeWithdrawal is one (network, netmask) pair in a revoke body.
type RevokeWithdrawal struct {
	Network string `json:"network" validate:"required"`
	Netmask string `json:"netmask" validate:"required"`
}

// ParseRevokeBody unmarshals and validates a revoke body: an array of
// withdrawals.
func ParseRevokeBody(raw json.RawMessage) ([]RevokeWithdrawal, error) {
	var w []RevokeWithdrawal
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	for _, e := range w {
		if err := validate.Struct(e); err != nil {
			return nil, errors.Wrap(ErrMalformed, err.Error())
		}
	}
	return w, nil
}

// TableEntry is one row of a "table" dump reply.
type TableEntry struct {
	Network string `json:"network"`
	Netmask string `json:"netmask"`
	Peer    string `json:"peer"`
}
