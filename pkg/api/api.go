// Package api defines the signaling protocol spoken between browsers and the coordinator.
//
// Each message (in both directions) is a JSON-encoded "packet" of the following structure:
//
//	id - (optional) a packet id, echoed back when a client wants to track a reply;
//	 t - (required) one of the predefined packet types;
//	 p - (optional) packet payload with arbitrary data.
//
// The coordinator never looks inside session descriptions or ICE candidates,
// these travel as raw JSON from one browser to another.
//
// Example:
//
//	{"t":11,"p":{"id":"cfv68irdrc3ifu3jn6bg","num":3,"sdp":{"type":"offer","sdp":"v=0..."}}}
package api

import (
	"errors"

	"github.com/goccy/go-json"
)

type PT uint8

type In struct {
	Id      string          `json:"id,omitempty"`
	T       PT              `json:"t"`
	Payload json.RawMessage `json:"p,omitempty"` // should be json.RawMessage for 2-pass unmarshal
}

type Out struct {
	Id      string `json:"id,omitempty"`
	T       PT     `json:"t"`
	Payload any    `json:"p,omitempty"`
}

// Packet codes:
//
//	x  - session bootstrap
//	1x - tree signaling
const (
	NumberId          PT = 1
	InitSession       PT = 2
	Host              PT = 10
	Offer             PT = 11
	Answer            PT = 12
	Candidate         PT = 13
	ReOffer           PT = 14
	ChildDisconnected PT = 15
	Tree              PT = 16
)

func (p PT) String() string {
	switch p {
	case NumberId:
		return "NumberId"
	case InitSession:
		return "InitSession"
	case Host:
		return "Host"
	case Offer:
		return "Offer"
	case Answer:
		return "Answer"
	case Candidate:
		return "Candidate"
	case ReOffer:
		return "ReOffer"
	case ChildDisconnected:
		return "ChildDisconnected"
	case Tree:
		return "Tree"
	default:
		return "Unknown"
	}
}

var ErrMalformed = errors.New("malformed")

func Unwrap[T any](data []byte) *T {
	out := new(T)
	if err := json.Unmarshal(data, out); err != nil {
		return nil
	}
	return out
}

// UnwrapChecked decodes data into T, any decoding error is reported as ErrMalformed.
func UnwrapChecked[T any](data []byte) (*T, error) {
	if len(data) == 0 {
		return nil, ErrMalformed
	}
	out := Unwrap[T](data)
	if out == nil {
		return nil, ErrMalformed
	}
	return out, nil
}

// Encode serializes an outgoing packet.
func Encode(out Out) ([]byte, error) { return json.Marshal(out) }

// Decode parses an incoming packet.
func Decode(data []byte) (In, error) {
	var in In
	err := json.Unmarshal(data, &in)
	return in, err
}
