package api

import (
	"github.com/goccy/go-json"
	"github.com/pion/webrtc/v4"
)

type (
	// AnswerRequest is a parent's answer addressed to the offering session.
	AnswerRequest struct {
		Id  string          `json:"id"`
		Sdp json.RawMessage `json:"sdp"`
	}
	// CandidateRequest carries one ICE candidate for the named session.
	CandidateRequest struct {
		Id        string          `json:"id"`
		Candidate json.RawMessage `json:"candidate"`
	}
)

type (
	InitSessionResponse struct {
		Ice []webrtc.ICEServer `json:"ice"`
	}
	// SignalResponse is a forwarded offer or answer.
	SignalResponse struct {
		Id  string          `json:"id"`
		Num int             `json:"num"`
		Sdp json.RawMessage `json:"sdp"`
	}
	CandidateResponse struct {
		Id        string          `json:"id"`
		Candidate json.RawMessage `json:"candidate"`
	}
	ChildDisconnectedResponse struct {
		Id string `json:"id"`
	}
)

// IsEmptyJSON tells if the raw value carries no usable data.
func IsEmptyJSON(raw json.RawMessage) bool {
	s := string(raw)
	return s == "" || s == "null" || s == `""` || s == "{}"
}
