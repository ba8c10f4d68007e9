package api

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		t       PT
		payload string
		err     bool
	}{
		{name: "host", in: `{"t":10}`, t: Host},
		{name: "offer", in: `{"t":11,"p":{"type":"offer","sdp":"v=0"}}`, t: Offer, payload: `{"type":"offer","sdp":"v=0"}`},
		{name: "with id", in: `{"id":"x","t":13,"p":{"id":"a"}}`, t: Candidate, payload: `{"id":"a"}`},
		{name: "garbage", in: `{"t":`, err: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			in, err := Decode([]byte(test.in))
			if test.err {
				if err == nil {
					t.Errorf("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if in.T != test.t {
				t.Errorf("type %v != %v", in.T, test.t)
			}
			if string(in.Payload) != test.payload {
				t.Errorf("payload %s != %s", in.Payload, test.payload)
			}
		})
	}
}

func TestEncodeForwardedOffer(t *testing.T) {
	b, err := Encode(Out{T: Offer, Payload: SignalResponse{Id: "abc", Num: 2, Sdp: json.RawMessage(`{"sdp":"v=0"}`)}})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"t":11,"p":{"id":"abc","num":2,"sdp":{"sdp":"v=0"}}}`
	if string(b) != want {
		t.Errorf("got %s, want %s", b, want)
	}
}

func TestEncodeNoPayload(t *testing.T) {
	b, err := Encode(Out{T: ReOffer})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"t":14}` {
		t.Errorf("unexpected packet %s", b)
	}
}

func TestUnwrapChecked(t *testing.T) {
	if _, err := UnwrapChecked[AnswerRequest](nil); err != ErrMalformed {
		t.Errorf("empty payload should be malformed, got %v", err)
	}
	if _, err := UnwrapChecked[AnswerRequest]([]byte(`[1,2]`)); err != ErrMalformed {
		t.Errorf("array payload should be malformed, got %v", err)
	}
	rq, err := UnwrapChecked[AnswerRequest]([]byte(`{"id":"b","sdp":{"type":"answer"}}`))
	if err != nil {
		t.Fatal(err)
	}
	if rq.Id != "b" || string(rq.Sdp) != `{"type":"answer"}` {
		t.Errorf("unexpected request %+v", rq)
	}
}

func TestIsEmptyJSON(t *testing.T) {
	for raw, empty := range map[string]bool{"": true, "null": true, `""`: true, "{}": true, `{"a":1}`: false, `"x"`: false} {
		if IsEmptyJSON(json.RawMessage(raw)) != empty {
			t.Errorf("IsEmptyJSON(%q) != %v", raw, empty)
		}
	}
}
