package config

import (
	"fmt"

	"github.com/pion/stun/v3"
	"github.com/pion/webrtc/v4"
)

type Webrtc struct {
	IceServers []IceServer
}

type IceServer struct {
	Urls       []string
	Username   string
	Credential string
}

// Validate checks that every URL is a proper STUN/TURN address
// and that TURN servers have credentials.
func (w *Webrtc) Validate() error {
	for _, ice := range w.IceServers {
		if len(ice.Urls) == 0 {
			return fmt.Errorf("ice server without urls: %+v", ice)
		}
		for _, u := range ice.Urls {
			uri, err := stun.ParseURI(u)
			if err != nil {
				return fmt.Errorf("ice server %v: %w", u, err)
			}
			if uri.Scheme == stun.SchemeTypeTURN || uri.Scheme == stun.SchemeTypeTURNS {
				if ice.Username == "" || ice.Credential == "" {
					return fmt.Errorf("TURN or TURNS servers should have both username and credential: %v", u)
				}
			}
		}
	}
	return nil
}

// ICEServers converts the list into what browsers expect in RTCConfiguration.
func (w *Webrtc) ICEServers() []webrtc.ICEServer {
	out := make([]webrtc.ICEServer, 0, len(w.IceServers))
	for _, ice := range w.IceServers {
		s := webrtc.ICEServer{URLs: ice.Urls, Username: ice.Username}
		if ice.Credential != "" {
			s.Credential = ice.Credential
		}
		out = append(out, s)
	}
	return out
}
