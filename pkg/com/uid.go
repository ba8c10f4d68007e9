package com

import "github.com/rs/xid"

type Uid struct {
	xid.ID
}

var NilUid = Uid{xid.NilID()}

func NewUid() Uid { return Uid{xid.New()} }

// UidFromString parses the string form of an id.
func UidFromString(id string) (Uid, error) {
	x, err := xid.FromString(id)
	if err != nil {
		return NilUid, err
	}
	return Uid{x}, nil
}

func (u Uid) IsEmpty() bool { return u.IsNil() }
func (u Uid) Short() string { return u.String()[:3] + "." + u.String()[len(u.String())-3:] }
