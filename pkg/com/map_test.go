package com

import (
	"sync"
	"sync/atomic"
	"testing"
)

type testClient struct {
	id Uid
	c  int32
}

func (t *testClient) Id() Uid      { return t.id }
func (t *testClient) Disconnect()  {}
func (t *testClient) change(n int) { atomic.AddInt32(&t.c, int32(n)) }
func newTestClient() *testClient   { return &testClient{id: NewUid()} }

func TestPointerValue(t *testing.T) {
	m := NewNetMap[Uid, *testClient]()
	c := newTestClient()
	m.Add(c)
	fc, _ := m.Find(c.Id())
	c.change(100)
	fc2, _ := m.Find(fc.Id())

	expected := c.c == fc.c && c.c == fc2.c
	if !expected {
		t.Errorf("not expected change, o: %v != %v != %v", c.c, fc.c, fc2.c)
	}
}

func TestPop(t *testing.T) {
	m := NewNetMap[Uid, *testClient]()
	c := newTestClient()
	m.Add(c)

	v, err := m.Pop(c.Id())
	if err != nil || v != c {
		t.Fatalf("pop failed: %v %v", v, err)
	}
	if _, err = m.Pop(c.Id()); err != ErrNotFound {
		t.Errorf("second pop should fail with %v, got %v", ErrNotFound, err)
	}
	if !m.IsEmpty() {
		t.Errorf("map should be empty")
	}
}

func TestConcurrentPut(t *testing.T) {
	m := NewMap[int, int]()
	var wg sync.WaitGroup
	const n = 100
	wg.Add(n)
	for i := range n {
		go func() { defer wg.Done(); m.Put(i, i) }()
	}
	wg.Wait()
	if m.Len() != n || len(m.Values()) != n {
		t.Errorf("expected %v values, got %v", n, m.Len())
	}
}

func TestUidFromString(t *testing.T) {
	id := NewUid()
	parsed, err := UidFromString(id.String())
	if err != nil || parsed != id {
		t.Errorf("roundtrip failed: %v %v", parsed, err)
	}
	if _, err = UidFromString("not an id"); err == nil {
		t.Errorf("expected an error")
	}
	if len(id.Short()) != 7 {
		t.Errorf("unexpected short id %v", id.Short())
	}
}
