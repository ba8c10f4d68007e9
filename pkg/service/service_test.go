package service

import (
	"context"
	"errors"
	"testing"
)

type fakeService struct {
	name  string
	order *[]string
	err   error
}

func (f *fakeService) Run() { *f.order = append(*f.order, "run:"+f.name) }
func (f *fakeService) Shutdown(context.Context) error {
	*f.order = append(*f.order, "stop:"+f.name)
	return f.err
}
func (f *fakeService) String() string { return f.name }

func TestGroup(t *testing.T) {
	var order []string
	boom := errors.New("boom")

	g := Group{}
	g.Add(&fakeService{name: "a", order: &order}, "not runnable", &fakeService{name: "b", order: &order, err: boom})
	g.Start()
	err := g.Shutdown(context.Background())

	want := []string{"run:a", "run:b", "stop:b", "stop:a"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("got %v, want %v", order, want)
		}
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected the shutdown error, got %v", err)
	}
}

func TestGroupCanceledIsIgnored(t *testing.T) {
	var order []string
	g := Group{}
	g.Add(&fakeService{name: "a", order: &order, err: context.Canceled})
	if err := g.Shutdown(context.Background()); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}
