package queue

import (
	"testing"
)

func TestDequeueOrder(t *testing.T) {
	q := From(1, 2, 3)

	for _, want := range []int{1, 2, 3} {
		item, ok := q.Dequeue()
		if !ok || item != want {
			t.Errorf("expected to dequeue %d but got %d", want, item)
		}
	}

	if _, ok := q.Dequeue(); ok {
		t.Error("expected Dequeue on empty queue to return false")
	}
}

func TestPushFrontKeepsOrder(t *testing.T) {
	q := From("@args.txt", "--tail")

	head, _ := q.Dequeue()
	if head != "@args.txt" {
		t.Fatalf("expected @args.txt, got %q", head)
	}
	q.PushFront("--db.host", "local")
	if q.Len() != 3 {
		t.Fatalf("expected 3 items, got %d", q.Len())
	}

	var got []string
	for q.Len() > 0 {
		item, _ := q.Dequeue()
		got = append(got, item)
	}
	want := []string{"--db.host", "local", "--tail"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
}

func TestEmpty(t *testing.T) {
	q := From[int]()

	if q.Len() != 0 {
		t.Errorf("expected length of new queue to be 0, but got %d", q.Len())
	}
	q.PushFront()
	if _, ok := q.Dequeue(); ok {
		t.Error("expected Dequeue on an empty queue to return false")
	}
}

func TestWithStructs(t *testing.T) {
	type testStruct struct {
		value int
	}

	q := From(testStruct{1})
	q.PushFront(testStruct{0})

	item, ok := q.Dequeue()
	if !ok || item.value != 0 {
		t.Errorf("expected to dequeue testStruct{0} but got %v", item)
	}
}
