package ordered

import (
	"encoding/json"
	"testing"
)

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := NewMap[int]()
	m.Set("c", 3)
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 10) // update, should not move position

	want := []string{"c", "a", "b"}
	got := m.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", got, want)
		}
	}
	if v, _ := m.Get("a"); v != 10 {
		t.Errorf("Get(a) = %d, want 10", v)
	}
}

func TestMapDelete(t *testing.T) {
	m := NewMap[int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)
	m.Delete("b")
	want := []string{"a", "c"}
	got := m.Keys()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Keys() after delete = %v, want %v", got, want)
	}
	if _, ok := m.Get("b"); ok {
		t.Error("expected b to be gone")
	}
}

func TestMapJSONRoundTripPreservesOrder(t *testing.T) {
	m := NewMap[int]()
	m.Set("zebra", 1)
	m.Set("apple", 2)
	m.Set("mango", 3)

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	const want = `{"zebra":1,"apple":2,"mango":3}`
	if string(data) != want {
		t.Fatalf("Marshal() = %s, want %s", data, want)
	}

	var m2 Map[int]
	if err := json.Unmarshal(data, &m2); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got := m2.Keys(); len(got) != 3 || got[0] != "zebra" || got[1] != "apple" || got[2] != "mango" {
		t.Fatalf("Unmarshal keys = %v", got)
	}
}
