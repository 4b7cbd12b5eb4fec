package ringbuf

import "testing"

func TestCircularOverwriteScenario(t *testing.T) {
	// push 35 integers 0..34 into a capacity-32 buffer; iteration yields
	// 3..34 in order, Len() is 32, Last() is 34.
	buf := New[int](32)
	for i := 0; i < 35; i++ {
		buf.Push(i)
	}

	if got := buf.Len(); got != 32 {
		t.Fatalf("Len() = %d, want 32", got)
	}

	last, ok := buf.Last()
	if !ok || last != 34 {
		t.Fatalf("Last() = (%d, %v), want (34, true)", last, ok)
	}

	want := make([]int, 32)
	for i := range want {
		want[i] = i + 3
	}
	got := buf.Values()
	if len(got) != len(want) {
		t.Fatalf("Values() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Values()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestIterationInvariantGeneral(t *testing.T) {
	// for any sequence of pushes v_1..v_k, iterating after all pushes
	// yields exactly the last min(k, capacity) values in order.
	cases := []struct {
		capacity int
		pushes   int
	}{
		{8, 3}, {8, 8}, {8, 9}, {8, 100}, {1, 5}, {3, 3}, {16, 1},
	}
	for _, c := range cases {
		buf := New[int](c.capacity)
		for i := 0; i < c.pushes; i++ {
			buf.Push(i)
		}
		want := c.pushes
		if want > buf.Cap() {
			want = buf.Cap()
		}
		got := buf.Values()
		if len(got) != want {
			t.Fatalf("capacity=%d pushes=%d: len(Values())=%d want %d", c.capacity, c.pushes, len(got), want)
		}
		first := c.pushes - want
		for i, v := range got {
			if v != first+i {
				t.Fatalf("capacity=%d pushes=%d: Values()[%d]=%d want %d", c.capacity, c.pushes, i, v, first+i)
			}
		}
	}
}

func TestLenBeforeFill(t *testing.T) {
	buf := New[int](8)
	if buf.Len() != 0 {
		t.Fatalf("empty buffer Len() = %d, want 0", buf.Len())
	}
	if _, ok := buf.Last(); ok {
		t.Fatal("Last() on empty buffer should report ok=false")
	}
	buf.Push(1)
	buf.Push(2)
	if buf.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", buf.Len())
	}
}

func TestCapacityRoundsUpToPowerOfTwo(t *testing.T) {
	buf := New[int](10_000)
	if buf.Cap() != 16384 {
		t.Fatalf("Cap() = %d, want 16384", buf.Cap())
	}
}

func TestForEachMatchesValues(t *testing.T) {
	buf := New[int](4)
	for i := 0; i < 10; i++ {
		buf.Push(i)
	}
	var collected []int
	buf.ForEach(func(_ int, v int) bool {
		collected = append(collected, v)
		return true
	})
	values := buf.Values()
	if len(collected) != len(values) {
		t.Fatalf("ForEach collected %d, Values() has %d", len(collected), len(values))
	}
	for i := range values {
		if collected[i] != values[i] {
			t.Fatalf("ForEach[%d] = %d, Values()[%d] = %d", i, collected[i], i, values[i])
		}
	}
}
