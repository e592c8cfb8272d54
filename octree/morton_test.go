package octree

import (
	"testing"
	"testing/quick"
)

func TestEncode3RoundTrip(t *testing.T) {
	f := func(x, y, z uint8) bool {
		a, b, c := Decode3(Encode3(x, y, z))
		return a == x && b == y && c == z
	}
	if x := uint8((1 << 8) - 1); !f(x, x, x) {
		t.Fatalf("sanity check: failed on input %0X", x)
	}
	cfg := &quick.Config{MaxCount: 1 << 14}
	if err := quick.Check(f, cfg); err != nil {
		t.Fatal(err)
	}
}

func TestEncode3Ordering(t *testing.T) {
	// Each listed triple sets a bit on a more significant axis (z, then y,
	// then x) or saturates all three, so its code must not be smaller than
	// the previous one. Morton order does not follow lexicographic (x,y,z)
	// order in general; only these cases are checked.
	cases := []struct{ x, y, z uint8 }{
		{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {1, 0, 0}, {255, 255, 255},
	}
	var prev uint32
	for i, c := range cases {
		code := Encode3(c.x, c.y, c.z)
		if i > 0 && code < prev {
			t.Fatalf("case %d: code %d went backwards from %d", i, code, prev)
		}
		prev = code
	}
}
