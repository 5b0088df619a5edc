package mathx

import (
	"testing"
	"time"
)

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 0, 3) != 2 {
		t.Fatal("Clamp int wrong")
	}
	if Clamp(2, 3, 0) != 2 {
		t.Fatal("Clamp should accept swapped bounds")
	}
	if got := Clamp(time.Millisecond, 10*time.Millisecond, time.Hour); got != 10*time.Millisecond {
		t.Fatalf("Clamp duration = %v", got)
	}
}
