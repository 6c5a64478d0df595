package hearttree

import "testing"

func TestInjectClick(t *testing.T) {
	bs, yes, no := newTestButtons()
	bs.InjectClick(50, 25)
	if bs.Pending() != 2 {
		t.Fatalf("Pending = %d, want 2", bs.Pending())
	}

	bs.Update()
	if *yes != 0 {
		t.Error("press alone should not click")
	}
	bs.Update()
	if *yes != 1 || *no != 0 {
		t.Errorf("clicks = %d/%d, want 1/0", *yes, *no)
	}
	if bs.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", bs.Pending())
	}
}

func TestInjectPressRelease(t *testing.T) {
	bs, yes, no := newTestButtons()
	bs.InjectPress(250, 10)
	bs.InjectRelease(20, 10)
	bs.Update()
	bs.Update()
	if *yes != 0 || *no != 0 {
		t.Errorf("clicks = %d/%d, want none when released on another button", *yes, *no)
	}
}

func TestInjectQueueOrder(t *testing.T) {
	bs, yes, no := newTestButtons()
	bs.InjectClick(250, 10)
	bs.InjectClick(10, 10)
	for range 4 {
		bs.Update()
	}
	if *yes != 1 || *no != 1 {
		t.Errorf("clicks = %d/%d, want 1/1", *yes, *no)
	}
}
