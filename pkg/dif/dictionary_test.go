package dif

import "testing"

func TestDictionaryOrder(t *testing.T) {
	var d Dictionary
	d.Add("speed", "1")
	d.Add("skin", "base")
	d.Add("speed", "2")

	if len(d) != 3 {
		t.Fatalf("len = %d, want 3", len(d))
	}
	if d[2].Key != "speed" || d[2].Value != "2" {
		t.Errorf("d[2] = %+v, want speed=2", d[2])
	}
	if v, ok := d.Get("speed"); !ok || v != "1" {
		t.Errorf("Get(speed) = %q, %v; want first value", v, ok)
	}
	if _, ok := d.Get("missing"); ok {
		t.Error("Get(missing) reported found")
	}
}

func TestDictionaryClone(t *testing.T) {
	d := Dictionary{{Key: "a", Value: "1"}}
	c := d.Clone()
	c[0].Value = "2"
	c.Add("b", "3")
	if d[0].Value != "1" || len(d) != 1 {
		t.Errorf("source dictionary changed: %+v", d)
	}
	if Dictionary(nil).Clone() != nil {
		t.Error("Clone of nil is not nil")
	}
}
