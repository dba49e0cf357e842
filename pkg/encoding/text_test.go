package encoding

import "testing"

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		raw  []byte
	}{
		{"ascii", "platform_top", []byte("platform_top")},
		{"latin", "café", []byte{'c', 'a', 'f', 0xe9}},
		{"euro", "€5", []byte{0x80, '5'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeString(tt.in)
			if string(got) != string(tt.raw) {
				t.Errorf("EncodeString(%q) = %v, want %v", tt.in, got, tt.raw)
			}
			if back := DecodeString(got); back != tt.in {
				t.Errorf("DecodeString() = %q, want %q", back, tt.in)
			}
		})
	}
}

func TestEncodeUnmappable(t *testing.T) {
	got := ToDIF("a日b")
	if got != "a?b" {
		t.Errorf("ToDIF() = %q, want %q", got, "a?b")
	}
	if FromDIF(got) != "a?b" {
		t.Errorf("FromDIF() = %q", FromDIF(got))
	}
}
