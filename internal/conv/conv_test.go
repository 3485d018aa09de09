package conv

import "testing"

func TestIntToUint32(t *testing.T) {
	tests := []struct {
		name    string
		in      int
		want    uint32
		wantErr bool
	}{
		{"zero", 0, 0, false},
		{"positive", 1000, 1000, false},
		{"max_uint32", 4294967295, 4294967295, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IntToUint32(tt.in)
			if got != tt.want {
				t.Errorf("IntToUint32(%d) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestIntToUint32NegativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("IntToUint32(-1) should panic")
		}
	}()
	IntToUint32(-1)
}

func TestUint64ToUint32(t *testing.T) {
	got := Uint64ToUint32(12345)
	if got != 12345 {
		t.Errorf("Uint64ToUint32(12345) = %d, want 12345", got)
	}
}

func TestUint64ToUint32OverflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Uint64ToUint32(overflow) should panic")
		}
	}()
	Uint64ToUint32(1 << 40)
}
