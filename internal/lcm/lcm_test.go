package lcm

import (
	"encoding/json"
	"testing"
)

func TestParseConnector(t *testing.T) {
	tests := []struct {
		in   string
		want Connector
	}{
		{"NOTUSED", NotUsed},
		{"unused", NotUsed},
		{"ANDD", And},
		{"and", And},
		{" ORR ", Or},
		{"Or", Or},
	}
	for _, tt := range tests {
		got, err := ParseConnector(tt.in)
		if err != nil {
			t.Fatalf("ParseConnector(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseConnector(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseConnectorUnknown(t *testing.T) {
	if _, err := ParseConnector("XOR"); err == nil {
		t.Fatal("expected error for unknown connector")
	}
}

func TestZeroValueIsNotUsed(t *testing.T) {
	var m Matrix
	if m[3][7] != NotUsed {
		t.Fatalf("expected NOTUSED zero value, got %s", m[3][7])
	}
}

func TestMatrixJSONRoundTripsConnectorNames(t *testing.T) {
	m := Filled(NotUsed)
	m.Set(0, 1, And)
	m[2][3] = Or

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Matrix
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != m {
		t.Fatal("matrix changed across JSON")
	}
	if back[3][2] != NotUsed {
		t.Fatalf("direct assignment must not mirror, got %s", back[3][2])
	}
	if back[1][0] != And {
		t.Fatalf("Set must mirror, got %s", back[1][0])
	}
}

func TestMarshalTextInvalid(t *testing.T) {
	if _, err := Connector(9).MarshalText(); err == nil {
		t.Fatal("expected error for out-of-range connector")
	}
}

func TestUnmarshalRejectsUnknown(t *testing.T) {
	var c Connector
	if err := json.Unmarshal([]byte(`"NAND"`), &c); err == nil {
		t.Fatal("expected error for unknown connector")
	}
}
