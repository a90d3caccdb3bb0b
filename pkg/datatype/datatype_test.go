package datatype

import "testing"

func TestCompat(t *testing.T) {
	tests := []struct {
		target, source DataType
		want            bool
	}{
		{INT, INT, true},
		{FLOAT, FLOAT, true},
		{BOOL, BOOL, true},
		{FLOAT, INT, true},
		{BOOL, INT, true},
		{INT, BOOL, true},
		{INT, FLOAT, false},
		{FLOAT, BOOL, false},
		{BOOL, FLOAT, false},
		{IOTA, INT, false},
	}
	for _, tt := range tests {
		if got := Compat(tt.target, tt.source); got != tt.want {
			t.Errorf("Compat(%s, %s) = %v, want %v", tt.target, tt.source, got, tt.want)
		}
	}
}

func TestNumeric(t *testing.T) {
	if !Numeric(INT) || !Numeric(FLOAT) {
		t.Error("expected INT and FLOAT to be numeric")
	}
	if Numeric(BOOL) || Numeric(IOTA) {
		t.Error("expected BOOL and IOTA to not be numeric")
	}
}

func TestFromKeyword(t *testing.T) {
	tests := map[string]BaseType{"int": BaseInt, "float": BaseFloat, "bool": BaseBool}
	for kw, want := range tests {
		got, ok := FromKeyword(kw)
		if !ok || got != want {
			t.Errorf("FromKeyword(%q) = (%v, %v), want (%v, true)", kw, got, ok, want)
		}
	}
	if _, ok := FromKeyword("string"); ok {
		t.Error("expected FromKeyword(\"string\") to fail")
	}
}

func TestBaseTypeToDataType(t *testing.T) {
	if BaseInt.ToDataType() != INT || BaseFloat.ToDataType() != FLOAT || BaseBool.ToDataType() != BOOL {
		t.Error("ToDataType mapping is incorrect")
	}
}
