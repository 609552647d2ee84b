package stations

import (
	"math"
	"testing"
)

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"Decimal", "48.2085", 48.2085, true},
		{"Negative", "-77.04", -77.04, true},
		{"Integer", "16", 16, true},
		{"Surrounding_Whitespace", "  48.1 ", 48.1, true},
		{"Exponent", "1e2", 100, true},
		{"Out_Of_Range_Still_Numeric", "1000", 1000, true},
		{"Empty", "", 0, false},
		{"Blank", "   ", 0, false},
		{"Letters", "abc", 0, false},
		{"Comma_Decimal", "48,2", 0, false},
		{"Trailing_Garbage", "48.2abc", 0, false},
		{"NaN", "NaN", 0, false},
		{"Infinity", "Inf", 0, false},
		{"Negative_Infinity", "-Infinity", 0, false},
		{"Overflow", "1e400", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCoordinate(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseCoordinate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseCoordinate(%q) = %f, want %f", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCoordinates(t *testing.T) {
	coords, ok := ParseCoordinates("48.2", "16.3")
	if !ok {
		t.Fatal("Expected valid coordinates")
	}
	if coords.Lat != 48.2 || coords.Lon != 16.3 {
		t.Errorf("Unexpected coordinates %+v", coords)
	}

	if _, ok := ParseCoordinates("abc", "16.0"); ok {
		t.Error("Non-numeric latitude should be rejected")
	}
	if _, ok := ParseCoordinates("48.2", ""); ok {
		t.Error("Missing longitude should be rejected")
	}
}

func TestInRange(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lon  float64
		want bool
	}{
		{"Vienna", 48.2, 16.3, true},
		{"Corners", -90, 180, true},
		{"Lat_Too_High", 90.1, 0, false},
		{"Lon_Too_Low", 0, -180.5, false},
		{"Far_Out", 1000, 2000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InRange(tt.lat, tt.lon); got != tt.want {
				t.Errorf("InRange(%f, %f) = %v, want %v", tt.lat, tt.lon, got, tt.want)
			}
		})
	}
}

func TestRenderable(t *testing.T) {
	if !Renderable(1000, 2000) {
		t.Error("Out-of-range numbers should stay renderable")
	}
	if Renderable(math.NaN(), 16.3) {
		t.Error("NaN latitude should not be renderable")
	}
	if Renderable(48.2, math.Inf(1)) {
		t.Error("Infinite longitude should not be renderable")
	}
}
