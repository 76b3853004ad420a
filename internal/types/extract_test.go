package types

import (
	"encoding/json"
	"testing"
)

func TestExtractString(t *testing.T) {
	tests := []struct {
		name string
		arg  any
		want string
	}{
		{"string", "  Loro Piana ", "Loro Piana"},
		{"float64", 1240.5, "1240.5"},
		{"json.Number", json.Number("980"), "980"},
		{"int", 7, "7"},
		{"bool", true, "true"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractString(tt.arg); got != tt.want {
				t.Errorf("ExtractString(%v) = %q, want %q", tt.arg, got, tt.want)
			}
		})
	}
}

func TestExtractFloat64(t *testing.T) {
	tests := []struct {
		name   string
		arg    any
		want   float64
		wantOK bool
	}{
		{"float64", 1240.0, 1240, true},
		{"int", 500, 500, true},
		{"json.Number", json.Number("19.99"), 19.99, true},
		{"plain string", "1240", 1240, true},
		{"dollar string", "$1,240.00", 1240, true},
		{"currency suffix", "980 USD", 980, true},
		{"currency prefix", "USD 980", 980, true},
		{"no digits", "price on request", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractFloat64(tt.arg)
			if ok != tt.wantOK {
				t.Fatalf("ExtractFloat64(%v) ok = %v, want %v", tt.arg, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ExtractFloat64(%v) = %v, want %v", tt.arg, got, tt.want)
			}
		})
	}
}

func TestRawProduct_KeyAliases(t *testing.T) {
	raw := RawProduct{
		"title":     "Cable Knit",
		"image_url": "https://img.example/1.jpg",
		"cost":      "$450",
		"empty":     "",
	}

	if got := raw.String("name", "title"); got != "Cable Knit" {
		t.Errorf("String(name,title) = %q", got)
	}
	if got := raw.String("empty", "image", "image_url"); got != "https://img.example/1.jpg" {
		t.Errorf("String(image aliases) = %q", got)
	}
	if got, ok := raw.Float("price", "cost"); !ok || got != 450 {
		t.Errorf("Float(price,cost) = %v, %v", got, ok)
	}
	if _, ok := raw.Float("price"); ok {
		t.Error("Float(price) should report missing")
	}
}

func TestParseAvailability(t *testing.T) {
	cases := map[string]Availability{
		"In Stock":      AvailabilityInStock,
		"limited":       AvailabilityLimited,
		"Made to Order": AvailabilityMadeToOrder,
		"bespoke":       AvailabilityMadeToOrder,
	}
	for in, want := range cases {
		got, ok := ParseAvailability(in)
		if !ok || got != want {
			t.Errorf("ParseAvailability(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := ParseAvailability("sold out"); ok {
		t.Error("unknown availability should not parse")
	}
}

func TestOrder_CloneIsolatesTracking(t *testing.T) {
	o := Order{
		ID:       "ORD-1",
		Customer: CustomerContext{Extra: map[string]string{"k": "v"}},
		Tracking: Tracking{Updates: []TrackingUpdate{{Status: StatusPending, Message: "created"}}},
	}
	c := o.Clone()
	c.Tracking.Updates[0].Message = "changed"
	c.Customer.Extra["k"] = "changed"

	if o.Tracking.Updates[0].Message != "created" {
		t.Error("clone shares tracking backing array")
	}
	if o.Customer.Extra["k"] != "v" {
		t.Error("clone shares extra map")
	}
}

func TestStoreInfo_DisplayName(t *testing.T) {
	if got := (StoreInfo{Name: "Bergdorf Goodman", Location: "5th Avenue"}).DisplayName(); got != "Bergdorf Goodman - 5th Avenue" {
		t.Errorf("physical store display = %q", got)
	}
	if got := (StoreInfo{Name: "Net-a-Porter", Online: true}).DisplayName(); got != "Net-a-Porter (Online)" {
		t.Errorf("online store display = %q", got)
	}
}
