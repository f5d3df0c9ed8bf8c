package models

import "testing"

func TestCompositeCursorRoundTrip(t *testing.T) {
	encoded := EncodeCompositeCursor("2026-01-15 00:00:00", 42)
	value, id := DecodeCompositeCursor(&encoded)
	if value != "2026-01-15 00:00:00" || id != 42 {
		t.Fatalf("round trip failed: got %q %d", value, id)
	}
}

func TestDecodeCompositeCursorBadInput(t *testing.T) {
	cases := []*string{nil}
	empty := ""
	notBase64 := "%%%"
	noSeparator := EncodeCursor("just-a-value")
	badId := EncodeCursor("value|notanumber")
	cases = append(cases, &empty, &notBase64, &noSeparator, &badId)

	for i, cursor := range cases {
		value, id := DecodeCompositeCursor(cursor)
		if value != "" || id != 0 {
			t.Fatalf("case %d: expected zero values, got %q %d", i, value, id)
		}
	}
}

func TestDecodeCursor(t *testing.T) {
	encoded := EncodeCursor("hello")
	decoded, err := DecodeCursor(&encoded)
	if err != nil || decoded != "hello" {
		t.Fatalf("expected hello, got %q (err %v)", decoded, err)
	}

	decoded, err = DecodeCursor(nil)
	if err != nil || decoded != "" {
		t.Fatalf("expected empty cursor for nil input, got %q (err %v)", decoded, err)
	}
}
