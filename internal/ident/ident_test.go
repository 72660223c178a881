package ident

import "testing"

func TestOfIsStable(t *testing.T) {
	a := Of("Sources/App/A.swift", 10, "actor-isolated property 'x' can not be referenced")
	b := Of("Sources/App/A.swift", 10, "actor-isolated property 'x' can not be referenced")
	if a != b {
		t.Fatalf("ids differ: %s vs %s", a, b)
	}
	if len(a) != 32 || !Valid(a) {
		t.Fatalf("unexpected id form %q", a)
	}
}

func TestOfNormalizesWhitespace(t *testing.T) {
	a := Of("A.swift", 3, "type 'Foo' does not conform")
	b := Of("A.swift", 3, "  type  'Foo'\tdoes not\n conform ")
	if a != b {
		t.Fatalf("whitespace must not change the id: %s vs %s", a, b)
	}
}

func TestOfNormalizesPath(t *testing.T) {
	if Of("./src/../src/A.swift", 1, "m") != Of("src/A.swift", 1, "m") {
		t.Fatal("equivalent paths must give equal ids")
	}
}

func TestOfNormalizesUnicode(t *testing.T) {
	composed := "caf\u00e9"
	decomposed := "cafe\u0301"
	if Of("A.swift", 1, composed) != Of("A.swift", 1, decomposed) {
		t.Fatal("NFC-equivalent messages must give equal ids")
	}
}

func TestOfDiscriminates(t *testing.T) {
	base := Of("A.swift", 10, "message")
	cases := map[string]string{
		"line":    Of("A.swift", 11, "message"),
		"path":    Of("B.swift", 10, "message"),
		"message": Of("A.swift", 10, "message2"),
		// the separator keeps "A.swift1" + "0" apart from "A.swift" + "10"
		"split": Of("A.swift1", 0, "message"),
	}
	for name, id := range cases {
		if id == base {
			t.Fatalf("%s change must produce a different id", name)
		}
	}
}

func TestValid(t *testing.T) {
	if Valid("xyz") || Valid("0123456789abcdef0123456789abcdeg") {
		t.Fatal("invalid ids accepted")
	}
}
