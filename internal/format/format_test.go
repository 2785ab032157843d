package format

import "testing"

func TestCardNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"partial group", "123", "123"},
		{"one group", "1234", "1234"},
		{"starts second group", "12345", "1234 5"},
		{"full number", "4242424242424242", "4242 4242 4242 4242"},
		{"already formatted", "4242 4242 4242 4242", "4242 4242 4242 4242"},
		{"strips letters", "42ab42cd", "4242"},
		{"strips dashes", "4242-4242-4242-4242", "4242 4242 4242 4242"},
		{"caps at sixteen digits", "42424242424242429999", "4242 4242 4242 4242"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CardNumber(tt.raw)
			if got != tt.want {
				t.Errorf("CardNumber(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCardNumberIdempotent(t *testing.T) {
	inputs := []string{"4", "4242", "424242", "4242424242424242"}
	for _, in := range inputs {
		once := CardNumber(in)
		twice := CardNumber(once)
		if once != twice {
			t.Errorf("CardNumber not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestExpiryDate(t *testing.T) {
	tests := []struct {
		name string
		prev string
		raw  string
		want string
	}{
		{"empty", "", "", ""},
		{"valid first digit zero", "", "0", "0"},
		{"valid first digit one", "", "1", "1"},
		{"invalid first digit", "", "2", ""},
		{"invalid first digit nine", "", "9", ""},
		{"month zero truncates", "0", "00", "0"},
		{"month thirteen truncates", "1", "13", "1"},
		{"month nineteen truncates", "1", "19", "1"},
		{"december kept", "1", "12", "12/"},
		{"january kept", "0", "01", "01/"},
		{"month ten kept", "1", "10", "10/"},
		{"full date", "12/", "12/25", "12/25"},
		{"digits only input", "", "1225", "12/25"},
		{"extra digits dropped", "", "122567", "12/25"},
		{"backspace over slash", "12/", "12", "12"},
		{"retype after backspace", "12", "122", "12/2"},
		{"slash present no backspace", "12/2", "12/25", "12/25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpiryDate(tt.prev, tt.raw)
			if got != tt.want {
				t.Errorf("ExpiryDate(%q, %q) = %q, want %q", tt.prev, tt.raw, got, tt.want)
			}
		})
	}
}

func TestCVV(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"1", "1"},
		{"123", "123"},
		{"1234", "1234"},
		{"12345", "1234"},
		{"12a3", "123"},
	}
	for _, tt := range tests {
		got := CVV(tt.raw)
		if got != tt.want {
			t.Errorf("CVV(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
