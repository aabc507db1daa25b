package models

import "testing"

func TestUserPIN(t *testing.T) {
	u := User{Email: "alice@example.com", Username: "Alice"}

	pin := u.PIN()
	if len(pin) != 6 {
		t.Fatalf("expected a 6 character PIN, got %q", pin)
	}
	if pin[4:] != "69" {
		t.Errorf("expected the 69 suffix, got %q", pin)
	}

	if again := u.PIN(); again != pin {
		t.Errorf("PIN must be deterministic: %q vs %q", pin, again)
	}

	upper := User{Email: "ALICE@Example.COM"}
	if upper.PIN() != pin {
		t.Errorf("PIN must ignore email casing: %q vs %q", upper.PIN(), pin)
	}

	other := User{Email: "bob@example.com"}
	if other.PIN() == pin {
		t.Errorf("different emails should very rarely collide, got %q twice", pin)
	}
}
