package validation

import "testing"

func TestValidateLogin(t *testing.T) {
	if err := ValidateLogin("alice", "secret"); err != nil {
		t.Fatalf("valid login rejected: %v", err)
	}
	if err := ValidateLogin("", "secret"); err == nil {
		t.Fatal("empty username accepted")
	}
	if err := ValidateLogin("alice", "   "); err == nil {
		t.Fatal("blank password accepted")
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		wantErr  bool
	}{
		{"Abcdef1!", false},
		{"Str0ng-Passw0rd!", false},
		{"abc", true},                  // too short
		{"abcdefgh", true},             // no upper, no symbol
		{"ABCDEFGH!", true},            // no lower
		{"Abcdefgh1", true},            // no symbol
		{"Abcdefgh1!Abcdefgh1!", true}, // too long
	}

	for _, tc := range cases {
		err := ValidatePassword(tc.password)
		if tc.wantErr && err == nil {
			t.Errorf("password %q accepted, want error", tc.password)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("password %q rejected: %v", tc.password, err)
		}
	}
}

func TestValidateRegister(t *testing.T) {
	valid := RegisterFields{
		Name:            "Alice Example",
		Username:        "alice",
		Email:           "alice@example.com",
		PhoneNumber:     "555-0101",
		AccountNumber:   "ACC-1001",
		Password:        "Abcdef1!",
		ConfirmPassword: "Abcdef1!",
	}

	if err := ValidateRegister(valid); err != nil {
		t.Fatalf("valid registration rejected: %v", err)
	}

	missing := valid
	missing.Email = ""
	if err := ValidateRegister(missing); err == nil {
		t.Fatal("missing email accepted")
	}

	badEmail := valid
	badEmail.Email = "not-an-email"
	if err := ValidateRegister(badEmail); err == nil {
		t.Fatal("malformed email accepted")
	}

	mismatch := valid
	mismatch.ConfirmPassword = "Different1!"
	if err := ValidateRegister(mismatch); err == nil {
		t.Fatal("mismatched passwords accepted")
	}
}

func TestValidateTransfer(t *testing.T) {
	cents, err := ValidateTransfer("ACC-4521", "150.50")
	if err != nil {
		t.Fatalf("valid transfer rejected: %v", err)
	}
	if cents != 15050 {
		t.Fatalf("expected 15050 cents, got %d", cents)
	}

	if _, err := ValidateTransfer("", "150"); err == nil {
		t.Fatal("empty recipient accepted")
	}
	if _, err := ValidateTransfer("ACC-4521", ""); err == nil {
		t.Fatal("empty amount accepted")
	}
	if _, err := ValidateTransfer("ACC-4521", "0"); err == nil {
		t.Fatal("zero amount accepted")
	}
	if _, err := ValidateTransfer("ACC-4521", "-25"); err == nil {
		t.Fatal("negative amount accepted")
	}
	if _, err := ValidateTransfer("ACC-4521", "abc"); err == nil {
		t.Fatal("non-numeric amount accepted")
	}
	if _, err := ValidateTransfer("ACC-4521", "-0.50"); err == nil {
		t.Fatal("negative fractional amount accepted")
	}
	if _, err := ValidateTransfer("ACC-4521", "12abc"); err == nil {
		t.Fatal("amount with trailing garbage accepted")
	}
	if _, err := ValidateTransfer("ACC-4521", "1e3"); err == nil {
		t.Fatal("exponent notation accepted")
	}
}
