package users

import "testing"

func TestPasswordSetCompare(t *testing.T) {
	var p password
	if err := p.Set("s3cret-pass"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := p.Compare("s3cret-pass"); err != nil {
		t.Fatalf("Compare with correct password: %v", err)
	}
	if err := p.Compare("wrong"); err == nil {
		t.Fatal("Compare with wrong password should fail")
	}
}

func TestFullName(t *testing.T) {
	cases := []struct {
		u    User
		want string
	}{
		{User{FirstName: "สมชาย", LastName: "ใจดี"}, "สมชาย ใจดี"},
		{User{FirstName: "Anan"}, "Anan"},
		{User{LastName: "Wong"}, "Wong"},
	}
	for _, c := range cases {
		if got := c.u.FullName(); got != c.want {
			t.Errorf("FullName() = %q, want %q", got, c.want)
		}
	}
}

func TestRolesAndStatus(t *testing.T) {
	if !ValidRole(RoleStaff) || ValidRole("owner") {
		t.Fatal("ValidRole mismatch")
	}
	if !ValidStatus(StatusSuspended) || ValidStatus("deleted") {
		t.Fatal("ValidStatus mismatch")
	}
	if !(&User{Role: RoleAdmin}).IsBackOffice() || (&User{Role: RoleCustomer}).IsBackOffice() {
		t.Fatal("IsBackOffice mismatch")
	}
}

func TestMatchRefreshToken(t *testing.T) {
	stored := hashToken("tok")
	if !MatchRefreshToken(stored, "tok") {
		t.Fatal("expected match")
	}
	if MatchRefreshToken(stored, "other") || MatchRefreshToken("", "") {
		t.Fatal("unexpected match")
	}
}
