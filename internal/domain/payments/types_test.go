package payments

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StatusPending, StatusVerified, true},
		{StatusPending, StatusRejected, true},
		{StatusVerified, StatusRejected, false},
		{StatusRejected, StatusVerified, false},
		{StatusVerified, StatusPending, false},
		{StatusPending, StatusPending, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestValidMethod(t *testing.T) {
	for _, m := range []string{MethodBankTransfer, MethodPromptPay, MethodCashOnDelivery, MethodCreditCard} {
		if !ValidMethod(m) {
			t.Errorf("%s should be valid", m)
		}
	}
	if ValidMethod("khalti") || ValidMethod("") {
		t.Fatal("unexpected valid method")
	}
}
