package enums

import "testing"

func TestParseReceiptStatus(t *testing.T) {
	for _, valid := range []string{"pending", "completed", "refunded", "cancelled"} {
		status, err := ParseReceiptStatus(valid)
		if err != nil {
			t.Fatalf("parse %q: %v", valid, err)
		}
		if status.String() != valid {
			t.Fatalf("expected %q, got %q", valid, status)
		}
		if !status.IsValid() {
			t.Fatalf("%q should be valid", valid)
		}
	}

	for _, invalid := range []string{"", "shipped", "Pending", "COMPLETED"} {
		if _, err := ParseReceiptStatus(invalid); err == nil {
			t.Fatalf("expected error for %q", invalid)
		}
	}
}

func TestReceiptStatusIsTerminal(t *testing.T) {
	terminal := map[ReceiptStatus]bool{
		ReceiptStatusPending:   false,
		ReceiptStatusCompleted: false,
		ReceiptStatusRefunded:  true,
		ReceiptStatusCancelled: true,
	}
	for status, want := range terminal {
		if got := status.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", status, got, want)
		}
	}
}
