package domain

import "testing"

func TestParseStatus(t *testing.T) {
	for _, status := range AllStatuses {
		if status == StatusUnknown {
			continue
		}
		if got := ParseStatus(string(status)); got != status {
			t.Fatalf("ParseStatus(%q) = %q", status, got)
		}
	}
	for _, input := range []string{"", "DRAFT", "garbage", "unknown"} {
		if got := ParseStatus(input); got != StatusUnknown {
			t.Fatalf("ParseStatus(%q) = %q, want unknown", input, got)
		}
	}
}

func TestCanTransitionMatrix(t *testing.T) {
	allowed := map[InvoiceStatus][]InvoiceStatus{
		StatusDraft:            {StatusPending},
		StatusPending:          {StatusPaid, StatusChargedWithError},
		StatusChargedWithError: {StatusPaid, StatusUncollectible},
		StatusPaid:             {StatusCancelled, StatusRefunded, StatusInProtest},
		StatusInProtest:        {StatusChargeback},
	}

	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			want := false
			for _, next := range allowed[from] {
				if next == to {
					want = true
					break
				}
			}
			if got := CanTransition(from, to); got != want {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	terminal := []InvoiceStatus{StatusCancelled, StatusUncollectible, StatusRefunded, StatusChargeback, StatusUnknown}
	for _, from := range terminal {
		for _, to := range AllStatuses {
			if CanTransition(from, to) {
				t.Fatalf("terminal state %s allows transition to %s", from, to)
			}
		}
	}
}
