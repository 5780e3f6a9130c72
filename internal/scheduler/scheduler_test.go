package scheduler

import "testing"

func TestNewSessionSchedulerSpecValidation(t *testing.T) {
	if _, err := NewSessionScheduler(nil, "0 0 * * *", "20"); err != nil {
		t.Fatalf("default spec rejected: %v", err)
	}
	if _, err := NewSessionScheduler(nil, "@daily", "20"); err != nil {
		t.Fatalf("@daily rejected: %v", err)
	}
	if _, err := NewSessionScheduler(nil, "not a cron spec", "20"); err == nil {
		t.Fatal("invalid spec accepted")
	}
}
