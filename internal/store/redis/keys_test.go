package redis

import "testing"

func TestKeys(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{name: "record", got: RecordKey("42"), expected: "linkpost:sync:id:42"},
		{name: "all records", got: AllRecordsKey(), expected: "linkpost:sync:all"},
		{name: "last run", got: LastRunKey(), expected: "linkpost:run:last"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("key = %q, want %q", tt.got, tt.expected)
			}
		})
	}
}

func TestRecordKeyNeverCollidesWithSet(t *testing.T) {
	if RecordKey("all") == AllRecordsKey() {
		t.Error("RecordKey(\"all\") must not collide with the id set")
	}
}
