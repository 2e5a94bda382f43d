package store

import "testing"

func TestSessionKey(t *testing.T) {
	tests := []struct {
		userID int64
		want   string
	}{
		{1, "user_session:1"},
		{42, "user_session:42"},
		{0, "user_session:0"},
	}

	for _, tt := range tests {
		if got := SessionKey(tt.userID); got != tt.want {
			t.Errorf("SessionKey(%d) = %s, want %s", tt.userID, got, tt.want)
		}
	}
}
