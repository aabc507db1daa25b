package models

import "testing"

func TestExclusionReasonDisplay(t *testing.T) {
	tests := []struct {
		reason   ExclusionReason
		expected string
	}{
		{
			reason:   ExclusionReason{Code: ReasonLastRoundTip},
			expected: "Last round tip",
		},
		{
			reason:   ExclusionReason{Code: ReasonOpponentOfLastTip, Opponent: "Storm"},
			expected: "Playing last round tip's opponent Storm",
		},
		{
			reason:   ExclusionReason{Code: ReasonTeamTipLimit, Count: 3},
			expected: "Team already tipped 3 times",
		},
		{
			reason:   ExclusionReason{Code: ReasonHomeTipLimit, Count: 13},
			expected: "Already tipped 13 home teams",
		},
		{
			reason:   ExclusionReason{Code: ReasonAwayTipLimit, Count: 13},
			expected: "Already tipped 13 away teams",
		},
	}

	for _, tc := range tests {
		if got := tc.reason.Display(); got != tc.expected {
			t.Errorf("code %s: expected %q, got %q", tc.reason.Code, tc.expected, got)
		}
	}
}
