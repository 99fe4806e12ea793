package policy_test

import (
	"testing"
	"time"

	"geoview-tools/gvtools/geo"
	"geoview-tools/gvtools/policy"

	"github.com/stretchr/testify/require"
)

func TestAccuracyAccept(t *testing.T) {
	require := require.New(t)

	tests := map[string]struct {
		max      float64
		accuracy float64
		want     bool
	}{
		"disabled":            {max: 0, accuracy: 100000, want: true},
		"negative_disabled":   {max: -1, accuracy: 100000, want: true},
		"precise":             {max: policy.DestinationMaxAccuracy, accuracy: 12, want: true},
		"just_below":          {max: policy.DestinationMaxAccuracy, accuracy: 4999.9, want: true},
		"at_threshold":        {max: policy.DestinationMaxAccuracy, accuracy: 5000, want: false},
		"above_threshold":     {max: policy.DestinationMaxAccuracy, accuracy: 12000, want: false},
		"custom_threshold":    {max: 50, accuracy: 49, want: true},
		"custom_rejected":     {max: 50, accuracy: 51, want: false},
		"zero_accuracy_valid": {max: 50, accuracy: 0, want: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			p := geo.MustPoint(51.034306, 3.701102, tc.accuracy, time.Time{})
			a := policy.Accuracy{MaxMeters: tc.max}
			require.Equal(tc.want, a.Accept(p))
			require.Equal(tc.max > 0, a.Enabled())
		})
	}
}

func TestAccuracyReason(t *testing.T) {
	require.Equal(t, "Need more accurate values to calculate distance.", policy.Accuracy{}.Reason())
}
