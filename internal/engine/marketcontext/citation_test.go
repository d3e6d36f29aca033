package marketcontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeCitations(t *testing.T) {
	tests := []struct {
		count int
		want  ConfidenceTier
	}{
		{0, TierLow},
		{1, TierMedium},
		{2, TierHigh},
		{3, TierHigh},
		{5, TierHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeCitations(tt.count), "count=%d", tt.count)
	}
}
