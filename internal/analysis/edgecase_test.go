package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizanlabs/mizan/internal/model"
)

// TestIjarahOwnershipBoostIsolation runs the edge-case adjuster twice with
// identical base scores, varying only the ownership-transfer wording. With a
// second candidate in the list renormalization cannot mask the adjustment, so
// the FAS 32 share must come out strictly higher when the wording is present.
func TestIjarahOwnershipBoostIsolation(t *testing.T) {
	engine := New(&stubGenerator{response: "Generated reasoning."}, nil)
	types := map[string]float64{"lease": 0.8}

	baseRankings := func() model.StandardRankings {
		return model.StandardRankings{
			{Standard: "FAS 4", Probability: 0.7},
			{Standard: "FAS 32", Probability: 0.3},
		}
	}

	withTransfer := &model.Transaction{
		RawText: "Ijarah ending with transfer of ownership to the lessee.",
	}
	withoutTransfer := &model.Transaction{
		RawText: "Ijarah rental arrangement for warehouse equipment.",
	}

	boosted := engine.applyEdgeCaseRules(context.Background(), withTransfer, types, baseRankings())
	plain := engine.applyEdgeCaseRules(context.Background(), withoutTransfer, types, baseRankings())

	boostedFAS32 := boosted.Find("FAS 32")
	plainFAS32 := plain.Find("FAS 32")
	require.NotNil(t, boostedFAS32)
	require.NotNil(t, plainFAS32)

	assert.Greater(t, boostedFAS32.Probability, plainFAS32.Probability)
	assert.InDelta(t, 0.4/1.1, boostedFAS32.Probability, 1e-9)
	assert.InDelta(t, 0.3, plainFAS32.Probability, 1e-9)
	assert.Contains(t, boostedFAS32.Reasoning, "transfer of ownership")
	assert.NotContains(t, plainFAS32.Reasoning, "transfer of ownership")

	assert.NoError(t, boosted.Validate())
	assert.NoError(t, plain.Validate())
}
