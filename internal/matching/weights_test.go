// internal/matching/weights_test.go
package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"influencer-matching/internal/models"
)

func TestWeights_SumToOne(t *testing.T) {
	total := 0
	for _, f := range models.Factors {
		total += weightBasisPoints[f]
	}
	assert.Equal(t, basisPointsTotal, total)
	assert.Len(t, weightBasisPoints, len(models.Factors))
}

func TestWeight(t *testing.T) {
	assert.Equal(t, 0.3, Weight(models.FactorNiche))
	assert.Equal(t, 0.25, Weight(models.FactorAudience))
	assert.Equal(t, 0.15, Weight(models.FactorFollowers))
	assert.Equal(t, 0.15, Weight(models.FactorEngagement))
	assert.Equal(t, 0.1, Weight(models.FactorLocation))
	assert.Equal(t, 0.05, Weight(models.FactorPlatform))
	assert.Zero(t, Weight(models.Factor("unknown")))
}

func TestWeights_ReturnsCopy(t *testing.T) {
	w := Weights()
	w[models.FactorNiche] = 1
	assert.Equal(t, 0.3, Weight(models.FactorNiche))
}
