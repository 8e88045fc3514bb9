package learner

import "github.com/lox/zapzap/internal/cards"

// FeatureCount is the fixed dimensionality ExtractFeatures always produces,
// so a DQN built via DefaultDQNConfig(FeatureCount, ...) never mismatches
// its input vector.
const FeatureCount = 6

// ExtractFeatures projects a hand and the public match context into the
// fixed-size vector the DQN's linear approximator dots against its weight
// matrix (spec §4.6 feature extraction: "hand composition, round number,
// opponent hand sizes, Golden Score flag"). Grounded on the teacher's
// internal/bot evaluateHandStrengthWithThinking, which likewise reduces a
// hand plus table context down to a small fixed-size numeric vector before
// scoring, generalized from hole-card/board features to ZapZap's
// eligibility/joker/combo features.
func ExtractFeatures(hand cards.Hand, opponentHandSizes []int, roundNumber int, isGoldenScore bool) []float64 {
	minOpp := 0
	sumOpp := 0
	for i, n := range opponentHandSizes {
		if i == 0 || n < minOpp {
			minOpp = n
		}
		sumOpp += n
	}
	meanOpp := 0.0
	if len(opponentHandSizes) > 0 {
		meanOpp = float64(sumOpp) / float64(len(opponentHandSizes))
	}

	golden := 0.0
	if isGoldenScore {
		golden = 1.0
	}

	return []float64{
		float64(hand.EligibilityValue()),
		float64(hand.JokerCount()),
		float64(len(hand)),
		float64(minOpp),
		meanOpp,
		golden + float64(roundNumber)*0.01,
	}
}
