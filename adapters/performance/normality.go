package performance

import (
	"math"

	"regdiag/domain/regression"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// normalityAlpha is the significance threshold for the normality verdict.
const normalityAlpha = 0.05

// normalityOfErrors tests whether the signed-error series is plausibly
// normal. D'Agostino's K² test is used from eight samples up; below that the
// transforms are unreliable, so a conservative skewness/kurtosis
// approximation stands in. Fewer than three samples cannot be tested at all.
func normalityOfErrors(errSeries []float64) regression.ErrorNormality {
	if len(errSeries) < 3 {
		return regression.ErrorNormality{PValue: 1, IsNormal: false}
	}
	if len(errSeries) >= 8 {
		return dagostinoK2(errSeries)
	}

	mean, _ := stats.Mean(errSeries)
	sigma, _ := stats.StandardDeviation(errSeries)
	skew := adjustedSkewness(errSeries, mean, sigma)
	excessKurt := adjustedKurtosis(errSeries, mean, sigma) - 3

	statistic := math.Abs(skew) + math.Abs(excessKurt)/2
	statistic *= statistic
	pValue := 1 - distuv.ChiSquared{K: 2}.CDF(statistic)
	return regression.ErrorNormality{
		Statistic: statistic,
		PValue:    pValue,
		IsNormal:  pValue > normalityAlpha,
	}
}

// dagostinoK2 combines the skewness transform Z1 with the Anscombe-Glynn
// kurtosis transform Z2; K² = Z1² + Z2² follows chi-squared with 2 degrees
// of freedom under normality.
func dagostinoK2(series []float64) regression.ErrorNormality {
	n := float64(len(series))

	mean, _ := stats.Mean(series)
	sigma, _ := stats.StandardDeviation(series)
	if sigma == 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return regression.ErrorNormality{PValue: 1, IsNormal: false}
	}

	g1 := adjustedSkewness(series, mean, sigma)
	g2 := adjustedKurtosis(series, mean, sigma)

	// Skewness transform to Z1.
	y := g1 * math.Sqrt((n+1)*(n+3)/(6*(n-2)))
	beta2 := (3 * (n*n + 27*n - 70) * (n + 1) * (n + 3)) / ((n - 2) * (n + 5) * (n + 7) * (n + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	if w2 <= 0 {
		return regression.ErrorNormality{PValue: 1, IsNormal: false}
	}
	delta := 1 / math.Sqrt(math.Log(math.Sqrt(w2)))
	alpha := math.Sqrt(2 / (w2 - 1))
	ay := y / alpha
	z1 := delta * math.Log(ay+math.Sqrt(ay*ay+1))

	// Kurtosis transform to Z2, on total (not excess) kurtosis.
	e := 3 * (n - 1) / (n + 1)
	v := 24 * n * (n - 2) * (n - 3) / ((n + 1) * (n + 1) * (n + 3) * (n + 5))
	if v <= 0 {
		return regression.ErrorNormality{PValue: 1, IsNormal: false}
	}
	x := (g2 - e) / math.Sqrt(v)

	sqrtBeta1 := 6 * (n*n - 5*n + 2) / ((n + 7) * (n + 9)) * math.Sqrt(6*(n+3)*(n+5)/(n*(n-2)*(n-3)))
	a := 6 + 8/sqrtBeta1*(2/sqrtBeta1+math.Sqrt(1+4/(sqrtBeta1*sqrtBeta1)))
	if a <= 4 {
		return regression.ErrorNormality{PValue: 1, IsNormal: false}
	}

	term := 1 - 2/(9*a)
	den := 1 + x*math.Sqrt(2/(a-4))
	if den <= 0 {
		// Invalid fractional power; the series is far from normal.
		return regression.ErrorNormality{PValue: 0, IsNormal: false}
	}
	z2 := (term - math.Pow((1-2/a)/den, 1.0/3.0)) / math.Sqrt(2/(9*a))

	k2 := z1*z1 + z2*z2
	pValue := 1 - distuv.ChiSquared{K: 2}.CDF(k2)
	return regression.ErrorNormality{
		Statistic: k2,
		PValue:    pValue,
		IsNormal:  pValue > normalityAlpha,
	}
}

// adjustedSkewness is the bias-corrected Fisher-Pearson coefficient.
func adjustedSkewness(series []float64, mean, sigma float64) float64 {
	if len(series) < 3 || sigma == 0 {
		return 0
	}
	n := float64(len(series))
	sumCubed := 0.0
	for _, v := range series {
		d := (v - mean) / sigma
		sumCubed += d * d * d
	}
	return sumCubed / n * math.Sqrt(n*(n-1)) / (n - 2)
}

// adjustedKurtosis is the bias-corrected total kurtosis (3 under normality).
func adjustedKurtosis(series []float64, mean, sigma float64) float64 {
	if len(series) < 4 || sigma == 0 {
		return 3
	}
	n := float64(len(series))
	sumFourth := 0.0
	for _, v := range series {
		d := (v - mean) / sigma
		sumFourth += d * d * d * d
	}
	kurtosis := sumFourth / n
	if n > 3 {
		correction := (n - 1) / ((n - 2) * (n - 3))
		kurtosis = kurtosis*correction + 6/(n+1)
	}
	return kurtosis + 3
}
