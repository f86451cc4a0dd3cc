// Package transform maps raw bytes or text onto numeric vectors. Both
// strategies are pure, deterministic, and total: empty input yields an
// empty vector, never an error.
package transform

import (
	"math"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// TokenScale is the fixed modulus applied to every token-hash
// component.
const TokenScale = 0.5

// Config parametrizes a Transformer. No package-level state: every
// caller passes its own configuration.
type Config struct {
	// Base is the decay base applied to frequency magnitudes.
	Base float64
	// Modes caps the frequency-domain output length.
	Modes int
}

// Transformer converts raw input into spectral components.
type Transformer struct {
	cfg Config
}

// New returns a Transformer for cfg.
func New(cfg Config) *Transformer {
	return &Transformer{cfg: cfg}
}

// Frequency interprets raw as a real sequence, computes the discrete
// frequency spectrum, and returns the first min(len(raw), Modes)
// magnitudes, the i-th scaled by Base^-(i mod Modes).
func (t *Transformer) Frequency(raw []byte) []float64 {
	n := len(raw)
	if n == 0 {
		return nil
	}

	k := t.cfg.Modes
	if n < k {
		k = n
	}

	// Direct DFT over at most Modes bins. Input files are small and
	// Modes is a fixed small constant, so O(n*Modes) is fine.
	out := make([]float64, k)
	for i := 0; i < k; i++ {
		var re, im float64
		for j, b := range raw {
			angle := -2 * math.Pi * float64(i) * float64(j) / float64(n)
			re += float64(b) * math.Cos(angle)
			im += float64(b) * math.Sin(angle)
		}
		mag := math.Hypot(re, im)
		out[i] = mag * math.Pow(t.cfg.Base, -float64(i%t.cfg.Modes))
	}
	return out
}

// TokenHash splits text on whitespace and maps each token through a
// stable 64-bit hash onto a complex value of modulus TokenScale. Output
// length equals the token count; callers project onto a fixed basis
// themselves.
func (t *Transformer) TokenHash(text string) []complex128 {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil
	}

	out := make([]complex128, len(tokens))
	for i, tok := range tokens {
		h := xxhash.Sum64String(tok)
		phase := 2 * math.Pi * (float64(h) / float64(math.MaxUint64))
		out[i] = complex(TokenScale*math.Cos(phase), TokenScale*math.Sin(phase))
	}
	return out
}

// Project folds a variable-length complex vector onto a fixed basis of
// the given dimension by index-mod accumulation.
func Project(vec []complex128, dim int) []complex128 {
	if len(vec) == 0 || dim <= 0 {
		return nil
	}
	out := make([]complex128, dim)
	for i, v := range vec {
		out[i%dim] += v
	}
	return out
}
