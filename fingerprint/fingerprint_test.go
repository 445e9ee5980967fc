package fingerprint

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/use-agent/kitchenscan/models"
)

var hexPattern = regexp.MustCompile(`^[0-9a-f]{12}$`)

func sample() ([]models.Item, string, string, time.Time) {
	items := []models.Item{
		{RawName: "Caisson METOD 60x80", ArticleNumber: "402.052.91", Qty: 1},
		{RawName: "Tiroir", ArticleNumber: "602.214.38", Qty: 2},
	}
	ts := time.Date(2026, 10, 17, 9, 30, 0, 123456789, time.UTC)
	return items, "3FA85F64-5717-4562-B3FC-2C963F66AFA6", "nonce-1", ts
}

func TestCompute_Deterministic(t *testing.T) {
	items, id, nonce, ts := sample()

	h1 := Compute(items, id, nonce, ts)
	h2 := Compute(items, id, nonce, ts)

	assert.Equal(t, h1, h2)
	assert.Regexp(t, hexPattern, h1)
}

func TestCompute_EachFieldMatters(t *testing.T) {
	items, id, nonce, ts := sample()
	base := Compute(items, id, nonce, ts)

	renamed := append([]models.Item(nil), items...)
	renamed[0].RawName = "Caisson METOD 60x60"

	moreQty := append([]models.Item(nil), items...)
	moreQty[1].Qty = 3

	otherArticle := append([]models.Item(nil), items...)
	otherArticle[1].ArticleNumber = "602.214.39"

	reordered := []models.Item{items[1], items[0]}

	variants := map[string]string{
		"raw name":  Compute(renamed, id, nonce, ts),
		"qty":       Compute(moreQty, id, nonce, ts),
		"article":   Compute(otherArticle, id, nonce, ts),
		"order":     Compute(reordered, id, nonce, ts),
		"planner":   Compute(items, "00000000-0000-0000-0000-000000000000", nonce, ts),
		"nonce":     Compute(items, id, "nonce-2", ts),
		"timestamp": Compute(items, id, nonce, ts.Add(time.Millisecond)),
		"no items":  Compute(nil, id, nonce, ts),
	}
	for name, h := range variants {
		assert.NotEqual(t, base, h, name)
	}
}

func TestCompute_IgnoresGamme(t *testing.T) {
	items, id, nonce, ts := sample()
	base := Compute(items, id, nonce, ts)

	tagged := append([]models.Item(nil), items...)
	tagged[0].Gamme = "METOD"

	assert.Equal(t, base, Compute(tagged, id, nonce, ts))
}

func TestCompute_TimezoneIndependent(t *testing.T) {
	items, id, nonce, ts := sample()
	paris := time.FixedZone("CEST", 2*60*60)

	assert.Equal(t, Compute(items, id, nonce, ts), Compute(items, id, nonce, ts.In(paris)))
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2026, 10, 17, 9, 30, 0, 123456789, time.UTC)
	assert.Equal(t, "2026-10-17T09:30:00.123Z", FormatTime(ts))
}
