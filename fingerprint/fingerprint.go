// Package fingerprint computes the extraction hash that binds one call's
// items to its planner, nonce and capture time.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/use-agent/kitchenscan/models"
)

// Length is the number of hex characters kept from the digest.
const Length = 12

// TimeLayout is the timestamp form shared by the hash and extracted_at.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// canonicalItem holds the identity fields of an item. Field order is part
// of the hash contract.
type canonicalItem struct {
	RawName       string `json:"raw_name"`
	ArticleNumber string `json:"article_number"`
	Qty           int    `json:"qty"`
}

// canonical is the serialized tuple. Field order is part of the hash contract.
type canonical struct {
	Items     []canonicalItem `json:"items"`
	PlannerID string          `json:"planner_id"`
	Nonce     string          `json:"nonce"`
	Timestamp string          `json:"timestamp"`
}

// FormatTime renders t the way it is hashed and reported.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Compute returns the first Length hex characters of the SHA-256 of the
// canonical tuple. It is not a content fingerprint: the same items under a
// different nonce or timestamp hash differently.
func Compute(items []models.Item, plannerID, nonce string, ts time.Time) string {
	c := canonical{
		Items:     make([]canonicalItem, len(items)),
		PlannerID: plannerID,
		Nonce:     nonce,
		Timestamp: FormatTime(ts),
	}
	for i, it := range items {
		c.Items[i] = canonicalItem{
			RawName:       it.RawName,
			ArticleNumber: it.ArticleNumber,
			Qty:           it.Qty,
		}
	}

	// Marshal cannot fail for these field types.
	b, _ := json.Marshal(c)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])[:Length]
}
