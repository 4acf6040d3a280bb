package searchquality

import (
	"math"
	"sort"
	"strings"
	"time"
)

// topicTokenCap bounds the relevance denominator so long topics do not make
// full relevance unreachable.
const topicTokenCap = 6

// Dedupe removes duplicate records, keeping the first occurrence. The key is
// the normalized URL, or the trimmed title when the record has no URL.
// Records with neither are dropped.
func Dedupe(records []Record) []Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		key := ""
		if rec.URL != "" {
			key = NormalizeURL(rec.URL)
		} else {
			key = strings.TrimSpace(rec.Title)
		}
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// ApplyRecencyWindow drops records published before now minus daysBack days.
// Records without a published time are kept; the window only filters what it
// can see. daysBack <= 0 disables the filter.
func ApplyRecencyWindow(records []Record, daysBack int, now time.Time) []Record {
	if daysBack <= 0 {
		return records
	}
	cutoff := now.UTC().Add(-time.Duration(daysBack) * 24 * time.Hour)
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.Published == nil {
			out = append(out, rec)
			continue
		}
		if !rec.Published.UTC().Before(cutoff) {
			out = append(out, rec)
		}
	}
	return out
}

// ScoreInput carries the per-query context a score depends on.
type ScoreInput struct {
	TopicTokens    map[string]struct{}
	TopicText      string
	TrustedDomains map[string]struct{}
	RecencyDays    int
	StrictMode     bool
	Weights        Weights
	Now            time.Time
}

// ScoreRecord computes the composite quality score for one record. The
// result is not clamped; strict mode can push an off-topic record negative,
// which is exactly what buries it in the ranking.
func ScoreRecord(rec Record, in ScoreInput) float64 {
	titleAndSnippet := rec.Title + " " + rec.Snippet
	overlap := overlapCount(in.TopicTokens, titleAndSnippet)

	denom := len(in.TopicTokens)
	if denom > topicTokenCap {
		denom = topicTokenCap
	}
	if denom < 1 {
		denom = 1
	}
	relevance := math.Min(1, float64(overlap)/float64(denom))

	// The phrase bonus is a flat additive term, not scaled by the
	// relevance weight.
	phraseBonus := 0.0
	topic := strings.ToLower(strings.TrimSpace(in.TopicText))
	if topic != "" && strings.Contains(strings.ToLower(rec.Title), topic) {
		phraseBonus = 0.08
	}

	snippetQuality := 0.0
	switch n := len(strings.TrimSpace(rec.Snippet)); {
	case n >= 100:
		snippetQuality = 1.0
	case n >= 50:
		snippetQuality = 0.5
	}

	domainValue := rec.Source
	if domainValue == "" {
		domainValue = rec.URL
	}
	domainScore := 0.15
	if _, trusted := in.TrustedDomains[ExtractDomain(domainValue)]; trusted {
		domainScore = 0.35
	}

	recency := 0.12
	if rec.Published != nil {
		ageDays := math.Max(0, in.Now.UTC().Sub(rec.Published.UTC()).Hours()/24)
		horizon := float64(in.RecencyDays)
		if horizon < 7 {
			horizon = 7
		}
		recency = math.Max(0, 1-ageDays/horizon)
	}

	w := in.Weights
	score := w.Relevance*relevance +
		w.Recency*recency +
		w.Snippet*snippetQuality +
		w.Domain*domainScore +
		phraseBonus

	if in.StrictMode && overlap == 0 {
		score -= w.StrictNoOverlapPenalty
	}
	return score
}

// RankAndTruncate orders records best-first and keeps at most max of them.
// Ties on score prefer the dated record; the sort is stable, so otherwise
// equal records keep their arrival order.
func RankAndTruncate(records []Record, in ScoreInput, max int) []Record {
	type scored struct {
		rec   Record
		score float64
	}
	items := make([]scored, len(records))
	for i, rec := range records {
		items[i] = scored{rec: rec, score: ScoreRecord(rec, in)}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].score != items[j].score {
			return items[i].score > items[j].score
		}
		return items[i].rec.Published != nil && items[j].rec.Published == nil
	})
	if max >= 0 && len(items) > max {
		items = items[:max]
	}
	out := make([]Record, len(items))
	for i, it := range items {
		out[i] = it.rec
	}
	return out
}
