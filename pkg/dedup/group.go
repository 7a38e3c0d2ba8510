package dedup

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/samber/lo"

	"github.com/umputun/perspectives/pkg/domain"
)

// TitleThreshold is the title similarity above which two records are duplicates
const TitleThreshold = 0.85

// fingerprint caches per-record values used in pairwise comparison
type fingerprint struct {
	link  string
	title string
	hash  string
}

func fingerprintOf(r domain.Record) fingerprint {
	return fingerprint{
		link:  r.Link,
		title: strings.ToLower(r.Title),
		hash:  ContentHash(r.Title, r.Description),
	}
}

// matches reports whether two records describe the same story:
// same link, similar titles or the same normalized content
func (f fingerprint) matches(o fingerprint) bool {
	if f.link == o.link {
		return true
	}
	if Similarity(f.title, o.title) > TitleThreshold {
		return true
	}
	return f.hash == o.hash
}

// FindGroups splits records into duplicate groups. Each record joins at most one group,
// the first record that matches it claims it. Only groups with two or more members are returned,
// members keep the input order.
func FindGroups(recs []domain.Record) [][]domain.Record {
	prints := lo.Map(recs, func(r domain.Record, _ int) fingerprint { return fingerprintOf(r) })
	taken := make([]bool, len(recs))

	var groups [][]domain.Record
	for i := range recs {
		if taken[i] {
			continue
		}
		taken[i] = true
		group := []domain.Record{recs[i]}
		for j := i + 1; j < len(recs); j++ {
			if taken[j] || !prints[i].matches(prints[j]) {
				continue
			}
			taken[j] = true
			group = append(group, recs[j])
		}
		if len(group) > 1 {
			groups = append(groups, group)
		}
	}
	return groups
}

// Survivor returns the index of the record to keep in a duplicate group.
// Higher credibility wins, then the more recent pubDate, then the longer description,
// otherwise the earlier record stays. Panics on an empty group.
func Survivor(group []domain.Record) int {
	if len(group) == 0 {
		panic("dedup: survivor of an empty group")
	}
	return lo.Reduce(group, func(best int, cur domain.Record, i int) int {
		if i == 0 || !better(cur, group[best]) {
			return best
		}
		return i
	}, 0)
}

// better reports whether cur should replace best
func better(cur, best domain.Record) bool {
	if cur.Credibility != best.Credibility {
		return cur.Credibility > best.Credibility
	}
	curDate, bestDate := pubTime(cur.PubDate), pubTime(best.PubDate)
	if !curDate.Equal(bestDate) {
		return curDate.After(bestDate)
	}
	return len(cur.Description) > len(best.Description)
}

// pubTime parses a feed date in any common format, zero time if unparseable
func pubTime(s string) time.Time {
	if strings.TrimSpace(s) == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}
	}
	return t
}
