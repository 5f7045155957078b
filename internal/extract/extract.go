// Package extract projects the raw health-assessment record into flat,
// presentation-ready rows for the report layout engine. Each extractor reads
// only its own subtree, emits rows in the fixed clinical presentation order
// of its catalog, and yields nothing when the subtree is absent.
package extract

import (
	"strconv"
	"strings"
	"time"

	"github.com/preop-assessment-server/internal/domain"
)

// detailKind selects how a condition's auxiliary field becomes a chip value.
type detailKind int

const (
	detailText detailKind = iota
	detailDate
	detailNumber
	detailFlag
	detailTri // renders explicit Yes/No answers, stays silent on Unknown
)

// detailSpec describes one auxiliary field of a condition.
type detailSpec struct {
	key  string
	name string
	kind detailKind
}

// conditionSpec is one entry of a domain catalog: the condition key, its
// display label, and the auxiliary fields shown as chips.
type conditionSpec struct {
	key     string
	label   string
	details []detailSpec
}

// domainItems walks a catalog and produces one RenderItem per reported
// condition, in catalog order. Emphasis is decided once here, through the
// canonical table, for both the item label and every chip.
func domainItems(rec domain.Record, section string, catalog []conditionSpec, now time.Time) []domain.RenderItem {
	sub := rec.Section(domain.KeyHealthAssessment, section)
	if sub == nil {
		return nil
	}

	var items []domain.RenderItem
	for _, spec := range catalog {
		if !sub.Flag(spec.key) {
			continue
		}
		item := domain.RenderItem{
			Label:     spec.label,
			Emphasize: domain.Emphasized(spec.label, "Yes", now),
		}
		entry := sub.Section(spec.key)
		for _, ds := range spec.details {
			value := detailValue(entry, ds)
			if value == "" {
				continue
			}
			item.Details = append(item.Details, domain.Detail{Name: ds.name, Value: value})
			if domain.Emphasized(ds.name, value, now) {
				item.Emphasize = true
			}
		}
		items = append(items, item)
	}
	return items
}

func detailValue(entry domain.Record, ds detailSpec) string {
	if entry == nil {
		return ""
	}
	switch ds.kind {
	case detailDate:
		if _, ok := entry.Date(ds.key); ok {
			return entry.Text(ds.key)
		}
		return ""
	case detailNumber:
		n := entry.Number(ds.key)
		if n == 0 {
			return ""
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	case detailFlag:
		if entry.Flag(ds.key) {
			return "Yes"
		}
		return ""
	case detailTri:
		if t := entry.Tri(ds.key); t != domain.Unknown {
			return t.String()
		}
		return ""
	default:
		return strings.TrimSpace(entry.Text(ds.key))
	}
}
