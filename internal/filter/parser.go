package filter

import (
	"fmt"
	"strings"
	"time"
)

// Parse builds a Filter from a compact expression of space-separated terms.
//
// Supported terms:
//   - category:NAME - match event category (repeatable)
//   - tag:NAME      - match a tag substring (repeatable)
//   - title:TEXT    - match a title substring (repeatable)
//   - from:DATE     - earliest start date, YYYY-MM-DD inclusive
//   - to:DATE       - latest start date, YYYY-MM-DD inclusive
//
// Values containing spaces can be quoted with the whole term, e.g.
// "title:bake sale" as a single argument.
func Parse(expr string) (*Filter, error) {
	f := New()

	for _, term := range strings.Fields(expr) {
		key, value, found := strings.Cut(term, ":")
		if !found || value == "" {
			return nil, fmt.Errorf("invalid filter term %q, expected key:value", term)
		}

		switch strings.ToLower(key) {
		case "category":
			f.Categories = append(f.Categories, value)
		case "tag":
			f.Tags = append(f.Tags, value)
		case "title":
			f.Titles = append(f.Titles, value)
		case "from":
			if err := validDate(value); err != nil {
				return nil, err
			}
			f.DateFrom = value
		case "to":
			if err := validDate(value); err != nil {
				return nil, err
			}
			f.DateTo = value
		default:
			return nil, fmt.Errorf("unknown filter key %q", key)
		}
	}

	if f.DateFrom != "" && f.DateTo != "" && f.DateFrom > f.DateTo {
		return nil, fmt.Errorf("filter start date %s is after end date %s", f.DateFrom, f.DateTo)
	}

	return f, nil
}

func validDate(s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("invalid filter date %q, expected YYYY-MM-DD", s)
	}
	return nil
}
