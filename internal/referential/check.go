package referential

import (
	"fmt"
	"slices"
	"strings"
)

// IssueKind classifies a referential inconsistency.
type IssueKind string

const (
	IssueUnclassified   IssueKind = "unclassified"
	IssueAmbiguous      IssueKind = "ambiguous"
	IssueUndefinedGroup IssueKind = "undefined-group"
)

// Issue is one inconsistency found by Check.
type Issue struct {
	Kind       IssueKind    `json:"kind"`
	Pollutant  string       `json:"pollutant"`
	Group      string       `json:"group"`
	Code       string       `json:"code,omitempty"`
	Typologies []TypologyID `json:"typologies,omitempty"`
}

func (i Issue) String() string {
	switch i.Kind {
	case IssueUndefinedGroup:
		return fmt.Sprintf("%s: group %s is not defined", i.Pollutant, i.Group)
	case IssueUnclassified:
		return fmt.Sprintf("%s: code %s (group %s) belongs to no typology", i.Pollutant, i.Code, i.Group)
	default:
		ids := make([]string, len(i.Typologies))
		for k, id := range i.Typologies {
			ids[k] = string(id)
		}
		return fmt.Sprintf("%s: code %s (group %s) belongs to %s; %s wins",
			i.Pollutant, i.Code, i.Group, strings.Join(ids, ", "), ids[0])
	}
}

// Check verifies that every code of every pollutant group is listed by
// exactly one typology. Non-corrected PM10 groups are checked for existence.
func (r *Referential) Check() []Issue {
	var issues []Issue

	for _, code := range r.PollutantCodes() {
		p := r.Pollutants[code]
		for _, group := range p.Groups {
			codes, ok := r.Groups[group]
			if !ok {
				issues = append(issues, Issue{Kind: IssueUndefinedGroup, Pollutant: p.Code, Group: group})
				continue
			}
			for _, c := range codes {
				owners := r.owners(c)
				switch {
				case len(owners) == 0:
					issues = append(issues, Issue{Kind: IssueUnclassified, Pollutant: p.Code, Group: group, Code: c})
				case len(owners) > 1:
					issues = append(issues, Issue{Kind: IssueAmbiguous, Pollutant: p.Code, Group: group, Code: c, Typologies: owners})
				}
			}
		}
	}

	for _, t := range r.Typologies {
		if t.NonCorrected == "" {
			continue
		}
		if _, ok := r.Groups[t.NonCorrected]; !ok {
			issues = append(issues, Issue{Kind: IssueUndefinedGroup, Pollutant: "PM10NC", Group: t.NonCorrected})
		}
	}
	return issues
}

// owners lists, in classification order, the typologies whose groups contain code.
func (r *Referential) owners(code string) []TypologyID {
	var ids []TypologyID
	for _, t := range r.Typologies {
		for _, g := range t.Groups {
			if slices.Contains(r.Groups[g], code) {
				ids = append(ids, t.ID)
				break
			}
		}
	}
	return ids
}
