package models

import "fmt"

// Person is a recognised face cluster on the photo server.
type Person struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsHidden bool   `json:"isHidden"`
}

// Tag is a user-defined tag. Value is the full hierarchical path ("Trips/Japan").
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Asset is a photo or video; only the identifier matters for membership.
type Asset struct {
	ID string `json:"id"`
}

// Album is a server-side collection of assets.
type Album struct {
	ID         string  `json:"id"`
	Name       string  `json:"albumName"`
	AssetCount int     `json:"assetCount"`
	Assets     []Asset `json:"assets,omitempty"`
}

// ServerVersion is the photo server release.
type ServerVersion struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

func (v ServerVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// NameMapping maps a human-readable name to an identifier.
//
// It is a read-only snapshot for the duration of one sync pass.
type NameMapping map[string]string

// PeopleMapping maps person names to IDs. Unnamed people are skipped and the
// first person listed under a duplicated name wins.
func PeopleMapping(people []Person) NameMapping {
	m := make(NameMapping, len(people))
	for _, p := range people {
		if p.Name == "" {
			continue
		}
		if _, seen := m[p.Name]; !seen {
			m[p.Name] = p.ID
		}
	}
	return m
}

// TagMapping maps tag values to IDs, with the same rules as [PeopleMapping].
func TagMapping(tags []Tag) NameMapping {
	m := make(NameMapping, len(tags))
	for _, t := range tags {
		if t.Value == "" {
			continue
		}
		if _, seen := m[t.Value]; !seen {
			m[t.Value] = t.ID
		}
	}
	return m
}
