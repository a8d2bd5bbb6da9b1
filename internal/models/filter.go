package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Media types accepted by the photo service search endpoint.
const (
	MediaImage = "IMAGE"
	MediaVideo = "VIDEO"
	MediaAudio = "AUDIO"
	MediaOther = "OTHER"
)

// FilterConfig is one named smart album.
//
// Name is the key used to find or create the album on the server.
type FilterConfig struct {
	Name  string           `json:"name" yaml:"name" validate:"required"`
	Query FilterExpression `json:"query" yaml:"query"`
}

// FilterExpression describes which assets belong to an album.
//
// People are ANDed, AnyPeople are ORed (one search per person), Tags are ANDed.
// Every Country and every Timespan entry becomes an independent search branch.
// State, City, Favorite and Type are copied into every search unchanged.
//
// A nil list means the field was absent from the source; an empty non-nil
// list means it was present but empty.
type FilterExpression struct {
	People    StringList   `json:"people,omitempty" yaml:"people,omitempty" validate:"omitempty,dive,required"`
	AnyPeople StringList   `json:"any_people,omitempty" yaml:"any_people,omitempty" validate:"omitempty,min=1,dive,required"`
	Tags      StringList   `json:"tags,omitempty" yaml:"tags,omitempty" validate:"omitempty,dive,required"`
	Country   StringList   `json:"country,omitempty" yaml:"country,omitempty" validate:"omitempty,min=1,dive,required"`
	Timespan  TimespanList `json:"timespan,omitempty" yaml:"timespan,omitempty" validate:"omitempty,min=1,dive"`
	State     string       `json:"state,omitempty" yaml:"state,omitempty"`
	City      string       `json:"city,omitempty" yaml:"city,omitempty"`
	Favorite  *bool        `json:"favorite,omitempty" yaml:"favorite,omitempty"`
	Type      string       `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,oneof=IMAGE VIDEO AUDIO OTHER"`
}

// StringList is a list of strings that also accepts a single string.
type StringList []string

// UnmarshalJSON accepts either "value" or ["a", "b"].
func (s *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*s = StringList{single}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected a string or a list of strings: %w", err)
	}
	if list == nil {
		list = []string{}
	}
	*s = list
	return nil
}

// UnmarshalYAML accepts either a scalar or a sequence of scalars.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil
		}
		*s = StringList{node.Value}
		return nil
	case yaml.SequenceNode:
		list := make([]string, 0, len(node.Content))
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
	}
}

// Timespan is an inclusive range of calendar dates in YYYY-MM-DD form.
type Timespan struct {
	Start string `json:"start" yaml:"start" validate:"required,datetime=2006-01-02"`
	End   string `json:"end" yaml:"end" validate:"required,datetime=2006-01-02"`
}

func (t Timespan) String() string {
	return t.Start + ".." + t.End
}

// TimespanList is a list of timespans that also accepts a single timespan object.
type TimespanList []Timespan

// UnmarshalJSON accepts either {"start": ..., "end": ...} or a list of them.
func (l *TimespanList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '{' {
		var single Timespan
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*l = TimespanList{single}
		return nil
	}

	var list []Timespan
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected a timespan or a list of timespans: %w", err)
	}
	if list == nil {
		list = []Timespan{}
	}
	*l = list
	return nil
}

// UnmarshalYAML accepts either a mapping or a sequence of mappings.
func (l *TimespanList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		var single Timespan
		if err := node.Decode(&single); err != nil {
			return err
		}
		*l = TimespanList{single}
		return nil
	case yaml.SequenceNode:
		list := make([]Timespan, 0, len(node.Content))
		if err := node.Decode(&list); err != nil {
			return err
		}
		*l = list
		return nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil
		}
	}
	return fmt.Errorf("line %d: expected a timespan or a list of timespans", node.Line)
}
