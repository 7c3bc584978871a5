package api

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// SuggestRequest is the body of a suggestion call.
type SuggestRequest struct {
	Ingredients LooseStrings `json:"ingredients"`
	MaxResults  LooseInt     `json:"max_results"`
	AllowSubst  LooseBool    `json:"allow_subst"`
}

// LooseStrings accepts a list of ingredient names. Entries that are not
// strings are dropped, a lone string is a one-item list, and any other value
// means no ingredients.
type LooseStrings []string

func (l *LooseStrings) UnmarshalJSON(data []byte) error {
	*l = nil

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		*l = LooseStrings{v}
	case []interface{}:
		out := make(LooseStrings, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		*l = out
	}
	return nil
}

// LooseInt accepts a JSON number or a numeric string. Anything else, null
// included, leaves it unset so the caller's default applies.
type LooseInt struct {
	Value *int
}

func (l *LooseInt) UnmarshalJSON(data []byte) error {
	l.Value = nil
	data = bytes.TrimSpace(data)

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.Atoi(s); err == nil {
			l.Value = &n
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	switch {
	case f > math.MaxInt32:
		f = math.MaxInt32
	case f < math.MinInt32:
		f = math.MinInt32
	}
	n := int(f)
	l.Value = &n
	return nil
}

// LooseBool accepts booleans, numbers (non-zero is true) and the usual
// spellings of true and false. Unrecognised values leave it unset.
type LooseBool struct {
	Value *bool
}

func (l *LooseBool) UnmarshalJSON(data []byte) error {
	l.Value = nil

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var b bool
	switch v := raw.(type) {
	case bool:
		b = v
	case float64:
		b = v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "t", "1", "yes", "y", "on":
			b = true
		case "false", "f", "0", "no", "n", "off":
			b = false
		default:
			return nil
		}
	default:
		return nil
	}
	l.Value = &b
	return nil
}
