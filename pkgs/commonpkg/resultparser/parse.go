package resultparser

import (
	"bytes"
	"math"
	"strconv"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/model"
	"github.com/tidwall/gjson"
)

////////////////////////////////////////////////////////////////////////////////

const (
	FIELD_TEXT     = "text"
	FIELD_DISTANCE = "distance"
)

// ParseResults reads the output of a closest-objects query. Empty output and
// an empty list both yield an empty, non-nil slice. Entries keep their order.
func ParseResults(raw []byte) ([]model.SimilarityResult, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return []model.SimilarityResult{}, nil
	}

	normalized, err := Normalize(trimmed)
	if err != nil {
		return nil, err
	}

	doc := gjson.ParseBytes(normalized)
	if !doc.IsArray() {
		return nil, errorAt(-1, "top level value is not a list")
	}

	results := []model.SimilarityResult{}
	var parseErr error
	index := 0
	doc.ForEach(func(_, item gjson.Result) bool {
		result, err := parseEntry(index, item)
		if err != nil {
			parseErr = err
			return false
		}
		results = append(results, result)
		index++
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return results, nil
}

func parseEntry(index int, item gjson.Result) (model.SimilarityResult, error) {
	if !item.IsObject() {
		return model.SimilarityResult{}, errorAt(index, "entry is not a dict")
	}

	text := item.Get(FIELD_TEXT)
	if text.Type != gjson.String {
		return model.SimilarityResult{}, errorAt(index, "missing text")
	}

	distance := item.Get(FIELD_DISTANCE)
	var value float64
	switch distance.Type {
	case gjson.Number:
		v, err := strconv.ParseFloat(distance.Raw, 64)
		if err != nil {
			return model.SimilarityResult{}, errorAt(index, "bad distance "+distance.Raw)
		}
		value = v
	case gjson.String:
		v, err := strconv.ParseFloat(distance.String(), 64)
		if err != nil {
			return model.SimilarityResult{}, errorAt(index, "bad distance "+strconv.Quote(distance.String()))
		}
		value = v
	default:
		return model.SimilarityResult{}, errorAt(index, "missing distance")
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return model.SimilarityResult{}, errorAt(index, "bad distance "+distance.Raw)
	}

	return model.SimilarityResult{Text: text.String(), Distance: value}, nil
}

func errorAt(index int, msg string) error {
	return &EntryError{Index: index, Msg: msg}
}
