package points

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.yaml.in/yaml/v3"
)

const otherClubPenaltyKey = "otherClubMemberPenalty"

// UnmarshalJSON accepts loosely typed rule tables. See rulesFromDocument.
func (r *PointRules) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = rulesFromDocument(raw)
	return nil
}

// UnmarshalYAML accepts loosely typed rule tables. See rulesFromDocument.
func (r *PointRules) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*r = rulesFromDocument(raw)
	return nil
}

// UnmarshalBSONValue accepts loosely typed rule tables. A value that is not a
// document reads as empty rules.
func (r *PointRules) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t != bsontype.EmbeddedDocument {
		*r = PointRules{}
		return nil
	}
	raw := map[string]any{}
	if err := bson.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = rulesFromDocument(raw)
	return nil
}

// rulesFromDocument builds rules from a decoded document. Every leaf goes
// through ParseNumber. Entries under match that are not tables are skipped,
// except a numeric match.otherClubMemberPenalty, which is used when the
// top-level penalty is absent.
func rulesFromDocument(raw any) PointRules {
	var rules PointRules
	doc, ok := stringMap(raw)
	if !ok {
		return rules
	}
	if match, ok := stringMap(doc["match"]); ok {
		rules.Match = make(map[string]map[string]float64, len(match))
		for typ, v := range match {
			table, ok := stringMap(v)
			if !ok {
				if typ == otherClubPenaltyKey {
					if n, ok := strictNumber(v); ok {
						rules.OtherClubMemberPenalty = Float(n)
					}
				}
				continue
			}
			rules.Match[typ] = numberTable(table)
		}
	}
	if activity, ok := stringMap(doc["activity"]); ok {
		rules.Activity = numberTable(activity)
	}
	if n, ok := strictNumber(doc[otherClubPenaltyKey]); ok {
		rules.OtherClubMemberPenalty = Float(n)
	}
	return rules
}

func numberTable(m map[string]any) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = ParseNumber(v)
	}
	return out
}

// strictNumber is ParseNumber for optional values: ok is false when v is
// missing or does not hold a finite number.
func strictNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case float64, float32, int, int32, int64, uint, uint64, json.Number:
		return ParseNumber(n), true
	default:
		return 0, false
	}
}

// stringMap normalizes the map shapes produced by the JSON, YAML and BSON
// decoders. YAML maps with non-string keys are keyed by their printed form.
func stringMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
	}
	return out, true
}
