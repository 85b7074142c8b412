package tracker

import (
	"encoding/json"
	"fmt"
	"time"
)

// The state blob is one JSON document. Older shapes are upgraded through a
// versioned migration table applied sequentially, so a future shape change
// only adds one entry here instead of re-deriving field-presence checks.
//
// Version 1 is the document the original PWA kept in localStorage: ui state,
// "prefs", a single pplNext rotation pointer, a "workouts" map with per-set
// "kg" fields, and history entries keyed by workoutId.
var migrations = map[int]func(doc map[string]any) error{
	1: migrateV1,
}

// encodeState serializes the state for storage.
func encodeState(st *State) ([]byte, error) {
	return json.Marshal(st)
}

// ParseState decodes a state blob of any supported schema version into the
// current shape, filling missing fields with defaults.
func ParseState(data []byte) (*State, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing state blob: %w", err)
	}

	v := 1
	if raw, ok := doc["schemaVersion"].(float64); ok {
		v = int(raw)
	}
	if v > CurrentSchemaVersion {
		return nil, fmt.Errorf("state schema %d is newer than supported %d", v, CurrentSchemaVersion)
	}
	for ; v < CurrentSchemaVersion; v++ {
		fn := migrations[v]
		if fn == nil {
			return nil, fmt.Errorf("no migration from schema %d", v)
		}
		if err := fn(doc); err != nil {
			return nil, fmt.Errorf("migrating schema %d: %w", v, err)
		}
	}
	doc["schemaVersion"] = CurrentSchemaVersion

	buf, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("re-encoding migrated state: %w", err)
	}
	var st State
	if err := json.Unmarshal(buf, &st); err != nil {
		return nil, fmt.Errorf("decoding state: %w", err)
	}
	st.normalize()
	return &st, nil
}

// Legacy id tables. The very first app releases used bare push/pull/legs
// ids; later ones reused the program id for full-body days.
var legacyDayIDs = map[string]string{
	"push":       "db_push",
	"pull":       "db_pull",
	"legs":       "db_legs",
	"fullbody_a": "db_fullbody",
	"db_full":    "db_fullbody",
	"ez_full":    "ez_fullbody",
	"im_full":    "im_fullbody",
}

var legacyDayProgram = map[string]string{
	"db_push": "db_ppl", "db_pull": "db_ppl", "db_legs": "db_ppl",
	"db_fullbody": "db_full",
	"ez_push":     "ez_ppl", "ez_pull": "ez_ppl", "ez_legs": "ez_ppl",
	"ez_fullbody": "ez_full",
	"im_push":     "im_ppl", "im_pull": "im_ppl", "im_legs": "im_ppl",
	"im_fullbody": "im_full",
	"pelvic_tilt": "complementary", "posture_reset": "complementary",
	"mobility_flow": "complementary", "balance": "complementary",
}

var legacyChecklistDays = map[string]bool{
	"pelvic_tilt": true, "posture_reset": true,
	"mobility_flow": true, "balance": true,
}

// Index of each db_ppl day, for converting the legacy pplNext pointer.
var legacyPPLIndex = map[string]int{"db_push": 0, "db_pull": 1, "db_legs": 2}

func canonicalDayID(id string) string {
	if mapped, ok := legacyDayIDs[id]; ok {
		return mapped
	}
	return id
}

// migrateV1 upgrades the legacy PWA document. Elements with unexpected
// shapes are dropped rather than failing the whole load; the app degrades to
// defaults instead of crashing on a half-corrupt blob.
func migrateV1(doc map[string]any) error {
	delete(doc, "ui")
	delete(doc, "version")

	prefs, _ := doc["prefs"].(map[string]any)
	delete(doc, "prefs")
	doc["preferences"] = map[string]any{
		"restEnabled":  boolOr(prefs["restTimer"], true),
		"soundEnabled": boolOr(prefs["sound"], true),
		"restSeconds":  numOr(prefs["restSeconds"], defaultRestSeconds),
		"weightStep":   defaultWeightStep,
	}

	rotation := map[string]any{}
	if old, ok := doc["rotation"].(map[string]any); ok {
		if next, ok := old["pplNext"].(string); ok {
			if idx, ok := legacyPPLIndex[canonicalDayID(next)]; ok {
				rotation["db_ppl"] = idx
			}
		}
	}
	doc["rotation"] = rotation

	sessions := map[string]any{}
	if workouts, ok := doc["workouts"].(map[string]any); ok {
		for oldID, raw := range workouts {
			dayID := canonicalDayID(oldID)
			programID, known := legacyDayProgram[dayID]
			if !known {
				continue
			}
			ws, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			sessions[dayID] = migrateV1Session(ws, programID, dayID)
		}
	}
	delete(doc, "workouts")
	doc["sessions"] = sessions

	var history []any
	if old, ok := doc["history"].([]any); ok {
		for _, raw := range old {
			it, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			dayID := canonicalDayID(stringOr(it["workoutId"], ""))
			history = append(history, map[string]any{
				"id":          stringOr(it["id"], ""),
				"programId":   legacyDayProgram[dayID],
				"dayId":       dayID,
				"title":       stringOr(it["title"], ""),
				"finishedAt":  stringOr(it["dateISO"], ""),
				"totalVolume": numOr(it["totalVolume"], 0),
			})
		}
	}
	doc["history"] = history

	return nil
}

func migrateV1Session(ws map[string]any, programID, dayID string) map[string]any {
	kind := "sets"
	if legacyChecklistDays[dayID] {
		kind = "checklist"
	}

	exercises := map[string]any{}
	if old, ok := ws["exercise"].(map[string]any); ok {
		for exID, raw := range old {
			ex, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			out := map[string]any{
				"name":      stringOr(ex["name"], ""),
				"rx":        stringOr(ex["rx"], ""),
				"swapGroup": stringOr(ex["swapGroup"], ""),
			}
			if sets, ok := ex["sets"].([]any); ok {
				converted := make([]any, 0, len(sets))
				for _, sr := range sets {
					set, ok := sr.(map[string]any)
					if !ok {
						continue
					}
					converted = append(converted, map[string]any{
						"reps":   numOr(set["reps"], DefaultReps),
						"weight": numOr(set["kg"], DefaultWeight),
						"done":   boolOr(set["done"], false),
					})
				}
				out["sets"] = converted
			} else {
				out["done"] = boolOr(ex["done"], false)
			}
			exercises[exID] = out
		}
	}

	startedAt := time.Time{}
	if ms, ok := ws["startedAt"].(float64); ok {
		startedAt = time.UnixMilli(int64(ms)).UTC()
	}

	return map[string]any{
		"programId": programID,
		"dayId":     dayID,
		"kind":      kind,
		"startedAt": startedAt.Format(time.RFC3339Nano),
		"exercises": exercises,
		"rest":      map[string]any{"active": false},
	}
}

func boolOr(v any, def bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}

func numOr(v any, def float64) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return def
}

func stringOr(v any, def string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return def
}
