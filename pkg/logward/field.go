package logward

// Field represents a key-value pair attached to a log record.
type Field struct {
	Key   string
	Value any
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an integer field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 creates an int64 field.
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Float64 creates a float64 field.
func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a boolean field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field under the conventional "error" key.
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// Any creates a field with an arbitrary value type.
func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// mergeFields overlays over onto base. A key present in both keeps its
// position from base but takes the value from over; new keys are appended in
// their original order. The inputs are never mutated.
func mergeFields(base, over []Field) []Field {
	if len(base) == 0 {
		return append([]Field(nil), over...)
	}
	if len(over) == 0 {
		return append([]Field(nil), base...)
	}

	merged := make([]Field, len(base), len(base)+len(over))
	copy(merged, base)

	for _, f := range over {
		replaced := false
		for i := range merged {
			if merged[i].Key == f.Key {
				merged[i].Value = f.Value
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, f)
		}
	}
	return merged
}
