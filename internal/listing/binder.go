package listing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/propmarket/backend/internal/models"
	"gorm.io/datatypes"
)

// binder copies form values onto a record. In create mode an absent key
// leaves the zero value. In patch mode an absent key leaves the field
// untouched and an empty value clears it. Every assigned field's Go name is
// recorded so the caller can persist exactly those columns.
type binder struct {
	form    Form
	patch   bool
	touched []string
	err     error
}

func newBinder(form Form, patch bool) *binder {
	return &binder{form: form, patch: patch}
}

func (b *binder) fail(field, message string) {
	if b.err == nil {
		b.err = models.NewValidationError(field, message)
	}
}

func (b *binder) touch(column string) {
	b.touched = append(b.touched, column)
}

// lookup returns the value under the first key that was sent.
func (b *binder) lookup(keys ...string) (string, string, bool) {
	for _, key := range keys {
		if v, ok := b.form.Value(key); ok {
			return key, strings.TrimSpace(v), true
		}
	}
	return "", "", false
}

func (b *binder) text(dst **string, column string, keys ...string) {
	_, v, ok := b.lookup(keys...)
	if !ok {
		return
	}
	if v == "" {
		*dst = nil
	} else {
		*dst = &v
	}
	b.touch(column)
}

func (b *binder) enum(dst **string, column string, keys ...string) {
	_, v, ok := b.lookup(keys...)
	if !ok {
		return
	}
	if v == "" {
		*dst = nil
	} else {
		v = strings.ToLower(v)
		*dst = &v
	}
	b.touch(column)
}

func (b *binder) requiredText(dst *string, column string, keys ...string) {
	if _, v, ok := b.lookup(keys...); ok {
		*dst = v
		b.touch(column)
	}
}

func (b *binder) requiredEnum(dst *string, column string, keys ...string) {
	if _, v, ok := b.lookup(keys...); ok {
		*dst = strings.ToLower(v)
		b.touch(column)
	}
}

// number reads a numeric field. The literals "null" and "undefined" count
// as absent.
func (b *binder) number(keys ...string) (string, string, bool) {
	key, v, ok := b.lookup(keys...)
	if !ok || v == "null" || v == "undefined" {
		return "", "", false
	}
	return key, v, true
}

func (b *binder) float(dst **float64, column string, keys ...string) {
	key, v, ok := b.number(keys...)
	if !ok {
		return
	}
	if v == "" {
		*dst = nil
		b.touch(column)
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		b.fail(key, key+" must be a number")
		return
	}
	if f < 0 {
		b.fail(key, key+" must not be negative")
		return
	}
	*dst = &f
	b.touch(column)
}

func (b *binder) whole(dst **int, column string, keys ...string) {
	key, v, ok := b.number(keys...)
	if !ok {
		return
	}
	if v == "" {
		*dst = nil
		b.touch(column)
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || math.IsInf(f, 0) || f != float64(int(f)) {
			b.fail(key, key+" must be a whole number")
			return
		}
		n = int(f)
	}
	*dst = &n
	b.touch(column)
}

func (b *binder) list(dst *datatypes.JSONSlice[string], column string, keys ...string) {
	tags, ok := b.tags(keys...)
	if !ok {
		if !b.patch && *dst == nil {
			*dst = datatypes.JSONSlice[string]{}
		}
		return
	}
	*dst = datatypes.JSONSlice[string](tags)
	b.touch(column)
}

// joined stores a tag list as a single comma separated string.
func (b *binder) joined(dst **string, column string, keys ...string) {
	tags, ok := b.tags(keys...)
	if !ok {
		return
	}
	if len(tags) == 0 {
		*dst = nil
	} else {
		s := strings.Join(tags, ", ")
		*dst = &s
	}
	b.touch(column)
}

func (b *binder) tags(keys ...string) ([]string, bool) {
	for _, key := range keys {
		if _, ok := b.form.Value(key); !ok {
			continue
		}
		return NormalizeTags(b.form.Values(key)), true
	}
	return nil, false
}

// NormalizeTags accepts repeated values, a JSON array literal or a comma
// separated string, and returns trimmed non-empty entries.
func NormalizeTags(values []string) []string {
	out := []string{}
	if len(values) > 1 {
		for _, v := range values {
			out = appendTrimmed(out, v)
		}
		return out
	}
	if len(values) == 0 {
		return out
	}

	v := strings.TrimSpace(values[0])
	if strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]") {
		var parsed []string
		if err := json.Unmarshal([]byte(v), &parsed); err == nil {
			for _, p := range parsed {
				out = appendTrimmed(out, p)
			}
			return out
		}
	}
	for _, part := range strings.Split(v, ",") {
		out = appendTrimmed(out, part)
	}
	return out
}

func appendTrimmed(out []string, v string) []string {
	if v = strings.TrimSpace(v); v != "" {
		out = append(out, v)
	}
	return out
}
