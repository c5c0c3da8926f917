package spec

import (
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/randomizer"
)

// FromMap converts a dynamically typed level, as found in loosely typed
// configuration, into a Level. Reserved keys may be written with or without a
// leading colon (":count" or "count"). Field order is not recoverable from a
// Go map, so fields are sorted by name.
//
//	count:    int, integral float or randomizer.Randomizer (required)
//	callback: Callback, func(*rand.Rand, *domain.Fields) error or nil
//	type:     string or randomizer.Randomizer
func FromMap(index int, m map[string]any) (Level, error) {
	var l Level
	var hasCount bool

	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, key := range names {
		v := m[key]
		switch strings.TrimPrefix(key, ":") {
		case CountKey:
			c, err := countOf(index, v)
			if err != nil {
				return Level{}, err
			}
			l.Count = c
			hasCount = true
		case CallbackKey:
			cb, err := callbackOf(index, v)
			if err != nil {
				return Level{}, err
			}
			l.Callback = cb
		case TypeKey:
			switch v.(type) {
			case string, randomizer.Randomizer:
			default:
				return Level{}, &domain.SpecShapeError{Level: index, Key: TypeKey, Value: v, Reason: "type must be a string or a randomizer"}
			}
			l.Set(TypeKey, v)
		default:
			l.Set(key, v)
		}
	}

	if !hasCount {
		return Level{}, &domain.SpecShapeError{Level: index, Key: CountKey, Reason: "count is required"}
	}
	if err := l.validate(index); err != nil {
		return Level{}, err
	}
	return l, nil
}

// FromMaps converts a list of dynamically typed levels.
func FromMaps(ms []map[string]any) ([]Level, error) {
	levels := make([]Level, 0, len(ms))
	for i, m := range ms {
		l, err := FromMap(i, m)
		if err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	return levels, nil
}

func countOf(index int, v any) (Count, error) {
	if rz, ok := v.(randomizer.Randomizer); ok {
		return RandomCount(rz), nil
	}
	n, ok := toInt(v)
	if !ok {
		return Count{}, &domain.SpecShapeError{Level: index, Key: CountKey, Value: v, Reason: "count must be an integer or a randomizer"}
	}
	return Fixed(n), nil
}

func callbackOf(index int, v any) (Callback, error) {
	switch cb := v.(type) {
	case nil:
		return nil, nil
	case Callback:
		return cb, nil
	case func(*rand.Rand, *domain.Fields) error:
		return cb, nil
	}
	return nil, &domain.SpecShapeError{Level: index, Key: CallbackKey, Value: v, Reason: "callback must be a function"}
}
