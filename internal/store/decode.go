package store

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Decode copies rec into out, a pointer to a struct with mapstructure tags. Time
// fields accept RFC 3339 strings, which is how JSON bodies carry them.
func Decode(rec Record, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
			idToString,
		),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(map[string]any(rec))
}

// idToString keeps numeric ids written by other clients readable as strings.
func idToString(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	switch from.Kind() {
	case reflect.Float64, reflect.Float32:
		return fmt.Sprintf("%.0f", reflect.ValueOf(data).Float()), nil
	default:
		return data, nil
	}
}

// Load fetches one record and decodes it into a new T.
func Load[T any](ctx context.Context, s Store, collection, id string) (*T, error) {
	rec, err := s.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}

	out := new(T)
	if err := Decode(rec, out); err != nil {
		return nil, fmt.Errorf("decoding %s/%s: %w", collection, id, err)
	}
	return out, nil
}

// Find queries a collection and decodes every result into a T.
func Find[T any](ctx context.Context, s Store, collection string, where Record) ([]*T, error) {
	recs, err := s.Query(ctx, collection, where)
	if err != nil {
		return nil, err
	}

	out := make([]*T, 0, len(recs))
	for _, rec := range recs {
		item := new(T)
		if err := Decode(rec, item); err != nil {
			return nil, fmt.Errorf("decoding %s record: %w", collection, err)
		}
		out = append(out, item)
	}
	return out, nil
}
