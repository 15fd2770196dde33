package badger

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/indexit/core"
)

// Metadata values carry a one-byte tag ahead of the MUS-encoded scalar.
// Integers of any width collapse to int64 on disk and come back as int,
// floats come back as float64, matching what the JSON-based backends
// return after a round trip.
const (
	tagString byte = iota
	tagInt
	tagFloat
	tagBool
)

// raw.Float32 always occupies four bytes.
const float32Size = 4

func marshalRecord(record core.VectorRecord) []byte {
	bs := make([]byte, sizeRecord(record))
	n := ord.String.Marshal(record.ID, bs)
	n += varint.Int.Marshal(len(record.Values), bs[n:])
	for _, v := range record.Values {
		n += raw.Float32.Marshal(v, bs[n:])
	}
	n += varint.Int.Marshal(len(record.Metadata), bs[n:])
	for key, value := range record.Metadata {
		n += ord.String.Marshal(key, bs[n:])
		n += marshalValue(value, bs[n:])
	}
	return bs
}

func sizeRecord(record core.VectorRecord) int {
	size := ord.String.Size(record.ID)
	size += varint.Int.Size(len(record.Values))
	size += len(record.Values) * float32Size
	size += varint.Int.Size(len(record.Metadata))
	for key, value := range record.Metadata {
		size += ord.String.Size(key)
		size += sizeValue(value)
	}
	return size
}

func unmarshalRecord(bs []byte) (core.VectorRecord, error) {
	var record core.VectorRecord

	id, n, err := ord.String.Unmarshal(bs)
	if err != nil {
		return record, fmt.Errorf("%w: id: %w", ErrCorruptRecord, err)
	}
	record.ID = id

	count, m, err := varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return record, fmt.Errorf("%w: vector length: %w", ErrCorruptRecord, err)
	}
	if count < 0 || count*float32Size > len(bs)-n {
		return record, fmt.Errorf("%w: vector length %d exceeds payload", ErrCorruptRecord, count)
	}
	record.Values = make([]float32, count)
	for i := range record.Values {
		v, m, err := raw.Float32.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return record, fmt.Errorf("%w: vector element %d: %w", ErrCorruptRecord, i, err)
		}
		record.Values[i] = v
	}

	entries, m, err := varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return record, fmt.Errorf("%w: metadata length: %w", ErrCorruptRecord, err)
	}
	if entries < 0 || entries > len(bs)-n {
		return record, fmt.Errorf("%w: metadata length %d exceeds payload", ErrCorruptRecord, entries)
	}
	if entries > 0 {
		record.Metadata = make(map[string]any, entries)
	}
	for i := 0; i < entries; i++ {
		key, m, err := ord.String.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return record, fmt.Errorf("%w: metadata key %d: %w", ErrCorruptRecord, i, err)
		}
		value, m, err := unmarshalValue(bs[n:])
		n += m
		if err != nil {
			return record, fmt.Errorf("%w: metadata value %q: %w", ErrCorruptRecord, key, err)
		}
		record.Metadata[key] = value
	}
	return record, nil
}

// normalizeScalar maps a metadata value onto its storage tag and the value
// actually written. Anything that is not a scalar is rendered as a string,
// the same treatment the metadata builder applies before records reach a
// store.
func normalizeScalar(value any) (byte, any) {
	switch v := value.(type) {
	case string:
		return tagString, v
	case bool:
		return tagBool, v
	case int:
		return tagInt, int64(v)
	case int8:
		return tagInt, int64(v)
	case int16:
		return tagInt, int64(v)
	case int32:
		return tagInt, int64(v)
	case int64:
		return tagInt, v
	case uint:
		return tagInt, int64(v)
	case uint8:
		return tagInt, int64(v)
	case uint16:
		return tagInt, int64(v)
	case uint32:
		return tagInt, int64(v)
	case uint64:
		return tagInt, int64(v)
	case float32:
		return tagFloat, float64(v)
	case float64:
		return tagFloat, v
	default:
		return tagString, fmt.Sprintf("%v", v)
	}
}

func sizeValue(value any) int {
	tag, normalized := normalizeScalar(value)
	size := 1
	switch tag {
	case tagString:
		size += ord.String.Size(normalized.(string))
	case tagInt:
		size += varint.Int64.Size(normalized.(int64))
	case tagFloat:
		size += raw.Float64.Size(normalized.(float64))
	case tagBool:
		size += ord.Bool.Size(normalized.(bool))
	}
	return size
}

func marshalValue(value any, bs []byte) int {
	tag, normalized := normalizeScalar(value)
	bs[0] = tag
	n := 1
	switch tag {
	case tagString:
		n += ord.String.Marshal(normalized.(string), bs[n:])
	case tagInt:
		n += varint.Int64.Marshal(normalized.(int64), bs[n:])
	case tagFloat:
		n += raw.Float64.Marshal(normalized.(float64), bs[n:])
	case tagBool:
		n += ord.Bool.Marshal(normalized.(bool), bs[n:])
	}
	return n
}

func unmarshalValue(bs []byte) (any, int, error) {
	if len(bs) == 0 {
		return nil, 0, fmt.Errorf("%w: missing value tag", ErrCorruptRecord)
	}
	n := 1
	switch bs[0] {
	case tagString:
		v, m, err := ord.String.Unmarshal(bs[n:])
		return v, n + m, err
	case tagInt:
		v, m, err := varint.Int64.Unmarshal(bs[n:])
		return int(v), n + m, err
	case tagFloat:
		v, m, err := raw.Float64.Unmarshal(bs[n:])
		return v, n + m, err
	case tagBool:
		v, m, err := ord.Bool.Unmarshal(bs[n:])
		return v, n + m, err
	default:
		return nil, 0, fmt.Errorf("%w: unknown value tag %d", ErrCorruptRecord, bs[0])
	}
}
