package store

import (
	"reflect"
	"strconv"

	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

var (
	tFloat64         = reflect.TypeOf(float64(0))
	tOptionalFloat64 = reflect.TypeOf((*float64)(nil))
)

// newMongoRegistry extends the default registry so numeric fields written by
// older clients as text, or as garbage, still decode. Required numbers follow
// points.ParseNumber; optional ones keep only real numbers and read anything
// else as unset.
func newMongoRegistry() *bsoncodec.Registry {
	reg := bson.NewRegistry()
	reg.RegisterTypeDecoder(tFloat64, bsoncodec.ValueDecoderFunc(decodeLenientFloat))
	reg.RegisterTypeDecoder(tOptionalFloat64, bsoncodec.ValueDecoderFunc(decodeOptionalFloat))
	return reg
}

func decodeLenientFloat(_ bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Kind() != reflect.Float64 {
		return bsoncodec.ValueDecoderError{Name: "decodeLenientFloat", Kinds: []reflect.Kind{reflect.Float64}, Received: val}
	}
	f, _, err := readNumber(vr, true)
	if err != nil {
		return err
	}
	val.SetFloat(f)
	return nil
}

func decodeOptionalFloat(_ bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Type() != tOptionalFloat64 {
		return bsoncodec.ValueDecoderError{Name: "decodeOptionalFloat", Types: []reflect.Type{tOptionalFloat64}, Received: val}
	}
	f, ok, err := readNumber(vr, false)
	if err != nil {
		return err
	}
	if !ok {
		val.Set(reflect.Zero(tOptionalFloat64))
		return nil
	}
	val.Set(reflect.ValueOf(points.Float(f)))
	return nil
}

// readNumber consumes the next value. ok is false when the value is not a
// number; strings and booleans are converted only when parseText is set.
func readNumber(vr bsonrw.ValueReader, parseText bool) (float64, bool, error) {
	switch vr.Type() {
	case bsontype.Double:
		f, err := vr.ReadDouble()
		return points.ParseNumber(f), err == nil, err
	case bsontype.Int32:
		n, err := vr.ReadInt32()
		return float64(n), err == nil, err
	case bsontype.Int64:
		n, err := vr.ReadInt64()
		return float64(n), err == nil, err
	case bsontype.Decimal128:
		d, err := vr.ReadDecimal128()
		if err != nil {
			return 0, false, err
		}
		f, perr := strconv.ParseFloat(d.String(), 64)
		return points.ParseNumber(f), perr == nil, nil
	case bsontype.String:
		s, err := vr.ReadString()
		if err != nil || !parseText {
			return 0, false, err
		}
		return points.ParseNumber(s), true, nil
	case bsontype.Boolean:
		b, err := vr.ReadBoolean()
		if err != nil || !parseText {
			return 0, false, err
		}
		return points.ParseNumber(b), true, nil
	case bsontype.Null:
		return 0, false, vr.ReadNull()
	case bsontype.Undefined:
		return 0, false, vr.ReadUndefined()
	default:
		return 0, false, vr.Skip()
	}
}
