package codec

import "go.mongodb.org/mongo-driver/v2/bson"

// envelope lets scalars and slices travel as BSON, which only encodes documents at the top level.
type envelope struct {
	V any `bson:"v"`
}

type rawEnvelope struct {
	V bson.RawValue `bson:"v"`
}

type binaryCodec struct{}

// Binary returns the tag-based binary codec (BSON) used for serialized blobs.
func Binary() Codec { return binaryCodec{} }

func (binaryCodec) Name() string { return "binary" }

func (binaryCodec) Marshal(v any) ([]byte, error) {
	if err := checkMarshal(v); err != nil {
		return nil, err
	}
	data, err := bson.Marshal(envelope{V: v})
	if err != nil {
		return nil, marshalError(err)
	}
	return data, nil
}

func (binaryCodec) Unmarshal(data []byte, v any) error {
	if err := checkTarget(v); err != nil {
		return err
	}
	var raw rawEnvelope
	if err := bson.Unmarshal(data, &raw); err != nil {
		return unmarshalError(err)
	}
	if err := raw.V.Unmarshal(v); err != nil {
		return unmarshalError(err)
	}
	return nil
}
