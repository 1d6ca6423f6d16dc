// Package codec provides the serializers used to persist values in secure storage.
//
// Every codec implements the small Codec interface (Name, Marshal, Unmarshal), so
// the stores can swap formats without knowing about them. Built-in codecs:
//   - XML: the tree codec, default for typed object records (encoding/xml)
//   - Binary: the tag-based binary codec for serialized blobs (BSON, mongo-driver)
//   - YAML: gopkg.in/yaml.v3, readable plaintext records
//   - JSON: encoding/json
//
// # Usage
//
//	c := codec.XML()
//	data, err := c.Marshal(settings)
//	if err != nil {
//		return err
//	}
//
//	var out Settings
//	if err := c.Unmarshal(data, &out); err != nil {
//		return err
//	}
//
// ByName resolves a codec from configuration ("xml", "binary", "yaml", "json").
//
// The binary codec wraps every value in a one-field document so that scalars,
// strings and slices can be encoded as well as structs.
//
// # Error Handling
//
// Encoding failures wrap ErrMarshalFailed and decoding failures wrap
// ErrUnmarshalFailed via errors.Join, so callers can tell a corrupt record
// apart from an I/O problem with errors.Is. Nil values return ErrNilValue and
// non-pointer targets return ErrNotPointer.
package codec
