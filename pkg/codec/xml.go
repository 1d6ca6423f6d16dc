package codec

import (
	"encoding/xml"
	"reflect"
	"strings"
	"unicode"
)

type xmlCodec struct{}

// XML returns the tree codec used for plaintext object records.
// Output carries the standard XML header so records are self-describing on disk.
//
// encoding/xml writes the elements of a top-level slice or array without a
// root, so lists are wrapped in an ArrayOf<Elem> element whose children are
// named after the element type.
func XML() Codec { return xmlCodec{} }

func (xmlCodec) Name() string { return "xml" }

func (xmlCodec) Marshal(v any) ([]byte, error) {
	if err := checkMarshal(v); err != nil {
		return nil, err
	}
	if list := listValue(reflect.ValueOf(v)); list.IsValid() {
		v = wrapList(list)
	}
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, marshalError(err)
	}
	out := make([]byte, 0, len(xml.Header)+len(body))
	out = append(out, xml.Header...)
	return append(out, body...), nil
}

func (xmlCodec) Unmarshal(data []byte, v any) error {
	if err := checkTarget(v); err != nil {
		return err
	}
	target := reflect.ValueOf(v).Elem()
	if !isList(target.Type()) {
		if err := xml.Unmarshal(data, v); err != nil {
			return unmarshalError(err)
		}
		return nil
	}

	envelope := reflect.New(listEnvelope(target.Type().Elem()))
	if err := xml.Unmarshal(data, envelope.Interface()); err != nil {
		return unmarshalError(err)
	}
	items := envelope.Elem().Field(1)
	if target.Kind() == reflect.Array {
		target.SetZero()
		reflect.Copy(target, items)
		return nil
	}
	if items.IsNil() {
		target.SetZero()
		return nil
	}
	target.Set(items.Convert(target.Type()))
	return nil
}

func isList(t reflect.Type) bool {
	k := t.Kind()
	return (k == reflect.Slice || k == reflect.Array) && t.Elem().Kind() != reflect.Uint8
}

// listValue dereferences v and returns it when it is a list, else the zero Value.
func listValue(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	if !isList(v.Type()) {
		return reflect.Value{}
	}
	return v
}

func wrapList(list reflect.Value) any {
	elem := list.Type().Elem()
	envelope := reflect.New(listEnvelope(elem)).Elem()
	envelope.Field(0).Set(reflect.ValueOf(xml.Name{Local: "ArrayOf" + elementName(elem)}))

	items := reflect.MakeSlice(reflect.SliceOf(elem), list.Len(), list.Len())
	reflect.Copy(items, list)
	envelope.Field(1).Set(items)
	return envelope.Interface()
}

// listEnvelope is struct{ XMLName xml.Name; <Elem> []elem `xml:",any"` }.
// encoding/xml names ",any" children after the field unless the element type
// declares its own XMLName.
func listEnvelope(elem reflect.Type) reflect.Type {
	return reflect.StructOf([]reflect.StructField{
		{Name: "XMLName", Type: reflect.TypeFor[xml.Name]()},
		{Name: elementName(elem), Type: reflect.SliceOf(elem), Tag: `xml:",any"`},
	})
}

func elementName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" || name == "XMLName" || strings.IndexFunc(name, notIdentRune) >= 0 {
		return "Item"
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	if !unicode.IsUpper(runes[0]) {
		return "Item"
	}
	return string(runes)
}

func notIdentRune(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
}
