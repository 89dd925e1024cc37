package output

import (
	"encoding/json"
)

// Viewable pairs a value with its text renderer so one Write call serves
// every output format. Structured formats marshal the value itself; text
// output goes through Render, which is where table layout lives.
type Viewable[T any] struct {
	Data   T
	Render func(T) string
}

// TextOutput satisfies Formatter.
func (v Viewable[T]) TextOutput() string {
	return v.Render(v.Data)
}

// MarshalJSON serializes the wrapped value, not the wrapper.
func (v Viewable[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Data)
}

// MarshalYAML serializes the wrapped value, not the wrapper.
func (v Viewable[T]) MarshalYAML() (interface{}, error) {
	return v.Data, nil
}
