package fleks

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// Decode unmarshals bz into a new T.
func Decode[T any](bz []byte) (T, error) {
	comp := new(T)
	err := json.Unmarshal(bz, comp)
	if err != nil {
		return *comp, eris.Wrapf(err, "decoding %T", *comp)
	}
	return *comp, nil
}

// Encode marshals comp to JSON.
func Encode(comp any) ([]byte, error) {
	bz, err := json.Marshal(comp)
	if err != nil {
		return nil, eris.Wrapf(err, "encoding %T", comp)
	}
	return bz, nil
}
