//go:build js && wasm

package browser

import (
	"fmt"
	"syscall/js"

	"github.com/Kush-Singh-26/kosh-client/client/storage"
)

// WebStorage is window.localStorage or window.sessionStorage. Access can
// throw (privacy modes, quota, sandboxed frames); every throw becomes
// storage.ErrUnavailable.
type WebStorage struct {
	name string
}

func LocalStorage() *WebStorage   { return &WebStorage{name: "localStorage"} }
func SessionStorage() *WebStorage { return &WebStorage{name: "sessionStorage"} }

func (s *WebStorage) area() js.Value {
	v := js.Global().Get(s.name)
	if v.IsUndefined() || v.IsNull() {
		panic(fmt.Errorf("%s is not available", s.name))
	}
	return v
}

func (s *WebStorage) Get(key string) (value string, ok bool, err error) {
	defer recoverInto(&err, "get", key)
	v := s.area().Call("getItem", key)
	if v.IsNull() || v.IsUndefined() {
		return "", false, nil
	}
	return v.String(), true, nil
}

func (s *WebStorage) Set(key, value string) (err error) {
	defer recoverInto(&err, "set", key)
	s.area().Call("setItem", key, value)
	return nil
}

func (s *WebStorage) Remove(key string) (err error) {
	defer recoverInto(&err, "remove", key)
	s.area().Call("removeItem", key)
	return nil
}

// recoverInto turns a JS exception (surfaced as a panic) into ErrUnavailable.
func recoverInto(err *error, op, key string) {
	if r := recover(); r != nil {
		*err = storage.Unavailable(op, key, fmt.Errorf("%v", r))
	}
}

var _ storage.Store = (*WebStorage)(nil)
