package env_vars

import (
	"os"
	"strings"

	"github.com/specialistvlad/exposing/internal/abi"
	"github.com/specialistvlad/exposing/internal/factory"
	"github.com/specialistvlad/exposing/internal/guid"
	"github.com/specialistvlad/exposing/internal/param"
	"github.com/specialistvlad/exposing/internal/typeid"
)

const (
	// Library is the library name of this module.
	Library = "env_vars"
	// QualifiedName names the snapshot component.
	QualifiedName = "exposing.env.Snapshot"
)

// IEnvironment reads environment variables.
type IEnvironment interface {
	abi.Unknown
	Lookup(name abi.String, out *param.Box[abi.String]) abi.Result
	All(out *param.HashMap[abi.String, abi.String]) abi.Result
}

// IEnvironmentInfo is the identity of IEnvironment.
var IEnvironmentInfo = typeid.RegisterInterface[IEnvironment]("exposing.env.environment", guid.MustParse("7D41B0E9-2C56-4A83-9F1E-6A0B3C8D2E47"))

// Exports holds the entry points of the library.
var Exports = factory.Export(Library,
	factory.Define(QualifiedName, func() (IEnvironment, error) { return NewSnapshot(os.Environ()) }),
)

type snapshot struct {
	abi.Impl
	names  []string
	values map[string]string
}

// NewSnapshot creates an environment from KEY=VALUE pairs. Later duplicates
// win; entries without '=' are ignored.
func NewSnapshot(environ []string) (IEnvironment, error) {
	s := &snapshot{values: make(map[string]string, len(environ))}
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		if _, seen := s.values[name]; !seen {
			s.names = append(s.names, name)
		}
		s.values[name] = value
	}
	s.Init(nil, abi.Entry{ID: IEnvironmentInfo.ID, Facet: s})
	return s, nil
}

func (s *snapshot) Lookup(name abi.String, out *param.Box[abi.String]) abi.Result {
	return abi.SafeCall(func() error {
		defer name.Release()
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		box := param.NewBox[abi.String]()
		if value, ok := s.values[name.String()]; ok {
			v := abi.NewString(value)
			err := box.Set(v)
			v.Release()
			if err != nil {
				box.Release()
				return err
			}
		}
		*out = box
		return nil
	})
}

func (s *snapshot) All(out *param.HashMap[abi.String, abi.String]) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		m := param.NewHashMap[abi.String, abi.String]()
		for _, name := range s.names {
			k, v := abi.NewString(name), abi.NewString(s.values[name])
			err := m.Set(k, v)
			k.Release()
			v.Release()
			if err != nil {
				m.Release()
				return err
			}
		}
		*out = m
		return nil
	})
}

// Environment is an owning handle to an IEnvironment.
type Environment struct {
	abi.Ref[IEnvironment]
}

// AsEnvironment queries obj for IEnvironment.
func AsEnvironment(obj abi.Unknown) (Environment, error) {
	r, err := abi.Query[IEnvironment](obj)
	return Environment{r}, err
}

// Lookup returns the value of name and whether it was set.
func (e Environment) Lookup(name string) (string, bool, error) {
	if e.IsNil() {
		return "", false, abi.ErrNullPointer
	}
	var box param.Box[abi.String]
	if err := abi.Check(e.Get().Lookup(abi.NewString(name), &box)); err != nil {
		return "", false, err
	}
	defer box.Release()

	if !box.HasValue() {
		return "", false, nil
	}
	v, err := box.Value()
	if err != nil {
		return "", false, err
	}
	defer v.Release()
	return v.String(), true, nil
}

// All returns a copy of the snapshot.
func (e Environment) All() (map[string]string, error) {
	if e.IsNil() {
		return nil, abi.ErrNullPointer
	}
	var m param.HashMap[abi.String, abi.String]
	if err := abi.Check(e.Get().All(&m)); err != nil {
		return nil, err
	}
	defer m.Release()

	all := make(map[string]string)
	for k, v := range m.All() {
		all[k.String()] = v.String()
	}
	return all, nil
}
