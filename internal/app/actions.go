package app

import (
	"fmt"

	"github.com/specialistvlad/exposing/internal/abi"
	"github.com/specialistvlad/exposing/internal/guid"
	"github.com/specialistvlad/exposing/internal/typeid"
)

// ModuleInfo describes one loaded library.
type ModuleInfo struct {
	Library        string      `json:"library"`
	QualifiedNames []string    `json:"qualified_names"`
	InterfaceIDs   []guid.GUID `json:"interface_ids"`
}

// Modules describes every loaded library in registration order.
func (a *App) Modules() ([]ModuleInfo, error) {
	var infos []ModuleInfo
	for _, name := range a.loader.LibraryNames() {
		f, ok := a.loader.LookupFactory(name)
		if !ok {
			continue // unloaded concurrently
		}
		names, err := f.QualifiedNames()
		if err != nil {
			f.Release()
			return nil, fmt.Errorf("listing components of '%s': %w", name, err)
		}
		ids, err := f.InterfaceIDs()
		f.Release()
		if err != nil {
			return nil, fmt.Errorf("listing interfaces of '%s': %w", name, err)
		}
		infos = append(infos, ModuleInfo{Library: name, QualifiedNames: names, InterfaceIDs: ids})
	}
	return infos, nil
}

func (a *App) printModules() error {
	infos, err := a.Modules()
	if err != nil {
		return err
	}
	for _, info := range infos {
		fmt.Fprintf(a.outW, "library %s\n", info.Library)
		for _, name := range info.QualifiedNames {
			fmt.Fprintf(a.outW, "  component %s\n", name)
		}
		for _, id := range info.InterfaceIDs {
			fmt.Fprintf(a.outW, "  interface %s\n", id)
		}
	}
	return nil
}

// create instantiates target, an interface id or a qualified name, prints
// the interfaces the new object answers and releases it.
func (a *App) create(target string) error {
	var (
		obj abi.Object
		err error
	)
	if id, perr := guid.Parse(target); perr == nil {
		obj, err = a.loader.CreateByInterfaceID(id)
	} else {
		obj, err = a.loader.CreateByName(target)
	}
	if err != nil {
		return fmt.Errorf("failed to create '%s': %w", target, err)
	}
	defer obj.Release()

	fmt.Fprintf(a.outW, "created %s\n", target)
	if lister, ok := obj.Get().(interface{ Interfaces() []guid.GUID }); ok {
		for _, id := range lister.Interfaces() {
			fmt.Fprintf(a.outW, "  interface %s\n", id)
		}
	}
	a.logger.Info("Created component.", "target", target, "live_objects", abi.LiveObjects())
	return nil
}

func (a *App) printGUIDOf(expr string) error {
	info, err := typeid.ParseExpr(expr)
	if err != nil {
		return fmt.Errorf("invalid type expression '%s': %w", expr, err)
	}
	fmt.Fprintf(a.outW, "%s %s\n", info.Name, info.ID)
	return nil
}
