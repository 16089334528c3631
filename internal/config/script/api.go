package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/stormsurf/internal/config/cfgerr"
	"github.com/dshills/stormsurf/internal/config/registry"
	"github.com/dshills/stormsurf/internal/input/keymap"
)

// API is the restricted object exposed to config.lua.
//
// Scripts see it under two names: "config" (the API itself, with set,
// get, bind and unbind plus the load_autoconfig field) and "c" (an
// attribute-tree proxy where c.colors.hints.bg = "red" forwards to
// Set("colors.hints.bg", ...)).
//
// A fresh API is created per script execution and discarded after the
// caller reads Errors. Option and binding failures raised by individual
// statements accumulate here instead of aborting the script.
type API struct {
	// Errors holds the failures accumulated across the whole script run,
	// in occurrence order.
	Errors []*cfgerr.Error

	// LoadAutoconfig tells the initialization routine whether to apply
	// the declarative store afterwards. Defaults to true; the script may
	// clear it via "config.load_autoconfig = false".
	LoadAutoconfig bool

	store  *registry.Store
	keys   *keymap.Registry
	source string

	cfgTable *lua.LTable
}

func newAPI(store *registry.Store, keys *keymap.Registry, source string) *API {
	return &API{
		LoadAutoconfig: true,
		store:          store,
		keys:           keys,
		source:         source,
	}
}

// record appends an expected (traceback-free) failure.
func (a *API) record(text string, err error) {
	a.Errors = append(a.Errors, cfgerr.New(text, err))
}

// install binds the "config" and "c" globals into the Lua state.
func (a *API) install(L *lua.LState) {
	cfg := L.NewTable()
	cfg.RawSetString("set", L.NewFunction(a.luaSet))
	cfg.RawSetString("get", L.NewFunction(a.luaGet))
	cfg.RawSetString("bind", L.NewFunction(a.luaBind))
	cfg.RawSetString("unbind", L.NewFunction(a.luaUnbind))
	cfg.RawSetString("load_autoconfig", lua.LTrue)

	// Reading any undeclared attribute (config.val included) is a
	// capability restriction, not an omission: it must fail loudly
	// rather than silently return nil.
	mt := L.NewTable()
	mt.RawSetString("__index", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(2)
		L.RaiseError("ConfigAPI has no attribute '%s'", key)
		return 0
	}))
	L.SetMetatable(cfg, mt)

	a.cfgTable = cfg
	L.SetGlobal("config", cfg)
	L.SetGlobal("c", a.newProxy(L, ""))
}

// finish reads back script-visible state after execution.
func (a *API) finish() {
	if a.cfgTable != nil {
		a.LoadAutoconfig = lua.LVAsBool(a.cfgTable.RawGetString("load_autoconfig"))
	}
}

// luaSet implements config.set(name, value[, pattern]).
func (a *API) luaSet(L *lua.LState) int {
	name := L.CheckString(1)
	value := toGo(L.CheckAny(2))
	pattern := L.OptString(3, "")

	if err := a.store.SetFrom(name, value, pattern, a.source); err != nil {
		a.record(fmt.Sprintf("While setting '%s'", name), err)
	}
	return 0
}

// luaGet implements config.get(name).
func (a *API) luaGet(L *lua.LState) int {
	name := L.CheckString(1)

	value, err := a.store.Get(name)
	if err != nil {
		a.record(fmt.Sprintf("While getting '%s'", name), err)
		L.Push(lua.LNil)
		return 1
	}
	L.Push(toLua(L, value))
	return 1
}

// luaBind implements config.bind(keys, command[, mode]).
func (a *API) luaBind(L *lua.LState) int {
	keys := L.CheckString(1)
	command := L.CheckString(2)
	mode := L.OptString(3, "normal")

	if err := a.keys.Bind(keys, command, mode); err != nil {
		a.record(fmt.Sprintf("While binding '%s'", keys), err)
	}
	return 0
}

// luaUnbind implements config.unbind(keys[, mode]).
func (a *API) luaUnbind(L *lua.LState) int {
	keys := L.CheckString(1)
	mode := L.OptString(2, "normal")

	if err := a.keys.Unbind(keys, mode); err != nil {
		a.record(fmt.Sprintf("While unbinding '%s'", keys), err)
	}
	return 0
}

// newProxy builds one node of the attribute tree bound to "c". Reading a
// known option name yields its current value; reading anything else
// descends one level. Assignment forwards to the settings store with the
// accumulated dotted path.
func (a *API) newProxy(L *lua.LState, prefix string) *lua.LTable {
	t := L.NewTable()
	mt := L.NewTable()

	mt.RawSetString("__index", L.NewFunction(func(L *lua.LState) int {
		name := joinPath(prefix, L.CheckString(2))
		if a.store.Registry().Has(name) {
			value, err := a.store.Get(name)
			if err != nil {
				a.record(fmt.Sprintf("While getting '%s'", name), err)
				L.Push(lua.LNil)
				return 1
			}
			L.Push(toLua(L, value))
			return 1
		}
		L.Push(a.newProxy(L, name))
		return 1
	}))

	mt.RawSetString("__newindex", L.NewFunction(func(L *lua.LState) int {
		name := joinPath(prefix, L.CheckString(2))
		value := toGo(L.Get(3))
		if err := a.store.SetFrom(name, value, "", a.source); err != nil {
			a.record(fmt.Sprintf("While setting '%s'", name), err)
		}
		return 0
	}))

	L.SetMetatable(t, mt)
	return t
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
