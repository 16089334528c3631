// Package script executes the user's config.lua against a restricted API.
//
// The loader compiles the script and runs every top-level statement in
// its own isolated chunk: a statement that fails does not short-circuit
// the statements after it. Validation failures from config.set and
// friends are recorded without a traceback; any other runtime failure is
// recorded as an unhandled exception with the captured Lua stack trace.
// Only whole-file conditions (unreadable explicit path, undecodable
// source, syntax error) abort the load.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/ast"
	"github.com/yuin/gopher-lua/parse"

	"github.com/dshills/stormsurf/internal/config/cfgerr"
	"github.com/dshills/stormsurf/internal/config/registry"
	"github.com/dshills/stormsurf/internal/input/keymap"
)

// Loader reads and executes scriptable configuration files.
//
// The settings store and binding registry are injected; the loader keeps
// no ambient state and a fresh API object is created per execution.
type Loader struct {
	store       *registry.Store
	keys        *keymap.Registry
	defaultPath string
}

// NewLoader creates a script loader writing into the given stores.
// defaultPath is the well-known config.lua location used when Read is
// called with an empty path.
func NewLoader(store *registry.Store, keys *keymap.Registry, defaultPath string) *Loader {
	return &Loader{
		store:       store,
		keys:        keys,
		defaultPath: defaultPath,
	}
}

// Read executes the script at path against a fresh API and returns it.
//
// An empty path means the default location, where a missing file is a
// silent no-op. A missing file at an explicitly given path is fatal. The
// returned error is a *cfgerr.FileErrors for the fatal whole-file
// conditions; per-statement failures never raise and are found on the
// returned API's Errors.
func (l *Loader) Read(path string) (*API, error) {
	explicit := path != ""
	if !explicit {
		path = l.defaultPath
	}
	name := filepath.Base(path)
	api := newAPI(l.store, l.keys, name)

	if !explicit && path == "" {
		return api, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return api, nil
		}
		return nil, cfgerr.NewFileErrors(name,
			cfgerr.New("Error while reading "+name, err))
	}

	if bytes.IndexByte(data, 0) >= 0 {
		return nil, cfgerr.NewFileErrors(name,
			cfgerr.New("Error while compiling",
				errors.New("source text cannot contain null bytes")))
	}
	if !utf8.Valid(data) {
		return nil, cfgerr.NewFileErrors(name,
			cfgerr.New("Error while compiling",
				errors.New("source text is not valid UTF-8")))
	}

	chunk, err := parse.Parse(bytes.NewReader(data), name)
	if err != nil {
		return nil, cfgerr.NewFileErrors(name,
			cfgerr.WithTraceback("Syntax Error", err, syntaxTraceback(name, data, err)))
	}

	L := newLuaState()
	defer L.Close()
	api.install(L)

	// Each top-level statement runs as its own chunk so one failing
	// statement cannot short-circuit the rest of the file. Locals do not
	// carry across statements; config scripts use globals.
	for _, stmt := range chunk {
		proto, err := lua.Compile([]ast.Stmt{stmt}, name)
		if err != nil {
			api.Errors = append(api.Errors,
				cfgerr.New("Error while compiling", err))
			continue
		}
		L.Push(L.NewFunctionFromProto(proto))
		if err := L.PCall(0, 0, nil); err != nil {
			api.recordUnhandled(name, err)
		}
	}

	api.finish()
	return api, nil
}

// recordUnhandled wraps a runtime failure with its Lua stack trace.
func (a *API) recordUnhandled(name string, err error) {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) {
		message := apiErr.Object.String()
		if apiErr.Cause != nil {
			message = apiErr.Cause.Error()
		}
		traceback := apiErr.StackTrace
		if traceback == "" {
			traceback = fallbackTraceback(name)
		}
		a.Errors = append(a.Errors,
			cfgerr.WithTraceback("Unhandled exception", errors.New(message), traceback))
		return
	}

	a.Errors = append(a.Errors,
		cfgerr.WithTraceback("Unhandled exception", err, fallbackTraceback(name)))
}

func fallbackTraceback(name string) string {
	return fmt.Sprintf("stack traceback:\n\t%s: in main chunk", name)
}

// newLuaState creates the restricted Lua state scripts run in: only the
// base, table, string and math libraries, with the file and chunk loading
// entry points removed.
func newLuaState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// io, os, debug and package stay closed; these would let a config
	// script escape the restricted API.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	return L
}

// syntaxTraceback formats a trace for a parse failure, pointing a caret
// at the offending source position.
func syntaxTraceback(name string, data []byte, err error) string {
	var b strings.Builder
	b.WriteString("script traceback:\n")

	var perr *parse.Error
	if !errors.As(err, &perr) {
		fmt.Fprintf(&b, "  %s: in main chunk", name)
		return b.String()
	}

	line, col := perr.Pos.Line, perr.Pos.Column
	fmt.Fprintf(&b, "  %s:%d", name, line)

	lines := strings.Split(string(data), "\n")
	if line >= 1 && line <= len(lines) {
		src := strings.TrimRight(lines[line-1], "\r")
		if col < 1 {
			col = 1
		}
		if col > len(src)+1 {
			col = len(src) + 1
		}
		fmt.Fprintf(&b, "\n    %s\n    %s^", src, strings.Repeat(" ", col-1))
	}

	return b.String()
}
