package grammar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// LuaTimeout bounds the execution of a Lua grammar script.
const LuaTimeout = 2 * time.Second

// LoadLua runs a Lua grammar script and decodes the table it returns. The
// script runs in a fresh state with only the base, table, string and math
// libraries; a keywords(...) helper builds a keywords rule.
//
//	return {
//	  name = "rust",
//	  extensions = { ".rs" },
//	  groups = {
//	    { attr = "code-keyword", rules = { keywords("fn", "let") } },
//	  },
//	}
func LoadLua(source string, data []byte) (def *Definition, err error) {
	L := newSandbox()
	defer L.Close()

	ctx, cancel := context.WithTimeout(context.Background(), LuaTimeout)
	defer cancel()
	L.SetContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			err = &ParseError{Path: source, Message: fmt.Sprintf("lua panic: %v", r)}
		}
	}()

	fn, err := L.Load(bytes.NewReader(data), source)
	if err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}

	tbl, ok := L.Get(-1).(*lua.LTable)
	if !ok {
		return nil, &ParseError{Path: source, Message: ErrNoResult.Error(), Err: ErrNoResult}
	}
	v, err := fromLua(tbl, make(map[*lua.LTable]bool))
	if err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: ErrInvalidGrammar}
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, fieldError(source, "grammar", "expected table with named fields")
	}
	return decode(source, doc)
}

// newSandbox creates a state that cannot reach the file system or load code.
func newSandbox() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("keywords", L.NewFunction(luaKeywords))
	return L
}

// luaKeywords implements keywords(...): it returns { keywords = { ... } }.
func luaKeywords(L *lua.LState) int {
	words := L.NewTable()
	for i := 1; i <= L.GetTop(); i++ {
		words.Append(lua.LString(L.CheckString(i)))
	}
	rule := L.NewTable()
	rule.RawSetString("keywords", words)
	L.Push(rule)
	return 1
}

// errCyclicTable is reported for a table that contains itself.
var errCyclicTable = errors.New("table refers to itself")

// fromLua converts a Lua value to the generic document shape. Tables with
// only consecutive integer keys from 1 become lists. active holds the tables
// being converted on the current path.
func fromLua(v lua.LValue, active map[*lua.LTable]bool) (any, error) {
	switch v := v.(type) {
	case lua.LString:
		return string(v), nil
	case lua.LNumber:
		return float64(v), nil
	case lua.LBool:
		return bool(v), nil
	case *lua.LTable:
		if active[v] {
			return nil, errCyclicTable
		}
		active[v] = true
		defer delete(active, v)

		if n := v.MaxN(); n > 0 && isSequence(v, n) {
			list := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				item, err := fromLua(v.RawGetInt(i), active)
				if err != nil {
					return nil, err
				}
				list = append(list, item)
			}
			return list, nil
		}
		m := make(map[string]any)
		var err error
		v.ForEach(func(k, val lua.LValue) {
			if err != nil {
				return
			}
			var item any
			if item, err = fromLua(val, active); err == nil {
				m[k.String()] = item
			}
		})
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, nil
	}
}

func isSequence(t *lua.LTable, n int) bool {
	count := 0
	t.ForEach(func(lua.LValue, lua.LValue) { count++ })
	return count == n
}
