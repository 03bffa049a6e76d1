package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/textrope/internal/engine"
	"github.com/dshills/textrope/internal/engine/encoding"
)

// ropeTypeName names the metatable of rope userdata.
const ropeTypeName = "textrope.rope"

// ropeModule binds the "rope" global of a state to an engine.
type ropeModule struct {
	e *engine.Engine
}

func registerRopeModule(L *lua.LState, e *engine.Engine) {
	m := &ropeModule{e: e}

	mt := L.NewTypeMetatable(ropeTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"bytelen":         m.byteLen,
		"charlen":         m.charLen,
		"coderange":       m.codeRange,
		"known_coderange": m.knownCodeRange,
		"encoding":        m.encodingName,
		"byte":            m.byteAt,
		"bytes":           m.bytes,
		"decode":          m.decode,
		"char_index":      m.charIndex,
		"byte_index":      m.byteIndex,
		"depth":           m.depth,
		"kind":            m.kind,
		"hash":            m.hash,
		"graphemes":       m.graphemes,
		"equal":           m.equal,
		"is_flat":         m.isFlat,
		"flatten":         m.flatten,
	}))
	L.SetFuncs(mt, map[string]lua.LGFunction{
		"__tostring": m.bytes,
		"__len":      m.byteLen,
		"__concat":   m.concatOp,
		"__eq":       m.equal,
	})

	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"new":           m.newLeaf,
		"literal":       m.literal,
		"int":           m.fromInt,
		"concat":        m.concat,
		"substring":     m.substring,
		"rep":           m.repeat,
		"with_encoding": m.withEncoding,
		"encodings":     m.encodings,
		"is_rope":       m.isRope,
	})
	L.SetGlobal("rope", mod)
}

// pushableRope wraps r in a userdata carrying the rope metatable.
func pushableRope(L *lua.LState, r *engine.Rope) lua.LValue {
	ud := L.NewUserData()
	ud.Value = r
	L.SetMetatable(ud, L.GetTypeMetatable(ropeTypeName))
	return ud
}

func checkRopeValue(v lua.LValue) (*engine.Rope, bool) {
	ud, ok := v.(*lua.LUserData)
	if !ok {
		return nil, false
	}
	r, ok := ud.Value.(*engine.Rope)
	return r, ok
}

func checkRope(L *lua.LState, n int) *engine.Rope {
	r, ok := checkRopeValue(L.Get(n))
	if !ok {
		L.ArgError(n, "rope expected")
	}
	return r
}

func raise(L *lua.LState, err error) {
	L.RaiseError("%s", err.Error())
}

// optEncoding resolves the encoding name at argument n, defaulting to UTF-8.
func (m *ropeModule) optEncoding(L *lua.LState, n int) *engine.Encoding {
	name := L.OptString(n, encoding.UTF8.Name())
	enc, err := m.e.LookupEncoding(name)
	if err != nil {
		raise(L, err)
	}
	return enc
}

func (m *ropeModule) push(L *lua.LState, r *engine.Rope, err error) int {
	if err != nil {
		raise(L, err)
	}
	L.Push(pushableRope(L, r))
	return 1
}

// rope.new(s [, encoding])
func (m *ropeModule) newLeaf(L *lua.LState) int {
	s := L.CheckString(1)
	r, err := m.e.MakeLeafRope([]byte(s), m.optEncoding(L, 2))
	return m.push(L, r, err)
}

// rope.literal(s [, encoding])
func (m *ropeModule) literal(L *lua.LState) int {
	s := L.CheckString(1)
	r, err := m.e.Literal([]byte(s), m.optEncoding(L, 2))
	return m.push(L, r, err)
}

// rope.int(n [, encoding])
func (m *ropeModule) fromInt(L *lua.LState) int {
	v := L.CheckInt64(1)
	r, err := m.e.Factory().FromInt(v, m.optEncoding(L, 2))
	return m.push(L, r, err)
}

// rope.concat(a, b, ...)
func (m *ropeModule) concat(L *lua.LState) int {
	r := checkRope(L, 1)
	for i := 2; i <= L.GetTop(); i++ {
		var err error
		if r, err = m.e.ConcatRopes(r, checkRope(L, i)); err != nil {
			raise(L, err)
		}
	}
	L.Push(pushableRope(L, r))
	return 1
}

// a .. b where one side may be a plain string in the other's encoding.
func (m *ropeModule) concatOp(L *lua.LState) int {
	a := m.operand(L, 1, 2)
	b := m.operand(L, 2, 1)
	r, err := m.e.ConcatRopes(a, b)
	return m.push(L, r, err)
}

func (m *ropeModule) operand(L *lua.LState, n, other int) *engine.Rope {
	if r, ok := checkRopeValue(L.Get(n)); ok {
		return r
	}
	s, ok := L.Get(n).(lua.LString)
	if !ok {
		L.ArgError(n, "rope or string expected")
	}
	r, err := m.e.MakeLeafRope([]byte(s), checkRope(L, other).Encoding())
	if err != nil {
		raise(L, err)
	}
	return r
}

// rope.substring(r, offset, length)
func (m *ropeModule) substring(L *lua.LState) int {
	r, err := m.e.SubstringRope(checkRope(L, 1), L.CheckInt(2), L.CheckInt(3))
	return m.push(L, r, err)
}

// rope.rep(r, count)
func (m *ropeModule) repeat(L *lua.LState) int {
	r, err := m.e.RepeatRope(checkRope(L, 1), L.CheckInt(2))
	return m.push(L, r, err)
}

// rope.with_encoding(r, encoding)
func (m *ropeModule) withEncoding(L *lua.LState) int {
	r := checkRope(L, 1)
	enc, err := m.e.LookupEncoding(L.CheckString(2))
	if err != nil {
		raise(L, err)
	}
	out, err := m.e.Factory().WithEncoding(r, enc)
	return m.push(L, out, err)
}

// rope.encodings() returns the registered encoding names in order.
func (m *ropeModule) encodings(L *lua.LState) int {
	t := L.NewTable()
	for _, enc := range m.e.Factory().Registry().All() {
		t.Append(lua.LString(enc.Name()))
	}
	L.Push(t)
	return 1
}

func (m *ropeModule) isRope(L *lua.LState) int {
	_, ok := checkRopeValue(L.Get(1))
	L.Push(lua.LBool(ok))
	return 1
}

func (m *ropeModule) byteLen(L *lua.LState) int {
	L.Push(lua.LNumber(m.e.ByteLength(checkRope(L, 1))))
	return 1
}

func (m *ropeModule) charLen(L *lua.LState) int {
	L.Push(lua.LNumber(m.e.CharacterLength(checkRope(L, 1))))
	return 1
}

func (m *ropeModule) codeRange(L *lua.LState) int {
	L.Push(lua.LString(m.e.CodeRange(checkRope(L, 1)).String()))
	return 1
}

func (m *ropeModule) knownCodeRange(L *lua.LState) int {
	L.Push(lua.LString(checkRope(L, 1).KnownCodeRange().String()))
	return 1
}

func (m *ropeModule) encodingName(L *lua.LState) int {
	L.Push(lua.LString(m.e.Encoding(checkRope(L, 1)).Name()))
	return 1
}

func (m *ropeModule) byteAt(L *lua.LState) int {
	b, err := m.e.ByteAt(checkRope(L, 1), L.CheckInt(2))
	if err != nil {
		raise(L, err)
	}
	L.Push(lua.LNumber(b))
	return 1
}

func (m *ropeModule) bytes(L *lua.LState) int {
	L.Push(lua.LString(m.e.ToByteBuffer(checkRope(L, 1))))
	return 1
}

func (m *ropeModule) decode(L *lua.LState) int {
	s, err := checkRope(L, 1).Decode()
	if err != nil {
		raise(L, err)
	}
	L.Push(lua.LString(s))
	return 1
}

func (m *ropeModule) charIndex(L *lua.LState) int {
	n, err := checkRope(L, 1).CharIndex(L.CheckInt(2))
	if err != nil {
		raise(L, err)
	}
	L.Push(lua.LNumber(n))
	return 1
}

func (m *ropeModule) byteIndex(L *lua.LState) int {
	n, err := checkRope(L, 1).ByteIndex(L.CheckInt(2))
	if err != nil {
		raise(L, err)
	}
	L.Push(lua.LNumber(n))
	return 1
}

func (m *ropeModule) depth(L *lua.LState) int {
	L.Push(lua.LNumber(checkRope(L, 1).Depth()))
	return 1
}

func (m *ropeModule) kind(L *lua.LState) int {
	L.Push(lua.LString(checkRope(L, 1).Kind().String()))
	return 1
}

// hash returns the content hash as 16 hex digits; Lua numbers cannot hold
// all 64 bits.
func (m *ropeModule) hash(L *lua.LState) int {
	L.Push(lua.LString(fmt.Sprintf("%016x", checkRope(L, 1).Hash())))
	return 1
}

func (m *ropeModule) graphemes(L *lua.LState) int {
	n, err := checkRope(L, 1).GraphemeLen()
	if err != nil {
		raise(L, err)
	}
	L.Push(lua.LNumber(n))
	return 1
}

func (m *ropeModule) equal(L *lua.LState) int {
	a, b := checkRope(L, 1), checkRope(L, 2)
	L.Push(lua.LBool(a.Equal(b)))
	return 1
}

func (m *ropeModule) isFlat(L *lua.LState) int {
	L.Push(lua.LBool(checkRope(L, 1).IsFlat()))
	return 1
}

func (m *ropeModule) flatten(L *lua.LState) int {
	L.Push(pushableRope(L, m.e.Factory().Flatten(checkRope(L, 1))))
	return 1
}
