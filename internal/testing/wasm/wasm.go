// Package wasm assembles tiny WebAssembly modules for hook tests: a hook
// entry point calling host functions, with an optional data segment laid
// out in linear memory.
package wasm

// Section ids in the binary format.
const (
	secCustom byte = 0
	secType   byte = 1
	secImport byte = 2
	secFunc   byte = 3
	secMemory byte = 5
	secExport byte = 7
	secCode   byte = 10
	secData   byte = 11
)

// Opcodes used by the generated bodies.
const (
	opLoop     byte = 0x03
	opEnd      byte = 0x0b
	opBr       byte = 0x0c
	opCall     byte = 0x10
	opDrop     byte = 0x1a
	opI32Const byte = 0x41
	opI64Const byte = 0x42
	opI32Wrap  byte = 0xa7
)

// Builder assembles a module with one exported hook() function.
type Builder struct {
	imports []string // host function names, all (i32,i32,i32)->i64
	body    []byte   // instructions, without the trailing end
	data    []byte   // active data segment at offset 0; implies a memory
	padTo   int      // target total size via a custom filler section
}

// NewBuilder creates an empty module builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Import declares a host function import and returns its function index.
func (b *Builder) Import(name string) int {
	b.imports = append(b.imports, name)
	return len(b.imports) - 1
}

// Data sets the module's data segment, placed at memory offset 0.
func (b *Builder) Data(data []byte) *Builder {
	b.data = append([]byte(nil), data...)
	return b
}

// PadTo grows the module to exactly n bytes using a custom section.
func (b *Builder) PadTo(n int) *Builder {
	b.padTo = n
	return b
}

// I32Const pushes a constant (0..63 only, single-byte SLEB).
func (b *Builder) I32Const(v int) *Builder {
	if v < 0 || v > 63 {
		panic("I32Const supports 0..63 only")
	}
	b.body = append(b.body, opI32Const, byte(v))
	return b
}

// I32ConstWide pushes an arbitrary non-negative constant.
func (b *Builder) I32ConstWide(v uint32) *Builder {
	b.body = append(b.body, opI32Const)
	b.body = append(b.body, sleb(int64(v))...)
	return b
}

// Call emits a call to a previously declared import.
func (b *Builder) Call(funcIdx int) *Builder {
	b.body = append(b.body, opCall)
	b.body = append(b.body, uleb(funcIdx)...)
	return b
}

// Drop discards the top of the stack.
func (b *Builder) Drop() *Builder {
	b.body = append(b.body, opDrop)
	return b
}

// WrapI64 truncates the i64 on the stack to i32.
func (b *Builder) WrapI64() *Builder {
	b.body = append(b.body, opI32Wrap)
	return b
}

// LoopForever wraps the instructions emitted by fn in an unconditional
// loop.
func (b *Builder) LoopForever(fn func(*Builder)) *Builder {
	b.body = append(b.body, opLoop, 0x40) // void block type
	fn(b)
	b.body = append(b.body, opBr, 0x00, opEnd)
	return b
}

// ReturnI64Zero pushes the hook's return value.
func (b *Builder) ReturnI64Zero() *Builder {
	b.body = append(b.body, opI64Const, 0x00)
	return b
}

// Build assembles the module bytes.
func (b *Builder) Build() []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	// Types: 0 = (i32,i32,i32)->i64 for host functions, 1 = ()->i64 for
	// the hook entry point.
	out = append(out, section(secType, join(
		uleb(2),
		[]byte{0x60, 0x03, 0x7f, 0x7f, 0x7f, 0x01, 0x7e},
		[]byte{0x60, 0x00, 0x01, 0x7e},
	))...)

	if len(b.imports) > 0 {
		payload := uleb(len(b.imports))
		for _, imp := range b.imports {
			payload = join(payload, name("env"), name(imp), []byte{0x00, 0x00})
		}
		out = append(out, section(secImport, payload)...)
	}

	// One local function of type 1.
	out = append(out, section(secFunc, []byte{0x01, 0x01})...)

	if b.data != nil {
		// One memory with a single page minimum.
		out = append(out, section(secMemory, []byte{0x01, 0x00, 0x01})...)
	}

	// Export the local function as hook().
	hookIdx := len(b.imports)
	out = append(out, section(secExport, join(
		uleb(1), name("hook"), []byte{0x00}, uleb(hookIdx),
	))...)

	body := join([]byte{0x00}, b.body, []byte{opEnd}) // no locals
	out = append(out, section(secCode, join(
		uleb(1), uleb(len(body)), body,
	))...)

	if b.data != nil {
		out = append(out, section(secData, join(
			uleb(1),
			[]byte{0x00, opI32Const, 0x00, opEnd},
			uleb(len(b.data)), b.data,
		))...)
	}

	if b.padTo > len(out) {
		out = pad(out, b.padTo)
	}
	return out
}

// AcceptModule calls accept(0,0,0).
func AcceptModule() []byte {
	b := NewBuilder()
	accept := b.Import("accept")
	b.I32Const(0).I32Const(0).I32Const(0).Call(accept).Drop().ReturnI64Zero()
	return b.Build()
}

// RejectModule calls reject(0,0,0).
func RejectModule() []byte {
	b := NewBuilder()
	reject := b.Import("reject")
	b.I32Const(0).I32Const(0).I32Const(0).Call(reject).Drop().ReturnI64Zero()
	return b.Build()
}

// RollbackModule calls rollback(0,0,0).
func RollbackModule() []byte {
	b := NewBuilder()
	rollback := b.Import("rollback")
	b.I32Const(0).I32Const(0).I32Const(0).Call(rollback).Drop().ReturnI64Zero()
	return b.Build()
}

// ReturnOnlyModule returns without calling any host function; the runtime
// treats that as ROLLBACK.
func ReturnOnlyModule() []byte {
	b := NewBuilder()
	b.ReturnI64Zero()
	return b.Build()
}

// BadImportModule imports a function outside the host API surface.
func BadImportModule() []byte {
	b := NewBuilder()
	bogus := b.Import("bogus")
	b.I32Const(0).I32Const(0).I32Const(0).Call(bogus).Drop().ReturnI64Zero()
	return b.Build()
}

// StatePair is one (key, data) write a module performs.
type StatePair struct {
	Key  [32]byte
	Data []byte
}

// MultiSetStateModule calls set_state for each pair, then accept(0,0,0).
func MultiSetStateModule(pairs ...StatePair) []byte {
	b := NewBuilder()
	setState := b.Import("set_state")
	accept := b.Import("accept")

	var data []byte
	offsets := make([][2]int, len(pairs)) // keyOff, dataOff
	for i, p := range pairs {
		offsets[i][0] = len(data)
		data = append(data, p.Key[:]...)
		offsets[i][1] = len(data)
		data = append(data, p.Data...)
	}
	b.Data(data)

	for i, p := range pairs {
		b.I32ConstWide(uint32(offsets[i][0])).
			I32ConstWide(uint32(offsets[i][1])).
			I32ConstWide(uint32(len(p.Data))).
			Call(setState).Drop()
	}
	b.I32Const(0).I32Const(0).I32Const(0).Call(accept).Drop().ReturnI64Zero()
	return b.Build()
}

// SetStateAcceptModule writes one key and accepts.
func SetStateAcceptModule(key [32]byte, data []byte) []byte {
	return MultiSetStateModule(StatePair{Key: key, Data: data})
}

// GetStateAcceptModule reads key and calls accept with the get_state
// return value as the exit code.
func GetStateAcceptModule(key [32]byte) []byte {
	b := NewBuilder()
	getState := b.Import("get_state")
	accept := b.Import("accept")
	b.Data(key[:])
	// get_state(key at 0, out at 64, 64 bytes) -> i64, wrapped into the
	// accept code.
	b.I32Const(0).I32ConstWide(64).I32ConstWide(64).Call(getState).WrapI64().
		I32Const(0).I32Const(0).Call(accept).Drop().ReturnI64Zero()
	return b.Build()
}

// BurnForeverModule calls set_state in an unconditional loop until the
// fuel budget terminates it.
func BurnForeverModule() []byte {
	b := NewBuilder()
	setState := b.Import("set_state")
	b.Data(make([]byte, 40))
	b.LoopForever(func(b *Builder) {
		b.I32Const(0).I32ConstWide(32).I32Const(8).Call(setState).Drop()
	})
	b.ReturnI64Zero()
	return b.Build()
}

func uleb(v int) []byte {
	var out []byte
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, c|0x80)
		} else {
			return append(out, c)
		}
	}
}

func sleb(v int64) []byte {
	var out []byte
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && c&0x40 == 0) || (v == -1 && c&0x40 != 0) {
			return append(out, c)
		}
		out = append(out, c|0x80)
	}
}

func section(id byte, payload []byte) []byte {
	return join([]byte{id}, uleb(len(payload)), payload)
}

func name(s string) []byte {
	return join(uleb(len(s)), []byte(s))
}

func join(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// pad appends a custom section so the module is exactly n bytes long.
func pad(module []byte, n int) []byte {
	// Fixed shape: id + 2-byte uleb size + name + filler. Solve for the
	// filler length; a 2-byte size covers every test module.
	nm := name("pad")
	overhead := 1 + 2 + len(nm)
	fill := n - len(module) - overhead
	if fill < 0 {
		return module
	}
	payload := join(nm, make([]byte, fill))
	size := uleb2(len(payload))
	return join(module, []byte{secCustom}, size, payload)
}

// uleb2 renders a value as exactly two LEB128 bytes.
func uleb2(v int) []byte {
	return []byte{byte(v&0x7f) | 0x80, byte(v >> 7)}
}
