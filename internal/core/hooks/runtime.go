package hooks

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	crypto "github.com/LeJamon/goXahaud/internal/crypto/common"
)

var (
	// ErrMalformed means the code blob failed to compile, imports
	// something outside the host API, or lacks the hook entry point.
	ErrMalformed = errors.New("hook code is malformed")
)

// hostModule is the import module every hook must use, and hookEntry the
// single exported entry point.
const (
	hostModule = "env"
	hookEntry  = "hook"
)

// DefaultFuel is the per-invocation fuel budget, a consensus parameter.
// Host API calls burn fuel; exhaustion terminates the hook as ROLLBACK.
const DefaultFuel int64 = 65536

// maxMemoryPages caps guest linear memory (64KiB pages).
const maxMemoryPages = 64

// allowedImports is the host API surface. An import outside it fails
// compilation; a module that imports only part of it is accepted.
var allowedImports = map[string]bool{
	"set_state":  true,
	"get_state":  true,
	"accept":     true,
	"reject":     true,
	"rollback":   true,
	"output_dbg": true,
}

// StateReader serves get_state misses from committed ledger state.
type StateReader interface {
	GetHookState(key [32]byte) ([]byte, bool)
}

// Params configures one hook invocation.
type Params struct {
	Code         []byte
	MaxStateSize uint32
	Fuel         int64 // 0 means DefaultFuel
	State        StateReader
}

// Result is the outcome of one hook invocation.
type Result struct {
	ExitType ExitType
	ExitCode int64
	Reason   string
	Changes  *ChangeBuffer
}

// invocation is the per-run state host functions operate on. It travels in
// the call context so one registered host module serves every run.
type invocation struct {
	params  Params
	changes *ChangeBuffer
	fuel    int64

	exited   bool
	exitType ExitType
	exitCode int64
	reason   string
}

type invocationKey struct{}

// errHookExit unwinds the guest after accept/reject/rollback.
var errHookExit = errors.New("hook exited")

// Runtime runs hook programs in a deterministic WASM sandbox: interpreter
// engine (no platform-dependent codegen), no WASI, no clock, no
// randomness, a bounded linear memory and a fuel budget.
type Runtime struct {
	rt       wazero.Runtime
	compiled *lru.Cache[[32]byte, wazero.CompiledModule]
}

// defaultRuntime is shared by every transactor; hook execution is strictly
// sequential so no locking is needed beyond wazero's own.
var defaultRuntime *Runtime

// DefaultRuntime returns the process-wide hook runtime.
func DefaultRuntime() *Runtime {
	if defaultRuntime == nil {
		defaultRuntime = NewRuntime()
	}
	return defaultRuntime
}

// NewRuntime creates a hook runtime with a compiled-module cache.
func NewRuntime() *Runtime {
	ctx := context.Background()
	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter().
		WithMemoryLimitPages(maxMemoryPages))

	registerHostModule(ctx, rt)

	cache, _ := lru.New[[32]byte, wazero.CompiledModule](128)
	return &Runtime{rt: rt, compiled: cache}
}

// ValidateCode checks that a code blob compiles and imports nothing outside
// the host API surface. Used by SetHook before installing.
func (r *Runtime) ValidateCode(code []byte) error {
	_, err := r.compile(context.Background(), code)
	return err
}

// compile compiles (or fetches the cached compilation of) a code blob and
// verifies its import/export shape.
func (r *Runtime) compile(ctx context.Context, code []byte) (wazero.CompiledModule, error) {
	key := crypto.Sha512Half(code)
	if mod, ok := r.compiled.Get(key); ok {
		return mod, nil
	}

	mod, err := r.rt.CompileModule(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	for _, f := range mod.ImportedFunctions() {
		module, name, _ := f.Import()
		if module != hostModule || !allowedImports[name] {
			_ = mod.Close(ctx)
			return nil, fmt.Errorf("%w: import %s.%s outside host API", ErrMalformed, module, name)
		}
	}
	entry, ok := mod.ExportedFunctions()[hookEntry]
	if !ok || len(entry.ResultTypes()) != 1 || entry.ResultTypes()[0] != api.ValueTypeI64 {
		_ = mod.Close(ctx)
		return nil, fmt.Errorf("%w: missing i64 hook() entry point", ErrMalformed)
	}

	r.compiled.Add(key, mod)
	return mod, nil
}

// Execute runs a hook to completion and returns its outcome. A returned
// error means the blob was malformed; every in-guest failure mode is a
// ROLLBACK result instead.
func (r *Runtime) Execute(params Params) (Result, error) {
	if params.Fuel == 0 {
		params.Fuel = DefaultFuel
	}

	inv := &invocation{
		params:  params,
		changes: NewChangeBuffer(),
		fuel:    params.Fuel,
	}
	ctx := context.WithValue(context.Background(), invocationKey{}, inv)

	compiled, err := r.compile(ctx, params.Code)
	if err != nil {
		return Result{}, err
	}

	mod, err := r.rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().
		WithName("").
		WithStartFunctions())
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer mod.Close(ctx)

	fn := mod.ExportedFunction(hookEntry)
	if fn == nil {
		return Result{}, fmt.Errorf("%w: missing hook() entry point", ErrMalformed)
	}

	var args []uint64
	if len(fn.Definition().ParamTypes()) == 1 {
		args = []uint64{0}
	}
	_, callErr := fn.Call(ctx, args...)
	if callErr != nil && !inv.exited {
		// A trap that is not an explicit exit discards everything.
		return Result{ExitType: ExitRollback, ExitCode: -1, Changes: NewChangeBuffer()}, nil
	}

	res := Result{
		ExitType: inv.exitType,
		ExitCode: inv.exitCode,
		Reason:   inv.reason,
		Changes:  inv.changes,
	}
	if res.ExitType != ExitAccept {
		res.Changes = NewChangeBuffer()
	}
	return res, nil
}

// fromContext recovers the invocation a host function runs against.
func fromContext(ctx context.Context) *invocation {
	inv, _ := ctx.Value(invocationKey{}).(*invocation)
	return inv
}

// burn spends fuel; exhaustion terminates the hook as ROLLBACK.
func (inv *invocation) burn(cost int64) {
	inv.fuel -= cost
	if inv.fuel < 0 {
		inv.exited = true
		inv.exitType = ExitRollback
		inv.exitCode = -1
		inv.reason = "fuel exhausted"
		panic(errHookExit)
	}
}

// registerHostModule installs the host API surface.
func registerHostModule(ctx context.Context, rt wazero.Runtime) {
	builder := rt.NewHostModuleBuilder(hostModule)

	builder.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, m api.Module, keyPtr, dataPtr, dataLen uint32) int64 {
			inv := fromContext(ctx)
			inv.burn(64 + int64(dataLen))

			keyBytes, ok := m.Memory().Read(keyPtr, 32)
			if !ok {
				return CodeOutOfBounds
			}
			if dataLen > inv.params.MaxStateSize {
				return CodeTooBig
			}
			var data []byte
			if dataLen > 0 {
				data, ok = m.Memory().Read(dataPtr, dataLen)
				if !ok {
					return CodeOutOfBounds
				}
			}
			var key [32]byte
			copy(key[:], keyBytes)
			// Zero length stages a deletion; deleting a key that was never
			// written is a successful no-op.
			inv.changes.Set(key, data)
			return int64(dataLen)
		}).
		Export("set_state")

	builder.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, m api.Module, keyPtr, outPtr, outLen uint32) int64 {
			inv := fromContext(ctx)
			inv.burn(64 + int64(outLen))

			keyBytes, ok := m.Memory().Read(keyPtr, 32)
			if !ok {
				return CodeOutOfBounds
			}
			var key [32]byte
			copy(key[:], keyBytes)

			data, ok := inv.changes.Get(key)
			if !ok {
				if inv.params.State == nil {
					return CodeDoesntExist
				}
				ledgerData, exists := inv.params.State.GetHookState(key)
				if !exists {
					return CodeDoesntExist
				}
				inv.changes.Cache(key, ledgerData)
				data = ledgerData
			}

			n := uint32(len(data))
			if n > outLen {
				n = outLen
			}
			if n > 0 {
				if ok := m.Memory().Write(outPtr, data[:n]); !ok {
					return CodeOutOfBounds
				}
			}
			return int64(n)
		}).
		Export("get_state")

	exit := func(exitType ExitType) func(context.Context, api.Module, int32, uint32, uint32) int64 {
		return func(ctx context.Context, m api.Module, code int32, reasonPtr, reasonLen uint32) int64 {
			inv := fromContext(ctx)
			inv.burn(1)

			if reasonPtr != 0 {
				reason, ok := m.Memory().Read(reasonPtr, reasonLen)
				if !ok {
					return CodeOutOfBounds
				}
				inv.reason = string(reason)
			}
			inv.exited = true
			inv.exitType = exitType
			inv.exitCode = int64(code)
			panic(errHookExit)
		}
	}
	builder.NewFunctionBuilder().WithFunc(exit(ExitAccept)).Export("accept")
	builder.NewFunctionBuilder().WithFunc(exit(ExitReject)).Export("reject")
	builder.NewFunctionBuilder().WithFunc(exit(ExitRollback)).Export("rollback")

	builder.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, m api.Module, ptr, length uint32) int64 {
			inv := fromContext(ctx)
			inv.burn(1)
			// Diagnostic only; bounds are still enforced.
			if length > 1024 {
				length = 1024
			}
			if _, ok := m.Memory().Read(ptr, length); !ok {
				return CodeOutOfBounds
			}
			return int64(length)
		}).
		Export("output_dbg")

	if _, err := builder.Instantiate(ctx); err != nil {
		panic(err)
	}
}
