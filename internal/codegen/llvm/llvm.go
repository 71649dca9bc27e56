package llvm

import (
	"fmt"
	"os"

	"github.com/HicaroD/ember/internal/codegen/backend"
	"github.com/HicaroD/ember/internal/config"
	"tinygo.org/x/go-llvm"
)

type Options struct {
	BuildType config.BuildType
	// Empty means the host triple
	Triple string
	CPU    string
}

type llvmUnit struct {
	context llvm.Context
	module  llvm.Module
	builder llvm.Builder
	machine llvm.TargetMachine

	disposed bool
}

func Factory(opts Options) backend.Factory {
	return func(name string) (backend.Unit, error) {
		return NewUnit(name, opts)
	}
}

func NewUnit(name string, opts Options) (*llvmUnit, error) {
	Initialize()

	triple := opts.Triple
	if triple == "" {
		triple = llvm.DefaultTargetTriple()
	}

	target, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		return nil, fmt.Errorf("unable to get target for '%s': %w", triple, err)
	}

	machine := target.CreateTargetMachine(
		triple,
		opts.CPU,
		"",
		optLevel(opts.BuildType),
		llvm.RelocPIC,
		llvm.CodeModelDefault,
	)

	context := llvm.NewContext()
	module := context.NewModule(name)
	builder := context.NewBuilder()

	module.SetTarget(triple)
	targetData := machine.CreateTargetData()
	module.SetDataLayout(targetData.String())
	targetData.Dispose()

	return &llvmUnit{
		context: context,
		module:  module,
		builder: builder,
		machine: machine,
	}, nil
}

func optLevel(buildType config.BuildType) llvm.CodeGenOptLevel {
	switch buildType {
	case config.RELEASE:
		return llvm.CodeGenLevelAggressive
	case config.DEBUG:
		return llvm.CodeGenLevelNone
	default:
		panic("invalid build type: " + buildType.String())
	}
}

func (u *llvmUnit) DeclareFunction(name string, paramCount int, hasReturn bool) backend.Function {
	returnType := u.context.VoidType()
	if hasReturn {
		returnType = u.context.DoubleType()
	}

	paramsTypes := make([]llvm.Type, paramCount)
	for i := range paramsTypes {
		paramsTypes[i] = u.context.DoubleType()
	}

	functionType := llvm.FunctionType(returnType, paramsTypes, false)
	functionValue := llvm.AddFunction(u.module, name, functionType)
	return NewFunctionValue(functionValue, functionType)
}

func (u *llvmUnit) Param(fn backend.Function, i int) backend.Value {
	return fn.(*Function).Fn.Param(i)
}

func (u *llvmUnit) CreateBlock(fn backend.Function, name string) backend.Block {
	return u.context.AddBasicBlock(fn.(*Function).Fn, name)
}

func (u *llvmUnit) PositionAt(block backend.Block) {
	u.builder.SetInsertPointAtEnd(block.(llvm.BasicBlock))
}

func (u *llvmUnit) CurrentBlock() backend.Block {
	return u.builder.GetInsertBlock()
}

func (u *llvmUnit) CondBr(cond backend.Value, then, els backend.Block) {
	u.builder.CreateCondBr(cond.(llvm.Value), then.(llvm.BasicBlock), els.(llvm.BasicBlock))
}

func (u *llvmUnit) Br(block backend.Block) {
	u.builder.CreateBr(block.(llvm.BasicBlock))
}

func (u *llvmUnit) Phi(kind backend.Kind, incoming []backend.Incoming) backend.Value {
	phiType := u.context.DoubleType()
	if kind == backend.KIND_BOOL {
		phiType = u.context.Int1Type()
	}

	values := make([]llvm.Value, len(incoming))
	blocks := make([]llvm.BasicBlock, len(incoming))
	for i, in := range incoming {
		values[i] = in.Value.(llvm.Value)
		blocks[i] = in.Block.(llvm.BasicBlock)
	}

	phi := u.builder.CreatePHI(phiType, "iftmp")
	phi.AddIncoming(values, blocks)
	return phi
}

func (u *llvmUnit) Call(fn backend.Function, args []backend.Value) backend.Value {
	function := fn.(*Function)

	llvmArgs := make([]llvm.Value, len(args))
	for i, arg := range args {
		llvmArgs[i] = arg.(llvm.Value)
	}

	name := "calltmp"
	if function.Ty.ReturnType().TypeKind() == llvm.VoidTypeKind {
		// Void calls can't be named
		name = ""
	}
	return u.builder.CreateCall(function.Ty, function.Fn, llvmArgs, name)
}

func (u *llvmUnit) Add(left, right backend.Value) backend.Value {
	return u.builder.CreateFAdd(left.(llvm.Value), right.(llvm.Value), "addtmp")
}

func (u *llvmUnit) Sub(left, right backend.Value) backend.Value {
	return u.builder.CreateFSub(left.(llvm.Value), right.(llvm.Value), "subtmp")
}

func (u *llvmUnit) Mul(left, right backend.Value) backend.Value {
	return u.builder.CreateFMul(left.(llvm.Value), right.(llvm.Value), "multmp")
}

func (u *llvmUnit) Div(left, right backend.Value) backend.Value {
	return u.builder.CreateFDiv(left.(llvm.Value), right.(llvm.Value), "divtmp")
}

func (u *llvmUnit) Ret(value backend.Value) {
	u.builder.CreateRet(value.(llvm.Value))
}

func (u *llvmUnit) RetVoid() {
	u.builder.CreateRetVoid()
}

func (u *llvmUnit) ConstFloat(value float64) backend.Value {
	return llvm.ConstFloat(u.context.DoubleType(), value)
}

func (u *llvmUnit) ConstBool(value bool) backend.Value {
	var n uint64
	if value {
		n = 1
	}
	return llvm.ConstInt(u.context.Int1Type(), n, false)
}

func (u *llvmUnit) VerifyFunction(fn backend.Function) error {
	return llvm.VerifyFunction(fn.(*Function).Fn, llvm.ReturnStatusAction)
}

func (u *llvmUnit) Dump() string {
	return u.module.String()
}

func (u *llvmUnit) EmitObject(path string) error {
	err := llvm.VerifyModule(u.module, llvm.ReturnStatusAction)
	if err != nil {
		return fmt.Errorf("invalid module: %w", err)
	}

	buf, err := u.machine.EmitToMemoryBuffer(u.module, llvm.ObjectFile)
	if err != nil {
		return fmt.Errorf("unable to emit object code: %w", err)
	}
	defer buf.Dispose()

	return os.WriteFile(path, buf.Bytes(), 0644)
}

func (u *llvmUnit) Dispose() {
	if u.disposed {
		return
	}
	u.disposed = true

	u.builder.Dispose()
	u.module.Dispose()
	u.context.Dispose()
	u.machine.Dispose()
}
