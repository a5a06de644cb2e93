package internal

type HookFlags uint8

const (
	HookNoFlags HookFlags = 0
	// the effect must run during this commit
	HookHasEffect HookFlags = 1 << 0
	// runs synchronously during the commit
	HookLayout HookFlags = 1 << 1
	// runs in a scheduled task after the commit
	HookPassive HookFlags = 1 << 2
)

func (f HookFlags) Has(flag HookFlags) bool {
	return f&flag != 0
}

// Effect is the record of one UseEffect or UseLayoutEffect call.
type Effect struct {
	Flags  HookFlags
	Create func() func()
	Deps   []any

	// shared by every render of the same effect cell
	inst *effectInstance
}

type effectInstance struct {
	// cleanup returned by the last Create
	destroy func()
}

func (e *Effect) mount() {
	if e.Create == nil {
		return
	}

	e.inst.destroy = e.Create()
}

func (e *Effect) unmount() {
	destroy := e.inst.destroy
	if destroy == nil {
		return
	}

	e.inst.destroy = nil
	destroy()
}
