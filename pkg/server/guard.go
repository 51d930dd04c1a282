// pkg/server/guard.go
package server

// dispatchGuard releases the per-dispatch slots on the server
// interface: the current request handler and the active project.
// Release runs exactly once no matter how many times it is called, and
// the dispatcher defers it so every exit path, including panics
// unwinding to the fault boundary, restores both slots to empty.
type dispatchGuard struct {
	iface    *ServerInterface
	released bool
}

func acquireGuard(iface *ServerInterface) *dispatchGuard {
	return &dispatchGuard{iface: iface}
}

func (g *dispatchGuard) Release() {
	if g.released {
		return
	}
	g.released = true
	g.iface.ClearRequestHandler()
	g.iface.clearActiveProject()
}
